package interact

// MouseButton identifies a mouse button.
type MouseButton int

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// MouseEventType is the kind of mouse event.
type MouseEventType int

const (
	MouseMove MouseEventType = iota
	MousePress
	MouseRelease
	MouseWheel
)

// MouseEvent is a viewport mouse event in screen pixels.
type MouseEvent struct {
	Type   MouseEventType
	Button MouseButton
	X, Y   int
	Wheel  float32
}

// InteractiveObject receives interaction events while its selection handler is the interaction target.
type InteractiveObject interface {
	// IsInteractive reports whether the object currently wants events.
	IsInteractive() bool
	// Enable turns interaction on or off, e.g. when the owning display is hidden.
	Enable(enabled bool)
	// HandleMouseEvent processes ev and reports whether it consumed it.
	HandleMouseEvent(ev MouseEvent) bool
}

// ID identifies a registered interactive object. 0 is never assigned.
type ID uint64

// Registry owns the id -> object mapping that weak references resolve through.
// Objects are owned by whoever registered them; Unregister is how an owner announces destruction.
type Registry struct {
	next    ID
	objects map[ID]InteractiveObject
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{objects: make(map[ID]InteractiveObject)}
}

// Register stores obj and returns a reference to it.
func (r *Registry) Register(obj InteractiveObject) Ref {
	if obj == nil {
		return Ref{}
	}
	r.next++
	r.objects[r.next] = obj
	return Ref{reg: r, id: r.next}
}

// Unregister forgets the object behind ref. Every Ref to it resolves as absent afterwards.
func (r *Registry) Unregister(ref Ref) {
	if ref.reg != r {
		return
	}
	delete(r.objects, ref.id)
}

// Lookup returns the object registered under id.
func (r *Registry) Lookup(id ID) (InteractiveObject, bool) {
	obj, ok := r.objects[id]
	return obj, ok
}

// Len returns the number of live registrations.
func (r *Registry) Len() int {
	return len(r.objects)
}

// Ref is a non-owning reference to an interactive object. Resolve it with Get on every use;
// do not keep the result past the current operation. The zero Ref is absent.
type Ref struct {
	reg *Registry
	id  ID
}

// ID returns the referenced id, 0 for the zero Ref.
func (r Ref) ID() ID {
	return r.id
}

// IsZero reports whether the reference was never set.
func (r Ref) IsZero() bool {
	return r.reg == nil || r.id == 0
}

// Get resolves the reference. Returns false when the reference is empty or the object was unregistered.
func (r Ref) Get() (InteractiveObject, bool) {
	if r.IsZero() {
		return nil, false
	}
	return r.reg.Lookup(r.id)
}
