package scene

import "selection-engine/internal/geom"

// Kind is the primitive shape an object is drawn as.
type Kind string

const (
	KindCube     Kind = "cube"
	KindSphere   Kind = "sphere"
	KindCylinder Kind = "cylinder"
	KindPlane    Kind = "plane"
	KindPoint    Kind = "point"
)

const (
	// PassBits is how many bits of a sub-id one colour-id pass carries.
	PassBits = 24
	// PassMask selects the bits of one pass.
	PassMask = 1<<PassBits - 1
)

// ObjectListener receives movement and destruction notifications from an Object.
// Calls are synchronous, on the goroutine that moved or destroyed the object.
type ObjectListener interface {
	ObjectMoved(o *Object)
	ObjectDestroyed(o *Object)
}

// ListenerHandle identifies one listener registration on one object.
// The only way to get one is Object.AddListener; the zero value matches nothing.
type ListenerHandle struct {
	v *byte
}

// IsZero reports whether h is the zero handle.
func (h ListenerHandle) IsZero() bool { return h.v == nil }

type listenerEntry struct {
	handle   ListenerHandle
	listener ObjectListener
}

// Object is a movable, drawable scene object.
type Object struct {
	id        uint64
	Name      string
	Kind      Kind
	graph     *Graph
	node      *Node
	position  geom.Vec3
	scale     geom.Vec3
	listeners []listenerEntry
	destroyed bool

	// PickHandle is the handle the colour-id pass draws this object with; 0 = not pickable.
	PickHandle uint32
	// SubID is the secondary id drawn during additional pick passes when SubIDColoring is set.
	SubID uint64
	// SubIDColoring switches the pick pass from PickHandle to SubID for this object.
	SubIDColoring bool
	// Hidden objects are skipped by the renderer and by pick passes.
	Hidden bool
}

// PickValue returns the 24-bit value the colour-id pass draws o with in pass pass: the pick handle,
// or during additional passes with SubIDColoring set, the pass's slice of the sub-id.
func (o *Object) PickValue(pass uint32) uint32 {
	if pass == 0 || !o.SubIDColoring {
		return o.PickHandle & PassMask
	}
	return uint32(o.SubID>>((pass-1)*PassBits)) & PassMask
}

// ID returns the object's graph-unique id.
func (o *Object) ID() uint64 { return o.id }

// Node returns the node the object is attached to, nil once destroyed.
func (o *Object) Node() *Node { return o.node }

// Destroyed reports whether the object was removed from its graph.
func (o *Object) Destroyed() bool { return o.destroyed }

// Position returns the object's center in world space.
func (o *Object) Position() geom.Vec3 { return o.position }

// Scale returns the object's full extents.
func (o *Object) Scale() geom.Vec3 { return o.scale }

// WorldBounds returns the object's axis-aligned bounds in world space.
func (o *Object) WorldBounds() geom.AABB {
	return geom.FromCenterScale(o.position, o.scale)
}

// SetPosition moves the object and notifies listeners. No-op when destroyed or unchanged.
func (o *Object) SetPosition(p geom.Vec3) {
	if o.destroyed || o.position == p {
		return
	}
	o.position = p
	o.notifyMoved()
}

// Translate moves the object by d.
func (o *Object) Translate(d geom.Vec3) {
	o.SetPosition(o.position.Add(d))
}

// SetScale resizes the object and notifies listeners. No-op when destroyed or unchanged.
func (o *Object) SetScale(s geom.Vec3) {
	if o.destroyed || o.scale == s {
		return
	}
	o.scale = s
	o.notifyMoved()
}

// AddListener registers l and returns the handle that removes it.
// A destroyed object accepts no listeners and returns the zero handle.
func (o *Object) AddListener(l ObjectListener) ListenerHandle {
	if o.destroyed || l == nil {
		return ListenerHandle{}
	}
	h := ListenerHandle{new(byte)}
	o.listeners = append(o.listeners, listenerEntry{handle: h, listener: l})
	return h
}

// RemoveListener drops the registration h. Unknown handles are ignored.
func (o *Object) RemoveListener(h ListenerHandle) {
	for i, e := range o.listeners {
		if e.handle == h {
			o.listeners = append(o.listeners[:i], o.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (o *Object) ListenerCount() int {
	return len(o.listeners)
}

func (o *Object) hasListener(h ListenerHandle) bool {
	for _, e := range o.listeners {
		if e.handle == h {
			return true
		}
	}
	return false
}

// snapshotListeners copies the listener list so callbacks may add or remove registrations.
func (o *Object) snapshotListeners() []listenerEntry {
	out := make([]listenerEntry, len(o.listeners))
	copy(out, o.listeners)
	return out
}

func (o *Object) notifyMoved() {
	for _, e := range o.snapshotListeners() {
		if o.hasListener(e.handle) {
			e.listener.ObjectMoved(o)
		}
	}
}
