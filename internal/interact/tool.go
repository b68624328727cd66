package interact

// TargetFunc returns the interactive reference of whatever is under the cursor at (x, y).
// It returns the zero Ref when nothing interactive is there.
type TargetFunc func(x, y int) Ref

// Tool routes mouse events to interactive objects while it is the active tool.
// A press that an object consumes grabs the mouse: later events go to that object until release,
// even when the cursor leaves it. The grab is held as a Ref and re-resolved on every event.
type Tool struct {
	target TargetFunc
	active bool
	grab   Ref
}

// NewTool returns an inactive tool that finds targets with target.
func NewTool(target TargetFunc) *Tool {
	return &Tool{target: target}
}

// Activate makes the tool current.
func (t *Tool) Activate() {
	t.active = true
}

// Deactivate drops any grab and stops routing events.
func (t *Tool) Deactivate() {
	t.active = false
	t.grab = Ref{}
}

// Active reports whether the tool routes events.
func (t *Tool) Active() bool {
	return t.active
}

// Grabbed returns the reference holding the mouse grab, zero when none.
func (t *Tool) Grabbed() Ref {
	return t.grab
}

// HandleMouseEvent forwards ev to the grabbed object or the object under the cursor.
// Returns whether an object consumed the event.
func (t *Tool) HandleMouseEvent(ev MouseEvent) bool {
	if !t.active {
		return false
	}
	if !t.grab.IsZero() {
		obj, ok := t.grab.Get()
		if ev.Type == MouseRelease {
			t.grab = Ref{}
		}
		if !ok {
			// Owner went away mid-drag.
			t.grab = Ref{}
			return false
		}
		return obj.HandleMouseEvent(ev)
	}
	if t.target == nil {
		return false
	}
	ref := t.target(ev.X, ev.Y)
	obj, ok := ref.Get()
	if !ok || !obj.IsInteractive() {
		return false
	}
	consumed := obj.HandleMouseEvent(ev)
	if consumed && ev.Type == MousePress {
		t.grab = ref
	}
	return consumed
}
