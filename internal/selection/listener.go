package selection

import "selection-engine/internal/scene"

// movementListener forwards scene notifications to its handler. The handler installs it on every
// tracked object and removes each registration when it stops tracking or is destroyed.
type movementListener struct {
	handler *Handler
}

// ObjectMoved recomputes every tracked box of the handler, not just the one for o.
func (l *movementListener) ObjectMoved(o *scene.Object) {
	if l.handler.destroyed {
		return
	}
	l.handler.UpdateTrackedBoxes()
}

// ObjectDestroyed drops o from the handler's tracked set.
func (l *movementListener) ObjectDestroyed(o *scene.Object) {
	l.handler.RemoveTrackedObject(o)
}
