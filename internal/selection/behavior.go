package selection

import (
	"selection-engine/internal/geom"
	"selection-engine/internal/ui"
)

// Capabilities tells a driver which hooks a handler actually implements, so it can skip the rest.
type Capabilities uint8

const (
	// CapMultiPass: the handler may ask for additional pick passes.
	CapMultiPass Capabilities = 1 << iota
	// CapRenderHooks: the handler changes how its objects draw around pick passes.
	CapRenderHooks
	// CapProperties: the handler builds, refreshes or tears down inspector entries.
	CapProperties
	// CapBounds: the handler reports bounding boxes for its picks.
	CapBounds
	// CapSelectHooks: the handler reacts to entering or leaving the selection.
	CapSelectHooks
)

// Has reports whether every flag in f is set.
func (c Capabilities) Has(f Capabilities) bool {
	return c&f == f
}

// Behavior is what makes one handler differ from another. Every field is optional; a nil callback
// keeps the base behavior documented on the matching Handler method.
type Behavior struct {
	NeedsAdditionalRenderPass func(h *Handler, pass uint32) bool
	PreRenderPass             func(h *Handler, pass uint32)
	PostRenderPass            func(h *Handler, pass uint32)

	CreateProperties  func(h *Handler, p Picked, parent *ui.Node)
	DestroyProperties func(h *Handler, p Picked, parent *ui.Node)
	UpdateProperties  func(h *Handler)

	AABBs func(h *Handler, p Picked, out []geom.AABB) []geom.AABB

	OnSelect   func(h *Handler, p Picked)
	OnDeselect func(h *Handler, p Picked)
}

// Capabilities derives the capability flags from which callbacks are set.
func (b Behavior) Capabilities() Capabilities {
	var c Capabilities
	if b.NeedsAdditionalRenderPass != nil {
		c |= CapMultiPass
	}
	if b.PreRenderPass != nil || b.PostRenderPass != nil {
		c |= CapRenderHooks
	}
	if b.CreateProperties != nil || b.DestroyProperties != nil || b.UpdateProperties != nil {
		c |= CapProperties
	}
	if b.AABBs != nil {
		c |= CapBounds
	}
	if b.OnSelect != nil || b.OnDeselect != nil {
		c |= CapSelectHooks
	}
	return c
}

// With returns a behavior running b's callbacks and then o's. Additional passes are needed when either
// asks; AABBs are appended by both. When neither sets DestroyProperties the default exhaustive release
// stays in place. When only one does, the other side's entries are released in full on its behalf.
func (b Behavior) With(o Behavior) Behavior {
	bCreate, bDestroy := b.CreateProperties, b.DestroyProperties
	oCreate, oDestroy := o.CreateProperties, o.DestroyProperties
	if bDestroy != nil || oDestroy != nil {
		bCreate, bDestroy = releaseOwn(bCreate, bDestroy)
		oCreate, oDestroy = releaseOwn(oCreate, oDestroy)
	}
	return Behavior{
		NeedsAdditionalRenderPass: orPass(b.NeedsAdditionalRenderPass, o.NeedsAdditionalRenderPass),
		PreRenderPass:             chainPass(b.PreRenderPass, o.PreRenderPass),
		PostRenderPass:            chainPass(b.PostRenderPass, o.PostRenderPass),
		CreateProperties:          chainProps(bCreate, oCreate),
		DestroyProperties:         chainProps(bDestroy, oDestroy),
		UpdateProperties:          chainHandler(b.UpdateProperties, o.UpdateProperties),
		AABBs:                     chainAABBs(b.AABBs, o.AABBs),
		OnSelect:                  chainPicked(b.OnSelect, o.OnSelect),
		OnDeselect:                chainPicked(b.OnDeselect, o.OnDeselect),
	}
}

// releaseOwn gives a create callback without a matching destroy one that releases exactly the nodes
// the create callback registered, per handler.
func releaseOwn(create, destroy func(*Handler, Picked, *ui.Node)) (func(*Handler, Picked, *ui.Node), func(*Handler, Picked, *ui.Node)) {
	if create == nil || destroy != nil {
		return create, destroy
	}
	owned := make(map[*Handler][]*ui.Node)
	wrapped := func(h *Handler, p Picked, parent *ui.Node) {
		n := len(h.properties)
		create(h, p, parent)
		if len(h.properties) > n {
			owned[h] = append(owned[h], h.properties[n:]...)
		}
	}
	release := func(h *Handler, _ Picked, _ *ui.Node) {
		for _, n := range owned[h] {
			h.RemoveProperty(n)
		}
		delete(owned, h)
	}
	return wrapped, release
}

func orPass(a, b func(*Handler, uint32) bool) func(*Handler, uint32) bool {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(h *Handler, pass uint32) bool { return a(h, pass) || b(h, pass) }
}

func chainPass(a, b func(*Handler, uint32)) func(*Handler, uint32) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(h *Handler, pass uint32) {
		a(h, pass)
		b(h, pass)
	}
}

func chainProps(a, b func(*Handler, Picked, *ui.Node)) func(*Handler, Picked, *ui.Node) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(h *Handler, p Picked, parent *ui.Node) {
		a(h, p, parent)
		b(h, p, parent)
	}
}

func chainHandler(a, b func(*Handler)) func(*Handler) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(h *Handler) {
		a(h)
		b(h)
	}
}

func chainAABBs(a, b func(*Handler, Picked, []geom.AABB) []geom.AABB) func(*Handler, Picked, []geom.AABB) []geom.AABB {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(h *Handler, p Picked, out []geom.AABB) []geom.AABB {
		return b(h, p, a(h, p, out))
	}
}

func chainPicked(a, b func(*Handler, Picked)) func(*Handler, Picked) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(h *Handler, p Picked) {
		a(h, p)
		b(h, p)
	}
}
