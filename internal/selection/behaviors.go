package selection

import (
	"fmt"
	"strconv"

	"selection-engine/internal/geom"
	"selection-engine/internal/scene"
	"selection-engine/internal/ui"
)

// ObjectBounds reports the world bounds of every tracked object, so UpdateTrackedBoxes keeps a box
// around them as they move.
func ObjectBounds() Behavior {
	return Behavior{
		AABBs: func(h *Handler, _ Picked, out []geom.AABB) []geom.AABB {
			for _, o := range h.TrackedObjects() {
				out = append(out, o.WorldBounds())
			}
			return out
		},
	}
}

// BoxOnSelect outlines a selected entity with one box at (handle, 0) merged from the handler's AABBs,
// and removes it on deselect.
func BoxOnSelect(material string) Behavior {
	return Behavior{
		OnSelect: func(h *Handler, p Picked) {
			aabbs := h.AABBs(p, nil)
			if len(aabbs) == 0 {
				return
			}
			h.CreateBox(BoxKey{Handle: h.Handle()}, geom.MergeAll(aabbs), material)
		},
		OnDeselect: func(h *Handler, _ Picked) {
			h.DestroyBox(BoxKey{Handle: h.Handle()})
		},
	}
}

func formatVec3(v geom.Vec3) string {
	return fmt.Sprintf("%.2f, %.2f, %.2f", v[0], v[1], v[2])
}

type objectProps struct {
	group    *ui.Node
	position *ui.Node
	scale    *ui.Node
}

type objectGroup struct {
	top     *ui.Node
	entries map[*scene.Object]*objectProps
}

// ObjectProperties shows name, position and scale of every tracked object under one group node per
// handler. Values are refreshed by UpdateProperties; objects destroyed since show blank values.
// A handler whose group is still shown keeps it when its selection grows.
// Teardown is the default exhaustive release.
func ObjectProperties() Behavior {
	groups := make(map[*Handler]*objectGroup)
	return Behavior{
		CreateProperties: func(h *Handler, _ Picked, parent *ui.Node) {
			if g, ok := groups[h]; ok && ownsProperty(h, g.top) {
				refreshObjectProps(g.entries)
				return
			}
			g := &objectGroup{
				top:     ui.NewProperty("Handle", strconv.FormatUint(uint64(h.Handle()), 10)),
				entries: make(map[*scene.Object]*objectProps),
			}
			for _, o := range h.TrackedObjects() {
				e := &objectProps{
					group:    ui.NewProperty("Object", o.Name),
					position: ui.NewProperty("Position", ""),
					scale:    ui.NewProperty("Scale", ""),
				}
				e.group.AddChild(e.position)
				e.group.AddChild(e.scale)
				g.top.AddChild(e.group)
				g.entries[o] = e
			}
			groups[h] = g
			h.AddProperty(parent, g.top)
			refreshObjectProps(g.entries)
		},
		UpdateProperties: func(h *Handler) {
			if g, ok := groups[h]; ok && ownsProperty(h, g.top) {
				refreshObjectProps(g.entries)
				return
			}
			delete(groups, h)
		},
	}
}

func ownsProperty(h *Handler, n *ui.Node) bool {
	for _, p := range h.properties {
		if p == n {
			return true
		}
	}
	return false
}

func refreshObjectProps(entries map[*scene.Object]*objectProps) {
	for o, e := range entries {
		if o.Destroyed() {
			e.position.SetValue("")
			e.scale.SetValue("")
			continue
		}
		e.position.SetValue(formatVec3(o.Position()))
		e.scale.SetValue(formatVec3(o.Scale()))
	}
}

// pointCloud is a multi-part entity: each point object is one sub-part addressed by its sub-id.
type pointCloud struct {
	points   []*scene.Object
	bySubID  map[uint64]*scene.Object
	material string
	props    map[uint64]*ui.Node
}

// PointCloud makes every point a separately pickable sub-part. Points get sub-ids 1..n; the handler
// asks for additional pick passes in which the points draw their sub-ids instead of the handle.
// Selected points get their own boxes and inspector entries, created and destroyed per sub-id.
func PointCloud(points []*scene.Object, material string) Behavior {
	pc := &pointCloud{
		points:   points,
		bySubID:  make(map[uint64]*scene.Object, len(points)),
		material: material,
		props:    make(map[uint64]*ui.Node),
	}
	for i, o := range points {
		o.SubID = uint64(i + 1)
		pc.bySubID[o.SubID] = o
	}
	return Behavior{
		NeedsAdditionalRenderPass: pc.needsPass,
		PreRenderPass:             func(h *Handler, pass uint32) { pc.setSubIDColoring(pass > 0) },
		PostRenderPass:            func(h *Handler, pass uint32) { pc.setSubIDColoring(false) },
		AABBs:                     pc.aabbs,
		OnSelect:                  pc.onSelect,
		OnDeselect:                pc.onDeselect,
		CreateProperties:          pc.createProperties,
		DestroyProperties:         pc.destroyProperties,
		UpdateProperties:          pc.updateProperties,
	}
}

// needsPass asks for as many 24-bit passes as the largest sub-id needs.
func (pc *pointCloud) needsPass(_ *Handler, pass uint32) bool {
	if pass == 0 {
		return false
	}
	maxID := uint64(len(pc.points))
	needed := uint32(1)
	for maxID>>(needed*scene.PassBits) != 0 {
		needed++
	}
	return pass <= needed
}

func (pc *pointCloud) setSubIDColoring(on bool) {
	for _, o := range pc.points {
		o.SubIDColoring = on
	}
}

func (pc *pointCloud) subIDs(h *Handler, p Picked) []uint64 {
	e, ok := p[h.Handle()]
	if !ok {
		return nil
	}
	if len(e.SubIDs) == 0 {
		out := make([]uint64, 0, len(pc.points))
		for i := range pc.points {
			out = append(out, uint64(i+1))
		}
		return out
	}
	return e.SortedSubIDs()
}

func (pc *pointCloud) aabbs(h *Handler, p Picked, out []geom.AABB) []geom.AABB {
	for _, id := range pc.subIDs(h, p) {
		if o, ok := pc.bySubID[id]; ok && !o.Destroyed() {
			out = append(out, o.WorldBounds())
		}
	}
	return out
}

func (pc *pointCloud) onSelect(h *Handler, p Picked) {
	for _, id := range pc.subIDs(h, p) {
		if o, ok := pc.bySubID[id]; ok && !o.Destroyed() {
			h.CreateBox(BoxKey{Handle: h.Handle(), SubID: id}, o.WorldBounds(), pc.material)
		}
	}
}

func (pc *pointCloud) onDeselect(h *Handler, p Picked) {
	for _, id := range pc.subIDs(h, p) {
		h.DestroyBox(BoxKey{Handle: h.Handle(), SubID: id})
	}
}

func (pc *pointCloud) createProperties(h *Handler, p Picked, parent *ui.Node) {
	for _, id := range pc.subIDs(h, p) {
		if _, ok := pc.props[id]; ok {
			continue
		}
		n := ui.NewProperty("Point "+strconv.FormatUint(id, 10), "")
		pc.props[id] = n
		h.AddProperty(parent, n)
	}
	pc.updateProperties(h)
}

func (pc *pointCloud) destroyProperties(h *Handler, p Picked, _ *ui.Node) {
	for _, id := range pc.subIDs(h, p) {
		if n, ok := pc.props[id]; ok {
			h.RemoveProperty(n)
			delete(pc.props, id)
		}
	}
}

func (pc *pointCloud) updateProperties(_ *Handler) {
	for id, n := range pc.props {
		o, ok := pc.bySubID[id]
		if !ok || o.Destroyed() {
			n.SetValue("")
			continue
		}
		n.SetValue(formatVec3(o.Position()))
	}
}
