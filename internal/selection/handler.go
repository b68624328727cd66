package selection

import (
	"sort"

	"github.com/rs/zerolog"

	"selection-engine/internal/geom"
	"selection-engine/internal/interact"
	"selection-engine/internal/materials"
	"selection-engine/internal/scene"
	"selection-engine/internal/ui"
)

// DefaultTrackedBoxMaterial outlines tracked objects when no material is configured.
const DefaultTrackedBoxMaterial = "cyan"

// DisplayContext is the renderer access a handler needs: scene nodes, wireframe boxes and materials.
// *scene.Context implements it.
type DisplayContext interface {
	CreateSceneNode(parent *scene.Node) *scene.Node
	DestroySceneNode(n *scene.Node)
	CreateWireBox(node *scene.Node, aabb geom.AABB, material materials.Material) *scene.WireBox
	DestroyWireBox(b *scene.WireBox)
	Material(name string) (materials.Material, bool)
}

// BoxEntry is one bounding-box visual owned by a handler: a scene node placed at the box center and
// the wire box attached to it.
type BoxEntry struct {
	Node     *scene.Node
	Box      *scene.WireBox
	AABB     geom.AABB
	Material string
}

// Handler ties one pick handle to the scene objects, box visuals and inspector entries of one
// selectable entity. Create handlers with Manager.NewHandler and release them with Destroy.
//
// A Handler is driven from the render loop and is not safe for concurrent use.
type Handler struct {
	// handle is assigned once by the manager and never written again; Destroy and the manager's
	// registry both key on it.
	handle   Handle
	ctx      DisplayContext
	behavior Behavior
	log      zerolog.Logger

	listener     *movementListener
	tracked      map[*scene.Object]scene.ListenerHandle
	trackedOrder []*scene.Object

	boxes      map[BoxKey]BoxEntry
	properties []*ui.Node

	interactive        interact.Ref
	trackedBoxMaterial string

	destroyed bool
	onDestroy func(Handle)
}

func newHandler(ctx DisplayContext, handle Handle, b Behavior, log zerolog.Logger) *Handler {
	h := &Handler{
		handle:             handle,
		ctx:                ctx,
		behavior:           b,
		log:                log.With().Uint32("handle", uint32(handle)).Logger(),
		tracked:            make(map[*scene.Object]scene.ListenerHandle),
		boxes:              make(map[BoxKey]BoxEntry),
		trackedBoxMaterial: DefaultTrackedBoxMaterial,
	}
	h.listener = &movementListener{handler: h}
	return h
}

// Handle returns the handler's pick handle. It never changes.
func (h *Handler) Handle() Handle {
	return h.handle
}

// Context returns the display context the handler creates boxes in.
func (h *Handler) Context() DisplayContext {
	return h.ctx
}

// Capabilities returns the hooks this handler's behavior implements.
func (h *Handler) Capabilities() Capabilities {
	return h.behavior.Capabilities()
}

// Destroyed reports whether Destroy was called.
func (h *Handler) Destroyed() bool {
	return h.destroyed
}

// Destroy unregisters from every tracked object, releases every box and every property node, and
// returns the handle to the manager. Calling it again is a no-op.
func (h *Handler) Destroy() {
	if h.destroyed {
		return
	}
	for _, o := range h.trackedOrder {
		o.RemoveListener(h.tracked[o])
	}
	h.tracked = make(map[*scene.Object]scene.ListenerHandle)
	h.trackedOrder = nil

	for _, k := range h.BoxKeys() {
		h.DestroyBox(k)
	}
	h.ReleaseProperties()
	h.interactive = interact.Ref{}
	h.destroyed = true
	h.log.Debug().Msg("handler destroyed")
	if h.onDestroy != nil {
		h.onDestroy(h.handle)
	}
}

// AddTrackedObjects tracks every object attached to node or any of its descendants.
func (h *Handler) AddTrackedObjects(node *scene.Node) {
	if node == nil {
		return
	}
	node.WalkObjects(h.AddTrackedObject)
}

// AddTrackedObject starts following o's movement and destruction. Tracking an object twice is a no-op.
func (h *Handler) AddTrackedObject(o *scene.Object) {
	if h.destroyed || o == nil || o.Destroyed() {
		return
	}
	if _, ok := h.tracked[o]; ok {
		return
	}
	h.tracked[o] = o.AddListener(h.listener)
	h.trackedOrder = append(h.trackedOrder, o)
	h.log.Debug().Str("object", o.Name).Msg("tracking object")
}

// RemoveTrackedObject stops following o and refreshes the tracked boxes. No-op when o is not tracked.
func (h *Handler) RemoveTrackedObject(o *scene.Object) {
	lh, ok := h.tracked[o]
	if !ok {
		return
	}
	o.RemoveListener(lh)
	delete(h.tracked, o)
	for i, t := range h.trackedOrder {
		if t == o {
			h.trackedOrder = append(h.trackedOrder[:i], h.trackedOrder[i+1:]...)
			break
		}
	}
	h.log.Debug().Str("object", o.Name).Msg("untracking object")
	h.UpdateTrackedBoxes()
}

// Tracked reports whether o is tracked.
func (h *Handler) Tracked(o *scene.Object) bool {
	_, ok := h.tracked[o]
	return ok
}

// TrackedObjects returns the tracked objects in the order they were added.
func (h *Handler) TrackedObjects() []*scene.Object {
	out := make([]*scene.Object, len(h.trackedOrder))
	copy(out, h.trackedOrder)
	return out
}

// SetTrackedBoxMaterial sets the material UpdateTrackedBoxes draws with.
func (h *Handler) SetTrackedBoxMaterial(name string) {
	h.trackedBoxMaterial = name
}

// UpdateTrackedBoxes recomputes every box the handler currently shows from the live bounds of its
// objects and recreates it in the tracked-box material. Keys whose AABBs come back empty keep their
// old box. Nothing happens when no object is tracked.
func (h *Handler) UpdateTrackedBoxes() {
	if h.destroyed || len(h.trackedOrder) == 0 {
		return
	}
	for _, key := range h.BoxKeys() {
		p := NewPicked()
		p.Add(key.Handle, key.SubID)
		combined := geom.MergeAll(h.AABBs(p, nil))
		if !combined.IsValid() {
			continue
		}
		h.CreateBox(key, combined, h.trackedBoxMaterial)
	}
}

// CreateProperties adds inspector entries for p under parent. The base handler adds nothing.
// Entries must be registered with AddProperty so DestroyProperties or Destroy can release them.
func (h *Handler) CreateProperties(p Picked, parent *ui.Node) {
	if h.destroyed || h.behavior.CreateProperties == nil {
		return
	}
	h.behavior.CreateProperties(h, p, parent)
}

// DestroyProperties removes inspector entries for p. The base handler releases every entry it owns,
// whatever p is.
func (h *Handler) DestroyProperties(p Picked, parent *ui.Node) {
	if h.behavior.DestroyProperties == nil {
		h.ReleaseProperties()
		return
	}
	h.behavior.DestroyProperties(h, p, parent)
}

// UpdateProperties refreshes displayed values. The base handler does nothing.
func (h *Handler) UpdateProperties() {
	if h.destroyed || h.behavior.UpdateProperties == nil {
		return
	}
	h.behavior.UpdateProperties(h)
}

// AddProperty inserts n under parent (when parent is non-nil) and takes ownership of it.
func (h *Handler) AddProperty(parent *ui.Node, n *ui.Node) {
	if n == nil {
		return
	}
	if parent != nil {
		parent.AddChild(n)
	}
	h.properties = append(h.properties, n)
}

// RemoveProperty detaches n and gives up ownership. Unknown nodes are ignored.
func (h *Handler) RemoveProperty(n *ui.Node) {
	for i, p := range h.properties {
		if p == n {
			h.properties = append(h.properties[:i], h.properties[i+1:]...)
			n.Detach()
			return
		}
	}
}

// ReleaseProperties detaches every owned property node and empties the list.
func (h *Handler) ReleaseProperties() {
	for _, n := range h.properties {
		n.Detach()
	}
	h.properties = nil
}

// Properties returns the owned property nodes in insertion order.
func (h *Handler) Properties() []*ui.Node {
	out := make([]*ui.Node, len(h.properties))
	copy(out, h.properties)
	return out
}

// NeedsAdditionalRenderPass reports whether picking this handler needs pass number pass.
// The base handler resolves in a single pass.
func (h *Handler) NeedsAdditionalRenderPass(pass uint32) bool {
	if h.destroyed || h.behavior.NeedsAdditionalRenderPass == nil {
		return false
	}
	return h.behavior.NeedsAdditionalRenderPass(h, pass)
}

// PreRenderPass runs right before pick pass pass is rendered. The base handler does nothing.
func (h *Handler) PreRenderPass(pass uint32) {
	if h.destroyed || h.behavior.PreRenderPass == nil {
		return
	}
	h.behavior.PreRenderPass(h, pass)
}

// PostRenderPass runs right after pick pass pass is rendered. The base handler does nothing.
func (h *Handler) PostRenderPass(pass uint32) {
	if h.destroyed || h.behavior.PostRenderPass == nil {
		return
	}
	h.behavior.PostRenderPass(h, pass)
}

// AABBs appends the bounding boxes relevant to p to out and returns it. The base handler adds nothing.
func (h *Handler) AABBs(p Picked, out []geom.AABB) []geom.AABB {
	if h.destroyed || h.behavior.AABBs == nil {
		return out
	}
	return h.behavior.AABBs(h, p, out)
}

// OnSelect is called when p enters the selection. The base handler does nothing.
func (h *Handler) OnSelect(p Picked) {
	if h.destroyed || h.behavior.OnSelect == nil {
		return
	}
	h.behavior.OnSelect(h, p)
}

// OnDeselect is called when p leaves the selection. The base handler does nothing.
func (h *Handler) OnDeselect(p Picked) {
	if h.destroyed || h.behavior.OnDeselect == nil {
		return
	}
	h.behavior.OnDeselect(h, p)
}

// SetInteractiveObject stores the interaction target. No validation is done.
func (h *Handler) SetInteractiveObject(ref interact.Ref) {
	h.interactive = ref
}

// InteractiveObject returns the interaction target. Resolve it with Get before each use.
func (h *Handler) InteractiveObject() interact.Ref {
	return h.interactive
}

// CreateBox creates the box visual for key, replacing any existing one: the old node and wire box are
// released before the new pair is allocated.
func (h *Handler) CreateBox(key BoxKey, aabb geom.AABB, material string) {
	if h.destroyed || !aabb.IsValid() {
		return
	}
	h.DestroyBox(key)

	mat, ok := h.ctx.Material(material)
	if !ok {
		h.log.Warn().Str("material", material).Str("fallback", mat.Name).Msg("unknown box material")
	}
	center := aabb.Center()
	node := h.ctx.CreateSceneNode(nil)
	node.SetPosition(center)
	box := h.ctx.CreateWireBox(node, aabb.Translate(geom.Vec3{}.Sub(center)), mat)
	h.boxes[key] = BoxEntry{Node: node, Box: box, AABB: aabb, Material: material}
	h.log.Debug().Uint64("sub_id", key.SubID).Str("material", material).Msg("box created")
}

// DestroyBox releases the box visual for key if there is one.
func (h *Handler) DestroyBox(key BoxKey) {
	e, ok := h.boxes[key]
	if !ok {
		return
	}
	delete(h.boxes, key)
	h.ctx.DestroyWireBox(e.Box)
	h.ctx.DestroySceneNode(e.Node)
	h.log.Debug().Uint64("sub_id", key.SubID).Msg("box destroyed")
}

// Box returns the box entry for key.
func (h *Handler) Box(key BoxKey) (BoxEntry, bool) {
	e, ok := h.boxes[key]
	return e, ok
}

// BoxCount returns the number of box visuals the handler owns.
func (h *Handler) BoxCount() int {
	return len(h.boxes)
}

// BoxKeys returns the keys of every owned box, sorted.
func (h *Handler) BoxKeys() []BoxKey {
	out := make([]BoxKey, 0, len(h.boxes))
	for k := range h.boxes {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Handle != out[j].Handle {
			return out[i].Handle < out[j].Handle
		}
		return out[i].SubID < out[j].SubID
	})
	return out
}
