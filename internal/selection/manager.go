package selection

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"selection-engine/internal/geom"
	"selection-engine/internal/interact"
	"selection-engine/internal/scene"
	"selection-engine/internal/ui"
)

// MaxAdditionalPasses bounds the sub-id passes of one pick: three 24-bit passes cover a 64-bit sub-id.
const MaxAdditionalPasses = 3

// ErrHandlesExhausted is returned when every handle is in use.
var ErrHandlesExhausted = errors.New("selection: no free pick handle")

// Region is the viewport rectangle a pick covers, in pixels.
type Region struct {
	X, Y, Width, Height int
}

// PickRenderer renders one colour-id pass over a region and returns one 24-bit value per pixel,
// row-major. Pass 0 yields handles; later passes yield 24-bit slices of sub-ids.
type PickRenderer interface {
	RenderPass(pass uint32, region Region) ([]uint32, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithTrackedBoxMaterial sets the material new handlers outline tracked objects with.
func WithTrackedBoxMaterial(name string) Option {
	return func(m *Manager) { m.trackedBoxMaterial = name }
}

// WithMaxHandle caps the handles the manager hands out. Values above MaxHandle are clamped.
func WithMaxHandle(h Handle) Option {
	return func(m *Manager) {
		if h == 0 || h > MaxHandle {
			h = MaxHandle
		}
		m.maxHandle = h
	}
}

// Manager allocates handles, drives pick passes across its handlers and keeps the current selection,
// creating and destroying inspector entries as handles enter and leave it.
type Manager struct {
	ctx                DisplayContext
	log                zerolog.Logger
	handlers           map[Handle]*Handler
	lastHandle         Handle
	maxHandle          Handle
	selection          Picked
	propertyRoot       *ui.Node
	trackedBoxMaterial string
}

// NewManager returns a manager creating boxes in ctx.
func NewManager(ctx DisplayContext, log zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		ctx:                ctx,
		log:                log,
		handlers:           make(map[Handle]*Handler),
		maxHandle:          MaxHandle,
		selection:          NewPicked(),
		trackedBoxMaterial: DefaultTrackedBoxMaterial,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetPropertyRoot sets the inspector node selected handlers parent their properties under.
func (m *Manager) SetPropertyRoot(root *ui.Node) {
	m.propertyRoot = root
}

// NewHandler allocates a handle and registers a handler with behavior b.
func (m *Manager) NewHandler(b Behavior) (*Handler, error) {
	handle, err := m.allocHandle()
	if err != nil {
		m.log.Warn().Int("handlers", len(m.handlers)).Msg("pick handles exhausted")
		return nil, err
	}
	h := newHandler(m.ctx, handle, b, m.log)
	h.trackedBoxMaterial = m.trackedBoxMaterial
	h.onDestroy = m.remove
	m.handlers[handle] = h
	return h, nil
}

// allocHandle walks forward from the last handle, wrapping past maxHandle and skipping 0 and handles
// still in use.
func (m *Manager) allocHandle() (Handle, error) {
	for i := Handle(0); i < m.maxHandle; i++ {
		m.lastHandle++
		if m.lastHandle > m.maxHandle {
			m.lastHandle = 1
		}
		if _, used := m.handlers[m.lastHandle]; !used {
			return m.lastHandle, nil
		}
	}
	return 0, ErrHandlesExhausted
}

func (m *Manager) remove(handle Handle) {
	delete(m.handlers, handle)
	delete(m.selection, handle)
}

// Handler returns the handler registered under handle.
func (m *Manager) Handler(handle Handle) (*Handler, bool) {
	h, ok := m.handlers[handle]
	return h, ok
}

// Len returns the number of live handlers.
func (m *Manager) Len() int {
	return len(m.handlers)
}

// Close destroys every handler.
func (m *Manager) Close() {
	m.ClearSelection()
	for _, h := range m.sortedHandlers() {
		h.Destroy()
	}
}

func (m *Manager) sortedHandlers() []*Handler {
	p := NewPicked()
	for handle := range m.handlers {
		p.Add(handle, 0)
	}
	out := make([]*Handler, 0, len(p))
	for _, handle := range p.Handles() {
		out = append(out, m.handlers[handle])
	}
	return out
}

// Pick renders pass 0 to find the handles in region, then runs additional passes for every picked
// handler that asks for them and folds each pass into the sub-ids of that handler's pixels.
// For every pass, PreRenderPass runs on all hooked handlers before the render and PostRenderPass after.
func (m *Manager) Pick(r PickRenderer, region Region) (Picked, error) {
	handlers := m.sortedHandlers()
	pixels, err := m.renderPass(r, handlers, 0, region)
	if err != nil {
		return nil, err
	}

	picked := NewPicked()
	for _, v := range pixels {
		handle := Handle(v) & MaxHandle
		if _, ok := m.handlers[handle]; !ok {
			continue
		}
		picked.Add(handle, 0)
		picked[handle].PixelCount++
	}

	multi := make(map[Handle]bool)
	var need []Handle
	for _, handle := range picked.Handles() {
		if m.handlers[handle].NeedsAdditionalRenderPass(1) {
			multi[handle] = true
			need = append(need, handle)
		}
	}
	if len(need) == 0 {
		return picked, nil
	}

	// Only pixels of handlers that asked for a pass take its value.
	subIDs := make([]uint64, len(pixels))
	for pass := uint32(1); len(need) > 0 && pass <= MaxAdditionalPasses; pass++ {
		active := make(map[Handle]bool, len(need))
		for _, handle := range need {
			active[handle] = true
		}
		out, err := m.renderPass(r, handlers, pass, region)
		if err != nil {
			return nil, err
		}
		shift := (pass - 1) * scene.PassBits
		for i, v := range out {
			if i >= len(pixels) {
				break
			}
			if active[Handle(pixels[i])&MaxHandle] {
				subIDs[i] |= uint64(v&scene.PassMask) << shift
			}
		}
		next := need[:0]
		for _, handle := range need {
			if h, ok := m.handlers[handle]; ok && h.NeedsAdditionalRenderPass(pass+1) {
				next = append(next, handle)
			}
		}
		need = next
	}

	for i, v := range pixels {
		handle := Handle(v) & MaxHandle
		if multi[handle] && subIDs[i] != 0 {
			picked.Add(handle, subIDs[i])
		}
	}
	return picked, nil
}

func (m *Manager) renderPass(r PickRenderer, handlers []*Handler, pass uint32, region Region) ([]uint32, error) {
	for _, h := range handlers {
		if h.Capabilities().Has(CapRenderHooks) {
			h.PreRenderPass(pass)
		}
	}
	out, err := r.RenderPass(pass, region)
	for _, h := range handlers {
		if h.Capabilities().Has(CapRenderHooks) {
			h.PostRenderPass(pass)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("pick pass %d: %w", pass, err)
	}
	return out, nil
}

// Selection returns a copy of the current selection.
func (m *Manager) Selection() Picked {
	return m.selection.Clone()
}

// Select replaces the selection with p. A handle switching between whole-entity and sub-id selection
// is deselected in full before it is selected again.
func (m *Manager) Select(p Picked) {
	m.RemoveSelection(m.selection.Difference(p))
	m.AddSelection(p)
}

// AddSelection adds the pairs of p not yet selected. Each affected handler gets OnSelect and
// CreateProperties with just its newly selected pairs. Sub-ids of a handle selected as a whole are
// already covered; selecting as a whole a handle with selected sub-ids deselects those first.
func (m *Manager) AddSelection(p Picked) {
	added := p.Difference(m.selection)
	for _, handle := range added.Handles() {
		h, ok := m.handlers[handle]
		if !ok {
			delete(added, handle)
			continue
		}
		part := added.Only(handle)
		if cur, ok := m.selection[handle]; ok {
			if cur.whole() {
				delete(added, handle)
				continue
			}
			if part[handle].whole() {
				m.RemoveSelection(m.selection.Only(handle))
			}
		}
		m.selection.Merge(part)
		h.OnSelect(part)
		h.CreateProperties(part, m.propertyRoot)
	}
	if len(added) > 0 {
		m.log.Debug().Int("handles", len(added)).Msg("selection added")
	}
}

// RemoveSelection removes the selected pairs of p. Each affected handler gets OnDeselect and
// DestroyProperties with just its removed pairs. Any part of a handle selected as a whole deselects
// the whole handle.
func (m *Manager) RemoveSelection(p Picked) {
	removed := m.selection.Intersect(p)
	for _, handle := range removed.Handles() {
		part := removed.Only(handle)
		m.selection.Subtract(part)
		if h, ok := m.handlers[handle]; ok {
			h.OnDeselect(part)
			h.DestroyProperties(part, m.propertyRoot)
		}
	}
	if len(removed) > 0 {
		m.log.Debug().Int("handles", len(removed)).Msg("selection removed")
	}
}

// ClearSelection deselects everything.
func (m *Manager) ClearSelection() {
	m.RemoveSelection(m.selection.Clone())
}

// UpdateProperties refreshes the inspector entries of every selected handler.
func (m *Manager) UpdateProperties() {
	for _, handle := range m.selection.Handles() {
		if h, ok := m.handlers[handle]; ok {
			h.UpdateProperties()
		}
	}
}

// FocusBounds merges the AABBs every handler reports for its part of p, e.g. to frame the camera.
// Returns false when no handler reports bounds.
func (m *Manager) FocusBounds(p Picked) (geom.AABB, bool) {
	var aabbs []geom.AABB
	for _, handle := range p.Handles() {
		if h, ok := m.handlers[handle]; ok {
			aabbs = h.AABBs(p.Only(handle), aabbs)
		}
	}
	b := geom.MergeAll(aabbs)
	return b, b.IsValid()
}

// InteractiveTarget returns the interaction reference of the first handler in p that has one.
func (m *Manager) InteractiveTarget(p Picked) interact.Ref {
	for _, handle := range p.Handles() {
		if h, ok := m.handlers[handle]; ok {
			if ref := h.InteractiveObject(); !ref.IsZero() {
				return ref
			}
		}
	}
	return interact.Ref{}
}
