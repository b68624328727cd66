package selection

import (
	"image/color"
	"sort"
)

// Handle identifies one selection handler. Handles are 24-bit so they fit an RGB colour; 0 is background.
type Handle uint32

// MaxHandle is the largest handle the colour-id pass can encode.
const MaxHandle Handle = 0xFFFFFF

// BoxKey addresses one bounding-box visual: the owning handle and the sub-part it outlines.
// SubID 0 is the whole entity.
type BoxKey struct {
	Handle Handle
	SubID  uint64
}

// HandleToColor encodes h as the colour the pick pass draws it with.
func HandleToColor(h Handle) color.RGBA {
	return color.RGBA{R: uint8(h >> 16), G: uint8(h >> 8), B: uint8(h), A: 255}
}

// ColorToHandle decodes a pick-pass pixel. Alpha is ignored.
func ColorToHandle(c color.RGBA) Handle {
	return Handle(c.R)<<16 | Handle(c.G)<<8 | Handle(c.B)
}

// PickedEntry is what one pick resolved for one handle: how many pixels it covered and which sub-parts.
// An entry without SubIDs stands for the whole entity.
type PickedEntry struct {
	Handle     Handle
	PixelCount int
	SubIDs     map[uint64]struct{}
}

// SortedSubIDs returns the entry's sub-ids in ascending order.
func (e *PickedEntry) SortedSubIDs() []uint64 {
	out := make([]uint64, 0, len(e.SubIDs))
	for id := range e.SubIDs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (e *PickedEntry) whole() bool {
	return len(e.SubIDs) == 0
}

func (e *PickedEntry) clone() *PickedEntry {
	c := &PickedEntry{Handle: e.Handle, PixelCount: e.PixelCount}
	if len(e.SubIDs) > 0 {
		c.SubIDs = make(map[uint64]struct{}, len(e.SubIDs))
		for id := range e.SubIDs {
			c.SubIDs[id] = struct{}{}
		}
	}
	return c
}

// Picked is the result of a pick: a set of (handle, sub-id) pairs grouped by handle.
type Picked map[Handle]*PickedEntry

// NewPicked returns an empty pick result.
func NewPicked() Picked {
	return make(Picked)
}

// Add records (h, subID). A subID of 0 only records the handle. Handle 0 is ignored.
func (p Picked) Add(h Handle, subID uint64) {
	if h == 0 {
		return
	}
	e := p.entry(h)
	if subID != 0 {
		if e.SubIDs == nil {
			e.SubIDs = make(map[uint64]struct{})
		}
		e.SubIDs[subID] = struct{}{}
	}
}

func (p Picked) entry(h Handle) *PickedEntry {
	e, ok := p[h]
	if !ok {
		e = &PickedEntry{Handle: h}
		p[h] = e
	}
	return e
}

// Has reports whether (h, subID) is in the set. subID 0 asks only about the handle.
func (p Picked) Has(h Handle, subID uint64) bool {
	e, ok := p[h]
	if !ok {
		return false
	}
	if subID == 0 {
		return true
	}
	_, ok = e.SubIDs[subID]
	return ok
}

// Handles returns the picked handles in ascending order.
func (p Picked) Handles() []Handle {
	out := make([]Handle, 0, len(p))
	for h := range p {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Keys returns every (handle, sub-id) pair, sorted. Entries without sub-ids yield (handle, 0).
func (p Picked) Keys() []BoxKey {
	var out []BoxKey
	for _, h := range p.Handles() {
		e := p[h]
		if len(e.SubIDs) == 0 {
			out = append(out, BoxKey{Handle: h})
			continue
		}
		for _, id := range e.SortedSubIDs() {
			out = append(out, BoxKey{Handle: h, SubID: id})
		}
	}
	return out
}

// Only returns a copy of p restricted to h. Empty when h was not picked.
func (p Picked) Only(h Handle) Picked {
	out := NewPicked()
	if e, ok := p[h]; ok {
		out[h] = e.clone()
	}
	return out
}

// Clone returns a deep copy of p.
func (p Picked) Clone() Picked {
	out := make(Picked, len(p))
	for h, e := range p {
		out[h] = e.clone()
	}
	return out
}

// Merge adds every pair of o to p. Pixel counts are summed.
func (p Picked) Merge(o Picked) {
	for h, oe := range o {
		e := p.entry(h)
		e.PixelCount += oe.PixelCount
		for id := range oe.SubIDs {
			if e.SubIDs == nil {
				e.SubIDs = make(map[uint64]struct{})
			}
			e.SubIDs[id] = struct{}{}
		}
	}
}

// Difference returns the pairs of p that are not in o. A handle present in both only contributes
// its sub-ids missing from o. A whole-entity entry and a sub-id entry of the same handle share no
// pairs, so the entry of p is returned in full.
func (p Picked) Difference(o Picked) Picked {
	out := NewPicked()
	for h, e := range p {
		oe, ok := o[h]
		if !ok || e.whole() != oe.whole() {
			out[h] = e.clone()
			continue
		}
		for id := range e.SubIDs {
			if _, ok := oe.SubIDs[id]; !ok {
				out.Add(h, id)
			}
		}
	}
	return out
}

// Intersect returns the pairs of o that are also in p. An entry of o without sub-ids matches the
// whole entry of p, and any entry of o matches a whole-entity entry of p in full.
func (p Picked) Intersect(o Picked) Picked {
	out := NewPicked()
	for h, oe := range o {
		e, ok := p[h]
		if !ok {
			continue
		}
		if oe.whole() || e.whole() {
			out[h] = e.clone()
			continue
		}
		for id := range oe.SubIDs {
			if _, ok := e.SubIDs[id]; ok {
				out.Add(h, id)
			}
		}
	}
	return out
}

// Subtract removes the pairs of o from p. An entry of o without sub-ids removes the whole handle, as
// does any entry of o against a whole-entity entry of p. A handle whose sub-ids all go is removed too.
func (p Picked) Subtract(o Picked) {
	for h, oe := range o {
		e, ok := p[h]
		if !ok {
			continue
		}
		if oe.whole() || e.whole() {
			delete(p, h)
			continue
		}
		for id := range oe.SubIDs {
			delete(e.SubIDs, id)
		}
		if len(e.SubIDs) == 0 {
			delete(p, h)
		}
	}
}
