// Package dragdrop turns a finished drag gesture over the rendered host list
// into a source/target pair for a reorder.
package dragdrop

import (
	"math"
	"slices"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

func (r Rect) Translate(d Point) Rect {
	r.Left += d.X
	r.Top += d.Y
	return r
}

// ItemLayout is where one draggable item is currently laid out.
type ItemLayout struct {
	ID   uint64 `json:"id"`
	Rect Rect   `json:"rect"`
}

// PointerState describes the active drag: which item is held and how far
// the pointer moved since the drag started.
type PointerState struct {
	ActiveID uint64 `json:"active_id"`
	Delta    Point  `json:"delta"`
}

type Key string

const (
	KeyNone Key = ""
	KeyUp   Key = "ArrowUp"
	KeyDown Key = "ArrowDown"
)

type Drop struct {
	SourceID uint64 `json:"source_id"`
	TargetID uint64 `json:"target_id"`
}

// Resolver computes the drop of a gesture. ok is false when the gesture
// does not land on any item.
type Resolver interface {
	ComputeDrop(p PointerState, layouts []ItemLayout) (d Drop, ok bool)
}

// ClosestCenter picks the item whose center is nearest to the center of the
// dragged item after it moved by the pointer delta.
type ClosestCenter struct{}

func (ClosestCenter) ComputeDrop(p PointerState, layouts []ItemLayout) (Drop, bool) {
	i := slices.IndexFunc(layouts, func(l ItemLayout) bool { return l.ID == p.ActiveID })
	if i < 0 {
		return Drop{}, false
	}
	center := layouts[i].Rect.Translate(p.Delta).Center()

	best, bestDist := uint64(0), math.Inf(1)
	for _, l := range layouts {
		c := l.Rect.Center()
		if d := math.Hypot(c.X-center.X, c.Y-center.Y); d < bestDist {
			best, bestDist = l.ID, d
		}
	}
	return Drop{SourceID: p.ActiveID, TargetID: best}, true
}

// Keyboard moves the active item one slot up or down in layout order, the
// way a keyboard sensor does.
type Keyboard struct {
	Key Key
}

func (k Keyboard) ComputeDrop(p PointerState, layouts []ItemLayout) (Drop, bool) {
	i := slices.IndexFunc(layouts, func(l ItemLayout) bool { return l.ID == p.ActiveID })
	if i < 0 {
		return Drop{}, false
	}
	j := i
	switch k.Key {
	case KeyUp:
		j--
	case KeyDown:
		j++
	default:
		return Drop{}, false
	}
	if j < 0 || j >= len(layouts) {
		return Drop{}, false
	}
	return Drop{SourceID: p.ActiveID, TargetID: layouts[j].ID}, true
}

// Target is what a resolved drop is applied to.
type Target interface {
	SortableIDs() []uint64
	Reorder(sourceID, targetID uint64) bool
}

// Apply resolves the gesture against the items of t that can be dragged and
// reorders t. Layouts of unknown ids are ignored, so hosts that are not
// persisted yet are neither a source nor a target. Keyboard moves walk the
// layouts in display order.
func Apply(r Resolver, t Target, p PointerState, layouts []ItemLayout) (Drop, bool) {
	ids := t.SortableIDs()
	rank := make(map[uint64]int, len(ids))
	for i, id := range ids {
		rank[id] = i
	}
	sortable := make([]ItemLayout, 0, len(layouts))
	for _, l := range layouts {
		if _, ok := rank[l.ID]; ok {
			sortable = append(sortable, l)
		}
	}
	slices.SortStableFunc(sortable, func(a, b ItemLayout) int {
		return rank[a.ID] - rank[b.ID]
	})

	d, ok := r.ComputeDrop(p, sortable)
	if !ok || d.SourceID == d.TargetID {
		return d, false
	}
	return d, t.Reorder(d.SourceID, d.TargetID)
}
