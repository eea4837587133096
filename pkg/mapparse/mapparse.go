// Package mapparse implements predicate-driven extraction of boolean grids
// from the map (blocks-move, blocks-LOS, feature-of-type, ...) and the
// morphological expansion used to build door-search and pathfinding masks.
package mapparse

import "github.com/duskward/core/pkg/geometry"
import "github.com/duskward/core/pkg/worldmap"

// Mode controls how Run combines its predicate result with an existing grid.
type Mode int

const (
	// Overwrite replaces every cell's value with the predicate result.
	Overwrite Mode = iota
	// Append ORs the predicate result into the existing grid.
	Append
)

// Predicate evaluates one cell of the map.
type Predicate func(m *worldmap.Map, p geometry.Pos) bool

// BoolGrid is a dense boolean grid the same shape as a Map, stored
// row-major to match worldmap.Map's layout.
type BoolGrid struct {
	W, H int
	Bits []bool
}

// NewBoolGrid allocates a cleared W x H grid.
func NewBoolGrid(w, h int) *BoolGrid {
	return &BoolGrid{W: w, H: h, Bits: make([]bool, w*h)}
}

// FromMap allocates a grid matching a map's dimensions.
func FromMap(m *worldmap.Map) *BoolGrid {
	return NewBoolGrid(m.W, m.H)
}

func (g *BoolGrid) index(p geometry.Pos) int { return p.Y*g.W + p.X }

// InBounds reports whether p lies within the grid.
func (g *BoolGrid) InBounds(p geometry.Pos) bool {
	return p.X >= 0 && p.X < g.W && p.Y >= 0 && p.Y < g.H
}

// At returns the grid's value at p; out-of-bounds reads return true
// (treated as blocked), which keeps pathfinding and FOV from walking off
// the map edge.
func (g *BoolGrid) At(p geometry.Pos) bool {
	if !g.InBounds(p) {
		return true
	}
	return g.Bits[g.index(p)]
}

// Set assigns the grid's value at p; out-of-bounds writes are ignored.
func (g *BoolGrid) Set(p geometry.Pos, v bool) {
	if g.InBounds(p) {
		g.Bits[g.index(p)] = v
	}
}

// Run evaluates pred over every cell of m within bounds (or the whole map
// if bounds is nil) and writes the result into out according to mode.
func Run(m *worldmap.Map, pred Predicate, out *BoolGrid, mode Mode, bounds *geometry.Rect) {
	r := geometry.Rect{P0: geometry.Pos{0, 0}, P1: geometry.Pos{m.W - 1, m.H - 1}}
	if bounds != nil {
		r = *bounds
	}
	for y := r.P0.Y; y <= r.P1.Y; y++ {
		for x := r.P0.X; x <= r.P1.X; x++ {
			p := geometry.Pos{X: x, Y: y}
			v := pred(m, p)
			if mode == Append {
				v = v || out.At(p)
			}
			out.Set(p, v)
		}
	}
}

// Expand dilates src by radius cells, writing the result to dst. When
// alsoCardinals is true, dilation uses the 8-connected neighborhood (king
// move); otherwise it uses the 4-connected (cardinal-only) neighborhood.
// dst and src may be the same grid only if the caller does not need the
// original values during the call (Expand buffers internally, so aliasing
// is safe).
func Expand(src *BoolGrid, dst *BoolGrid, radius int, alsoCardinals bool) {
	cur := make([]bool, len(src.Bits))
	copy(cur, src.Bits)

	for step := 0; step < radius; step++ {
		next := make([]bool, len(cur))
		copy(next, cur)
		for y := 0; y < src.H; y++ {
			for x := 0; x < src.W; x++ {
				p := geometry.Pos{X: x, Y: y}
				idx := y*src.W + x
				if cur[idx] {
					continue
				}
				if neighborSet(cur, src.W, src.H, p, alsoCardinals) {
					next[idx] = true
				}
			}
		}
		cur = next
	}
	copy(dst.Bits, cur)
}

func neighborSet(bits []bool, w, h int, p geometry.Pos, diag bool) bool {
	dirs := []geometry.Pos{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	if diag {
		dirs = append(dirs, geometry.Pos{-1, -1}, geometry.Pos{1, -1}, geometry.Pos{-1, 1}, geometry.Pos{1, 1})
	}
	for _, d := range dirs {
		n := p.Add(d)
		if n.X < 0 || n.X >= w || n.Y < 0 || n.Y >= h {
			continue
		}
		if bits[n.Y*w+n.X] {
			return true
		}
	}
	return false
}

// BlocksMoveCommon is true for any cell whose rigid feature blocks ordinary
// movement.
func BlocksMoveCommon(m *worldmap.Map, p geometry.Pos) bool {
	c := m.At(p)
	return c == nil || c.Rigid.BlocksMove()
}

// BlocksLOS is true for any cell whose rigid feature blocks line of sight.
func BlocksLOS(m *worldmap.Map, p geometry.Pos) bool {
	c := m.At(p)
	return c == nil || c.Rigid.BlocksLOS()
}

// IsFeatureOfType builds a predicate matching a single feature kind.
func IsFeatureOfType(k worldmap.FeatureKind) Predicate {
	return func(m *worldmap.Map, p geometry.Pos) bool {
		c := m.At(p)
		return c != nil && c.Rigid.Kind == k
	}
}

// IsBashableDoor is true for closed/stuck doors flagged bashable.
func IsBashableDoor(m *worldmap.Map, p geometry.Pos) bool {
	c := m.At(p)
	if c == nil {
		return false
	}
	return c.Rigid.IsDoor() && c.Rigid.IsBashable && c.Rigid.Kind != worldmap.FeatureDoorOpen && c.Rigid.Kind != worldmap.FeatureDoorBroken
}
