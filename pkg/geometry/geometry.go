// Package geometry provides the positional primitives shared by every other
// component: cell positions, rectangles, the nine-valued direction type, and
// the line rasterization used by both line-of-sight and ranged projectiles.
package geometry

// Pos is an integer cell position on the map grid.
type Pos struct {
	X, Y int
}

// Add returns p translated by the offset o.
func (p Pos) Add(o Pos) Pos {
	return Pos{p.X + o.X, p.Y + o.Y}
}

// Sub returns the vector from o to p.
func (p Pos) Sub(o Pos) Pos {
	return Pos{p.X - o.X, p.Y - o.Y}
}

// Eq reports whether two positions are identical.
func (p Pos) Eq(o Pos) bool {
	return p.X == o.X && p.Y == o.Y
}

// Rect is an axis-aligned rectangle given by two inclusive corners.
type Rect struct {
	P0, P1 Pos
}

// NewRect builds a rectangle, normalizing corner order.
func NewRect(p0, p1 Pos) Rect {
	if p0.X > p1.X {
		p0.X, p1.X = p1.X, p0.X
	}
	if p0.Y > p1.Y {
		p0.Y, p1.Y = p1.Y, p0.Y
	}
	return Rect{P0: p0, P1: p1}
}

// W returns the rectangle's width in cells.
func (r Rect) W() int { return r.P1.X - r.P0.X + 1 }

// H returns the rectangle's height in cells.
func (r Rect) H() int { return r.P1.Y - r.P0.Y + 1 }

// Center returns the (floored) center cell.
func (r Rect) Center() Pos {
	return Pos{(r.P0.X + r.P1.X) / 2, (r.P0.Y + r.P1.Y) / 2}
}

// Contains reports whether p lies within the rectangle, inclusive.
func (r Rect) Contains(p Pos) bool {
	return p.X >= r.P0.X && p.X <= r.P1.X && p.Y >= r.P0.Y && p.Y <= r.P1.Y
}

// Expanded returns a rectangle grown by n cells on every side.
func (r Rect) Expanded(n int) Rect {
	return Rect{
		P0: Pos{r.P0.X - n, r.P0.Y - n},
		P1: Pos{r.P1.X + n, r.P1.Y + n},
	}
}

// Intersects reports whether two rectangles share any cell.
func (r Rect) Intersects(o Rect) bool {
	return r.P0.X <= o.P1.X && r.P1.X >= o.P0.X && r.P0.Y <= o.P1.Y && r.P1.Y >= o.P0.Y
}

// Dir is the nine-valued direction enumeration: the eight compass points
// plus a center ("no movement") value, in a fixed index order used to break
// pathfinding and AI ties deterministically.
type Dir int

const (
	DirNW Dir = iota
	DirN
	DirNE
	DirW
	DirCenter
	DirE
	DirSW
	DirS
	DirSE
	DirEND
)

// Offsets maps each direction to its unit position delta.
var Offsets = map[Dir]Pos{
	DirNW:     {-1, -1},
	DirN:      {0, -1},
	DirNE:     {1, -1},
	DirW:      {-1, 0},
	DirCenter: {0, 0},
	DirE:      {1, 0},
	DirSW:     {-1, 1},
	DirS:      {0, 1},
	DirSE:     {1, 1},
}

// AllDirs lists the eight moving directions (every direction except
// DirCenter and the sentinel DirEND), in ascending
// index order; AI and pathfinding iterate in this order so ties resolve to
// the lowest direction index as the spec requires.
var AllDirs = []Dir{DirNW, DirN, DirNE, DirW, DirE, DirSW, DirS, DirSE}

// KingDist returns the Chebyshev (king-move) distance between two cells.
func KingDist(a, b Pos) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// TaxicabDist returns the Manhattan distance between two cells.
func TaxicabDist(a, b Pos) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// DirTowards returns the direction whose offset best approximates the
// vector from a to b, ties broken by AllDirs order.
func DirTowards(a, b Pos) Dir {
	if a.Eq(b) {
		return DirCenter
	}
	dx, dy := sign(b.X-a.X), sign(b.Y-a.Y)
	for _, d := range AllDirs {
		o := Offsets[d]
		if sign(o.X) == dx && sign(o.Y) == dy {
			return d
		}
	}
	return DirCenter
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// RasterLine returns the ordered sequence of cell deltas from (0,0) to
// (dx,dy), inclusive of the endpoint but excluding the origin, computed with
// a standard Bresenham walk. FOV and ranged attacks both reuse this
// rasterization so line-of-sight and projectile paths agree.
func RasterLine(dx, dy int) []Pos {
	steps := make([]Pos, 0, maxInt(abs(dx), abs(dy))+1)

	x, y := 0, 0
	sx, sy := sign(dx), sign(dy)
	adx, ady := abs(dx), abs(dy)

	if adx >= ady {
		d := 2*ady - adx
		for i := 0; i <= adx; i++ {
			if i > 0 {
				steps = append(steps, Pos{x, y})
			}
			if d > 0 {
				y += sy
				d -= 2 * adx
			}
			x += sx
			d += 2 * ady
		}
	} else {
		d := 2*adx - ady
		for i := 0; i <= ady; i++ {
			if i > 0 {
				steps = append(steps, Pos{x, y})
			}
			if d > 0 {
				x += sx
				d -= 2 * ady
			}
			y += sy
			d += 2 * adx
		}
	}
	if len(steps) == 0 || !steps[len(steps)-1].Eq(Pos{dx, dy}) {
		steps = append(steps, Pos{dx, dy})
	}
	return steps
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FOVTable precomputes, for every delta within Radius, the rasterized line
// from the origin to that delta. LOS and FOV flood both consult this table
// instead of re-rasterizing every call.
type FOVTable struct {
	Radius int
	lines  map[Pos][]Pos
}

// BuildFOVTable precomputes line deltas for every cell within radius of the
// origin. Radius is normally the compile-time FOV constant (~8 cells).
func BuildFOVTable(radius int) *FOVTable {
	t := &FOVTable{
		Radius: radius,
		lines:  make(map[Pos][]Pos, (2*radius+1)*(2*radius+1)),
	}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			t.lines[Pos{dx, dy}] = RasterLine(dx, dy)
		}
	}
	return t
}

// Line returns the precomputed delta sequence from the origin to delta, or
// nil if delta falls outside the table's radius.
func (t *FOVTable) Line(delta Pos) []Pos {
	return t.lines[delta]
}
