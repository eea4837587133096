// Package fov implements line-of-sight checks between two cells and the
// full field-of-view flood from a viewpoint, honoring darkness and light
// exactly as specified: a hard block (from hardBlocked) stops the line
// outright, while unlit/dark intermediate cells mark the line as
// blocked-by-darkness without halting the walk.
package fov

import (
	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/mapparse"
	"github.com/duskward/core/pkg/worldmap"
)

// BlockResult reports the two independent ways a line can fail to connect
// two cells.
type BlockResult struct {
	IsBlockedHard  bool
	IsBlockedByDrk bool
}

// CheckCell walks the rasterized line from p0 to p1. Any cell strictly
// between p0 and p1 with hardBlocked set blocks the line hard; neither
// endpoint's own flag counts.
// For every consecutive pair (previous, current) along the walk: if neither
// cell is lit and the target cell (p1) is not lit, and either cell in the
// pair is dark, the line is marked blocked-by-darkness — this does not stop
// the walk, so a hard block found later still applies. Target-cell flag
// state is evaluated as current before the blocking check for that step.
func CheckCell(m *worldmap.Map, p0, p1 geometry.Pos, hardBlocked *mapparse.BoolGrid, table *geometry.FOVTable) BlockResult {
	var result BlockResult
	if p0.Eq(p1) {
		return result
	}

	delta := p1.Sub(p0)
	line := table.Line(delta)
	if line == nil {
		line = geometry.RasterLine(delta.X, delta.Y)
	}

	targetLit := false
	if c := m.At(p1); c != nil {
		targetLit = c.Flags.IsLit
	}

	prev := p0
	for _, d := range line {
		cur := p0.Add(d)

		prevCell := m.At(prev)
		curCell := m.At(cur)
		prevLit := prevCell != nil && prevCell.Flags.IsLit
		curLit := curCell != nil && curCell.Flags.IsLit
		prevDark := prevCell != nil && prevCell.Flags.IsDark
		curDark := curCell != nil && curCell.Flags.IsDark

		if !prevLit && !curLit && !targetLit && (prevDark || curDark) {
			result.IsBlockedByDrk = true
		}

		if cur.Eq(p1) {
			break
		}

		if hardBlocked.At(cur) {
			result.IsBlockedHard = true
		}

		prev = cur
	}

	return result
}

// Run fills out with every cell visible from p0, clipped to the map and to
// the FOV table's radius. The origin cell is always visible. A cell counts
// as visible when its line from p0 is not hard-blocked; darkness alone does
// not remove a cell from the FOV grid (callers combine IsBlockedByDrk with
// their own infravision/light rules when deciding what to actually render
// or let AI perceive).
func Run(m *worldmap.Map, p0 geometry.Pos, hardBlocked *mapparse.BoolGrid, table *geometry.FOVTable, out *mapparse.BoolGrid) {
	r := table.Radius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx == 0 && dy == 0 {
				out.Set(p0, true)
				continue
			}
			p1 := geometry.Pos{X: p0.X + dx, Y: p0.Y + dy}
			if !m.InBounds(p1) {
				continue
			}
			res := CheckCell(m, p0, p1, hardBlocked, table)
			out.Set(p1, !res.IsBlockedHard)
		}
	}
}
