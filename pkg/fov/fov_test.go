package fov

import (
	"testing"

	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/mapparse"
	"github.com/duskward/core/pkg/worldmap"
)

func openMap(w, h int) *worldmap.Map {
	m := worldmap.New(w, h)
	for i := range m.Cells {
		m.Cells[i].Rigid = worldmap.RigidFeature{Kind: worldmap.FeatureFloor}
	}
	return m
}

func TestCheckCellSymmetricHardBlock(t *testing.T) {
	m := openMap(10, 10)
	blocked := mapparse.NewBoolGrid(10, 10)
	table := geometry.BuildFOVTable(8)

	a := geometry.Pos{X: 2, Y: 2}
	b := geometry.Pos{X: 7, Y: 2}

	r1 := CheckCell(m, a, b, blocked, table)
	r2 := CheckCell(m, b, a, blocked, table)
	if r1.IsBlockedHard != r2.IsBlockedHard {
		t.Fatalf("symmetric hard-block check disagreed: %v vs %v", r1, r2)
	}
}

func TestCheckCellDarknessBlocksWithoutHardBlock(t *testing.T) {
	m := openMap(10, 10)
	for y := 5; y <= 8; y++ {
		c := m.At(geometry.Pos{X: 5, Y: y})
		c.Flags.IsDark = true
	}
	blocked := mapparse.NewBoolGrid(10, 10)
	table := geometry.BuildFOVTable(8)

	res := CheckCell(m, geometry.Pos{X: 5, Y: 5}, geometry.Pos{X: 5, Y: 8}, blocked, table)
	if res.IsBlockedHard {
		t.Fatal("darkness alone must not set hard block")
	}
	if !res.IsBlockedByDrk {
		t.Fatal("expected darkness block across unlit dark cells")
	}
}

func TestRunOriginAlwaysVisible(t *testing.T) {
	m := openMap(10, 10)
	blocked := mapparse.NewBoolGrid(10, 10)
	table := geometry.BuildFOVTable(8)
	out := mapparse.NewBoolGrid(10, 10)

	origin := geometry.Pos{X: 5, Y: 5}
	Run(m, origin, blocked, table, out)
	if !out.At(origin) {
		t.Fatal("origin must always be visible")
	}
}

func TestRunHardBlockStopsVisibility(t *testing.T) {
	m := openMap(10, 10)
	blocked := mapparse.NewBoolGrid(10, 10)
	table := geometry.BuildFOVTable(8)
	out := mapparse.NewBoolGrid(10, 10)

	origin := geometry.Pos{X: 2, Y: 5}
	wallPos := geometry.Pos{X: 4, Y: 5}
	m.SetFeature(wallPos, worldmap.RigidFeature{Kind: worldmap.FeatureWall})
	blocked.Set(wallPos, true)

	Run(m, origin, blocked, table, out)
	beyond := geometry.Pos{X: 6, Y: 5}
	if out.At(beyond) {
		t.Fatal("cell behind a hard-blocking wall must not be visible")
	}
	if !out.At(wallPos) {
		t.Fatal("a hard-blocked cell must still be visible as itself; only cells beyond it are occluded")
	}
}

func TestCheckCellTargetOwnHardBlockDoesNotGateItself(t *testing.T) {
	m := openMap(10, 10)
	blocked := mapparse.NewBoolGrid(10, 10)
	table := geometry.BuildFOVTable(8)

	origin := geometry.Pos{X: 2, Y: 5}
	wallPos := geometry.Pos{X: 4, Y: 5}
	m.SetFeature(wallPos, worldmap.RigidFeature{Kind: worldmap.FeatureWall})
	blocked.Set(wallPos, true)

	res := CheckCell(m, origin, wallPos, blocked, table)
	if res.IsBlockedHard {
		t.Fatal("a cell's own hard-blocked state must not gate visibility of itself, only of cells beyond it")
	}
}
