package mapgen

import (
	"testing"

	"github.com/duskward/core/pkg/mapparse"
	"github.com/duskward/core/pkg/pathfind"
	"github.com/duskward/core/pkg/rng"
)

func TestGenerateProducesReachableStairs(t *testing.T) {
	p := DefaultParams(1, nil)
	result := Generate(60, 40, p, rng.New(1))

	if result.Map == nil {
		t.Fatal("expected a generated map")
	}

	grid := mapparse.FromMap(result.Map)
	mapparse.Run(result.Map, mapparse.BlocksMoveCommon, grid, mapparse.Overwrite, nil)
	if pathfind.Distance(result.PlayerSpawn, result.StairsDown, grid) < 0 {
		t.Fatal("expected stairs to be reachable from spawn")
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	p := DefaultParams(1, nil)
	a := Generate(60, 40, p, rng.New(42))
	b := Generate(60, 40, p, rng.New(42))

	if a.PlayerSpawn != b.PlayerSpawn || a.StairsDown != b.StairsDown {
		t.Fatal("expected identical seeds to produce identical spawn/stairs")
	}
}
