package mapgen

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/duskward/core/pkg/mapparse"
	"github.com/duskward/core/pkg/pathfind"
	"github.com/duskward/core/pkg/rng"
)

// TestPropertyStairsAlwaysReachable checks spec.md §8's generation invariant
// across many seeds: "for all seeds and all dlvl, generation produces a map
// where the player's spawn can reach the stairs via blocks-move-common path."
func TestPropertyStairsAlwaysReachable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint64().Draw(t, "seed")
		dlvl := rapid.IntRange(1, 20).Draw(t, "dlvl")

		p := DefaultParams(dlvl, nil)
		result := Generate(60, 40, p, rng.New(seed))

		if result.Map == nil {
			t.Fatalf("seed %d dlvl %d: generation produced no map", seed, dlvl)
		}

		grid := mapparse.FromMap(result.Map)
		mapparse.Run(result.Map, mapparse.BlocksMoveCommon, grid, mapparse.Overwrite, nil)
		if pathfind.Distance(result.PlayerSpawn, result.StairsDown, grid) < 0 {
			t.Fatalf("seed %d dlvl %d: stairs unreachable from spawn", seed, dlvl)
		}
	})
}

// TestPropertyEveryCellHasExactlyOneRigidFeature checks spec.md §8's "for
// all cells, exactly one rigid feature is present after generation" — every
// cell's Rigid field is a value type, so a cell always holds exactly one
// feature, and the loop checks that no cell carries a negative (undefined)
// FeatureKind. It cannot tell a skipped cell from a carved one: the zero
// value is FeatureFloor, a valid kind.
func TestPropertyEveryCellHasExactlyOneRigidFeature(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint64().Draw(t, "seed")
		p := DefaultParams(1, nil)
		result := Generate(60, 40, p, rng.New(seed))
		if result.Map == nil {
			t.Fatalf("seed %d: generation produced no map", seed)
		}
		for i, c := range result.Map.Cells {
			if c.Rigid.Kind < 0 {
				t.Fatalf("seed %d: cell %d has no valid rigid feature", seed, i)
			}
		}
	})
}
