package worldstate

import (
	"testing"

	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/config"
	"github.com/duskward/core/pkg/mapgen"
	"github.com/duskward/core/pkg/themes"
)

func TestNewWorldProducesPlayableLevel(t *testing.T) {
	actor.Register(&actor.Data{ID: "worldstate_test_rat", Name: "rat", HPDiceRolls: 1, HPDiceSides: 4, CarryWeightCap: 10})

	cfg := config.Default()
	params := mapgen.DefaultParams(1, themes.NewLoader(""))
	w, err := NewWorld(cfg, 99, 1, params)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if w.Map == nil || w.Sched == nil || w.AI == nil || w.Sound == nil {
		t.Fatal("expected every subsystem to be wired")
	}
}

func TestTwoWorldsFromSameSeedAreIndependent(t *testing.T) {
	cfg := config.Default()
	params := mapgen.DefaultParams(1, themes.NewLoader(""))

	a, err := NewWorld(cfg, 5, 1, params)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewWorld(cfg, 5, 1, params)
	if err != nil {
		t.Fatal(err)
	}

	if a.Map == b.Map || a.Table == b.Table {
		t.Fatal("expected two independent World instances, not shared state")
	}
	if a.Map.W != b.Map.W || a.Map.H != b.Map.H {
		t.Fatal("same seed should reproduce the same level size")
	}
}
