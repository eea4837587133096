package saveload

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/gametime"
	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/item"
	"github.com/duskward/core/pkg/property"
	"github.com/duskward/core/pkg/rng"
	"github.com/duskward/core/pkg/worldmap"
)

func testData() *actor.Data {
	return &actor.Data{ID: "test_ghoul", Name: "ghoul", HPDiceRolls: 2, HPDiceSides: 6, SpiritMax: 4, CarryWeightCap: 50}
}

func buildState() *State {
	actor.Register(testData())
	item.Register(&item.Data{ID: "test_knife", Names: []string{"knife"}, Stackable: false})

	r := rng.New(7)
	m := worldmap.New(10, 8)
	m.SetFeature(geometry.Pos{X: 2, Y: 2}, worldmap.RigidFeature{Kind: worldmap.FeatureFloor})
	m.At(geometry.Pos{X: 2, Y: 2}).Items = append(m.At(geometry.Pos{X: 2, Y: 2}).Items, item.New("test_knife"))

	table := actor.NewTable()
	player := actor.Mk(testData(), geometry.Pos{X: 1, Y: 1}, true, r)
	player.Properties.Add(&property.Property{Kind: property.Poisoned, Duration: property.Specific(3)})
	table.Add(player)

	ghoul := actor.Mk(testData(), geometry.Pos{X: 5, Y: 5}, false, r)
	ghoul.LeaderID = player.ID()
	ghoul.AwareCounter = 12
	table.Add(ghoul)

	sched := gametime.NewScheduler(table, m, nil)
	sched.GrantToken(player.ID())
	sched.Tick()

	return &State{Table: table, Map: m, Scheduler: sched, Turn: 3, Seed: 7}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	s := buildState()
	if err := mgr.Save("slot1", s); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := mgr.Load("slot1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected loaded state, got nil")
	}

	if loaded.Turn != s.Turn || loaded.Seed != s.Seed {
		t.Fatalf("turn/seed mismatch: got %+v want %+v", loaded, s)
	}
	if loaded.Map.W != s.Map.W || loaded.Map.H != s.Map.H {
		t.Fatalf("map dimensions mismatch")
	}
	if len(loaded.Table.All()) != len(s.Table.All()) {
		t.Fatalf("actor count mismatch: got %d want %d", len(loaded.Table.All()), len(s.Table.All()))
	}

	var gotGhoul *actor.Actor
	for _, a := range loaded.Table.All() {
		if !a.IsPlayer {
			gotGhoul = a
		}
	}
	if gotGhoul == nil {
		t.Fatal("ghoul missing after load")
	}
	if gotGhoul.AwareCounter != 12 {
		t.Fatalf("AwareCounter not preserved: got %d", gotGhoul.AwareCounter)
	}
	leader := gotGhoul.Leader(loaded.Table)
	if leader == nil || !leader.IsPlayer {
		t.Fatal("leader reference not preserved across load")
	}

	cell := loaded.Map.At(geometry.Pos{X: 2, Y: 2})
	if cell.Rigid.Kind != worldmap.FeatureFloor || len(cell.Items) != 1 {
		t.Fatalf("cell state not preserved: %+v", cell)
	}
	if cell.Items[0].DataID != "test_knife" {
		t.Fatalf("ground item not preserved: %+v", cell.Items[0])
	}
}

func TestSaveIsDeterministicAcrossReSave(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	s := buildState()
	if err := mgr.Save("a", s); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(filepath.Join(dir, "a.sav"))
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := mgr.Load("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := mgr.Save("b", loaded); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(filepath.Join(dir, "b.sav"))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Fatal("re-saving a loaded state produced a different byte stream")
	}
}

func TestLoadMissingSaveReturnsNil(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := mgr.Load("nope")
	if err != nil {
		t.Fatalf("expected no error for missing save, got %v", err)
	}
	if s != nil {
		t.Fatal("expected nil state for missing save")
	}
}

func TestLoadCorruptSaveReportsSaveCorrupt(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.sav"), []byte("not a real save\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Load("bad"); err == nil {
		t.Fatal("expected an error loading a corrupt save")
	}
}
