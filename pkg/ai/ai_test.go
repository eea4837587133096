package ai

import (
	"testing"

	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/gametime"
	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/rng"
	"github.com/duskward/core/pkg/sound"
	"github.com/duskward/core/pkg/worldmap"
)

func newTestEngine(w, h int) (*Engine, *actor.Table, *worldmap.Map) {
	m := worldmap.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetFeature(geometry.Pos{X: x, Y: y}, worldmap.RigidFeature{Kind: worldmap.FeatureFloor})
		}
	}
	table := actor.NewTable()
	snd := sound.NewEmitter(table, m, nil, geometry.BuildFOVTable(8))
	sched := gametime.NewScheduler(table, m, snd)
	e := NewEngine(table, m, sched, snd, geometry.BuildFOVTable(8), rng.New(1))
	return e, table, m
}

func chaserData() *actor.Data {
	return &actor.Data{
		ID: "chaser", HPDiceRolls: 2, HPDiceSides: 6, SpiritMax: 0,
		AIFlags:        actor.AIFlags{Attacks: true, Paths: true, SimpleSteps: true},
		NrTurnsAware:   10,
		ErraticMovePct: 0,
	}
}

func TestAttackAdjacentTarget(t *testing.T) {
	e, table, _ := newTestEngine(10, 10)
	mon := actor.Mk(chaserData(), geometry.Pos{X: 5, Y: 5}, false, rng.New(2))
	mon.AwareCounter = 5
	player := actor.Mk(&actor.Data{HPDiceRolls: 2, HPDiceSides: 6}, geometry.Pos{X: 6, Y: 5}, true, rng.New(3))
	table.Add(mon)
	table.Add(player)

	startHP := player.HP
	e.TakeTurn(mon)

	if mon.TargetID != player.ID() {
		t.Fatalf("expected monster to target player")
	}
	if player.HP == startHP && player.HP != 0 {
		// a miss is possible; just ensure no panic and state is consistent
		t.Logf("no damage this turn (miss), HP=%d", player.HP)
	}
}

func TestSimpleStepMovesTowardsTarget(t *testing.T) {
	e, table, _ := newTestEngine(10, 10)
	mon := actor.Mk(chaserData(), geometry.Pos{X: 2, Y: 2}, false, rng.New(4))
	mon.AwareCounter = 5
	player := actor.Mk(&actor.Data{HPDiceRolls: 2, HPDiceSides: 6}, geometry.Pos{X: 8, Y: 2}, true, rng.New(5))
	table.Add(mon)
	table.Add(player)

	e.TakeTurn(mon)

	if mon.Pos.X <= 2 {
		t.Fatalf("expected monster to step towards player, got %+v", mon.Pos)
	}
}

func TestWaitTogglesWhenUnaware(t *testing.T) {
	e, table, _ := newTestEngine(10, 10)
	mon := actor.Mk(&actor.Data{HPDiceRolls: 1, HPDiceSides: 4}, geometry.Pos{X: 1, Y: 1}, false, rng.New(6))
	table.Add(mon)

	before := mon.Pos
	e.TakeTurn(mon)
	if !mon.Waiting {
		t.Fatalf("expected Waiting to toggle on for an unaware monster")
	}
	if mon.Pos != before {
		t.Fatalf("an unaware waiting monster should not move")
	}
}
