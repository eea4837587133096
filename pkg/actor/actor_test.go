package actor

import (
	"testing"

	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/rng"
)

func testData() *Data {
	return &Data{ID: "cultist", Name: "Cultist", HPDiceRolls: 2, HPDiceSides: 6, SpiritMax: 4}
}

func TestMkRollsHP(t *testing.T) {
	a := Mk(testData(), geometry.Pos{X: 1, Y: 1}, false, rng.New(1))
	if a.HP <= 0 || a.HP != a.HPMax {
		t.Fatalf("expected full starting HP, got %d/%d", a.HP, a.HPMax)
	}
}

func TestTakeDamageBecomesCorpse(t *testing.T) {
	a := Mk(testData(), geometry.Pos{}, false, rng.New(1))
	a.TakeDamage(a.HPMax + 10)
	if a.StateV != StateCorpse {
		t.Fatalf("expected corpse state, got %v", a.StateV)
	}
	if a.IsAlive() {
		t.Fatal("corpse must not be alive")
	}
}

func TestLeaderChainDepthEnforced(t *testing.T) {
	table := NewTable()
	grandleader := Mk(testData(), geometry.Pos{}, false, rng.New(1))
	leader := Mk(testData(), geometry.Pos{}, false, rng.New(2))
	follower := Mk(testData(), geometry.Pos{}, false, rng.New(3))

	glID := table.Add(grandleader)
	lID := table.Add(leader)
	table.Add(follower)

	leader.LeaderID = glID
	follower.LeaderID = lID

	ValidateLeaderChain(table)

	if follower.Leader(table).LeaderID != 0 {
		t.Fatal("expected two-deep leader chain to be broken")
	}
}

func TestAliveAtFindsOccupant(t *testing.T) {
	table := NewTable()
	a := Mk(testData(), geometry.Pos{X: 3, Y: 3}, false, rng.New(1))
	table.Add(a)
	if table.AliveAt(geometry.Pos{X: 3, Y: 3}) != a {
		t.Fatal("expected to find actor at its position")
	}
	if table.AliveAt(geometry.Pos{X: 9, Y: 9}) != nil {
		t.Fatal("expected no actor at empty position")
	}
}
