package ai

import (
	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/geometry"
)

// Spell is a monster-castable spell template. AllowCastNow decides whether
// casting is situationally sensible (range, line of sight, target state)
// independent of whether the caster can currently afford it.
type Spell struct {
	ID          string
	SpiritCost  int
	Cooldown    int
	AllowCastNow func(e *Engine, self, target *actor.Actor) bool
	Cast         func(e *Engine, self, target *actor.Actor)
}

// SpellRegistry is the global table of castable spells, populated at
// startup by the data loader.
var SpellRegistry = map[string]*Spell{}

// RegisterSpell adds a spell template to the registry.
func RegisterSpell(s *Spell) { SpellRegistry[s.ID] = s }

// step8CastRandomSpell gates spellcasting behind a one-in-5 roll before
// attempting the shuffle-and-cast algorithm, so spellcasters don't reflexively
// burn spirit every single turn they're able to.
func (e *Engine) step8CastRandomSpell(self *actor.Actor) bool {
	if len(self.SpellsKnown) == 0 || self.SpellCooldown > 0 {
		return false
	}
	if !e.RNG.OneIn(5) {
		return false
	}
	return e.attemptCast(self)
}

// step10FallbackCast attempts a cast ungated by the one-in-5 roll, used when
// the monster could not otherwise attack or already missed its gated chance
// this turn; it still respects spirit cost and cooldown.
func (e *Engine) step10FallbackCast(self *actor.Actor) bool {
	if len(self.SpellsKnown) == 0 || self.SpellCooldown > 0 {
		return false
	}
	return e.attemptCast(self)
}

// attemptCast shuffles the caster's known spells and commits to the first
// one whose AllowCastNow holds: spells that don't qualify are skipped, but
// the first that does either casts (if affordable), desperate-casts (one
// time in twenty, below a third of max HP, not player-led), or fails the
// turn outright — it never falls through to consider a second qualifying
// spell.
func (e *Engine) attemptCast(self *actor.Actor) bool {
	target := self.Target(e.Table)
	if target == nil {
		return false
	}

	order := append([]string(nil), self.SpellsKnown...)
	e.RNG.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	for _, id := range order {
		sp := SpellRegistry[id]
		if sp == nil || !sp.AllowCastNow(e, self, target) {
			continue
		}

		if sp.SpiritCost < self.Spirit {
			e.cast(self, target, sp)
			return true
		}

		if self.LeaderID != 0 && e.Table.Get(self.LeaderID) != nil && e.Table.Get(self.LeaderID).IsPlayer {
			return false
		}
		if self.HP >= self.HPMax/3 {
			return false
		}
		if !e.RNG.OneIn(20) {
			return false
		}
		e.cast(self, target, sp)
		return true
	}

	return false
}

func (e *Engine) cast(self, target *actor.Actor, sp *Spell) {
	self.Spirit -= sp.SpiritCost
	if self.Spirit < 0 {
		self.Spirit = 0
	}
	self.SpellCooldown = sp.Cooldown
	sp.Cast(e, self, target)
}

// InRange is a common AllowCastNow building block: the target must be
// within the spell's maximum king-distance range and within line of sight.
func InRange(maxRange int) func(e *Engine, self, target *actor.Actor) bool {
	return func(e *Engine, self, target *actor.Actor) bool {
		if geometry.KingDist(self.Pos, target.Pos) > maxRange {
			return false
		}
		return e.canSee(self, target)
	}
}
