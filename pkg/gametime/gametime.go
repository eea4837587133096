// Package gametime implements the turn scheduler: an ordered cursor over
// every living actor, per-actor speed tokens, and the standard-turn hooks
// (regeneration, property decay, shock, unsummon countdown) that fire once
// per full lap of the cursor.
package gametime

import (
	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/sound"
	"github.com/duskward/core/pkg/worldmap"
)

// StandardTurnHook runs once per actor each time the cursor completes a
// lap, before mob ticks and environmental systems.
type StandardTurnHook func(a *actor.Actor)

// EnvironmentalHook runs once per lap after mob ticks (fire spread, gas
// dissipation, and similar level-wide effects).
type EnvironmentalHook func()

// Scheduler drives turn order for every actor in a Table.
type Scheduler struct {
	Table *actor.Table
	Map   *worldmap.Map
	Sound *sound.Emitter

	order  []actor.ID
	cursor int

	tokens map[actor.ID]int // extra free-action tokens, speed model

	standardHooks     []StandardTurnHook
	environmentalHook []EnvironmentalHook

	turnCount int
}

// NewScheduler builds a scheduler over every actor currently in the table.
func NewScheduler(table *actor.Table, m *worldmap.Map, snd *sound.Emitter) *Scheduler {
	s := &Scheduler{
		Table:  table,
		Map:    m,
		Sound:  snd,
		tokens: make(map[actor.ID]int),
	}
	s.Rebuild()
	return s
}

// Rebuild recomputes iteration order from the table's current living actors
// (Table.All() already returns them id-sorted, which is what keeps turn
// order reproducible for a given seed). Callers invoke this after an actor
// is added or removed mid-level.
func (s *Scheduler) Rebuild() {
	s.order = s.order[:0]
	for _, a := range s.Table.All() {
		if a.IsAlive() {
			s.order = append(s.order, a.ID())
		}
	}
	if s.cursor >= len(s.order) {
		s.cursor = 0
	}
}

// AddStandardHook registers a per-actor standard-turn hook.
func (s *Scheduler) AddStandardHook(h StandardTurnHook) {
	s.standardHooks = append(s.standardHooks, h)
}

// AddEnvironmentalHook registers a level-wide environmental hook.
func (s *Scheduler) AddEnvironmentalHook(h EnvironmentalHook) {
	s.environmentalHook = append(s.environmentalHook, h)
}

// Current returns the id of the actor whose turn it currently is, or 0 if
// the scheduler has no living actors.
func (s *Scheduler) Current() actor.ID {
	if len(s.order) == 0 {
		return 0
	}
	return s.order[s.cursor]
}

// TurnCount returns the number of completed scheduler laps.
func (s *Scheduler) TurnCount() int { return s.turnCount }

// HasteTokenInterval and SlowSkipInterval are the token interval K for
// hasted and slowed actors. Nothing in this package reads them: Tick neither
// grants nor skips tokens, so every living actor gets one action per lap
// whatever its speed, and the token map changes only through GrantToken and
// ConsumeToken.
const (
	HasteTokenInterval = 3
	SlowSkipInterval    = 3
)

// GrantToken gives an actor one free extra action token.
func (s *Scheduler) GrantToken(id actor.ID) {
	s.tokens[id]++
}

// ConsumeToken spends one of an actor's free tokens if available, returning
// whether one was spent.
func (s *Scheduler) ConsumeToken(id actor.ID) bool {
	if s.tokens[id] > 0 {
		s.tokens[id]--
		return true
	}
	return false
}

// Tick advances the cursor by one actor. When the cursor wraps back to the
// start of the order, it fires standard-turn hooks for every actor (in
// table order), then mob ticks, then environmental hooks, in that fixed
// sequence.
func (s *Scheduler) Tick() {
	if len(s.order) == 0 {
		if s.Sound != nil {
			s.Sound.ResetTurn()
		}
		return
	}

	s.cursor++
	if s.cursor >= len(s.order) {
		s.cursor = 0
		s.runLap()
	}
}

func (s *Scheduler) runLap() {
	s.turnCount++

	for _, id := range s.order {
		a := s.Table.Get(id)
		if a == nil || !a.IsAlive() {
			continue
		}
		// Property decay precedes standard-turn hooks.
		a.Properties.Tick(a)
	}

	for _, id := range s.order {
		a := s.Table.Get(id)
		if a == nil || !a.IsAlive() {
			continue
		}
		for _, hook := range s.standardHooks {
			hook(a)
		}
		if !a.IsPlayer && a.AwareCounter > 0 {
			a.AwareCounter--
		}
		if a.NrTurnsUntilUnsummoned > 0 {
			a.NrTurnsUntilUnsummoned--
			if a.NrTurnsUntilUnsummoned == 0 {
				a.Destroy()
			}
		}
	}

	if s.Map != nil {
		s.Map.TickMobs()
	}

	for _, hook := range s.environmentalHook {
		hook()
	}

	if s.Sound != nil {
		s.Sound.ResetTurn()
	}

	s.Rebuild()
}

// ActorDidAct is called by any action that consumes a turn; it advances the
// scheduler exactly once, mirroring actor_did_act() -> tick() in the spec.
func (s *Scheduler) ActorDidAct(id actor.ID) {
	s.Tick()
}

// Cursor, Order, Tokens and the matching Set* methods expose scheduler
// iteration state for save/load; nothing in the turn loop itself uses them.

// Cursor returns the current position in the iteration order.
func (s *Scheduler) Cursor() int { return s.cursor }

// SetCursor restores the iteration position after load.
func (s *Scheduler) SetCursor(c int) { s.cursor = c }

// Order returns the current actor iteration order.
func (s *Scheduler) Order() []actor.ID { return s.order }

// SetOrder restores the actor iteration order after load, bypassing Rebuild
// since a loaded order may include dead actors mid-lap.
func (s *Scheduler) SetOrder(order []actor.ID) { s.order = order }

// SetTurnCount restores the completed-lap counter after load.
func (s *Scheduler) SetTurnCount(n int) { s.turnCount = n }

// Tokens returns the live actor-id to speed-token-count map.
func (s *Scheduler) Tokens() map[actor.ID]int { return s.tokens }

// SetTokens restores the speed-token map after load.
func (s *Scheduler) SetTokens(tokens map[actor.ID]int) { s.tokens = tokens }
