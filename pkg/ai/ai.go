// Package ai drives monster turns. TakeTurn runs the fixed ladder from the
// spec: each step is tried in order and the first step that reports
// "acted" ends the monster's turn.
package ai

import (
	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/combat"
	"github.com/duskward/core/pkg/fov"
	"github.com/duskward/core/pkg/gametime"
	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/item"
	"github.com/duskward/core/pkg/mapparse"
	"github.com/duskward/core/pkg/pathfind"
	"github.com/duskward/core/pkg/property"
	"github.com/duskward/core/pkg/rng"
	"github.com/duskward/core/pkg/sound"
	"github.com/duskward/core/pkg/worldmap"
)

// SpeciesHook injects per-monster-species behavior at ladder step 5. It
// returns true if it consumed the monster's turn.
type SpeciesHook func(e *Engine, self *actor.Actor) bool

// Engine holds every collaborator the AI ladder needs to make a decision.
type Engine struct {
	Table     *actor.Table
	Map       *worldmap.Map
	Scheduler *gametime.Scheduler
	Sound     *sound.Emitter
	FOVTable  *geometry.FOVTable
	RNG       *rng.RNG

	SpeciesHooks map[string]SpeciesHook

	// paths remembers a monster's in-progress route to the player between
	// the path-to-player step and the step-path step of the same turn.
	paths map[actor.ID][]geometry.Dir
}

// NewEngine builds an AI engine wired to the rest of the running world.
func NewEngine(table *actor.Table, m *worldmap.Map, sched *gametime.Scheduler, snd *sound.Emitter, fovTable *geometry.FOVTable, r *rng.RNG) *Engine {
	return &Engine{
		Table:        table,
		Map:          m,
		Scheduler:    sched,
		Sound:        snd,
		FOVTable:     fovTable,
		RNG:          r,
		SpeciesHooks: make(map[string]SpeciesHook),
		paths:        make(map[actor.ID][]geometry.Dir),
	}
}

func (e *Engine) hardBlocked() *mapparse.BoolGrid {
	g := mapparse.FromMap(e.Map)
	mapparse.Run(e.Map, mapparse.BlocksMoveCommon, g, mapparse.Overwrite, nil)
	return g
}

func (e *Engine) losBlocked() *mapparse.BoolGrid {
	g := mapparse.FromMap(e.Map)
	mapparse.Run(e.Map, mapparse.BlocksLOS, g, mapparse.Overwrite, nil)
	return g
}

func (e *Engine) canSee(self, other *actor.Actor) bool {
	if !self.Properties.AllowSee() {
		return false
	}
	res := fov.CheckCell(e.Map, self.Pos, other.Pos, e.losBlocked(), e.FOVTable)
	return !res.IsBlockedHard
}

func (e *Engine) player() *actor.Actor {
	for _, a := range e.Table.All() {
		if a.IsPlayer && a.IsAlive() {
			return a
		}
	}
	return nil
}

// TakeTurn runs the monster AI ladder for self, ending its turn via the
// scheduler exactly once.
func (e *Engine) TakeTurn(self *actor.Actor) {
	if !self.IsAlive() {
		e.Scheduler.ActorDidAct(self.ID())
		return
	}

	if e.step1Wait(self) {
		e.Scheduler.ActorDidAct(self.ID())
		return
	}

	e.step2SelectTarget(self)
	e.step3DecaySpellCooldownAndPropagate(self)
	e.step4DetermineSneaking(self)

	steps := []func(*actor.Actor) bool{
		e.step5SpeciesHook,
		e.step6LookToAwareness,
		e.step7MakeRoomForFriend,
		e.step8CastRandomSpell,
		e.step9Attack,
		e.step10FallbackCast,
		e.step11ErraticWander,
		e.step12SimpleStep,
		e.step13PathToPlayer,
		e.step15StepPath,
		e.step16MoveToLeader,
		e.step17MoveToLair,
		e.step18RandomAdjacentStep,
	}

	for _, step := range steps {
		if step(self) {
			e.Scheduler.ActorDidAct(self.ID())
			return
		}
	}
	// Step 19: nothing applied, spend the turn doing nothing.
	e.Scheduler.ActorDidAct(self.ID())
}

// step1Wait: idle, unaware, unallied monsters alternate between acting and
// sleeping by toggling Waiting each turn they'd otherwise skip.
func (e *Engine) step1Wait(self *actor.Actor) bool {
	if self.AwareCounter > 0 || self.LeaderID != 0 && e.Table.Get(self.LeaderID) != nil && e.Table.Get(self.LeaderID).IsPlayer {
		return false
	}
	self.Waiting = !self.Waiting
	return self.Waiting
}

// seenFoes returns every living actor self can see, excluding itself.
func (e *Engine) seenFoes(self *actor.Actor) []*actor.Actor {
	var foes []*actor.Actor
	for _, a := range e.Table.All() {
		if a == self || !a.IsAlive() {
			continue
		}
		if e.canSee(self, a) {
			foes = append(foes, a)
		}
	}
	return foes
}

// step2SelectTarget picks self.TargetID. If confused, the target is chosen
// uniformly among visible actors; otherwise it is the closest seen foe,
// with the player excluded when self is not yet aware of the player.
func (e *Engine) step2SelectTarget(self *actor.Actor) {
	candidates := e.seenFoes(self)
	if self.Properties.Has(property.Confused) {
		if len(candidates) == 0 {
			self.TargetID = 0
			return
		}
		pick := candidates[e.RNG.IndexOf(len(candidates))]
		self.TargetID = pick.ID()
		return
	}

	var filtered []*actor.Actor
	for _, c := range candidates {
		if c.IsPlayer && self.AwareCounter == 0 {
			continue
		}
		filtered = append(filtered, c)
	}

	best := closestAmongTies(e.RNG, self.Pos, filtered)
	if best == nil {
		self.TargetID = 0
		return
	}
	self.TargetID = best.ID()
}

func closestAmongTies(r *rng.RNG, from geometry.Pos, candidates []*actor.Actor) *actor.Actor {
	if len(candidates) == 0 {
		return nil
	}
	best := geometry.KingDist(from, candidates[0].Pos)
	var tied []*actor.Actor
	for _, c := range candidates {
		d := geometry.KingDist(from, c.Pos)
		if d < best {
			best = d
			tied = tied[:0]
			tied = append(tied, c)
		} else if d == best {
			tied = append(tied, c)
		}
	}
	return tied[r.IndexOf(len(tied))]
}

func (e *Engine) step3DecaySpellCooldownAndPropagate(self *actor.Actor) {
	if self.SpellCooldown > 0 {
		self.SpellCooldown--
	}
	if self.AwareCounter > 0 {
		if leader := self.Leader(e.Table); leader != nil {
			leader.AwareCounter = leader.Data.NrTurnsAware
		}
	}
}

func (e *Engine) step4DetermineSneaking(self *actor.Actor) {
	if self.LeaderID != 0 {
		if leader := self.Leader(e.Table); leader != nil && leader.IsPlayer {
			self.IsSneaking = false
			return
		}
	}
	if self.Data.StealthBase <= 0 {
		self.IsSneaking = false
		return
	}
	player := e.player()
	if player == nil {
		self.IsSneaking = true
		return
	}
	self.IsSneaking = !e.canSee(player, self)
}

func (e *Engine) step5SpeciesHook(self *actor.Actor) bool {
	hook, ok := e.SpeciesHooks[self.Data.ID]
	if !ok {
		return false
	}
	return hook(e, self)
}

// step6LookToAwareness: a monster with the look-to-awareness flag may
// become aware of its target via a stealth check when it currently is not.
func (e *Engine) step6LookToAwareness(self *actor.Actor) bool {
	if !self.Data.AIFlags.LooksToBecomeAware || self.AwareCounter > 0 {
		return false
	}
	target := self.Target(e.Table)
	if target == nil {
		return false
	}
	if !e.canSee(self, target) {
		return false
	}
	stealthRoll := e.RNG.Percent()
	stealthDefense := 0
	if target.IsSneaking {
		stealthDefense = target.Data.StealthBase
	}
	if stealthRoll > stealthDefense {
		self.AwareCounter = self.Data.NrTurnsAware
	}
	return false
}

// step7MakeRoomForFriend: if the target is the player and an ally (an actor
// self leads, or self's leader) stands adjacent to self without LOS on the
// player, step to the first free cell, in AllDirs order, no farther from the
// player. Allies that already have LOS on the player are not considered, and
// the chosen cell is not checked for blocking the ally's line.
func (e *Engine) step7MakeRoomForFriend(self *actor.Actor) bool {
	if !self.Data.AIFlags.MakesRoomForFriend {
		return false
	}
	target := self.Target(e.Table)
	if target == nil || !target.IsPlayer {
		return false
	}
	for _, ally := range e.Table.All() {
		if ally == self || !ally.IsAlive() || ally.IsPlayer {
			continue
		}
		if ally.LeaderID != self.ID() && self.LeaderID != ally.ID() {
			continue
		}
		blockedByMe := geometry.KingDist(ally.Pos, self.Pos) == 1 && !e.canSee(ally, target)
		if !blockedByMe {
			continue
		}
		blocked := e.hardBlocked()
		bestDist := geometry.KingDist(self.Pos, target.Pos)
		for _, d := range geometry.AllDirs {
			cand := self.Pos.Add(geometry.Offsets[d])
			if blocked.At(cand) || e.Table.AliveAt(cand) != nil {
				continue
			}
			if geometry.KingDist(cand, target.Pos) <= bestDist {
				self.Pos = cand
				return true
			}
		}
	}
	return false
}

func (e *Engine) step9Attack(self *actor.Actor) bool {
	if !self.Data.AIFlags.Attacks {
		return false
	}
	target := self.Target(e.Table)
	if target == nil || !target.IsAlive() {
		return false
	}
	if geometry.KingDist(self.Pos, target.Pos) != 1 {
		return false
	}
	var data *item.Data
	if weapon := self.Inventory.Wielded(); weapon != nil {
		data = weapon.Data()
	}
	combat.ResolveMelee(e.RNG, self, target, data)
	return true
}

func (e *Engine) step11ErraticWander(self *actor.Actor) bool {
	pct := self.Data.ErraticMovePct
	if self.Properties.Has(property.Frenzied) {
		pct = 0
	}
	if self.LeaderID != 0 {
		pct /= 2
	}
	if self.Properties.Has(property.Confused) {
		pct *= 2
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 95 {
		pct = 95
	}
	if !e.RNG.Fraction(pct, 100) {
		return false
	}
	return e.stepRandomAdjacent(self)
}

func (e *Engine) step12SimpleStep(self *actor.Actor) bool {
	if !self.Data.AIFlags.SimpleSteps || self.Properties.Has(property.Terrified) {
		return false
	}
	target := self.Target(e.Table)
	if target == nil {
		return false
	}
	d := geometry.DirTowards(self.Pos, target.Pos)
	return e.tryStep(self, d)
}

func (e *Engine) step13PathToPlayer(self *actor.Actor) bool {
	if !self.Data.AIFlags.Paths || self.LeaderID != 0 || self.Properties.Has(property.Terrified) {
		return false
	}
	player := e.player()
	if player == nil {
		return false
	}
	blocked := e.hardBlocked()
	path := pathfind.Run(self.Pos, player.Pos, blocked)
	if len(path) == 0 {
		return false
	}
	e.paths[self.ID()] = path
	return e.step14HandleDoor(self) || e.step15StepPath(self)
}

// step14HandleDoor inspects the next cell of a pending path: if it is a
// closed door, try to open (or bash) it instead of stepping this turn.
func (e *Engine) step14HandleDoor(self *actor.Actor) bool {
	path := e.paths[self.ID()]
	if len(path) == 0 {
		return false
	}
	next := self.Pos.Add(geometry.Offsets[path[0]])
	c := e.Map.At(next)
	if c == nil || !c.Rigid.IsDoor() {
		return false
	}
	if c.Rigid.Kind == worldmap.FeatureDoorOpen || c.Rigid.Kind == worldmap.FeatureDoorBroken {
		return false
	}
	if c.Rigid.IsSecret {
		return false
	}
	if !c.Rigid.IsStuck && self.Data.AIFlags.OpensDoors {
		c.Rigid.Kind = worldmap.FeatureDoorOpen
		return true
	}
	if self.Data.AIFlags.BashesDoors && c.Rigid.IsBashable {
		if e.RNG.OneIn(2) {
			c.Rigid.Kind = worldmap.FeatureDoorBroken
		}
		return true
	}
	return true // blocked; turn still consumed by the attempt
}

func (e *Engine) step15StepPath(self *actor.Actor) bool {
	path := e.paths[self.ID()]
	if len(path) == 0 {
		return false
	}
	d := path[0]
	e.paths[self.ID()] = path[1:]
	return e.tryStep(self, d)
}

func (e *Engine) step16MoveToLeader(self *actor.Actor) bool {
	leader := self.Leader(e.Table)
	if leader == nil {
		return false
	}
	if geometry.KingDist(self.Pos, leader.Pos) <= 1 {
		return false
	}
	return e.tryStep(self, geometry.DirTowards(self.Pos, leader.Pos))
}

func (e *Engine) step17MoveToLair(self *actor.Actor) bool {
	if self.Pos.Eq(self.LairCell) {
		return false
	}
	if self.Properties.AllowSee() {
		res := fov.CheckCell(e.Map, self.Pos, self.LairCell, e.losBlocked(), e.FOVTable)
		if !res.IsBlockedHard {
			return e.tryStep(self, geometry.DirTowards(self.Pos, self.LairCell))
		}
	}
	blocked := e.hardBlocked()
	path := pathfind.Run(self.Pos, self.LairCell, blocked)
	if len(path) == 0 {
		return false
	}
	return e.tryStep(self, path[0])
}

func (e *Engine) step18RandomAdjacentStep(self *actor.Actor) bool {
	if !self.Data.AIFlags.Wanders {
		return false
	}
	return e.stepRandomAdjacent(self)
}

func (e *Engine) stepRandomAdjacent(self *actor.Actor) bool {
	dirs := append([]geometry.Dir(nil), geometry.AllDirs...)
	e.RNG.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	for _, d := range dirs {
		if e.tryStep(self, d) {
			return true
		}
	}
	return false
}

func (e *Engine) tryStep(self *actor.Actor, d geometry.Dir) bool {
	if d == geometry.DirCenter || !self.Properties.AllowMove() {
		return false
	}
	next := self.Pos.Add(geometry.Offsets[d])
	c := e.Map.At(next)
	if c == nil || c.Rigid.BlocksMove() {
		return false
	}
	if e.Table.AliveAt(next) != nil {
		return false
	}
	self.Pos = next
	self.LastDirMoved = d
	return true
}
