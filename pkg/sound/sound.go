// Package sound implements the single sound-emission entry point that ties
// perception to AI: emitting a Snd computes audible distance from its
// volume, delivers it to every eligible actor's awareness counter, and
// optionally queues a message for the player, rate-limited per turn.
package sound

import (
	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/fov"
	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/mapparse"
	"github.com/duskward/core/pkg/worldmap"
)

// Volume names a sound's carrying strength.
type Volume int

const (
	VolumeLow Volume = iota
	VolumeHigh
)

const (
	lowVolumeRadius  = 4
	highVolumeRadius = 24
)

// Snd describes one sound event.
type Snd struct {
	Message               string
	SfxID                 string
	Origin                geometry.Pos
	EmitterID             actor.ID
	Vol                   Volume
	AlertsMonsters        bool
	IgnoreMsgIfOriginSeen bool
	MorePromptOnMessage   bool
}

// MessageLog is the minimal interface the message log collaborator
// implements; sound never depends on the concrete UI type.
type MessageLog interface {
	Add(text string, more bool)
}

// audibleDistance maps a sound's volume to how far (in king-distance cells)
// it can be heard before attenuation makes it inaudible.
func audibleDistance(v Volume) int {
	if v == VolumeHigh {
		return highVolumeRadius
	}
	return lowVolumeRadius
}

// Emitter wires sound events into the actor table, map, and message log.
type Emitter struct {
	Table    *actor.Table
	Map      *worldmap.Map
	Log      MessageLog
	FOVTable *geometry.FOVTable

	MaxMessagesPerTurn int
	emittedThisTurn    int
}

// NewEmitter creates a sound emitter with the spec's default per-turn
// message rate limit.
func NewEmitter(table *actor.Table, m *worldmap.Map, log MessageLog, fovTable *geometry.FOVTable) *Emitter {
	return &Emitter{
		Table:              table,
		Map:                m,
		Log:                log,
		FOVTable:           fovTable,
		MaxMessagesPerTurn: 3,
	}
}

// ResetTurn clears the per-turn message rate-limit counter; the scheduler
// calls this once per turn advance.
func (e *Emitter) ResetTurn() {
	e.emittedThisTurn = 0
}

// Emit routes a sound event to every eligible living actor and, if audible
// to the player, to the message log.
func (e *Emitter) Emit(s Snd) {
	radius := audibleDistance(s.Vol)
	hardBlocked := mapparse.FromMap(e.Map)
	mapparse.Run(e.Map, mapparse.BlocksLOS, hardBlocked, mapparse.Overwrite, nil)

	var player *actor.Actor
	originSeenByPlayer := false

	for _, a := range e.Table.All() {
		if !a.IsAlive() {
			continue
		}
		if geometry.KingDist(a.Pos, s.Origin) > radius {
			continue
		}
		if !e.hears(a, s.Origin, hardBlocked) {
			continue
		}

		if a.IsPlayer {
			player = a
			res := fov.CheckCell(e.Map, a.Pos, s.Origin, hardBlocked, e.FOVTable)
			originSeenByPlayer = !res.IsBlockedHard
			continue
		}

		if s.AlertsMonsters && a.Data != nil && a.Data.AIFlags.IsAlertingMon {
			a.AwareCounter = a.Data.NrTurnsAware
		}
	}

	if player == nil || s.Message == "" || e.Log == nil {
		return
	}
	if s.IgnoreMsgIfOriginSeen && originSeenByPlayer {
		return
	}
	if e.emittedThisTurn >= e.MaxMessagesPerTurn {
		return
	}
	e.emittedThisTurn++
	e.Log.Add(s.Message, s.MorePromptOnMessage)
}

// hears reports whether the actor's ears (LOS-independent, range-gated)
// can pick up a sound at origin. Sound travels through hard-blocked LOS up
// to its audible radius; it is not blocked the way light is, only
// attenuated by distance.
func (e *Emitter) hears(a *actor.Actor, origin geometry.Pos, _ *mapparse.BoolGrid) bool {
	return e.Map.InBounds(a.Pos) && e.Map.InBounds(origin)
}
