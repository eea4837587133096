// Package worldstate wires every core subsystem into a single live session:
// the map, actor table, turn scheduler, sound emitter, AI engine, message
// log and RNG that together make up one in-progress game. It owns no rules
// of its own; it is the assembly point the command-line front end and the
// save/load manager both operate on.
package worldstate

import (
	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/ai"
	"github.com/duskward/core/pkg/config"
	"github.com/duskward/core/pkg/errs"
	"github.com/duskward/core/pkg/gametime"
	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/mapgen"
	"github.com/duskward/core/pkg/rng"
	"github.com/duskward/core/pkg/saveload"
	"github.com/duskward/core/pkg/sound"
	"github.com/duskward/core/pkg/worldmap"
)

// MessageLog is the player-visible scrollback of turn messages.
type MessageLog struct {
	lines   []string
	maxKept int
}

// NewMessageLog creates a log that retains at most maxKept lines.
func NewMessageLog(maxKept int) *MessageLog {
	if maxKept <= 0 {
		maxKept = 500
	}
	return &MessageLog{maxKept: maxKept}
}

// Add appends a message, dropping the oldest line once over capacity. It
// implements sound.MessageLog; more signals a "--more--" prompt should
// follow before the next turn's messages are shown, which front ends using
// this package are free to ignore.
func (l *MessageLog) Add(text string, more bool) {
	l.lines = append(l.lines, text)
	if over := len(l.lines) - l.maxKept; over > 0 {
		l.lines = l.lines[over:]
	}
}

// Lines returns every retained message, oldest first.
func (l *MessageLog) Lines() []string { return l.lines }

// World is one live game session's full mutable state.
type World struct {
	Config   config.Config
	RNG      *rng.RNG
	Seed     uint64
	Map      *worldmap.Map
	Table    *actor.Table
	Sched    *gametime.Scheduler
	Sound    *sound.Emitter
	AI       *ai.Engine
	FOVTable *geometry.FOVTable
	Log      *MessageLog
	Dlvl     int
	Turn     int
}

// NewWorld generates a fresh dungeon level and assembles every subsystem
// around it. cleanup_session's "second game indistinguishable from the
// first" requirement is satisfied because NewWorld never mutates anything
// but its own freshly allocated return value; a caller replacing one World
// with another needs nothing more than letting the old one go out of scope.
func NewWorld(cfg config.Config, seed uint64, dlvl int, params mapgen.Params) (*World, error) {
	r := rng.New(seed)
	w, h := levelDims(cfg)
	result := mapgen.Generate(w, h, params, r)
	if result.Map == nil {
		return nil, errs.GenerationImpossible("map generation returned no map")
	}

	table := actor.NewTable()
	for _, m := range result.Monsters {
		table.Add(m)
	}

	log := NewMessageLog(500)
	fovTable := geometry.BuildFOVTable(fovRadius)
	snd := sound.NewEmitter(table, result.Map, log, fovTable)
	sched := gametime.NewScheduler(table, result.Map, snd)
	engine := ai.NewEngine(table, result.Map, sched, snd, fovTable, r)

	return &World{
		Config:   cfg,
		RNG:      r,
		Seed:     seed,
		Map:      result.Map,
		Table:    table,
		Sched:    sched,
		Sound:    snd,
		AI:       engine,
		FOVTable: fovTable,
		Log:      log,
		Dlvl:     dlvl,
	}, nil
}

// fovRadius bounds the precomputed field-of-view line table; nothing in the
// simulation currently needs sight beyond this range.
const fovRadius = 20

func levelDims(cfg config.Config) (int, int) {
	w, h := cfg.ScreenWidth/16, cfg.ScreenHeight/16
	if w < 40 {
		w = 60
	}
	if h < 25 {
		h = 40
	}
	return w, h
}

// ToSaveState captures the subset of World the save format persists.
func (w *World) ToSaveState() *saveload.State {
	return &saveload.State{
		Table:     w.Table,
		Map:       w.Map,
		Scheduler: w.Sched,
		Turn:      w.Turn,
		Seed:      w.Seed,
	}
}

// FromSaveState rebuilds a World around a loaded save, reattaching the
// subsystems the save format does not itself persist (sound, AI, FOV).
func FromSaveState(cfg config.Config, dlvl int, s *saveload.State) *World {
	log := NewMessageLog(500)
	fovTable := geometry.BuildFOVTable(fovRadius)
	snd := sound.NewEmitter(s.Table, s.Map, log, fovTable)
	s.Scheduler.Sound = snd
	engine := ai.NewEngine(s.Table, s.Map, s.Scheduler, snd, fovTable, rng.New(s.Seed))

	return &World{
		Config:   cfg,
		RNG:      rng.New(s.Seed),
		Seed:     s.Seed,
		Map:      s.Map,
		Table:    s.Table,
		Sched:    s.Scheduler,
		Sound:    snd,
		AI:       engine,
		FOVTable: fovTable,
		Log:      log,
		Dlvl:     dlvl,
		Turn:     s.Turn,
	}
}
