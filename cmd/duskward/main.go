// Command duskward runs the simulation core as a headless session: it
// generates (or loads) a level, drives the turn scheduler, and exits 0 on a
// clean quit. There is no ebiten render loop here — nothing in this module
// owns a display; a front end embeds pkg/worldstate instead.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/ncruces/zenity"
	"github.com/sirupsen/logrus"

	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/config"
	"github.com/duskward/core/pkg/errs"
	"github.com/duskward/core/pkg/logging"
	"github.com/duskward/core/pkg/mapgen"
	"github.com/duskward/core/pkg/saveload"
	"github.com/duskward/core/pkg/themes"
	"github.com/duskward/core/pkg/worldstate"
)

func main() {
	os.Exit(run())
}

func run() int {
	seed := flag.Uint64("seed", 0, "dungeon generation seed; 0 picks a fixed default seed")
	bot := flag.Bool("bot", false, "drive every actor, including the player, via the AI engine")
	configPath := flag.String("config", "duskward.cfg", "path to a flat key=value configuration file")
	saveDir := flag.String("savedir", "saves", "directory holding save files")
	loadName := flag.String("load", "", "load a named save instead of starting a fresh level")
	turns := flag.Int("turns", 0, "in --bot mode, stop after this many scheduler ticks (0 = run until the player dies)")
	flag.Parse()

	logger := logging.NewFromEnv()
	log := logging.SystemLogger(logger, "main")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(logger, err)
		return 1
	}

	mgr, err := saveload.NewManager(*saveDir, logger)
	if err != nil {
		fatal(logger, err)
		return 1
	}

	resolvedSeed := *seed
	if resolvedSeed == 0 {
		resolvedSeed = 1
	}

	w, err := loadOrCreate(cfg, mgr, *loadName, resolvedSeed, log)
	if err != nil {
		fatal(logger, err)
		return 1
	}

	log.WithField("seed", resolvedSeed).Info("session started")

	if *bot {
		runBot(w, *turns)
	} else {
		runInteractive(w)
	}

	if err := mgr.Save("autosave", w.ToSaveState()); err != nil {
		log.WithField("error", err).Warn("autosave failed")
	}

	return 0
}

func loadOrCreate(cfg config.Config, mgr *saveload.Manager, loadName string, seed uint64, log *logrus.Entry) (*worldstate.World, error) {
	if loadName == "" {
		return newWorld(cfg, seed)
	}
	state, err := mgr.Load(loadName)
	if errs.Is(err, errs.CodeSaveCorrupt) {
		log.WithField("name", loadName).WithField("error", err).Warn("corrupt save, starting a fresh level instead")
		return newWorld(cfg, seed)
	}
	if err != nil {
		return nil, err
	}
	if state == nil {
		log.WithField("name", loadName).Warn("no such save, starting a fresh level instead")
		return newWorld(cfg, seed)
	}
	return worldstate.FromSaveState(cfg, 1, state), nil
}

func newWorld(cfg config.Config, seed uint64) (*worldstate.World, error) {
	loader := themes.NewLoader(config.AssetDir("data/themes"))
	params := mapgen.DefaultParams(1, loader)
	return worldstate.NewWorld(cfg, seed, 1, params)
}

// runBot drives every living actor, including the player, through the AI
// engine for a bounded or unbounded number of scheduler ticks. This is the
// deterministic headless mode used for regression and balance testing.
func runBot(w *worldstate.World, maxTicks int) {
	ticked := 0
	for {
		player := findPlayer(w.Table)
		if player == nil || !player.IsAlive() {
			return
		}
		current := w.Table.Get(w.Sched.Current())
		if current != nil && current.IsAlive() {
			w.AI.TakeTurn(current)
		} else {
			w.Sched.Tick()
		}
		w.Turn = w.Sched.TurnCount()
		ticked++
		if maxTicks > 0 && ticked >= maxTicks {
			return
		}
	}
}

func findPlayer(t *actor.Table) *actor.Actor {
	for _, a := range t.All() {
		if a.IsPlayer {
			return a
		}
	}
	return nil
}

// runInteractive is a minimal line-oriented command loop: a real front end
// replaces this with its own input/render layer built on the same
// worldstate.World.
func runInteractive(w *worldstate.World) {
	fmt.Println("duskward: type a command, or 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		if scanner.Text() == "quit" {
			return
		}
		for _, msg := range w.Log.Lines() {
			fmt.Println(msg)
		}
	}
}

// fatal shows a native error dialog for asset-missing failures (the one
// fatal-at-startup class per the error taxonomy) and logs every other kind.
func fatal(logger *logrus.Logger, err error) {
	if errs.Is(err, errs.CodeAssetMissing) {
		_ = zenity.Error(err.Error(), zenity.Title("duskward: missing asset"))
	}
	logger.WithField("error", err).Error("fatal startup error")
}
