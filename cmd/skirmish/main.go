// Package main provides the skirmish binary: it loads the content, wires the
// game state machine to a console presentation and ticks it until the scene
// list is exhausted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/content"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/refdata"
	"github.com/cory-johannsen/skirmish/internal/game/scene"
	"github.com/cory-johannsen/skirmish/internal/game/state"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/presentation/console"
	"github.com/cory-johannsen/skirmish/internal/scripting"
	"github.com/cory-johannsen/skirmish/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	title := flag.String("title", "Skirmish", "title shown on the title screen")
	color := flag.Bool("color", true, "emit ANSI colors on the console")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Load content
	contentStart := time.Now()
	refs, err := refdata.Load(cfg.Content.RefDataFile)
	if err != nil {
		logger.Fatal("loading refdata", zap.Error(err))
	}
	store, err := content.LoadDirectory(cfg.Content.ContentDir, refs)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("skills", len(store.Skills())),
		zap.Int("party", len(store.Party())),
		zap.Int("scenes", len(store.Scenes())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	calc := damage.NewCalculator(refs, store.Settings().StatLists, observability.Component(logger, "damage"))
	info := battle.NewInfo(calc, store.Party(), observability.Component(logger, "battle"))

	src := dice.NewCryptoSource()
	var chooser ai.Chooser = ai.NewRandomChooser(src)
	if dir := cfg.Scripting.AIScriptDir; dir != "" {
		mgr := scripting.NewManager(src, observability.Component(logger, "scripting"))
		defer mgr.Close()
		if err := loadAIScripts(mgr, dir, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading AI scripts", zap.Error(err))
		}
		chooser = ai.NewScriptedChooser(mgr, chooser, observability.Component(logger, "ai"))
	}

	con := console.New(os.Stdout, *color, observability.Component(logger, "console"))
	input := console.NewInput(os.Stdin, observability.Component(logger, "input"))

	machine := state.NewMachine(observability.Component(logger, "state"))
	err = machine.Wire(state.Deps{
		Title:      *title,
		Info:       info,
		Chooser:    chooser,
		Scenes:     scene.NewProgression(store.Scenes()),
		Roster:     store,
		LevelUp:    store.LevelUp(),
		WeaponType: store.Settings().WeaponType,
		View:       con.Presentation(input, len(store.Party())),
		Timings: state.Timings{
			Fade:          cfg.Game.FadeDuration,
			SkillName:     cfg.Game.SkillNameDuration,
			Animation:     cfg.Game.AnimationDuration,
			DamageDisplay: cfg.Game.DamageDisplayDuration,
			Outcome:       cfg.Game.OutcomeDuration,
			MonologueLine: cfg.Game.MonologueLineInterval,
		},
	})
	if err != nil {
		logger.Fatal("wiring state machine", zap.Error(err))
	}
	if err := machine.ConfigureForBeginning(); err != nil {
		logger.Fatal("configuring state machine", zap.Error(err))
	}

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("game", server.NewGameLoop(machine, cfg.Game.TickInterval, observability.Component(logger, "loop")))
	// With stdin closed and drained no prompt can ever be answered.
	lifecycle.Add("input", server.NewWatch("stdin", input.Exhausted(), logger))

	logger.Info("game ready", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Error("game stopped", zap.Error(err))
		os.Exit(1)
	}
}

// loadAIScripts loads dir's own *.lua files as the global script set and
// every subdirectory as the set named after it, which is the enemy battler
// name the scripted chooser asks for.
func loadAIScripts(mgr *scripting.Manager, dir string, limit int) error {
	if err := mgr.LoadGlobal(dir, limit); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := mgr.LoadSet(e.Name(), filepath.Join(dir, e.Name()), limit); err != nil {
			return err
		}
	}
	return nil
}
