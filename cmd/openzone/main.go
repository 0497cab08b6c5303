// Copyright © 2024 Galvanized Logic Inc.

// Command openzone is the engine's entry point (spec.md §6). Flags are
// parsed with the standard library flag package: no third-party CLI
// library is exercised directly by any example repo's own application
// code (spf13/pflag only appears transitively under viper), so this is
// one ambient concern that stays on the standard library; see
// DESIGN.md's stdlib-justification ledger entry.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/ozcore/openzone/ai"
	"github.com/ozcore/openzone/config"
	"github.com/ozcore/openzone/engine"
	"github.com/ozcore/openzone/world"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		verbose    = flag.Bool("v", false, "verbose logging")
		autoload   = flag.Bool("l", false, "autoload last save")
		mission    = flag.String("i", "", "start given mission")
		layout     = flag.String("e", "", "edit a layout file; a missing file opens an empty world and is not created")
		benchSecs  = flag.Int("t", 0, "benchmark for N seconds with fixed seed 42")
		lang       = flag.String("L", "en", "language subdir name under lingua/")
		prefix     = flag.String("p", ".", "install prefix")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(filepath.Join(*prefix, "config.json"))
	if err != nil {
		slog.Error("load config", "error", err)
		return 1
	}
	cfg.Lingua = *lang

	w, m, err := openWorld(*prefix, *autoload, *mission, *layout, *benchSecs)
	if err != nil {
		slog.Error("open world", "error", err)
		return 1
	}

	pipe := engine.NewPipeline(w, engine.NullScriptHost{})
	w.Objects.Each(func(o *world.Object) {
		if o.Kind == world.KindBot {
			pipe.RegisterMind(ai.NewMind(o.Id))
		}
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if *benchSecs > 0 {
		benchCtx, benchCancel := context.WithTimeout(ctx, time.Duration(*benchSecs)*time.Second)
		defer benchCancel()
		ctx = benchCtx
	}

	if err := pipe.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("pipeline run", "error", err)
		return 1
	}

	if err := saveState(*prefix, w, m, pipe); err != nil {
		slog.Error("save state", "error", err)
		return 1
	}
	if err := config.Save(filepath.Join(*prefix, "config.json"), cfg); err != nil {
		slog.Error("save config", "error", err)
		return 1
	}
	return 0
}

func openWorld(prefix string, autoload bool, mission, layout string, benchSecs int) (*world.World, *engine.Mission, error) {
	classes, err := loadClasses(prefix)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case benchSecs > 0:
		return benchWorld(classes), &engine.Mission{Name: "benchmark", Seed: 42}, nil
	case autoload:
		f, err := os.Open(filepath.Join(prefix, "saves", "last.sav"))
		if err != nil {
			return nil, nil, fmt.Errorf("open last save: %w", err)
		}
		defer f.Close()
		w, m, _, err := engine.Load(f, classes)
		return w, m, err
	case mission != "":
		f, err := os.Open(filepath.Join(prefix, "missions", mission+".yaml"))
		if err != nil {
			return nil, nil, fmt.Errorf("open mission %s: %w", mission, err)
		}
		defer f.Close()
		return engine.LoadMission(f, classes, 1.0)
	case layout != "":
		path := filepath.Join(prefix, "missions", layout+".yaml")
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			return world.New(classes, 1, 1.0), &engine.Mission{Name: layout}, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("open layout %s: %w", layout, err)
		}
		defer f.Close()
		return engine.LoadMission(f, classes, 1.0)
	default:
		return nil, nil, fmt.Errorf("no mission specified: pass -l, -i <mission> or -e <layout>")
	}
}

// benchWorld builds a deterministic, scriptless world for -t's fixed-seed
// benchmark run (spec.md §6: "benchmark for N seconds with fixed seed 42").
func benchWorld(classes *world.ClassBook) *world.World {
	return world.New(classes, 42, 1.0)
}

func loadClasses(prefix string) (*world.ClassBook, error) {
	f, err := os.Open(filepath.Join(prefix, "assets", "classes.yaml"))
	if err != nil {
		return nil, fmt.Errorf("open class book: %w", err)
	}
	defer f.Close()
	return world.LoadClassBook(f)
}

func saveState(prefix string, w *world.World, m *engine.Mission, pipe *engine.Pipeline) error {
	dir := filepath.Join(prefix, "saves")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir saves: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "last.sav"))
	if err != nil {
		return fmt.Errorf("create save file: %w", err)
	}
	defer f.Close()
	return engine.Save(f, w, m, engine.SaveState{Camera: pipe.Frame().Camera})
}
