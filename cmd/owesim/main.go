package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/owe/sim/internal/config"
	"github.com/owe/sim/internal/core/event"
	coresys "github.com/owe/sim/internal/core/system"
	"github.com/owe/sim/internal/data"
	"github.com/owe/sim/internal/grid"
	"github.com/owe/sim/internal/persist"
	"github.com/owe/sim/internal/scripting"
	"github.com/owe/sim/internal/system"
	"github.com/owe/sim/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(width, height int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m               owesim  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mgrid:\033[0m %dx%d\n\n", width, height)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ──────────────────────────────────────────

func run() error {
	started := time.Now()

	// 1. Load config
	cfgPath := "config/sim.toml"
	if p := os.Getenv("OWE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	sim := cfg.Simulation
	printBanner(sim.Width, sim.Height)

	// 3. Load data
	printSection("Data")
	catalog, err := data.LoadCatalog(cfg.Data.Catalog)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	printStat("templates", catalog.Count())

	scenario, err := data.LoadScenario(cfg.Data.Scenario)
	if err != nil {
		return fmt.Errorf("scenario: %w", err)
	}

	scripts, err := scripting.NewEngine(cfg.Data.ScriptsDir, log.Named("lua"))
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer scripts.Close()
	printOK("effect scripts loaded")

	// 4. Build the world
	dir, err := sim.CursorDirection()
	if err != nil {
		return fmt.Errorf("cursor: %w", err)
	}
	bus := event.NewBus()
	ws, err := world.NewState(world.Options{
		Width:       sim.Width,
		Height:      sim.Height,
		EffectRange: sim.EffectRange,
		Direction:   dir,
		Start:       grid.Position{X: sim.StartX, Y: sim.StartY},
	}, bus, log.Named("world"))
	if err != nil {
		return fmt.Errorf("world: %w", err)
	}
	placed, err := data.Build(ws, catalog, scenario, scripts)
	if err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	printStat("entities placed", placed)
	fmt.Println()

	// 5. Optional sweep journal
	runID := uuid.New()
	if cfg.Database.RunID != "" {
		runID = uuid.MustParse(cfg.Database.RunID) // checked by config.Load
	}
	var sink system.JournalSink
	lastSweep := 0
	if cfg.Database.Enabled {
		printSection("Database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log.Named("db"))
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := db.RunMigrations(ctx); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		repo := persist.NewSweepRepo(db)
		if cfg.Database.RunID != "" {
			if lastSweep, err = repo.LastSweep(ctx, runID); err != nil {
				return fmt.Errorf("resume run %s: %w", runID, err)
			}
			printStat("sweeps already journaled", lastSweep)
		}
		fmt.Println()
		sink = repo
	}

	// 6. Create systems and register with runner
	journal := system.NewJournalSystem(bus, sink, runID, log.Named("journal"))
	journal.ResumeAfter(lastSweep)
	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewSweepSystem(ws, sim.CellsPerTick, log.Named("sweep")))
	runner.Register(journal)

	// 7. Start simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(sim.TickRate)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("run %s", runID))
	printReady(fmt.Sprintf("sweeping %s, %d cells per tick (tick: %s)", dir, sim.CellsPerTick, sim.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(sim.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			// Deliver the last sweeps to the journal, then write them out.
			runner.TickPhase(coresys.PhasePreUpdate, 0)
			journal.Flush()
			log.Info("simulation stopped",
				zap.Int("sweeps", ws.Sweeps()),
				zap.Int("entities", ws.EntityCount()),
				zap.Int("unsaved", journal.Pending()),
				zap.Duration("uptime", time.Since(started).Round(time.Second)),
			)
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
