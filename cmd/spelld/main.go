package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/config"
	"github.com/spellgo/engine/internal/core/event"
	coresys "github.com/spellgo/engine/internal/core/system"
	"github.com/spellgo/engine/internal/data"
	"github.com/spellgo/engine/internal/persist"
	"github.com/spellgo/engine/internal/scripting"
	"github.com/spellgo/engine/internal/system"
	"github.com/spellgo/engine/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string, frame time.Duration) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              spelld  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       entity / component scene host       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mengine:\033[0m %s \033[90m(frame: %s)\033[0m\n\n", name, frame)
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

// ── Main engine logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/spelld.toml"
	if p := os.Getenv("SPELLD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Engine.StartTime = time.Now().Unix()

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if stop := startProfile(cfg.Debug.Profile); stop != nil {
		defer stop()
	}

	printBanner(cfg.Engine.Name, cfg.Engine.FrameRate)

	// 3. Load library
	printSection("library")
	lib, err := loadLibrary(cfg.Library)
	if err != nil {
		return err
	}
	printStat("component types", len(lib.schemas))
	printStat("entity templates", lib.templates.Count())
	printStat("assets", lib.assets.Count())

	engine, err := scripting.NewEngine(cfg.Library.Scripts, log)
	if err != nil {
		return fmt.Errorf("scripts: %w", err)
	}
	defer engine.Close()
	printStat("lua scripts", len(engine.Names()))
	fmt.Println()

	// 4. Build the world
	printSection("world")
	bus := event.NewBus()
	mgr := world.NewManager(bus, lib.templates, world.ChainAssets{lib.assets, engine}, log)
	for _, s := range lib.schemas {
		if err := mgr.RegisterType(s); err != nil {
			return fmt.Errorf("register component type: %w", err)
		}
	}
	if err := mgr.Init(); err != nil {
		return err
	}
	defer mgr.Destroy()
	engine.Bind(mgr)
	printOK("root entity created")

	// 5. Snapshot storage
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := openSnapshotStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	// 6. Load the scene, preferring the newest snapshot
	scene, err := loadScene(ctx, cfg, store, log)
	if err != nil {
		return err
	}
	if scene != nil {
		ids, err := mgr.CreateEntities(scene.Entities)
		if err != nil {
			return fmt.Errorf("create scene %s: %w", cfg.Engine.Scene, err)
		}
		printStat("scene entities", len(ids))
	}
	fmt.Println()

	// 7. Create systems and register with runner
	runner := coresys.NewRunner()
	var reload *system.TemplateReloadSystem
	if cfg.Library.Templates != "" {
		reload = system.NewTemplateReloadSystem(mgr, lib.templates, cfg.Library.Templates, log)
		runner.Register(reload)
	}
	runner.Register(system.NewEventSystem(mgr, log))
	runner.Register(system.NewCleanupSystem(mgr))

	var snapSys *system.SnapshotSystem
	if store != nil {
		snapSys = system.NewSnapshotSystem(mgr, store, cfg.Engine.Scene, log, cfg.Snapshot.Interval)
		defer snapSys.Close()
		runner.Register(snapSys)
	}

	// 8. Start frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	reloadCh := make(chan os.Signal, 1)
	signal.Notify(reloadCh, syscall.SIGHUP)

	ticker := time.NewTicker(cfg.Engine.FrameRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("frame loop started (frame: %s)", cfg.Engine.FrameRate))
	fmt.Println()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			runner.Tick(now.Sub(last))
			last = now
		case <-reloadCh:
			if reload != nil {
				log.Info("template reload requested")
				reload.Request()
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if snapSys != nil {
				if err := snapSys.SaveNow(); err != nil {
					log.Error("final snapshot failed", zap.Error(err))
				}
			}
			log.Info("engine stopped", zap.Uint64("frames", runner.Frame()))
			return nil
		}
	}
}

type library struct {
	schemas   []component.Schema
	templates *data.TemplateTable
	assets    *data.AssetCatalog
}

// loadLibrary reads the YAML library; an empty path yields an empty table.
func loadLibrary(cfg config.LibraryConfig) (*library, error) {
	lib := &library{assets: data.NewAssetCatalog()}
	var err error
	if cfg.Components != "" {
		if lib.schemas, err = data.LoadComponentSchemas(cfg.Components); err != nil {
			return nil, err
		}
	}
	if cfg.Templates != "" {
		if lib.templates, err = data.LoadTemplateTable(cfg.Templates); err != nil {
			return nil, err
		}
	} else {
		lib.templates = data.NewTemplateTable()
	}
	if cfg.Assets != "" {
		if lib.assets, err = data.LoadAssetCatalog(cfg.Assets); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// openSnapshotStore picks the snapshot backend. It returns a nil store when
// snapshots are disabled.
func openSnapshotStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (system.SnapshotStore, func(), error) {
	if !cfg.Snapshot.Enabled {
		return nil, nil, nil
	}
	if cfg.Snapshot.Backend == "postgres" {
		printSection("database")
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		printOK("PostgreSQL connected")
		if err := persist.RunMigrations(ctx, db.Pool, log); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		return persist.NewSnapshotRepo(db, cfg.Snapshot.Keep), db.Close, nil
	}
	store, err := persist.NewLocalStore(cfg.Snapshot.LocalName, log)
	if err != nil {
		return nil, nil, fmt.Errorf("local snapshot store: %w", err)
	}
	printOK("local snapshot storage ready")
	return store, nil, nil
}

// loadScene returns the newest snapshot of the configured scene, falling back
// to the scene file. A corrupt snapshot is logged and skipped.
func loadScene(ctx context.Context, cfg *config.Config, store system.SnapshotStore, log *zap.Logger) (*data.Scene, error) {
	if cfg.Engine.Scene == "" {
		return nil, nil
	}
	if store != nil {
		scene, err := system.LoadLatestScene(ctx, store, cfg.Engine.Scene)
		var csErr *persist.ChecksumError
		switch {
		case errors.As(err, &csErr):
			log.Warn("ignoring corrupt snapshot", zap.String("scene", csErr.Scene), zap.String("checksum", csErr.Checksum))
		case err != nil:
			return nil, fmt.Errorf("load snapshot: %w", err)
		case scene != nil:
			printOK("scene restored from snapshot")
			return scene, nil
		}
	}
	scene, err := data.LoadScene(cfg.Library.Scenes, cfg.Engine.Scene)
	if err != nil {
		return nil, err
	}
	printOK("scene loaded from library")
	return scene, nil
}

// startProfile starts a pprof profile; the returned func stops it.
func startProfile(mode string) func() {
	var p interface{ Stop() }
	switch mode {
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "mem":
		p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	default:
		return nil
	}
	return p.Stop
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
