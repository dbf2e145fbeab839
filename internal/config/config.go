package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Library  LibraryConfig  `toml:"library"`
	Database DatabaseConfig `toml:"database"`
	Snapshot SnapshotConfig `toml:"snapshot"`
	Logging  LoggingConfig  `toml:"logging"`
	Debug    DebugConfig    `toml:"debug"`
}

type EngineConfig struct {
	Name      string        `toml:"name"`
	FrameRate time.Duration `toml:"frame_rate"` // duration of one frame
	Scene     string        `toml:"scene"`      // scene to load at boot, resolved against library.scenes
	StartTime int64         // set at boot, not from config
}

type LibraryConfig struct {
	Components string `toml:"components"` // component schema YAML
	Templates  string `toml:"templates"`  // entity template YAML
	Assets     string `toml:"assets"`     // asset catalog YAML
	Scenes     string `toml:"scenes"`     // directory of scene YAML files
	Scripts    string `toml:"scripts"`    // directory of Lua event-handler scripts
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables Postgres
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type SnapshotConfig struct {
	Enabled   bool   `toml:"enabled"`
	Interval  int    `toml:"interval"` // frames between snapshot checks
	Keep      int    `toml:"keep"`     // snapshots retained per scene (postgres)
	Backend   string `toml:"backend"`  // "postgres" or "local"
	LocalName string `toml:"local_name"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	Profile string `toml:"profile"` // "", "cpu" or "mem"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Engine.StartTime = time.Now().Unix()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Engine.FrameRate <= 0 {
		return fmt.Errorf("engine.frame_rate must be positive, got %s", c.Engine.FrameRate)
	}
	switch c.Snapshot.Backend {
	case "postgres", "local":
	default:
		return fmt.Errorf("snapshot.backend must be postgres or local, got %q", c.Snapshot.Backend)
	}
	if c.Snapshot.Enabled && c.Snapshot.Backend == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("snapshot.backend postgres requires database.dsn")
	}
	if c.Snapshot.Enabled && c.Snapshot.Interval <= 0 {
		return fmt.Errorf("snapshot.interval must be positive, got %d", c.Snapshot.Interval)
	}
	switch c.Debug.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("debug.profile must be cpu or mem, got %q", c.Debug.Profile)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			Name:      "spelld",
			FrameRate: 16 * time.Millisecond,
			Scene:     "main",
		},
		Library: LibraryConfig{
			Components: "library/components.yaml",
			Templates:  "library/templates.yaml",
			Assets:     "library/assets.yaml",
			Scenes:     "library/scenes",
			Scripts:    "library/scripts",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Snapshot: SnapshotConfig{
			Enabled:   true,
			Interval:  600,
			Keep:      5,
			Backend:   "local",
			LocalName: "spelld",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
