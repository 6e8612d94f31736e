package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Defaults applied when neither the config file nor a flag sets a value.
const (
	DefaultTimeLimit       = 10 * time.Second
	DefaultSniperTimeLimit = 2 * time.Second
	DefaultLogLevel        = "info"
	DefaultMode            = "review"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Drill DrillConfig `toml:"drill"`
	Log   LogConfig   `toml:"log"`
	LLM   LLMConfig   `toml:"llm"`
}

// DrillConfig maps drill-related settings. Pointers distinguish unset from zero.
type DrillConfig struct {
	TimeLimit *string `toml:"time-limit"`
	Deck      *string `toml:"deck"`
	Mode      *string `toml:"mode"`
	Catalog   *string `toml:"catalog"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LLMConfig maps the explanation provider settings.
type LLMConfig struct {
	Provider *string `toml:"provider"`
	Model    *string `toml:"model"`
	Timeout  *string `toml:"timeout"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undec[0].String())
	}
	return cfg, nil
}

// LoadEnv loads .env files into the process environment. Variables that are
// already set win. Missing files are skipped.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Settings are the resolved values the program runs with.
type Settings struct {
	TimeLimit   time.Duration
	Deck        string
	Mode        string
	Catalog     string
	LogLevel    string
	LogFile     string
	LLMProvider string
	LLMModel    string
	LLMTimeout  time.Duration
}

// Resolve applies defaults to the file config and validates durations.
// Explicit zero time-limit disables the answer timer.
func (c FileConfig) Resolve() (Settings, error) {
	s := Settings{
		Mode:     DefaultMode,
		LogLevel: DefaultLogLevel,
	}
	if c.Drill.Mode != nil {
		s.Mode = *c.Drill.Mode
	}
	switch s.Mode {
	case "review", "sniper", "parse":
	default:
		return Settings{}, fmt.Errorf("drill.mode %q: want review, sniper or parse", s.Mode)
	}

	s.TimeLimit = DefaultTimeLimit
	if s.Mode == "sniper" {
		s.TimeLimit = DefaultSniperTimeLimit
	}
	if c.Drill.TimeLimit != nil {
		d, err := time.ParseDuration(*c.Drill.TimeLimit)
		if err != nil {
			return Settings{}, fmt.Errorf("drill.time-limit: %w", err)
		}
		if d < 0 {
			return Settings{}, fmt.Errorf("drill.time-limit must not be negative")
		}
		s.TimeLimit = d
	}

	s.Deck = deref(c.Drill.Deck)
	s.Catalog = deref(c.Drill.Catalog)
	if c.Log.Level != nil {
		s.LogLevel = *c.Log.Level
	}
	s.LogFile = deref(c.Log.File)
	s.LLMProvider = deref(c.LLM.Provider)
	s.LLMModel = deref(c.LLM.Model)
	if c.LLM.Timeout != nil {
		d, err := time.ParseDuration(*c.LLM.Timeout)
		if err != nil {
			return Settings{}, fmt.Errorf("llm.timeout: %w", err)
		}
		s.LLMTimeout = d
	}
	return s, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
