package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/config"
	"github.com/abhisek/patterndrill/internal/explain"
	"github.com/abhisek/patterndrill/internal/llm"
	"github.com/abhisek/patterndrill/internal/logging"
	"github.com/abhisek/patterndrill/internal/progression"
	"github.com/abhisek/patterndrill/internal/store"
)

// env is everything a command needs, opened once per invocation.
type env struct {
	settings config.Settings
	logger   *slog.Logger
	store    *store.Store
	catalog  *catalog.Catalog
	closers  []io.Closer
}

// loadSettings reads .env files and the TOML config, then applies command
// flags on top so they win over the file.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	if err := config.LoadEnv(".env", config.DefaultEnvPath()); err != nil {
		return config.Settings{}, err
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fc, err := config.LoadConfig(path)
	if err != nil {
		return config.Settings{}, err
	}

	override := func(flag string, dst **string) {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			v := f.Value.String()
			*dst = &v
		}
	}
	override("catalog", &fc.Drill.Catalog)
	override("log-level", &fc.Log.Level)
	override("deck", &fc.Drill.Deck)
	override("mode", &fc.Drill.Mode)
	override("time-limit", &fc.Drill.TimeLimit)

	return fc.Resolve()
}

// openEnv resolves settings, sets up logging and opens the store and catalog.
// The TUI logs to a file so log lines do not tear the screen.
func openEnv(cmd *cobra.Command, tui bool) (*env, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	e := &env{settings: settings}

	var w io.Writer = cmd.ErrOrStderr()
	if tui {
		f, err := openLogFile(settings.LogFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		e.closers = append(e.closers, f)
		w = f
	}
	e.logger = logging.Setup(settings.LogLevel, w)

	if settings.Catalog != "" {
		e.catalog, err = catalog.Load(settings.Catalog)
	} else {
		e.catalog, err = catalog.Default()
	}
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	e.store, err = store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.closers = append(e.closers, e.store)
	e.logger.Debug("environment ready", "db", dbPath, "catalog_version", e.catalog.Version,
		"stimuli", len(e.catalog.Stimuli()))
	return e, nil
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "patterndrill.log")
	}
	if err := store.EnsureDir(path); err != nil {
		return nil, err
	}
	return logging.OpenFile(path)
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i].Close()
	}
}

func (e *env) engine() *progression.Engine {
	return progression.NewEngine(e.catalog, e.store.ProgressionStore(), e.logger)
}

// provider builds the configured LLM provider. The second result is false
// when no API key or provider is configured.
func (e *env) provider(ctx context.Context) (llm.Provider, bool, error) {
	cfg, found := llm.ConfigFromEnv()
	if e.settings.LLMProvider != "" && e.settings.LLMProvider != cfg.Provider {
		cfg, found = cfg.WithProvider(e.settings.LLMProvider), true
	}
	if !found {
		return nil, false, nil
	}
	if e.settings.LLMModel != "" && cfg.Backend.Model == "" {
		cfg.Backend.Model = e.settings.LLMModel
	}
	if e.settings.LLMTimeout > 0 {
		cfg.Timeout = e.settings.LLMTimeout
	}
	p, err := llm.New(ctx, cfg, e.store.EventRepo(), e.logger)
	if err != nil {
		return nil, true, err
	}
	return p, true, nil
}

// explainer returns the explanation service, or nil when explanations are
// off. A misconfigured provider is logged and treated as off.
func (e *env) explainer(ctx context.Context) *explain.Service {
	p, found, err := e.provider(ctx)
	if err != nil {
		e.logger.Warn("LLM provider not configured, explanations are off", "err", err)
		return nil
	}
	if !found {
		e.logger.Info("no LLM API key set, explanations are off")
		return nil
	}
	return explain.New(p, e.logger)
}
