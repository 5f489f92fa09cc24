package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifesys/internal/ai"
	"github.com/sandeepkv93/lifesys/internal/config"
	"github.com/sandeepkv93/lifesys/internal/scheduler"
	"github.com/sandeepkv93/lifesys/internal/state"
	"github.com/sandeepkv93/lifesys/internal/storage"
	"github.com/sandeepkv93/lifesys/internal/update"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lifesys failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "lifesys",
		Short:         "Terminal life dashboard: tasks by domain, health, skills and downtime",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $LIFESYS_CONFIG)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "tui",
		Short: "Run the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), configPath)
		},
	})
	rootCmd.AddCommand(taskCmd(&configPath))
	rootCmd.AddCommand(suggestCmd(&configPath))
	rootCmd.AddCommand(reflectCmd(&configPath))
	rootCmd.AddCommand(healthCmd(&configPath))
	rootCmd.AddCommand(skillCmd(&configPath))
	rootCmd.AddCommand(stateCmd(&configPath))
	rootCmd.AddCommand(nameCmd(&configPath))
	return rootCmd
}

// app is everything a command needs, opened from one resolved config.
type app struct {
	cfg      config.RuntimeConfig
	log      *slog.Logger
	store    storage.DocumentStore
	repo     *storage.StateRepository
	state    *state.Container
	outcome  storage.LoadOutcome
	ai       *ai.Client
	closeLog func() error
}

func openApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := openLogger(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.StoreBackend, cfg.DataDir)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open store: %w", err)
	}
	repo := storage.NewStateRepository(store, cfg.StateKey)
	container, outcome, err := state.Open(ctx, repo, state.DefaultEnv(), log)
	if err != nil {
		_ = store.Close()
		_ = closeLog()
		return nil, err
	}

	gen := ai.NewGemini(cfg.APIKey, ai.WithModel(cfg.Model), ai.WithBaseURL(cfg.APIBaseURL))
	log.Info("lifesys started", "store", cfg.StoreBackend, "data_dir", cfg.DataDir, "ai", gen.Available(), "model", gen.Model(), "load", outcome)

	return &app{
		cfg:      cfg,
		log:      log,
		store:    store,
		repo:     repo,
		state:    container,
		outcome:  outcome,
		ai:       ai.NewClient(gen, log, cfg.AITimeout),
		closeLog: closeLog,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("close store failed", "err", err)
	}
	_ = a.closeLog()
}

// openLogger writes to a file because the TUI owns stdout.
func openLogger(cfg config.RuntimeConfig) (*slog.Logger, func() error, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return log, f.Close, nil
}

func runTUI(ctx context.Context, configPath string) error {
	a, err := openApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	engine := scheduler.NewEngine(a.cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	m := update.NewModel(update.Options{
		Store:       a.state,
		AI:          a.ai,
		Scheduler:   engine,
		Notifier:    update.ExecDesktopNotifier{},
		Config:      a.cfg,
		LoadOutcome: a.outcome,
		Logger:      a.log,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	if dropped := engine.Dropped(); dropped > 0 {
		a.log.Warn("alarms dropped", "count", dropped)
	}
	return nil
}
