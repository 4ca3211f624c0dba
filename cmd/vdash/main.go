// Package main is the entry point for vdash, the vault log dashboard.
// It loads configuration, starts following the logs and runs the Bubble Tea
// program.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vault-dashboard-tui/internal/app"
	"github.com/j-veylop/vault-dashboard-tui/internal/config"
	"github.com/j-veylop/vault-dashboard-tui/internal/logger"
	"github.com/j-veylop/vault-dashboard-tui/internal/prefs"
	"github.com/j-veylop/vault-dashboard-tui/internal/services"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/tabs/debug"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/tabs/sources"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/tabs/timelines"
	"github.com/j-veylop/vault-dashboard-tui/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage()
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, config.ErrNoLogfiles) {
			fmt.Fprintln(os.Stderr, "Run 'vdash --help' for usage.")
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCloser, err := logger.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	logger.Info("Starting vdash", "version", version.GetVersion(), "files", cfg.Files)

	p, err := prefs.Load(cfg.PrefsPath)
	if err != nil {
		logger.Warn("Failed to load preferences, using defaults", "path", cfg.PrefsPath, "error", err)
		p = prefs.Default()
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	if addr := mgr.MetricsAddr(); addr != "" {
		logger.Info("Serving metrics", "addr", addr)
	}

	opts := app.Options{
		TickInterval: cfg.TickInterval,
		PrefsPath:    cfg.PrefsPath,
		Prefs:        p,
	}
	if cfg.DebugDashboard {
		tab := app.TabDebug
		opts.InitialTab = &tab
	}

	var (
		starts  timelines.StartHistory
		journal debug.Journal
	)
	if mgr.HasJournal() {
		starts, journal = mgr, mgr
	}

	model := app.NewModel(mgr, opts)
	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state),
		sources.New(state),
		timelines.New(state, starts),
		debug.New(state, cfg, journal),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	program := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		if _, ok := <-sigChan; ok {
			program.Send(tea.Quit())
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func printUsage() {
	fmt.Printf(`vdash - dashboard for vault node logs

Usage:
  vdash [flags] <logfile> [logfile...]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information
%s
Keyboard Shortcuts:
  1-4             Switch tabs (Dashboard, Sources, Timelines, Debug)
  Tab/Shift+Tab   Navigate between tabs
  n/p             Focus next/previous log
  i/o             Zoom timelines in/out
  Enter           Focus the selected log (Sources)
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  Every flag can be set through a VDASH_ variable, for example
  VDASH_LOGFILES (comma separated), VDASH_TIMELINE_STEPS, VDASH_METRICS_ADDR.
  Variables are also read from a .env file in the current directory or
  ~/.config/vdash/.env.
`, config.Usage())
}
