package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"userdash/internal/eventbus"
	"userdash/internal/profile"
	"userdash/internal/query"
	"userdash/internal/search"
	"userdash/internal/ui"
	"userdash/internal/users"
)

// rootOptions holds the global flags
type rootOptions struct {
	configPath string
	query      string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "userdash",
		Short: "Browse, search and page through users in the terminal",
		Long: `userdash is a terminal dashboard for the random-user directory.

Run without a subcommand to open the dashboard. Sign in with the demo account,
then page through users, search by name and edit your profile.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: ~/.config/userdash/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.query, "query", "", `Initial query, e.g. "page=2&search=doe"`)
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newUsersCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newLoginCmd(opts))
	rootCmd.AddCommand(newLogoutCmd(opts))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// runDashboard opens the TUI
func runDashboard(cmd *cobra.Command, opts *rootOptions) error {
	a, err := newApp(opts, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	cfg, logger := a.cfg, a.logger
	initial := query.Parse(opts.query, cfg.UI.PageSize)
	store := query.NewMemoryStore(initial, cfg.UI.PageSize,
		query.WithBus(a.bus), query.WithLogger(logger))
	synchronizer := search.New(store,
		search.WithDelay(cfg.UI.Debounce.Std()), search.WithLogger(logger))
	defer synchronizer.Close()

	loader := users.NewLoader(a.client, cfg.API.Seed, a.bus)
	profileSvc := profile.NewService(a.auth, profile.WithBus(a.bus), profile.WithLogger(logger))

	model := ui.NewModel(ctx, ui.Deps{
		Config:        cfg,
		ConfigService: a.configSvc,
		Bus:           a.bus,
		Store:         store,
		Search:        synchronizer,
		Loader:        loader,
		Auth:          a.auth,
		Profile:       profileSvc,
		Logger:        logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(p)

	// Bus handlers run on the dispatcher goroutine; hand events to the
	// program through a channel so a slow render never blocks the bus.
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			logger.Warn("event channel full, dropping event", zap.String("type", string(e.Type())))
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventQueryChanged,
		eventbus.EventThemeChanged,
		eventbus.EventLoggedOut,
		eventbus.EventError,
	} {
		defer a.bus.Subscribe(t, forward)()
	}
	defer a.bus.Subscribe(eventbus.EventConfigChanged, func(e eventbus.DomainEvent) {
		logger.Info("config saved", zap.String("path", a.configSvc.Path()))
	})()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case e := <-eventChan:
				p.Send(ui.EventMsg{Event: e})
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	logger.Info("starting dashboard", zap.Stringer("query", initial.Key()))
	_, err = p.Run()
	cancel()
	<-done
	if err != nil {
		logger.Error("dashboard exited with error", zap.Error(err))
		return fmt.Errorf("error running dashboard: %w", err)
	}
	logger.Info("dashboard exited normally")
	return nil
}

// commandContext returns a context cancelled on SIGINT/SIGTERM
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}
