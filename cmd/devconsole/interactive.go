package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"devconsole/cmd/devconsole/ui"
	"devconsole/internal/config"
	"devconsole/internal/logging"
	"devconsole/internal/playground"
)

// runInteractive starts the playground view with the console overlay and
// the config watcher. Reloaded configs are sent into the program so the
// console only ever changes on the UI loop.
func runInteractive(cmd *cobra.Command, args []string) error {
	s, err := boot()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	model := ui.NewConsoleModel(gctx, s.console, s.cfg, func() string { return hostView(s.game) })
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(gctx),
	)

	watcher, err := config.NewWatcher(s.configPath, func(cfg *config.Config) {
		logging.Configure(cfg.Logging.Settings())
		p.Send(ui.ConfigReloadedMsg{Config: cfg})
	})
	if err != nil {
		return fmt.Errorf("failed to start config watcher: %w", err)
	}

	g.Go(func() error {
		// Quitting the program stops the watcher
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return watcher.Run(gctx)
	})

	return g.Wait()
}

// hostView renders the playground scene shown behind the console.
func hostView(game *playground.Game) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Playground %s\n", game.Scene)
	for _, obj := range game.Scene.Objects() {
		fmt.Fprintf(&sb, "  %s: %v\n", obj.ComponentName(), obj)
	}
	if game.Scene.Len() == 0 {
		fmt.Fprintf(&sb, "  (empty, despawned player: %v)\n", game.Player)
	}
	return sb.String()
}
