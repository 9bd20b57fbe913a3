package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-tracklist/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [source]",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface with the track list, progress bar and spectrum.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.launchTUI(ctx, args)
		},
	}
}

func (app *Application) launchTUI(ctx context.Context, args []string) error {
	s, err := app.newSession(ctx, args)
	if err != nil {
		return err
	}
	defer s.Close()

	// Создаем экземпляр TUI приложения
	tuiApp := tui.NewApp(s.controller, s.player.Ended(), s.player.Analyzer, app.Config.TickInterval)

	if err := tuiApp.Run(); err != nil {
		return fmt.Errorf("ошибка работы TUI: %w", err)
	}
	return nil
}
