package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-tracklist/internal/config"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "tracklist",
		Short:         "A terminal playlist player",
		Long:          `Play a list of tracks from an HTML page, a YAML library or a directory of mp3 files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			loaded, err := newApplication(configPath)
			if err != nil {
				return err
			}
			*app = *loaded
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = app.Log.Sync()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "путь к файлу конфигурации")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createTUICommand(ctx))
	rootCmd.AddCommand(app.createListCommand())
	rootCmd.AddCommand(app.createStateCommand(ctx))
	rootCmd.AddCommand(app.createAddCommand(ctx))

	return rootCmd
}
