package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-tracklist/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [source]",
		Short: "List all tracks from the catalog",
		Long:  `Display the tracks of an HTML page, a YAML library or a directory in playback order.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.listTracks(args)
		},
	}
}

func (app *Application) listTracks(args []string) error {
	cat, err := app.loadCatalog(args)
	if err != nil {
		return err
	}

	if cat.Empty() {
		fmt.Println("📚 Каталог пуст. Добавьте треки с помощью команды 'add'.")
		return nil
	}

	fmt.Printf("📚 Найдено треков: %d\n", cat.Len())
	fmt.Printf("📂 Источник: %s\n\n", cat.Source())

	// Выводим заголовок таблицы
	fmt.Printf("%-4s %-30s %-30s %s\n", "№", "Исполнитель", "Название", "Адрес")
	fmt.Println(strings.Repeat("-", 100))

	for i, track := range cat.Tracks() {
		locator, _ := cat.Resolve(i)
		fmt.Printf("%-4d %-30s %-30s %s\n",
			i+1,
			utils.TruncateString(track.Artist, 28),
			utils.TruncateString(track.Title, 28),
			locator)
	}

	fmt.Println()
	fmt.Println("💡 Используйте 'tracklist play --track [№]' для воспроизведения трека")
	return nil
}
