package main

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-tracklist/internal/persist"
	"github.com/hazadus/go-tracklist/internal/utils"
)

// createStateCommand создает команду state с подкомандами show и reset
func (app *Application) createStateCommand(ctx context.Context) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the saved playback position",
	}

	stateCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved track and position",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.showState(ctx)
		},
	})

	stateCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget the saved track and position",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.resetState(ctx)
		},
	})

	return stateCmd
}

// openSnapshots открывает адаптер состояния; close закрывает соединение с хранилищем
func (app *Application) openSnapshots(ctx context.Context) (*persist.Adapter, func(), error) {
	store, closer, err := app.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if closer != nil {
			_ = closer.Close()
		}
	}
	return persist.NewAdapter(store, app.Config.StateKey, app.Log.Named("persist")), closeStore, nil
}

func (app *Application) showState(ctx context.Context) error {
	snapshots, closeStore, err := app.openSnapshots(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	raw, ok, err := snapshots.Raw(ctx)
	if err != nil {
		return fmt.Errorf("ошибка чтения состояния: %w", err)
	}
	if !ok {
		fmt.Println("💾 Сохраненного состояния нет.")
		return nil
	}

	fmt.Printf("💾 Хранилище: %s, ключ: %s\n", app.Config.StateBackend, app.Config.StateKey)
	fmt.Printf("   Запись: %s\n", raw)

	// Длина каталога здесь неизвестна, проверяется только формат записи
	snap, ok := snapshots.Restore(ctx, math.MaxInt)
	if !ok {
		fmt.Println("⚠️  Запись повреждена и будет проигнорирована при запуске.")
		return nil
	}
	fmt.Printf("   Трек: %d\n", snap.TrackIndex+1)
	fmt.Printf("   Позиция: %s\n", utils.FormatTime(snap.Position))
	return nil
}

func (app *Application) resetState(ctx context.Context) error {
	snapshots, closeStore, err := app.openSnapshots(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := snapshots.Clear(ctx); err != nil {
		return fmt.Errorf("ошибка удаления состояния: %w", err)
	}
	fmt.Println("✅ Сохраненное состояние удалено.")
	return nil
}
