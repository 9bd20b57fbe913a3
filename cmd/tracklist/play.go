package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/hazadus/go-tracklist/internal/keymap"
	"github.com/hazadus/go-tracklist/internal/transport"
	"github.com/hazadus/go-tracklist/internal/view"
)

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	var trackNumber int

	cmd := &cobra.Command{
		Use:   "play [source]",
		Short: "Play the catalog in the console",
		Long: `Play tracks from an HTML page, a YAML library or a directory in the console.
Space toggles playback, arrows switch tracks, digits seek, q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.playSession(ctx, args, trackNumber)
		},
	}
	cmd.Flags().IntVarP(&trackNumber, "track", "t", 0, "номер трека, с которого начать (с 1)")
	return cmd
}

func (app *Application) playSession(ctx context.Context, args []string, trackNumber int) error {
	s, err := app.newSession(ctx, args)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.catalog.Empty() {
		fmt.Println("📚 Каталог пуст. Воспроизводить нечего.")
		return nil
	}

	ctrl := s.controller
	ctrl.Subscribe(func(e transport.Event) {
		switch e.Kind {
		case transport.EventSelected:
			if track, ok := s.catalog.Track(e.State.CurrentIndex); ok {
				fmt.Printf("\r\x1b[K🎵 %d. %s\r\n", e.State.CurrentIndex+1, trackLabel(track))
			}
		case transport.EventRejected:
			fmt.Printf("\r\x1b[K⚠️  %v\r\n", e.Err)
		}
	})

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("ошибка перевода терминала в raw режим: %w", err)
		}
		defer func() { _ = term.Restore(fd, oldState) }()
	}

	fmt.Print("⌨️  Пробел: старт/пауза • ←/→: пред./след. • [/]: ±5с • 0-9: позиция • +/-: громкость • m: режим • q: выход\r\n")

	if err := s.start(trackNumber); err != nil {
		return err
	}
	if s.restored && trackNumber == 0 {
		fmt.Print("⏸  Нажмите пробел, чтобы продолжить\r\n")
	}

	keys := make(chan string)
	go readKeys(ctx, keys)

	ticker := time.NewTicker(app.Config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Print("\r\n")
			return nil

		case <-s.player.Ended():
			if err := ctrl.HandleEnded(); err != nil {
				app.Log.Warn("не удалось продолжить воспроизведение", zap.Error(err))
			}

		case <-ticker.C:
			ctrl.Tick()
			fmt.Printf("\r\x1b[K%s", view.StatusLine(view.Render(ctrl.State(), s.catalog)))

		case key, ok := <-keys:
			if !ok {
				// stdin закрыт: продолжаем играть до сигнала
				keys = nil
				continue
			}
			action, err := keymap.Handle(ctrl, key, false, ctrl.State().Volume)
			if action == keymap.Quit {
				fmt.Print("\r\n👋 До встречи!\r\n")
				return nil
			}
			if err != nil && !transport.IsRejected(err) {
				app.Log.Warn("ошибка обработки клавиши", zap.String("key", key), zap.Error(err))
			}
		}
	}
}

// readKeys читает нажатия клавиш из stdin и закрывает канал при ошибке чтения
func readKeys(ctx context.Context, keys chan<- string) {
	defer close(keys)

	buf := make([]byte, 8)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		key := keymap.FromBytes(buf[:n])
		if key == "" {
			continue
		}
		select {
		case keys <- key:
		case <-ctx.Done():
			return
		}
	}
}
