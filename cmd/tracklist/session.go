package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/hazadus/go-tracklist/internal/catalog"
	"github.com/hazadus/go-tracklist/internal/config"
	"github.com/hazadus/go-tracklist/internal/persist"
	"github.com/hazadus/go-tracklist/internal/player"
	"github.com/hazadus/go-tracklist/internal/s3"
	"github.com/hazadus/go-tracklist/internal/transport"
	"github.com/hazadus/go-tracklist/internal/utils"
)

// errNoCatalog возвращается, если источник каталога не задан ни аргументом, ни в конфигурации
var errNoCatalog = errors.New("не указан источник каталога: передайте его аргументом или задайте catalog в конфигурации")

// session собирает каталог, плеер, хранилище и контроллер для одного запуска
type session struct {
	catalog    *catalog.Catalog
	player     *player.Player
	snapshots  *persist.Adapter
	controller *transport.Controller
	closers    []io.Closer
	restored   bool // Трек и позиция восстановлены из хранилища
}

// catalogSource выбирает источник каталога: аргумент команды важнее конфигурации
func (app *Application) catalogSource(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return utils.ExpandHome(args[0])
	}
	if app.Config.Catalog == "" {
		return "", errNoCatalog
	}
	return app.Config.Catalog, nil
}

// loadCatalog строит каталог по аргументам команды
func (app *Application) loadCatalog(args []string) (*catalog.Catalog, error) {
	source, err := app.catalogSource(args)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Build(source)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки каталога: %w", err)
	}
	app.Log.Info("каталог загружен", zap.String("source", source), zap.Int("tracks", cat.Len()))
	return cat, nil
}

// openStore открывает хранилище состояния. Второе значение закрывает соединение, если оно есть.
func (app *Application) openStore(ctx context.Context) (persist.Store, io.Closer, error) {
	switch app.Config.StateBackend {
	case config.BackendRedis:
		store, err := persist.NewRedisStore(ctx, persist.RedisConfig{
			Addr:     app.Config.RedisAddr,
			Password: app.Config.RedisPassword,
			DB:       app.Config.RedisDB,
			Prefix:   app.Config.RedisPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return persist.NewFileStore(app.Config.StateFile), nil, nil
	}
}

// s3Config переводит настройки приложения в настройки клиента S3
func (app *Application) s3Config() s3.Config {
	return s3.Config{
		Region:     app.Config.AwsRegion,
		AccessKey:  app.Config.AwsAccessKey,
		SecretKey:  app.Config.AwsSecretKey,
		Endpoint:   app.Config.AwsEndpoint,
		BucketName: app.Config.AwsBucketName,
	}
}

// newSession собирает зависимости сеанса воспроизведения и восстанавливает сохраненную позицию
func (app *Application) newSession(ctx context.Context, args []string) (*session, error) {
	cat, err := app.loadCatalog(args)
	if err != nil {
		return nil, err
	}

	s := &session{catalog: cat}

	sources := player.Sources{}
	if cfg := app.s3Config(); cfg.Configured() {
		client, err := s3.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		sources.S3 = client
	}
	s.player = player.NewPlayer(sources, player.WithLogger(app.Log.Named("player")))
	s.closers = append(s.closers, s.player)

	opts := []transport.Option{
		transport.WithLogger(app.Log.Named("transport")),
		transport.WithContext(ctx),
		transport.WithMode(app.Config.PlaybackMode()),
		transport.WithVolume(app.Config.Volume),
	}

	store, closer, err := app.openStore(ctx)
	if err != nil {
		// Без хранилища плеер работает, но позиция не сохраняется
		app.Log.Warn("хранилище состояния недоступно", zap.Error(err))
		fmt.Printf("⚠️  Состояние не будет сохранено: %v\n", err)
	} else {
		if closer != nil {
			s.closers = append(s.closers, closer)
		}
		s.snapshots = persist.NewAdapter(store, app.Config.StateKey, app.Log.Named("persist"))
		opts = append(opts, transport.WithSnapshots(s.snapshots))
	}

	s.controller = transport.New(cat, s.player, opts...)
	s.restored = s.controller.Restore(ctx)
	if s.restored {
		state := s.controller.State()
		if track, ok := cat.Track(state.CurrentIndex); ok {
			fmt.Printf("⏮️  Продолжаем с трека %d: %s (%s)\n",
				state.CurrentIndex+1, track.Title, utils.FormatTime(state.Position))
		}
	}
	return s, nil
}

// start запускает воспроизведение в начале сеанса. trackNumber считается с 1, 0 - не задан.
// Восстановленный трек остается на паузе до нажатия клавиши.
func (s *session) start(trackNumber int) error {
	var err error
	switch {
	case trackNumber > 0:
		err = s.controller.TogglePlayPause(trackNumber - 1)
	case s.restored:
		return nil
	default:
		err = s.controller.Play()
	}
	// Отказ уже показан наблюдателем, сеанс продолжается
	if err != nil && !transport.IsRejected(err) {
		return err
	}
	return nil
}

// trackLabel подпись трека: "Исполнитель - Название" или только название
func trackLabel(track catalog.Track) string {
	if track.Artist == "" {
		return track.Title
	}
	return track.Artist + " - " + track.Title
}

// Close освобождает ресурсы сеанса в обратном порядке
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i].Close()
	}
}
