package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazadus/go-tracklist/internal/data"
	"github.com/hazadus/go-tracklist/internal/metadata"
	"github.com/hazadus/go-tracklist/internal/s3"
	"github.com/hazadus/go-tracklist/internal/utils"
)

// addOptions параметры команды add
type addOptions struct {
	title  string
	artist string
	upload bool
}

// createAddCommand создает команду add с привязкой к экземпляру приложения
func (app *Application) createAddCommand(ctx context.Context) *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add [file path]",
		Short: "Add an mp3 file to the YAML library",
		Long: `Add an mp3 file to the YAML library. Artist and title are read from the file tags.
With --upload the file is stored in S3 and the library keeps its s3:// address.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Создаем контекст с таймаутом для загрузки (10 минут)
			addCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()
			return app.addTrack(addCtx, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.title, "title", "", "название трека вместо тега")
	cmd.Flags().StringVar(&opts.artist, "artist", "", "исполнитель вместо тега")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "загрузить файл в S3")
	return cmd
}

func (app *Application) addTrack(ctx context.Context, filePath string, opts addOptions) error {
	path, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("ошибка определения пути: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("файл не найден: %w", err)
	}

	extractor := metadata.NewExtractor()
	tags := extractor.ReadFile(path)
	track := data.LibraryTrack{
		Title:  tags.Title,
		Artist: tags.Artist,
		URL:    path,
	}
	if duration, err := extractor.Duration(path); err == nil {
		track.Length = int(duration.Seconds())
	} else {
		app.Log.Debug("длительность не определена", zap.String("path", path), zap.Error(err))
	}
	if opts.title != "" {
		track.Title = opts.title
	}
	if opts.artist != "" {
		track.Artist = opts.artist
	}

	if opts.upload {
		locator, err := app.uploadToS3(ctx, path)
		if err != nil {
			return err
		}
		track.URL = locator
	}

	library, err := data.LoadLibrary(app.Config.LibraryFile)
	if err != nil {
		return err
	}
	library.AddTrack(track)
	if err := library.Save(app.Config.LibraryFile); err != nil {
		return err
	}

	app.Log.Info("трек добавлен в библиотеку",
		zap.String("title", track.Title),
		zap.String("url", track.URL),
		zap.String("library", app.Config.LibraryFile))

	fmt.Printf("✅ Трек добавлен в библиотеку: %s - %s\n", track.Artist, track.Title)
	fmt.Printf("   Адрес: %s\n", track.URL)
	if track.Length > 0 {
		fmt.Printf("   Длительность: %s\n", utils.FormatDuration(time.Duration(track.Length)*time.Second))
	}
	fmt.Printf("   Библиотека: %s (треков: %d)\n", app.Config.LibraryFile, len(library.Tracks))
	return nil
}

// uploadToS3 загружает файл в бакет из конфигурации и возвращает адрес s3://
func (app *Application) uploadToS3(ctx context.Context, path string) (string, error) {
	cfg := app.s3Config()
	if !cfg.Configured() || cfg.BucketName == "" {
		return "", fmt.Errorf("S3 не настроен: задайте aws_access_key, aws_secret_key и aws_bucket_name")
	}

	client, err := s3.NewClient(cfg)
	if err != nil {
		return "", fmt.Errorf("ошибка создания S3 клиента: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	key := filepath.Base(path)
	fmt.Printf("📤 Загружаем файл в S3:\n")
	fmt.Printf("   Файл: %s\n", path)
	fmt.Printf("   Бакет: %s\n", cfg.BucketName)
	fmt.Printf("   Ключ: %s\n", key)

	locator, err := client.Upload(ctx, file, key)
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки: %w", err)
	}
	return locator, nil
}
