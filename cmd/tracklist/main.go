package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hazadus/go-tracklist/internal/config"
	"github.com/hazadus/go-tracklist/internal/logger"
)

// Application содержит зависимости, общие для всех команд
type Application struct {
	Config *config.Config
	Log    *zap.Logger
}

// newApplication загружает .env, конфигурацию и создает логгер
func newApplication(configPath string) (*Application, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:      logger.Level(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		Console:    cfg.LogConsole,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания логгера: %w", err)
	}

	return &Application{Config: cfg, Log: log}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &Application{Config: config.Default(), Log: zap.NewNop()}
	rootCmd := app.createRootCommand(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("❌ Ошибка: %v\n", err)
		stop()
		os.Exit(1)
	}
}
