// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hazadus/go-tracklist/internal/mode"
	"github.com/hazadus/go-tracklist/internal/utils"
)

// DefaultPath путь к файлу конфигурации по умолчанию
const DefaultPath = "~/.tracklist/config.yaml"

// EnvPrefix префикс переменных окружения, переопределяющих настройки
const EnvPrefix = "TRACKLIST_"

// Хранилища состояния
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config структура для хранения конфигурации приложения
type Config struct {
	Catalog     string `yaml:"catalog"`      // HTML страница, YAML библиотека или каталог с mp3
	LibraryFile string `yaml:"library_file"` // Библиотека, в которую добавляет команда add

	StateBackend  string `yaml:"state_backend"`
	StateFile     string `yaml:"state_file"`
	StateKey      string `yaml:"state_key"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`

	Volume       float64       `yaml:"volume"`
	Mode         string        `yaml:"mode"`
	TickInterval time.Duration `yaml:"tick_interval"`

	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file"`
	LogConsole bool   `yaml:"log_console"`

	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region"`
	AwsEndpoint   string `yaml:"aws_endpoint"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		LibraryFile:  "~/.tracklist/library.yaml",
		StateBackend: BackendFile,
		StateFile:    "~/.tracklist/state.json",
		StateKey:     "musicPlayerState",
		RedisAddr:    "127.0.0.1:6379",
		RedisPrefix:  "tracklist:",
		Volume:       1,
		Mode:         mode.LoopAll.String(),
		TickInterval: 250 * time.Millisecond,
		LogLevel:     "info",
		LogFile:      "~/.tracklist/tracklist.log",
		AwsRegion:    "us-east-1",
	}
}

// LoadEnv загружает файлы .env; существующие переменные окружения не перезаписываются
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("ошибка загрузки .env: %w", err)
	}
	return nil
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Отсутствующий файл означает конфигурацию по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	config := Default()

	path, err := utils.ExpandHome(filePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора yaml конфигурации: %w", err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.expandPaths(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.StateBackend != BackendFile && c.StateBackend != BackendRedis {
		return fmt.Errorf("неизвестное хранилище состояния: %q", c.StateBackend)
	}
	if _, err := mode.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("громкость должна быть в диапазоне [0, 1]: %v", c.Volume)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("интервал обновления должен быть положительным: %v", c.TickInterval)
	}
	return nil
}

// PlaybackMode возвращает режим воспроизведения из конфигурации
func (c *Config) PlaybackMode() mode.Mode {
	m, _ := mode.ParseMode(c.Mode)
	return m
}

func (c *Config) applyEnv() error {
	fields := map[string]*string{
		"CATALOG":         &c.Catalog,
		"LIBRARY_FILE":    &c.LibraryFile,
		"STATE_BACKEND":   &c.StateBackend,
		"STATE_FILE":      &c.StateFile,
		"STATE_KEY":       &c.StateKey,
		"REDIS_ADDR":      &c.RedisAddr,
		"REDIS_PASSWORD":  &c.RedisPassword,
		"REDIS_PREFIX":    &c.RedisPrefix,
		"MODE":            &c.Mode,
		"LOG_LEVEL":       &c.LogLevel,
		"LOG_FILE":        &c.LogFile,
		"AWS_BUCKET_NAME": &c.AwsBucketName,
		"AWS_ACCESS_KEY":  &c.AwsAccessKey,
		"AWS_SECRET_KEY":  &c.AwsSecretKey,
		"AWS_REGION":      &c.AwsRegion,
		"AWS_ENDPOINT":    &c.AwsEndpoint,
	}
	for key, target := range fields {
		if value, ok := os.LookupEnv(EnvPrefix + key); ok {
			*target = value
		}
	}

	if value, ok := os.LookupEnv(EnvPrefix + "REDIS_DB"); ok {
		db, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("ошибка разбора %sREDIS_DB: %w", EnvPrefix, err)
		}
		c.RedisDB = db
	}
	if value, ok := os.LookupEnv(EnvPrefix + "VOLUME"); ok {
		volume, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("ошибка разбора %sVOLUME: %w", EnvPrefix, err)
		}
		c.Volume = volume
	}
	if value, ok := os.LookupEnv(EnvPrefix + "TICK_INTERVAL"); ok {
		interval, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("ошибка разбора %sTICK_INTERVAL: %w", EnvPrefix, err)
		}
		c.TickInterval = interval
	}
	if value, ok := os.LookupEnv(EnvPrefix + "LOG_CONSOLE"); ok {
		console, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("ошибка разбора %sLOG_CONSOLE: %w", EnvPrefix, err)
		}
		c.LogConsole = console
	}
	return nil
}

func (c *Config) expandPaths() error {
	for _, path := range []*string{&c.Catalog, &c.LibraryFile, &c.StateFile, &c.LogFile} {
		expanded, err := utils.ExpandHome(*path)
		if err != nil {
			return err
		}
		*path = expanded
	}
	return nil
}
