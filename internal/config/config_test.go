package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazadus/go-tracklist/internal/mode"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}
	return configPath
}

func TestLoadConfigFromFile(t *testing.T) {
	testConfig := map[string]any{
		"catalog":         "/srv/music/index.html",
		"state_backend":   "redis",
		"redis_addr":      "redis:6379",
		"redis_db":        2,
		"volume":          0.4,
		"mode":            "shuffle",
		"tick_interval":   "500ms",
		"aws_bucket_name": "test-bucket",
		"aws_access_key":  "test-access-key",
	}

	data, err := yaml.Marshal(testConfig)
	if err != nil {
		t.Fatalf("Ошибка сериализации конфигурации: %v", err)
	}

	loadedConfig, err := LoadConfig(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if loadedConfig.Catalog != "/srv/music/index.html" {
		t.Errorf("Ожидался Catalog: /srv/music/index.html, получено: %s", loadedConfig.Catalog)
	}
	if loadedConfig.StateBackend != BackendRedis || loadedConfig.RedisAddr != "redis:6379" || loadedConfig.RedisDB != 2 {
		t.Errorf("Неверные настройки Redis: %+v", loadedConfig)
	}
	if loadedConfig.Volume != 0.4 {
		t.Errorf("Ожидалась громкость 0.4, получено: %v", loadedConfig.Volume)
	}
	if loadedConfig.PlaybackMode() != mode.Shuffle {
		t.Errorf("Ожидался режим shuffle, получено: %s", loadedConfig.Mode)
	}
	if loadedConfig.TickInterval != 500*time.Millisecond {
		t.Errorf("Ожидался интервал 500ms, получено: %v", loadedConfig.TickInterval)
	}
	if loadedConfig.AwsBucketName != "test-bucket" || loadedConfig.AwsAccessKey != "test-access-key" {
		t.Errorf("Неверные настройки AWS: %+v", loadedConfig)
	}
}

func TestDefaultConfig(t *testing.T) {
	loadedConfig, err := LoadConfig(writeConfig(t, "catalog: ./music\n"))
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	home, _ := os.UserHomeDir()
	if loadedConfig.StateFile != filepath.Join(home, ".tracklist", "state.json") {
		t.Errorf("Неожиданный StateFile по умолчанию: %s", loadedConfig.StateFile)
	}
	if loadedConfig.StateBackend != BackendFile || loadedConfig.StateKey != "musicPlayerState" {
		t.Errorf("Неверное хранилище по умолчанию: %+v", loadedConfig)
	}
	if loadedConfig.Volume != 1 || loadedConfig.PlaybackMode() != mode.LoopAll {
		t.Errorf("Неверные громкость или режим по умолчанию: %+v", loadedConfig)
	}
	if loadedConfig.TickInterval != 250*time.Millisecond {
		t.Errorf("Неверный интервал по умолчанию: %v", loadedConfig.TickInterval)
	}
}

func TestVolumeZeroIsKept(t *testing.T) {
	loadedConfig, err := LoadConfig(writeConfig(t, "volume: 0\n"))
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	if loadedConfig.Volume != 0 {
		t.Errorf("Явная громкость 0 не должна заменяться значением по умолчанию: %v", loadedConfig.Volume)
	}
}

func TestEnvVarOverride(t *testing.T) {
	configPath := writeConfig(t, "aws_bucket_name: default-bucket\nvolume: 0.5\nmode: loop-all\n")

	t.Setenv("TRACKLIST_AWS_BUCKET_NAME", "env-bucket")
	t.Setenv("TRACKLIST_VOLUME", "0.25")
	t.Setenv("TRACKLIST_MODE", "one")
	t.Setenv("TRACKLIST_REDIS_DB", "3")
	t.Setenv("TRACKLIST_TICK_INTERVAL", "1s")

	loadedConfig, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if loadedConfig.AwsBucketName != "env-bucket" {
		t.Errorf("Ожидался AwsBucketName из окружения: env-bucket, получено: %s", loadedConfig.AwsBucketName)
	}
	if loadedConfig.Volume != 0.25 {
		t.Errorf("Ожидалась громкость из окружения 0.25, получено: %v", loadedConfig.Volume)
	}
	if loadedConfig.PlaybackMode() != mode.LoopOne {
		t.Errorf("Ожидался режим из окружения loop-one, получено: %s", loadedConfig.Mode)
	}
	if loadedConfig.RedisDB != 3 || loadedConfig.TickInterval != time.Second {
		t.Errorf("Неверные значения из окружения: %+v", loadedConfig)
	}
}

func TestEnvVarInvalid(t *testing.T) {
	t.Setenv("TRACKLIST_REDIS_DB", "first")

	if _, err := LoadConfig(writeConfig(t, "")); err == nil {
		t.Error("Ожидалась ошибка для нечислового TRACKLIST_REDIS_DB")
	}
}

func TestLoadEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte("TRACKLIST_STATE_KEY=fromdotenv\n"), 0644); err != nil {
		t.Fatalf("Ошибка записи .env: %v", err)
	}
	t.Setenv("TRACKLIST_STATE_KEY", "")
	os.Unsetenv("TRACKLIST_STATE_KEY")

	if err := LoadEnv(envPath); err != nil {
		t.Fatalf("Ошибка загрузки .env: %v", err)
	}
	loadedConfig, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	if loadedConfig.StateKey != "fromdotenv" {
		t.Errorf("Ожидался ключ из .env, получено: %s", loadedConfig.StateKey)
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("Отсутствующий .env не должен быть ошибкой: %v", err)
	}
}

func TestLoadConfigNonExistentFile(t *testing.T) {
	loadedConfig, err := LoadConfig("/non/existent/config.yaml")
	if err != nil {
		t.Fatalf("Отсутствующий файл должен давать конфигурацию по умолчанию: %v", err)
	}
	if loadedConfig.StateBackend != BackendFile {
		t.Errorf("Ожидалось хранилище по умолчанию, получено: %s", loadedConfig.StateBackend)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	invalidYAML := `catalog: "music"
invalid_field: [unclosed array
`
	_, err := LoadConfig(writeConfig(t, invalidYAML))
	if err == nil {
		t.Fatal("Ожидалась ошибка при загрузке некорректного YAML")
	}
	if !strings.Contains(err.Error(), "yaml") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := map[string]string{
		"backend":  "state_backend: sqlite\n",
		"mode":     "mode: backwards\n",
		"volume":   "volume: 1.5\n",
		"interval": "tick_interval: 0s\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, content)); err == nil {
				t.Errorf("Ожидалась ошибка проверки для %q", content)
			}
		})
	}
}

func TestLoadConfigWithTilde(t *testing.T) {
	loadedConfig, err := LoadConfig(writeConfig(t, "catalog: ~/music\nstate_file: ~/custom/state.json\n"))
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	home, _ := os.UserHomeDir()
	if loadedConfig.Catalog != filepath.Join(home, "music") {
		t.Errorf("Ожидался Catalog с раскрытой тильдой, получено: %s", loadedConfig.Catalog)
	}
	if loadedConfig.StateFile != filepath.Join(home, "custom", "state.json") {
		t.Errorf("Ожидался StateFile с раскрытой тильдой, получено: %s", loadedConfig.StateFile)
	}
}
