// Package data содержит формат YAML-библиотеки треков
package data

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hazadus/go-tracklist/internal/utils"
)

// LibraryTrack описывает одну запись библиотеки
type LibraryTrack struct {
	Title  string `yaml:"title"`
	Artist string `yaml:"artist,omitempty"`
	URL    string `yaml:"url"`              // Локальный путь, http(s):// или s3:// адрес аудио
	Length int    `yaml:"length,omitempty"` // Длительность в секундах, 0 - неизвестна
}

// Library представляет упорядоченный список треков
type Library struct {
	Tracks []LibraryTrack `yaml:"tracks"`
}

// NewLibrary создает пустую библиотеку
func NewLibrary() *Library {
	return &Library{
		Tracks: make([]LibraryTrack, 0),
	}
}

// LoadLibrary загружает библиотеку из файла.
// Отсутствующий или пустой файл дает пустую библиотеку.
func LoadLibrary(filePath string) (*Library, error) {
	path, err := utils.ExpandHome(filePath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewLibrary(), nil
		}
		return nil, fmt.Errorf("ошибка чтения файла библиотеки: %w", err)
	}

	lib := NewLibrary()
	if len(raw) == 0 {
		return lib, nil
	}
	if err := yaml.Unmarshal(raw, lib); err != nil {
		return nil, fmt.Errorf("ошибка разбора библиотеки: %w", err)
	}
	return lib, nil
}

// AddTrack добавляет трек в конец библиотеки
func (l *Library) AddTrack(track LibraryTrack) {
	l.Tracks = append(l.Tracks, track)
}

// Save сохраняет библиотеку в файл
func (l *Library) Save(filePath string) error {
	path, err := utils.ExpandHome(filePath)
	if err != nil {
		return err
	}

	raw, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("ошибка сериализации библиотеки: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("ошибка создания каталога библиотеки: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла библиотеки: %w", err)
	}
	return nil
}
