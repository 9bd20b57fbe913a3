// Package catalog строит упорядоченный список треков из страницы, библиотеки или каталога файлов
package catalog

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Track описывает один трек каталога. Идентичность трека - его позиция.
type Track struct {
	AudioURL string
	Title    string
	Artist   string
}

// Catalog неизменяемый упорядоченный список треков
type Catalog struct {
	tracks  []Track
	baseDir string
	source  string
}

// New создает каталог из готового списка треков
func New(tracks []Track, baseDir string) *Catalog {
	copied := make([]Track, len(tracks))
	copy(copied, tracks)
	return &Catalog{
		tracks:  copied,
		baseDir: baseDir,
	}
}

// Build строит каталог по источнику: HTML страница, YAML библиотека или каталог с mp3.
// Источник без секций треков дает пустой каталог без ошибки.
func Build(source string) (*Catalog, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("ошибка доступа к источнику каталога: %w", err)
	}

	var (
		tracks  []Track
		baseDir string
	)

	switch {
	case info.IsDir():
		tracks, err = fromDirectory(source)
		baseDir = source
	case isHTML(source):
		tracks, err = fromHTMLFile(source)
		baseDir = filepath.Dir(source)
	case isYAML(source):
		tracks, err = fromLibrary(source)
		baseDir = filepath.Dir(source)
	default:
		return nil, fmt.Errorf("неподдерживаемый источник каталога: %s", source)
	}
	if err != nil {
		return nil, err
	}

	c := New(tracks, baseDir)
	c.source = source
	return c, nil
}

// Len возвращает количество треков
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tracks)
}

// Empty возвращает true, если в каталоге нет треков
func (c *Catalog) Empty() bool {
	return c.Len() == 0
}

// Track возвращает трек по индексу
func (c *Catalog) Track(index int) (Track, bool) {
	if index < 0 || index >= c.Len() {
		return Track{}, false
	}
	return c.tracks[index], true
}

// Tracks возвращает копию списка треков
func (c *Catalog) Tracks() []Track {
	out := make([]Track, c.Len())
	if c != nil {
		copy(out, c.tracks)
	}
	return out
}

// Source возвращает путь источника каталога
func (c *Catalog) Source() string {
	return c.source
}

// Resolve возвращает адрес аудио трека. Относительные пути разрешаются от каталога источника.
func (c *Catalog) Resolve(index int) (string, bool) {
	t, ok := c.Track(index)
	if !ok {
		return "", false
	}
	return resolveLocator(c.baseDir, t.AudioURL), true
}

func resolveLocator(baseDir, locator string) string {
	if locator == "" || filepath.IsAbs(locator) {
		return locator
	}
	if u, err := url.Parse(locator); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return locator
	}
	if baseDir == "" {
		return locator
	}
	return filepath.Join(baseDir, filepath.FromSlash(locator))
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
