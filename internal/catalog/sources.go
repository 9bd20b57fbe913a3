package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hazadus/go-tracklist/internal/data"
	"github.com/hazadus/go-tracklist/internal/metadata"
)

// fromLibrary читает YAML библиотеку
func fromLibrary(path string) ([]Track, error) {
	lib, err := data.LoadLibrary(path)
	if err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(lib.Tracks))
	for _, t := range lib.Tracks {
		tracks = append(tracks, Track{
			AudioURL: t.URL,
			Title:    t.Title,
			Artist:   t.Artist,
		})
	}
	return tracks, nil
}

// fromDirectory собирает mp3 файлы каталога в порядке имен
func fromDirectory(dir string) ([]Track, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".mp3") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	extractor := metadata.NewExtractor()
	tracks := make([]Track, 0, len(names))
	for _, name := range names {
		tags := extractor.ReadFile(filepath.Join(dir, name))
		tracks = append(tracks, Track{
			AudioURL: name,
			Title:    tags.Title,
			Artist:   tags.Artist,
		})
	}
	return tracks, nil
}
