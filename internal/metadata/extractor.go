// Package metadata предоставляет функционал для извлечения тегов из аудио файлов
package metadata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"
)

// UnknownArtist подставляется, если исполнителя не удалось определить
const UnknownArtist = "Unknown Artist"

// Tags хранит теги трека
type Tags struct {
	Artist string
	Title  string
	Album  string
}

// Extractor извлекает теги из аудио файлов
type Extractor struct{}

// NewExtractor создает новый экстрактор тегов
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ReadFrom извлекает теги из io.ReadSeeker.
// Пустое название заменяется именем файла из source.
func (e *Extractor) ReadFrom(reader io.ReadSeeker, source string) Tags {
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return fromFileName(source)
	}

	m, err := tag.ReadFrom(reader)
	if err != nil {
		return fromFileName(source)
	}

	tags := Tags{
		Artist: strings.TrimSpace(m.Artist()),
		Title:  strings.TrimSpace(m.Title()),
		Album:  strings.TrimSpace(m.Album()),
	}
	if tags.Title == "" {
		fallback := fromFileName(source)
		tags.Title = fallback.Title
		if tags.Artist == "" {
			tags.Artist = fallback.Artist
		}
	}
	return tags
}

// ReadFile извлекает теги из файла
func (e *Extractor) ReadFile(filePath string) Tags {
	file, err := os.Open(filePath)
	if err != nil {
		return fromFileName(filePath)
	}
	defer file.Close()

	return e.ReadFrom(file, filePath)
}

// Duration получает длительность MP3 файла
func (e *Extractor) Duration(filePath string) (time.Duration, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}

	// mp3.Decode забирает владение файлом, закрываем через streamer
	streamer, format, err := mp3.Decode(file)
	if err != nil {
		file.Close()
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// fromFileName строит теги по имени файла в формате "Artist - Title"
func fromFileName(source string) Tags {
	fileName := filepath.Base(source)
	nameWithoutExt := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	parts := strings.Split(nameWithoutExt, " - ")
	if len(parts) >= 2 {
		return Tags{
			Artist: strings.TrimSpace(parts[0]),
			Title:  strings.TrimSpace(strings.Join(parts[1:], " - ")),
		}
	}

	return Tags{
		Artist: UnknownArtist,
		Title:  nameWithoutExt,
	}
}
