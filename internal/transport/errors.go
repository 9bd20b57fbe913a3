package transport

import (
	"errors"
	"fmt"

	"github.com/hazadus/go-tracklist/internal/mode"
)

var (
	// ErrPlaybackRejected платформа отказалась начинать воспроизведение
	ErrPlaybackRejected = errors.New("воспроизведение отклонено")
	// ErrInvalidIndex индекс трека вне диапазона каталога
	ErrInvalidIndex = mode.ErrInvalidIndex
)

// PlaybackRejectedError описывает отказ в воспроизведении конкретного трека
type PlaybackRejectedError struct {
	Index int
	Title string
	Err   error
}

func (e *PlaybackRejectedError) Error() string {
	return fmt.Sprintf("не удалось воспроизвести трек %d (%s): %v", e.Index, e.Title, e.Err)
}

// Unwrap позволяет проверять как ErrPlaybackRejected, так и исходную причину
func (e *PlaybackRejectedError) Unwrap() []error {
	return []error{ErrPlaybackRejected, e.Err}
}

func invalidIndex(index, n int) error {
	return fmt.Errorf("%w: %d (треков: %d)", ErrInvalidIndex, index, n)
}
