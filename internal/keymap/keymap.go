// Package keymap сопоставляет клавиши действиям плеера
package keymap

import (
	"time"

	"github.com/hazadus/go-tracklist/internal/utils"
)

// Action действие плеера
type Action int

// Действия
const (
	None Action = iota
	TogglePlayback
	Next
	Previous
	VolumeUp
	VolumeDown
	CycleMode
	SeekForward
	SeekBackward
	SeekFraction // Цифры 0-9 переходят к 0%-90% трека
	Quit
)

// Шаги громкости и перемотки
const (
	VolumeStep = 0.05
	SeekStep   = 5 * time.Second
)

var bindings = map[string]Action{
	" ":      TogglePlayback,
	"space":  TogglePlayback,
	"right":  Next,
	"left":   Previous,
	"+":      VolumeUp,
	"=":      VolumeUp,
	"-":      VolumeDown,
	"m":      CycleMode,
	"]":      SeekForward,
	"[":      SeekBackward,
	"q":      Quit,
	"ctrl+c": Quit,
}

// Resolve возвращает действие для клавиши. Пока фокус в поле ввода, клавиши не обрабатываются.
func Resolve(key string, inputFocused bool) Action {
	if inputFocused {
		return None
	}
	if _, ok := fraction(key); ok {
		return SeekFraction
	}
	return bindings[key]
}

func fraction(key string) (float64, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	return float64(key[0]-'0') / 10, true
}

// FromBytes переводит ввод терминала в сыром режиме в имя клавиши
func FromBytes(b []byte) string {
	switch string(b) {
	case "\x1b[C", "\x1bOC":
		return "right"
	case "\x1b[D", "\x1bOD":
		return "left"
	case "\x03":
		return "ctrl+c"
	}
	if len(b) == 1 {
		return string(b)
	}
	return ""
}

// Controls операции контроллера, доступные с клавиатуры
type Controls interface {
	TogglePlayback() error
	Next() error
	Previous() error
	SetVolume(v float64)
	CycleMode()
	SeekBy(delta time.Duration) error
	Seek(fraction float64) error
}

// Handle разрешает клавишу и выполняет действие. volume текущая громкость.
// Возвращает None, если клавиша не обработана, и Quit, если нужно выйти.
func Handle(c Controls, key string, inputFocused bool, volume float64) (Action, error) {
	a := Resolve(key, inputFocused)
	var err error
	switch a {
	case TogglePlayback:
		err = c.TogglePlayback()
	case Next:
		err = c.Next()
	case Previous:
		err = c.Previous()
	case VolumeUp:
		c.SetVolume(utils.Clamp(volume+VolumeStep, 0, 1))
	case VolumeDown:
		c.SetVolume(utils.Clamp(volume-VolumeStep, 0, 1))
	case CycleMode:
		c.CycleMode()
	case SeekForward:
		err = c.SeekBy(SeekStep)
	case SeekBackward:
		err = c.SeekBy(-SeekStep)
	case SeekFraction:
		f, _ := fraction(key)
		err = c.Seek(f)
	}
	return a, err
}
