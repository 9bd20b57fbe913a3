// Package mode содержит политику выбора следующего трека по окончании текущего
package mode

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidIndex возвращается, если индекс трека вне диапазона каталога
var ErrInvalidIndex = errors.New("индекс трека вне диапазона")

// Mode определяет режим воспроизведения
type Mode int

// Режимы воспроизведения
const (
	// LoopAll - по кругу весь список
	LoopAll Mode = iota
	// LoopOne - повтор одного трека
	LoopOne
	// Shuffle - случайный порядок
	Shuffle
)

// String возвращает имя режима
func (m Mode) String() string {
	switch m {
	case LoopAll:
		return "loop-all"
	case LoopOne:
		return "loop-one"
	case Shuffle:
		return "shuffle"
	default:
		return "unknown"
	}
}

// Label возвращает подпись режима для интерфейса
func (m Mode) Label() string {
	switch m {
	case LoopOne:
		return "🔂 Повтор трека"
	case Shuffle:
		return "🔀 Случайно"
	default:
		return "🔁 Весь список"
	}
}

// Next возвращает следующий режим в цикле LoopAll → LoopOne → Shuffle
func (m Mode) Next() Mode {
	return (m + 1) % 3
}

// ParseMode разбирает имя режима
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "loop-all", "all":
		return LoopAll, nil
	case "loop-one", "one":
		return LoopOne, nil
	case "shuffle", "random":
		return Shuffle, nil
	default:
		return LoopAll, fmt.Errorf("неизвестный режим воспроизведения: %q", s)
	}
}

// Rand источник случайных чисел, совместимый с *rand.Rand из math/rand/v2
type Rand interface {
	IntN(n int) int
}

// NextOnEnded выбирает индекс следующего трека после естественного окончания текущего.
// Функция не имеет побочных эффектов, кроме обращений к rnd.
func NextOnEnded(current, n int, m Mode, rnd Rand) (next int, autoPlay bool, err error) {
	if n <= 0 || current < 0 || current >= n {
		return current, false, fmt.Errorf("%w: %d (треков: %d)", ErrInvalidIndex, current, n)
	}

	switch m {
	case LoopOne:
		return current, true, nil

	case Shuffle:
		next = current
		for next == current && n > 1 {
			next = rnd.IntN(n)
		}
		return next, true, nil

	default:
		return (current + 1) % n, true, nil
	}
}
