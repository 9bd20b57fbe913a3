// Package view проецирует состояние контроллера в данные для отображения
package view

import (
	"fmt"
	"math"
	"time"

	"github.com/hazadus/go-tracklist/internal/catalog"
	"github.com/hazadus/go-tracklist/internal/transport"
	"github.com/hazadus/go-tracklist/internal/utils"
)

// IdleLabel подпись, когда ничего не выбрано
const IdleLabel = "Ничего не воспроизводится"

// Row строка списка треков
type Row struct {
	Index   int
	Title   string
	Artist  string
	Current bool
	Playing bool // Текущий трек и воспроизведение идет
}

// Model готовые к отображению данные
type Model struct {
	Rows       []Row
	NowPlaying string
	Elapsed    string // M:SS
	Total      string // M:SS
	Progress   float64 // [0, 100]
	Mode       string
	Volume     int // Проценты
	IsPlaying  bool
}

// Render строит модель отображения. Функция чистая.
func Render(state transport.State, cat *catalog.Catalog) Model {
	m := Model{
		NowPlaying: IdleLabel,
		Elapsed:    utils.FormatTime(state.Position),
		Total:      utils.FormatTime(state.Duration),
		Progress:   Progress(state.Position, state.Duration),
		Mode:       state.Mode.Label(),
		Volume:     int(math.Round(utils.Clamp(state.Volume, 0, 1) * 100)),
		IsPlaying:  state.IsPlaying,
	}

	for i, track := range cat.Tracks() {
		current := i == state.CurrentIndex
		m.Rows = append(m.Rows, Row{
			Index:   i,
			Title:   track.Title,
			Artist:  track.Artist,
			Current: current,
			Playing: current && state.IsPlaying,
		})
	}

	if track, ok := cat.Track(state.CurrentIndex); ok {
		m.NowPlaying = NowPlaying(track.Title)
	}
	return m
}

// NowPlaying формирует подпись текущего трека
func NowPlaying(title string) string {
	return fmt.Sprintf("Сейчас играет: %s", title)
}

// Progress возвращает процент прослушанного; 0 при неизвестной длительности
func Progress(position, duration time.Duration) float64 {
	if duration <= 0 {
		return 0
	}
	return utils.Clamp(float64(position)/float64(duration)*100, 0, 100)
}

// StatusLine однострочное состояние для консольного режима
func StatusLine(m Model) string {
	icon := "⏸"
	if m.IsPlaying {
		icon = "▶"
	}
	return fmt.Sprintf("%s %s  %s / %s  [%s]  🔊 %d%%", icon, m.NowPlaying, m.Elapsed, m.Total, m.Mode, m.Volume)
}
