// Package player содержит панель текущего трека для TUI
package player

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-tracklist/internal/view"
	"github.com/hazadus/go-tracklist/internal/visualizer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff"))

	statusStyle = lipgloss.NewStyle().
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	barsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00aaff"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

// Bars число полос визуализатора
const Bars = 32

// Model панель "сейчас играет"
type Model struct {
	view        view.Model
	progressBar progress.Model
	magnitudes  []float64
	err         error
}

// NewModel создает панель
func NewModel() *Model {
	prog := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	prog.Width = 40

	return &Model{
		view:        view.Model{NowPlaying: view.IdleLabel, Elapsed: "0:00", Total: "0:00"},
		progressBar: prog,
	}
}

// SetView применяет новое состояние; возвращает команду анимации прогресс-бара
func (m *Model) SetView(v view.Model) tea.Cmd {
	m.view = v
	return m.progressBar.SetPercent(v.Progress / 100)
}

// SetMagnitudes задает значения визуализатора
func (m *Model) SetMagnitudes(magnitudes []float64) {
	m.magnitudes = magnitudes
}

// SetError показывает ошибку; nil скрывает ее
func (m *Model) SetError(err error) {
	m.err = err
}

// SetWidth задает ширину прогресс-бара
func (m *Model) SetWidth(width int) {
	m.progressBar.Width = min(60, max(width-10, 10))
}

// Update обрабатывает кадры анимации прогресс-бара
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if msg, ok := msg.(progress.FrameMsg); ok {
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View отображает панель
func (m *Model) View() string {
	statusIcon := "⏸️"
	if m.view.IsPlaying {
		statusIcon = "▶️"
	}

	out := fmt.Sprintf(
		"%s\n%s %s\n%s\n%s / %s   %s   🔊 %d%%",
		titleStyle.Render("🎵 "+m.view.NowPlaying),
		statusIcon,
		statusStyle.Render(formatStatus(m.view.IsPlaying)),
		m.progressBar.View(),
		m.view.Elapsed,
		m.view.Total,
		infoStyle.Render(m.view.Mode),
		m.view.Volume,
	)

	if len(m.magnitudes) > 0 {
		out += "\n" + barsStyle.Render(visualizer.Bars(m.magnitudes))
	}
	if m.err != nil {
		out += "\n" + errorStyle.Render("❌ "+m.err.Error())
	}
	return out
}

func formatStatus(isPlaying bool) string {
	if isPlaying {
		return "Воспроизведение"
	}
	return "Пауза"
}
