// Package app содержит основную логику TUI приложения
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-tracklist/internal/catalog"
	"github.com/hazadus/go-tracklist/internal/keymap"
	"github.com/hazadus/go-tracklist/internal/transport"
	tuiPlayer "github.com/hazadus/go-tracklist/internal/tui/player"
	"github.com/hazadus/go-tracklist/internal/tui/tracklist"
	"github.com/hazadus/go-tracklist/internal/view"
	"github.com/hazadus/go-tracklist/internal/visualizer"
)

// playerPanelHeight строки, занятые панелью плеера и подсказкой
const playerPanelHeight = 8

// Controller операции контроллера воспроизведения, нужные интерфейсу
type Controller interface {
	keymap.Controls
	TogglePlayPause(index int) error
	HandleEnded() error
	Tick()
	State() transport.State
	Catalog() *catalog.Catalog
}

// AnalyzerFunc возвращает анализатор спектра, когда звук доступен
type AnalyzerFunc func() (*visualizer.Analyzer, error)

type tickMsg time.Time

type endedMsg struct{}

// MainModel представляет главную модель TUI
type MainModel struct {
	ctrl         Controller
	ended        <-chan struct{}
	analyzerFunc AnalyzerFunc
	analyzer     *visualizer.Analyzer
	tickInterval time.Duration

	tracklistModel *tracklist.Model
	playerModel    *tuiPlayer.Model
	quitting       bool
}

// NewMainModel создает новую главную модель
func NewMainModel(ctrl Controller, ended <-chan struct{}, analyzer AnalyzerFunc, tickInterval time.Duration) *MainModel {
	if tickInterval <= 0 {
		tickInterval = 250 * time.Millisecond
	}

	v := view.Render(ctrl.State(), ctrl.Catalog())
	m := &MainModel{
		ctrl:           ctrl,
		ended:          ended,
		analyzerFunc:   analyzer,
		tickInterval:   tickInterval,
		tracklistModel: tracklist.NewModel(v.Rows),
		playerModel:    tuiPlayer.NewModel(),
	}
	m.playerModel.SetView(v)
	return m
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitEnded(), m.refresh())
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

		action, err := keymap.Handle(m.ctrl, msg.String(), m.tracklistModel.Filtering(), m.ctrl.State().Volume)
		switch action {
		case keymap.Quit:
			m.quitting = true
			return m, tea.Quit
		case keymap.None:
		default:
			m.playerModel.SetError(err)
			return m, m.refresh()
		}

	case tracklist.TrackSelectedMsg:
		m.playerModel.SetError(m.ctrl.TogglePlayPause(msg.Index))
		return m, m.refresh()

	case tickMsg:
		m.ctrl.Tick()
		m.updateVisualizer()
		return m, tea.Batch(m.refresh(), m.tick())

	case endedMsg:
		m.playerModel.SetError(m.ctrl.HandleEnded())
		return m, tea.Batch(m.refresh(), m.waitEnded())

	case tea.WindowSizeMsg:
		m.tracklistModel.SetSize(msg.Width, msg.Height-playerPanelHeight)
		m.playerModel.SetWidth(msg.Width)
		return m, nil

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.playerModel, cmd = m.playerModel.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.tracklistModel, cmd = m.tracklistModel.Update(msg)
	return m, cmd
}

// View отображает интерфейс
func (m *MainModel) View() string {
	if m.quitting {
		return "До свидания!\n"
	}
	return m.tracklistModel.View() + "\n" + m.playerModel.View() + "\n" + tracklist.Help()
}

// refresh проецирует состояние контроллера на экран
func (m *MainModel) refresh() tea.Cmd {
	v := view.Render(m.ctrl.State(), m.ctrl.Catalog())
	m.tracklistModel.SetRows(v.Rows)
	return m.playerModel.SetView(v)
}

func (m *MainModel) updateVisualizer() {
	if m.analyzerFunc == nil || !m.ctrl.State().IsPlaying {
		return
	}
	if m.analyzer == nil {
		analyzer, err := m.analyzerFunc()
		if err != nil {
			return
		}
		m.analyzer = analyzer
	}
	m.playerModel.SetMagnitudes(m.analyzer.Magnitudes(tuiPlayer.Bars))
}

func (m *MainModel) tick() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitEnded ждет сигнала об окончании трека от плеера
func (m *MainModel) waitEnded() tea.Cmd {
	if m.ended == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-m.ended; !ok {
			return nil
		}
		return endedMsg{}
	}
}
