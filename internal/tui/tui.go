// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-tracklist/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	ctrl         app.Controller
	ended        <-chan struct{}
	analyzer     app.AnalyzerFunc
	tickInterval time.Duration
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(ctrl app.Controller, ended <-chan struct{}, analyzer app.AnalyzerFunc, tickInterval time.Duration) *App {
	return &App{
		ctrl:         ctrl,
		ended:        ended,
		analyzer:     analyzer,
		tickInterval: tickInterval,
	}
}

// Run запускает TUI приложение
func (tuiApp *App) Run() error {
	model := app.NewMainModel(tuiApp.ctrl, tuiApp.ended, tuiApp.analyzer, tuiApp.tickInterval)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
