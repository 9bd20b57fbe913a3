// Package tracklist содержит модель списка треков для TUI
package tracklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-tracklist/internal/utils"
	"github.com/hazadus/go-tracklist/internal/view"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	currentItemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aa00")).Bold(true)
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4)
)

// TrackSelectedMsg отправляется при нажатии Enter на треке
type TrackSelectedMsg struct {
	Index int
}

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	row view.Row
}

func (i trackItem) FilterValue() string {
	return fmt.Sprintf("%s %s", i.row.Artist, i.row.Title)
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	fmt.Fprint(w, renderRow(i.row, index == m.Index()))
}

// renderRow форматирует строку: кнопка | № | Исполнитель | Название
func renderRow(row view.Row, selected bool) string {
	button := "▶"
	if row.Playing {
		button = "⏸"
	}
	str := fmt.Sprintf("%s %-4d %-20s %s",
		button,
		row.Index+1,
		utils.TruncateString(row.Artist, 20),
		utils.TruncateString(row.Title, 50))

	if row.Current {
		str = currentItemStyle.Render(str)
	}
	if selected {
		return selectedItemStyle.Render("> " + str)
	}
	return itemStyle.Render(str)
}

// Model представляет модель списка треков
type Model struct {
	list list.Model
}

// NewModel создает новую модель списка треков
func NewModel(rows []view.Row) *Model {
	l := list.New(toItems(rows), trackItemDelegate{}, 0, 0)
	l.Title = "Треки"
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	return &Model{list: l}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// SetRows обновляет отметки воспроизведения, сохраняя введенный фильтр и курсор
func (m *Model) SetRows(rows []view.Row) {
	cmd := m.list.SetItems(toItems(rows))
	if cmd == nil {
		return
	}
	// При активном фильтре список отображает отфильтрованную копию строк.
	// Пересчитываем ее сразу, иначе до следующего сообщения видны старые отметки.
	m.list, _ = m.list.Update(cmd())
}

// Filtering возвращает true, пока пользователь вводит фильтр
func (m *Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// SetSize задает размеры списка
func (m *Model) SetSize(width, height int) {
	m.list.SetWidth(width)
	m.list.SetHeight(max(height, 3))
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" && !m.Filtering() {
		if item, ok := m.list.SelectedItem().(trackItem); ok {
			index := item.row.Index
			return m, func() tea.Msg {
				return TrackSelectedMsg{Index: index}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	return m.list.View()
}

// Help возвращает подсказку по клавишам
func Help() string {
	return helpStyle.Render(strings.Join([]string{
		"Enter: играть/пауза",
		"Пробел: старт/пауза",
		"←/→: пред./след.",
		"[/]: ±5с",
		"0-9: позиция",
		"+/-: громкость",
		"m: режим",
		"/: поиск",
		"q: выход",
	}, " • "))
}

func toItems(rows []view.Row) []list.Item {
	items := make([]list.Item, len(rows))
	for i, row := range rows {
		items[i] = trackItem{row: row}
	}
	return items
}
