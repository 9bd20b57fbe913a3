package tracklist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-tracklist/internal/view"
)

func testRows() []view.Row {
	return []view.Row{
		{Index: 0, Title: "Test Track 1", Artist: "Test Artist 1"},
		{Index: 1, Title: "Test Track 2", Artist: "Test Artist 2", Current: true, Playing: true},
	}
}

func TestNewModel(t *testing.T) {
	model := NewModel(testRows())

	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if len(model.list.Items()) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(model.list.Items()))
	}
	if model.Filtering() {
		t.Error("Новый список не должен быть в режиме поиска")
	}
}

func TestRenderRow(t *testing.T) {
	rows := testRows()

	if got := renderRow(rows[0], false); !strings.Contains(got, "▶ 1") || !strings.Contains(got, "Test Track 1") {
		t.Errorf("Неверная строка: %q", got)
	}
	if got := renderRow(rows[1], true); !strings.Contains(got, "⏸") || !strings.Contains(got, "> ") {
		t.Errorf("Играющая выбранная строка должна иметь кнопку паузы и маркер: %q", got)
	}
}

func TestSetRows(t *testing.T) {
	model := NewModel(testRows())

	rows := testRows()
	rows[1].Playing = false
	model.SetRows(rows)

	item := model.list.Items()[1].(trackItem)
	if item.row.Playing {
		t.Error("Отметка воспроизведения должна обновиться")
	}
}

func TestSetRowsWhileFiltered(t *testing.T) {
	rows := []view.Row{
		{Index: 0, Title: "Alpha", Artist: "A"},
		{Index: 1, Title: "Beta", Artist: "B"},
	}
	model := NewModel(rows)
	model.SetSize(80, 20)
	model.list.SetFilterText("Beta")

	if strings.Contains(model.View(), "⏸") {
		t.Fatal("До воспроизведения кнопки паузы быть не должно")
	}

	rows[1].Current = true
	rows[1].Playing = true
	model.SetRows(rows)

	out := model.View()
	if !strings.Contains(out, "⏸") {
		t.Errorf("Отфильтрованный список должен показать играющий трек: %s", out)
	}
	if strings.Contains(out, "Alpha") {
		t.Errorf("Фильтр должен сохраниться после обновления строк: %s", out)
	}
	if model.list.FilterValue() != "Beta" {
		t.Errorf("Текст фильтра потерян: %q", model.list.FilterValue())
	}
}

func TestEnterSendsSelection(t *testing.T) {
	model := NewModel(testRows())
	model.SetSize(80, 20)

	model.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Enter должен вернуть команду")
	}
	if msg, ok := cmd().(TrackSelectedMsg); !ok || msg.Index != 1 {
		t.Errorf("Ожидался выбор трека 1, получено %#v", cmd())
	}
}

func TestFilterValue(t *testing.T) {
	item := trackItem{row: testRows()[0]}
	if item.FilterValue() != "Test Artist 1 Test Track 1" {
		t.Errorf("Неверное значение фильтра: %q", item.FilterValue())
	}
}
