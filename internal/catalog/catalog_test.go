package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPage = `<!DOCTYPE html>
<html><body>
  <section class="track" data-audio="music/a.mp3">
    <h2>Первая песня</h2>
    <p>Описание</p>
    <button class="play-btn">▶️ Play</button>
  </section>
  <section class="track collapsed" data-audio="https://cdn.example.com/b.mp3">
    <div><h2> <span>Second</span> Song </h2></div>
  </section>
  <section class="tracker" data-audio="ignored.mp3"><h2>Not a track</h2></section>
  <section class="track" data-audio="s3://bucket/c.mp3"><h2>Third</h2></section>
</body></html>`

func TestParseHTML(t *testing.T) {
	tracks, err := ParseHTML(strings.NewReader(testPage))
	if err != nil {
		t.Fatalf("Ошибка разбора страницы: %v", err)
	}

	expected := []Track{
		{AudioURL: "music/a.mp3", Title: "Первая песня"},
		{AudioURL: "https://cdn.example.com/b.mp3", Title: "Second Song"},
		{AudioURL: "s3://bucket/c.mp3", Title: "Third"},
	}

	if len(tracks) != len(expected) {
		t.Fatalf("Ожидалось %d треков, получено %d: %+v", len(expected), len(tracks), tracks)
	}
	for i := range expected {
		if tracks[i] != expected[i] {
			t.Errorf("Трек %d: ожидался %+v, получен %+v", i, expected[i], tracks[i])
		}
	}
}

func TestParseHTMLWithoutSections(t *testing.T) {
	tracks, err := ParseHTML(strings.NewReader("<html><body><p>пусто</p></body></html>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 0 {
		t.Errorf("Ожидался пустой список, получено %d", len(tracks))
	}
}

func TestBuildFromHTMLResolvesRelativeLocators(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	if err := os.WriteFile(page, []byte(testPage), 0644); err != nil {
		t.Fatalf("Ошибка записи страницы: %v", err)
	}

	c, err := Build(page)
	if err != nil {
		t.Fatalf("Ошибка построения каталога: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Ожидалось 3 трека, получено %d", c.Len())
	}

	tests := []struct {
		index    int
		expected string
	}{
		{0, filepath.Join(dir, "music", "a.mp3")},
		{1, "https://cdn.example.com/b.mp3"},
		{2, "s3://bucket/c.mp3"},
	}
	for _, test := range tests {
		got, ok := c.Resolve(test.index)
		if !ok || got != test.expected {
			t.Errorf("Resolve(%d) = %s, %v; expected %s", test.index, got, ok, test.expected)
		}
	}

	if _, ok := c.Resolve(3); ok {
		t.Error("Resolve вне диапазона должен вернуть false")
	}
	if c.Source() != page {
		t.Errorf("Source = %s", c.Source())
	}
}

func TestBuildFromLibrary(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "library.yaml")
	content := `tracks:
  - title: One
    artist: Band
    url: one.mp3
  - title: Two
    url: https://example.com/two.mp3
`
	if err := os.WriteFile(lib, []byte(content), 0644); err != nil {
		t.Fatalf("Ошибка записи библиотеки: %v", err)
	}

	c, err := Build(lib)
	if err != nil {
		t.Fatalf("Ошибка построения каталога: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Ожидалось 2 трека, получено %d", c.Len())
	}
	first, _ := c.Track(0)
	if first.Title != "One" || first.Artist != "Band" {
		t.Errorf("Неверный первый трек: %+v", first)
	}
}

func TestBuildFromDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b - Second.mp3", "a - First.MP3", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("fake"), 0644); err != nil {
			t.Fatalf("Ошибка записи файла: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.mp3"), 0755); err != nil {
		t.Fatalf("Ошибка создания каталога: %v", err)
	}

	c, err := Build(dir)
	if err != nil {
		t.Fatalf("Ошибка построения каталога: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Ожидалось 2 трека, получено %d: %+v", c.Len(), c.Tracks())
	}

	first, _ := c.Track(0)
	if first.Title != "First" || first.Artist != "a" {
		t.Errorf("Неверный первый трек: %+v", first)
	}
	got, _ := c.Resolve(1)
	if got != filepath.Join(dir, "b - Second.mp3") {
		t.Errorf("Resolve(1) = %s", got)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("Ожидалась ошибка для отсутствующего источника")
	}

	other := filepath.Join(t.TempDir(), "tracks.txt")
	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatalf("Ошибка записи файла: %v", err)
	}
	if _, err := Build(other); err == nil {
		t.Error("Ожидалась ошибка для неподдерживаемого источника")
	}
}

func TestEmptyCatalog(t *testing.T) {
	var c *Catalog
	if !c.Empty() || c.Len() != 0 {
		t.Error("nil каталог должен быть пустым")
	}
	if _, ok := New(nil, "").Track(0); ok {
		t.Error("Track(0) пустого каталога должен вернуть false")
	}
}
