package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

const (
	trackClass     = "track"
	audioAttribute = "data-audio"
)

func fromHTMLFile(path string) ([]Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия страницы: %w", err)
	}
	defer file.Close()

	return ParseHTML(file)
}

// ParseHTML извлекает треки из секций class="track" в порядке документа.
// Адрес берется из атрибута data-audio, название - из первого вложенного h2.
func ParseHTML(r io.Reader) ([]Track, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора страницы: %w", err)
	}

	var tracks []Track
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, trackClass) {
			tracks = append(tracks, Track{
				AudioURL: attr(n, audioAttribute),
				Title:    strings.TrimSpace(textOf(firstElement(n, "h2"))),
			})
			// Вложенные секции не рассматриваются как отдельные треки
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return tracks, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func firstElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := firstElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
