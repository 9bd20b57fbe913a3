package player

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/hazadus/go-tracklist/internal/streaming"
)

// Opener открывает поток байтов по адресу трека
type Opener interface {
	Open(ctx context.Context, locator string) (io.ReadCloser, error)
}

// Resolver превращает адрес хранилища в HTTP ссылку
type Resolver interface {
	Resolve(locator string) (string, error)
}

// Sources открывает локальные файлы, HTTP(S) потоки и адреса s3://
type Sources struct {
	Client     *http.Client // nil - клиент streaming по умолчанию
	S3         Resolver     // nil - адреса s3:// не поддерживаются
	BufferSize int
}

// Open реализует Opener
func (s Sources) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	if locator == "" {
		return nil, ErrNoSource
	}

	switch scheme(locator) {
	case "http", "https":
		return s.stream(ctx, locator)

	case "s3":
		if s.S3 == nil {
			return nil, fmt.Errorf("хранилище S3 не настроено для %s", locator)
		}
		link, err := s.S3.Resolve(locator)
		if err != nil {
			return nil, err
		}
		return s.stream(ctx, link)

	case "file":
		u, _ := url.Parse(locator)
		return openFile(u.Path)

	default:
		return openFile(locator)
	}
}

func (s Sources) stream(ctx context.Context, link string) (io.ReadCloser, error) {
	if s.Client != nil {
		return streaming.NewReaderWithClient(ctx, s.Client, link, s.BufferSize)
	}
	return streaming.NewReader(ctx, link, s.BufferSize)
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	return f, nil
}

// scheme возвращает схему адреса; однобуквенные схемы считаются буквой диска
func scheme(locator string) string {
	i := strings.Index(locator, "://")
	if i <= 1 {
		return ""
	}
	return strings.ToLower(locator[:i])
}
