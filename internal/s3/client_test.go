package s3

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// MockS3Uploader мок для S3 uploader
type MockS3Uploader struct {
	uploadFunc func(input *s3manager.UploadInput) (*s3manager.UploadOutput, error)
}

func (m *MockS3Uploader) UploadWithContext(ctx context.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return m.uploadFunc(input)
}

func testConfig() Config {
	return Config{
		Region:     "us-east-1",
		AccessKey:  "test-access-key",
		SecretKey:  "test-secret-key",
		Endpoint:   "http://localhost:9000",
		BucketName: "test-bucket",
	}
}

func newTestClient(t *testing.T, uploader uploaderAPI) *Client {
	t.Helper()
	client, err := NewClient(testConfig())
	if err != nil {
		t.Fatalf("Неожиданная ошибка при создании клиента: %v", err)
	}
	if uploader != nil {
		client.uploader = uploader
	}
	return client
}

// TestSuccessfulUpload тестирует успешную загрузку файла в S3
func TestSuccessfulUpload(t *testing.T) {
	mockUploader := &MockS3Uploader{
		uploadFunc: func(input *s3manager.UploadInput) (*s3manager.UploadOutput, error) {
			if aws.StringValue(input.Bucket) != "test-bucket" {
				t.Errorf("Ожидался bucket: test-bucket, получено: %s", aws.StringValue(input.Bucket))
			}
			if aws.StringValue(input.Key) != "music/song.mp3" {
				t.Errorf("Ожидался key: music/song.mp3, получено: %s", aws.StringValue(input.Key))
			}

			body, err := io.ReadAll(input.Body)
			if err != nil {
				t.Errorf("Ошибка чтения тела запроса: %v", err)
			}
			if string(body) != "test content" {
				t.Errorf("Ожидалось содержимое: test content, получено: %s", string(body))
			}
			return &s3manager.UploadOutput{}, nil
		},
	}

	client := newTestClient(t, mockUploader)
	locator, err := client.Upload(context.Background(), strings.NewReader("test content"), "music/song.mp3")
	if err != nil {
		t.Fatalf("Неожиданная ошибка при загрузке: %v", err)
	}

	if locator != "s3://test-bucket/music/song.mp3" {
		t.Errorf("Неожиданный адрес: %s", locator)
	}
}

// TestUploadErrorHandling тестирует обработку ошибок при загрузке
func TestUploadErrorHandling(t *testing.T) {
	codes := []string{"InvalidAccessKeyId", "RequestTimeout", "AccessDenied"}

	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			client := newTestClient(t, &MockS3Uploader{
				uploadFunc: func(input *s3manager.UploadInput) (*s3manager.UploadOutput, error) {
					return nil, awserr.New(code, "failure", nil)
				},
			})

			_, err := client.Upload(context.Background(), strings.NewReader("x"), "song.mp3")
			if err == nil {
				t.Fatal("Ожидалась ошибка")
			}
			if !strings.Contains(err.Error(), "ошибка загрузки") {
				t.Errorf("Неожиданное сообщение об ошибке: %v", err)
			}
		})
	}
}

func TestParseLocator(t *testing.T) {
	tests := []struct {
		locator string
		bucket  string
		key     string
		ok      bool
	}{
		{"s3://music/song.mp3", "music", "song.mp3", true},
		{"s3://music/artist/album/песня.mp3", "music", "artist/album/песня.mp3", true},
		{"s3://music/", "", "", false},
		{"s3:///song.mp3", "", "", false},
		{"https://example.com/song.mp3", "", "", false},
		{"song.mp3", "", "", false},
	}

	for _, test := range tests {
		bucket, key, ok := ParseLocator(test.locator)
		if bucket != test.bucket || key != test.key || ok != test.ok {
			t.Errorf("ParseLocator(%q) = (%q, %q, %v); expected (%q, %q, %v)",
				test.locator, bucket, key, ok, test.bucket, test.key, test.ok)
		}
	}
}

func TestLocatorRoundTrip(t *testing.T) {
	locator := Locator("test-bucket", "/a/b.mp3")
	if locator != "s3://test-bucket/a/b.mp3" {
		t.Fatalf("Неожиданный адрес: %s", locator)
	}
	bucket, key, ok := ParseLocator(locator)
	if !ok || bucket != "test-bucket" || key != "a/b.mp3" {
		t.Errorf("Неверный разбор: %s %s %v", bucket, key, ok)
	}
}

func TestResolvePresignsURL(t *testing.T) {
	client := newTestClient(t, nil)

	link, err := client.Resolve("s3://test-bucket/music/song.mp3")
	if err != nil {
		t.Fatalf("Ошибка подписи: %v", err)
	}

	if !strings.HasPrefix(link, "http://localhost:9000/test-bucket/music/song.mp3?") {
		t.Errorf("Неожиданная ссылка: %s", link)
	}
	if !strings.Contains(link, "X-Amz-Signature=") {
		t.Errorf("Ссылка должна быть подписана: %s", link)
	}
}

func TestResolveInvalidLocator(t *testing.T) {
	client := newTestClient(t, nil)
	if _, err := client.Resolve("https://example.com/a.mp3"); err == nil {
		t.Error("Ожидалась ошибка для адреса не из S3")
	}
}

func TestConfigured(t *testing.T) {
	if (Config{}).Configured() {
		t.Error("Пустая конфигурация не должна считаться заданной")
	}
	if !testConfig().Configured() {
		t.Error("Конфигурация с ключами должна считаться заданной")
	}
}
