// Package s3 открывает и загружает треки, хранящиеся в S3 совместимом хранилище
package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Scheme схема адресов треков в S3
const Scheme = "s3"

// DefaultExpiry время жизни подписанной ссылки
const DefaultExpiry = 6 * time.Hour

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
}

// Configured возвращает true, если заданы ключи доступа
func (c Config) Configured() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

type uploaderAPI interface {
	UploadWithContext(ctx context.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// Client загружает файлы и выдает подписанные ссылки для воспроизведения
type Client struct {
	uploader uploaderAPI
	s3Client *s3.S3
	config   Config
}

// NewClient создает клиент S3
func NewClient(config Config) (*Client, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}

	// Если указан endpoint, добавляем его
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return &Client{
		uploader: s3manager.NewUploader(sess),
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// Upload загружает файл в bucket из конфигурации и возвращает адрес вида s3://bucket/key
func (c *Client) Upload(ctx context.Context, reader io.Reader, key string) (string, error) {
	_, err := c.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(c.config.BucketName),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String("audio/mpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки: %w", err)
	}

	return Locator(c.config.BucketName, key), nil
}

// PresignGet возвращает временную HTTP ссылку на объект
func (c *Client) PresignGet(bucket, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	req, _ := c.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	link, err := req.Presign(expiry)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи ссылки на %s/%s: %w", bucket, key, err)
	}
	return link, nil
}

// Resolve превращает адрес s3://bucket/key в подписанную HTTP ссылку
func (c *Client) Resolve(locator string) (string, error) {
	bucket, key, ok := ParseLocator(locator)
	if !ok {
		return "", fmt.Errorf("некорректный адрес S3: %s", locator)
	}
	return c.PresignGet(bucket, key, DefaultExpiry)
}

// Locator формирует адрес трека в S3
func Locator(bucket, key string) string {
	return Scheme + "://" + bucket + "/" + strings.TrimPrefix(key, "/")
}

// ParseLocator разбирает адрес вида s3://bucket/key
func ParseLocator(locator string) (bucket, key string, ok bool) {
	u, err := url.Parse(locator)
	if err != nil || u.Scheme != Scheme || u.Host == "" {
		return "", "", false
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", false
	}
	return u.Host, key, true
}
