// Package storage - адаптеры ports.FileStorage: Google Cloud Storage и локальный диск.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/Haleralex/fundhub/internal/application/ports"
)

// Compile-time check
var _ ports.FileStorage = (*GCSStorage)(nil)

// GCSConfig - параметры бакета.
type GCSConfig struct {
	Bucket          string
	CredentialsFile string        // пусто - Application Default Credentials
	SignedURLTTL    time.Duration // время жизни ссылки на чтение
	GoogleAccessID  string        // service account email для подписи V4; пусто - из credentials
	PrivateKey      []byte        // PEM ключ service account; пусто - IAM signBlob
}

// GCSStorage хранит файлы в бакете Google Cloud Storage.
type GCSStorage struct {
	client *storage.Client
	bucket *storage.BucketHandle
	cfg    GCSConfig
}

// NewGCSStorage создаёт клиента GCS.
func NewGCSStorage(ctx context.Context, cfg GCSConfig, opts ...option.ClientOption) (*GCSStorage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket is not configured")
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = 15 * time.Minute
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}

	return &GCSStorage{
		client: client,
		bucket: client.Bucket(cfg.Bucket),
		cfg:    cfg,
	}, nil
}

// Upload записывает объект целиком и возвращает его путь.
func (s *GCSStorage) Upload(ctx context.Context, content []byte, path, contentType string) (string, error) {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload %s: %w", path, err)
	}

	return w.Attrs().Name, nil
}

// Delete удаляет объект. Отсутствующий объект не ошибка.
func (s *GCSStorage) Delete(ctx context.Context, path string) error {
	err := s.bucket.Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// SignedURL возвращает V4 ссылку на чтение объекта.
func (s *GCSStorage) SignedURL(_ context.Context, path string) (string, error) {
	url, err := s.bucket.SignedURL(path, &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         http.MethodGet,
		Expires:        time.Now().Add(s.cfg.SignedURLTTL),
		GoogleAccessID: s.cfg.GoogleAccessID,
		PrivateKey:     s.cfg.PrivateKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign url for %s: %w", path, err)
	}
	return url, nil
}

// Ping проверяет доступ к бакету (readiness).
func (s *GCSStorage) Ping(ctx context.Context) error {
	if _, err := s.bucket.Attrs(ctx); err != nil {
		return fmt.Errorf("gcs bucket %s: %w", s.cfg.Bucket, err)
	}
	return nil
}

// Close закрывает клиента.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
