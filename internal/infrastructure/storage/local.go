package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Haleralex/fundhub/internal/application/ports"
)

// Compile-time check
var _ ports.FileStorage = (*LocalStorage)(nil)

// ErrUnsafePath - путь выходит за пределы корня хранилища.
var ErrUnsafePath = errors.New("storage path escapes root directory")

// LocalStorage хранит файлы на диске. Только для разработки и тестов.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage создаёт хранилище в каталоге root; ссылки строятся от baseURL.
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload записывает файл, создавая каталоги.
func (s *LocalStorage) Upload(_ context.Context, content []byte, path, _ string) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}

// Delete удаляет файл. Отсутствующий файл не ошибка.
func (s *LocalStorage) Delete(_ context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// SignedURL возвращает ссылку baseURL/path. Срока действия у локальных ссылок нет.
func (s *LocalStorage) SignedURL(_ context.Context, path string) (string, error) {
	if _, err := s.resolve(path); err != nil {
		return "", err
	}
	return s.baseURL + "/" + (&url.URL{Path: path}).EscapedPath(), nil
}

// Ping проверяет, что корневой каталог существует.
func (s *LocalStorage) Ping(_ context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("storage root %s is not a directory", s.root)
	}
	return nil
}

// Root возвращает корневой каталог (для раздачи статики).
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) resolve(path string) (string, error) {
	if path == "" || !filepath.IsLocal(filepath.FromSlash(path)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, path)
	}
	return filepath.Join(s.root, filepath.FromSlash(path)), nil
}
