// Package upload сохраняет загруженные файлы на локальный диск.
//
// Файлы кладутся в <BaseDir>/<Dir>/ под сгенерированным именем
// "<unix_ms>-<случайное число><расширение>". Наружу отдаётся путь
// относительно BaseDir через "/" (например "uploads/1700000000000-42.png"),
// именно он сохраняется в записи товара.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
)

// DefaultMaxBytes — лимит размера файла по умолчанию (5 MB).
const DefaultMaxBytes int64 = 5 * 1000 * 1000

// DiskStore — файловое хранилище загрузок.
type DiskStore struct {
	// BaseDir — корень приложения, относительно которого лежит Dir.
	BaseDir string
	// Dir — подкаталог загрузок, он же префикс возвращаемых путей.
	Dir string
	// MaxBytes — максимальный размер одного файла.
	MaxBytes int64

	now  func() time.Time
	rand func() int64
}

// NewDiskStore создаёт хранилище. Пустой dir заменяется на "uploads",
// maxBytes <= 0 — на DefaultMaxBytes.
func NewDiskStore(baseDir, dir string, maxBytes int64) *DiskStore {
	if dir == "" {
		dir = "uploads"
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &DiskStore{
		BaseDir:  baseDir,
		Dir:      strings.Trim(filepath.ToSlash(dir), "/"),
		MaxBytes: maxBytes,
		now:      time.Now,
		rand:     func() int64 { return rand.Int64N(1e9) },
	}
}

// Root возвращает абсолютный (или относительный к cwd) путь каталога загрузок.
func (s *DiskStore) Root() string {
	return filepath.Join(s.BaseDir, filepath.FromSlash(s.Dir))
}

// uniqueName строит имя вида 1700000000000-123456789.png.
// Расширение берётся из исходного имени как есть, регистр не меняется.
// Коллизия возможна, но маловероятна; O_EXCL при создании файла её ловит.
func (s *DiskStore) uniqueName(original string) string {
	ext := filepath.Ext(filepath.Base(original))
	return fmt.Sprintf("%d-%d%s", s.now().UnixMilli(), s.rand(), ext)
}

// Save потоково копирует r в новый файл и возвращает его путь вида "uploads/<имя>".
//
// Ошибки:
//   - ErrFileTooLarge — содержимое больше MaxBytes (частично записанный файл удаляется);
//   - ErrInternal — ошибка файловой системы.
func (s *DiskStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.Root(), 0o755); err != nil {
		return "", fmt.Errorf("%w: prepare upload dir: %v", serr.ErrInternal, err)
	}

	name := s.uniqueName(originalName)
	full := filepath.Join(s.Root(), name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: create file: %v", serr.ErrInternal, err)
	}

	// читаем на байт больше лимита, чтобы отличить "ровно лимит" от "больше"
	n, copyErr := io.Copy(f, io.LimitReader(r, s.MaxBytes+1))
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("%w: write file: %v", serr.ErrInternal, copyErr)
	case n > s.MaxBytes:
		_ = os.Remove(full)
		return "", serr.ErrFileTooLarge
	case closeErr != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("%w: close file: %v", serr.ErrInternal, closeErr)
	}

	return path.Join(s.Dir, name), nil
}

// Remove удаляет файл, ранее сохранённый через Save.
//
// Пути вне каталога загрузок отклоняются. Отсутствие файла — не ошибка.
func (s *DiskStore) Remove(_ context.Context, rel string) error {
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove file: %v", serr.ErrInternal, err)
	}
	return nil
}

func (s *DiskStore) resolve(rel string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(rel))[1:]
	if !strings.HasPrefix(clean, s.Dir+"/") {
		return "", fmt.Errorf("%w: path %q is outside of %q", serr.ErrInvalidInput, rel, s.Dir)
	}
	return filepath.Join(s.BaseDir, filepath.FromSlash(clean)), nil
}
