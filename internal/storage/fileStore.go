package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

const tempPrefix = ".upload-"

// FileStore keeps uploaded files flat in one directory, keyed by base name.
type FileStore struct {
	dir    string
	logger *logger_i.Logger
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", ragError.ErrStorageFailure, dir, err)
	}
	return &FileStore{dir: dir, logger: logger_i.NewLogger("FileStore")}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

// CleanName reduces a client supplied name to its base name. Both slash styles count as separators.
func CleanName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" || base == "" || strings.HasPrefix(base, tempPrefix) {
		return "", fmt.Errorf("%w: unusable file name %q", ragError.ErrInvalidRequest, name)
	}
	return base, nil
}

func (s *FileStore) Path(name string) (string, error) {
	base, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, base), nil
}

// Save writes r under name and returns the stored path. An existing file with the same name is replaced.
func (s *FileStore) Save(name string, r io.Reader) (string, error) {
	target, err := s.Path(name)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ragError.ErrStorageFailure, err)
	}
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("%w: writing %s: %w", ragError.ErrStorageFailure, filepath.Base(target), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ragError.ErrStorageFailure, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("%w: %w", ragError.ErrStorageFailure, err)
	}
	s.logger.Debug("Stored file", "file", filepath.Base(target))
	return target, nil
}

func (s *FileStore) Delete(name string) error {
	target, err := s.Path(name)
	if err != nil {
		return err
	}
	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%s: %w", filepath.Base(target), ragError.ErrNotFound)
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("%w: removing %s: %w", ragError.ErrStorageFailure, filepath.Base(target), err)
	}
	s.logger.Info("Deleted file", "file", filepath.Base(target))
	return nil
}

// List returns the stored file names in lexical order.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ragError.ErrStorageFailure, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Paths is List with full paths.
func (s *FileStore) Paths() ([]string, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	for i, n := range names {
		names[i] = filepath.Join(s.dir, n)
	}
	return names, nil
}
