// Package filestore keeps uploaded attachments on a filesystem and serves
// them back by name.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-notes/internal/platform/logger"
	"github.com/spf13/afero"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads/"

// tempFilePrefix marks partially written uploads.
const tempFilePrefix = ".upload-tmp-"

var (
	// ErrInvalidFilename is returned for names that are empty or try to leave the upload directory.
	ErrInvalidFilename = errors.New("invalid file name")

	// ErrFileNotFound is returned when no stored file has the requested name.
	ErrFileNotFound = errors.New("file not found")

	// ErrFileTooLarge is returned when an upload exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")
)

// LocalStore writes uploads into a single flat directory.
type LocalStore struct {
	fs       afero.Fs
	dir      string
	maxBytes int64
	logger   *slog.Logger
}

// NewLocalStore creates the upload directory if needed. A maxBytes of zero
// or less disables the size limit.
func NewLocalStore(fs afero.Fs, dir string, maxBytes int64, logger *slog.Logger) (*LocalStore, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	return &LocalStore{
		fs:       fs,
		dir:      dir,
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "file_store")),
	}, nil
}

// SanitizeName reduces a client-supplied file name to a safe base name.
func SanitizeName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." || strings.TrimSpace(base) == "" {
		return "", ErrInvalidFilename
	}

	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)

	if strings.Trim(clean, ".") == "" {
		return "", ErrInvalidFilename
	}
	return clean, nil
}

// Save stores the contents of r under a unique name derived from
// originalName and returns that name. The file only becomes visible once
// it has been written completely.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	base, err := SanitizeName(originalName)
	if err != nil {
		return "", err
	}
	name := uuid.NewString() + "_" + base

	tmp, err := afero.TempFile(s.fs, s.dir, tempFilePrefix+"*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = s.fs.Remove(tmpName)
		}
	}()

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}

	written, err := io.Copy(tmp, src)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if s.maxBytes > 0 && written > s.maxBytes {
		log.Warn("upload rejected: too large",
			slog.String("file_name", base),
			slog.Int64("limit_bytes", s.maxBytes))
		return "", fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxBytes)
	}

	if err := s.fs.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("failed to move upload into place: %w", err)
	}
	committed = true

	log.Info("upload stored",
		slog.String("stored_name", name),
		slog.Int64("size_bytes", written))
	return name, nil
}

// Open returns a stored file for reading. The caller must close it.
func (s *LocalStore) Open(name string) (afero.File, os.FileInfo, error) {
	if name == "" || name != path.Base(name) || strings.ContainsAny(name, `/\`) ||
		name == "." || name == ".." || strings.HasPrefix(name, tempFilePrefix) {
		return nil, nil, ErrInvalidFilename
	}

	full := filepath.Join(s.dir, name)
	info, err := s.fs.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if info.IsDir() {
		return nil, nil, ErrFileNotFound
	}

	f, err := s.fs.Open(full)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, info, nil
}

// URLPath is the public path of a stored file.
func URLPath(name string) string {
	return URLPrefix + name
}
