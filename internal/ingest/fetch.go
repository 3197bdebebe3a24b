package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrSourceNotFound distinguishes a missing dump from other acquisition
// failures; both are fatal for the current run only.
var ErrSourceNotFound = errors.New("source file not found")

// Fetcher makes the dump available locally and returns its staged path.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// LocalFetcher stages the dump by copying it from a mounted drop directory.
type LocalFetcher struct {
	source     string
	stagingDir string
}

func NewLocalFetcher(source, stagingDir string) *LocalFetcher {
	return &LocalFetcher{source: source, stagingDir: stagingDir}
}

func (f *LocalFetcher) Fetch(ctx context.Context) (string, error) {
	if err := os.MkdirAll(f.stagingDir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	src, err := os.Open(f.source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, f.source)
		}
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dest := filepath.Join(f.stagingDir, filepath.Base(f.source))
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return "", fmt.Errorf("copy to staging: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close staged file: %w", err)
	}
	return dest, nil
}
