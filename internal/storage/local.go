package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local writes blobs under a base directory and serves them from a
// configured base URL. Intended for development; production uses S3.
type Local struct {
	baseDir string
	baseURL string
}

func NewLocal(baseDir, baseURL string) *Local {
	return &Local{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Upload(_ context.Context, path string, data []byte) (string, error) {
	clean := strings.TrimLeft(filepath.Clean("/"+path), "/")
	full := filepath.Join(l.baseDir, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage/local: mkdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("storage/local: write %s: %w", clean, err)
	}
	return l.baseURL + "/" + filepath.ToSlash(clean), nil
}
