package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUpload(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "http://localhost:8080/uploads/")

	url, err := store.Upload(context.Background(), "media/u1/photo.jpg", []byte("jpegbytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/media/u1/photo.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "media", "u1", "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegbytes"), data)
}

func TestLocalUploadCleansPath(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "http://localhost:8080/uploads")

	// Traversal segments must not escape the base directory.
	url, err := store.Upload(context.Background(), "../escape.txt", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/escape.txt", url)

	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)
}
