package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUpload(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	ref, err := s.Upload(context.Background(),
		bytes.NewReader([]byte("medical certificate")),
		"leave/emp-1/doc.pdf", "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("leave", "emp-1", "doc.pdf"), ref)

	data, err := os.ReadFile(filepath.Join(dir, ref))
	require.NoError(t, err)
	assert.Equal(t, "medical certificate", string(data))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), bytes.NewReader(nil),
		"../outside.pdf", "application/octet-stream")
	require.Error(t, err)
}
