package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader by parsing a one-file form
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestLocalStorage_SaveAndDeleteSampleImage(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	rel, err := s.SaveSampleImage(fileHeader(t, "Swatch.PNG", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "sampleImage/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))
	assert.True(t, s.Exists(rel))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(rel))
	assert.False(t, s.Exists(rel))
	assert.NoError(t, s.Delete(rel), "deleting a missing file is a no-op")
}

func TestLocalStorage_RejectsUnsupportedType(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.SaveSampleImage(fileHeader(t, "notes.txt", []byte("hello")))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestLocalStorage_FullPathStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	full, err := s.FullPath("/sampleImage/a.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sampleImage", "a.png"), full)

	for _, p := range []string{"../etc/passwd", "sampleImage/../../x", "", ".."} {
		_, err := s.FullPath(p)
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}
