package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	Setup("production", FileOptions{Path: path})
	t.Cleanup(func() { Setup("test", FileOptions{}) })

	Info("audit write", "entry_id", 42)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"audit write"`)
	assert.Contains(t, string(data), `"entry_id":42`)
}

func TestNewRotator_Defaults(t *testing.T) {
	r := newRotator(FileOptions{Path: "x.log"})
	assert.Equal(t, 10, r.MaxSize)
	assert.Equal(t, 3, r.MaxBackups)
	assert.Equal(t, 28, r.MaxAge)
	assert.True(t, r.Compress)

	r = newRotator(FileOptions{Path: "x.log", MaxSizeMB: 50, MaxBackups: 7, MaxAgeDays: 90})
	assert.Equal(t, 50, r.MaxSize)
	assert.Equal(t, 7, r.MaxBackups)
	assert.Equal(t, 90, r.MaxAge)
}
