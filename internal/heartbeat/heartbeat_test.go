package heartbeat

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heartbeat")
	w := NewWriter(path)

	assert.True(t, w.Beat())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = time.Parse(time.RFC3339, string(data))
	assert.NoError(t, err)
}

func TestBeatFailureDoesNotPanic(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "missing", "dir", "heartbeat"))
	assert.False(t, w.Beat())
}

func TestDefaultPath(t *testing.T) {
	w := NewWriter("")
	assert.Equal(t, DefaultPath, w.path)
}
