// Package heartbeat writes a liveness file for external monitoring of the
// scheduler process.
package heartbeat

import (
	"log/slog"
	"os"
	"time"
)

const DefaultPath = "/tmp/fairybot-scheduler-heartbeat"

type Writer struct {
	path string
}

func NewWriter(path string) *Writer {
	if path == "" {
		path = DefaultPath
	}
	return &Writer{path: path}
}

// Beat writes the current instant to the heartbeat file. A failed write is
// a warning; monitoring must never take the scheduler down.
func (w *Writer) Beat() bool {
	data := []byte(time.Now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(w.path, data, 0644); err != nil {
		slog.Warn("failed to write scheduler heartbeat", "path", w.path, "error", err)
		return false
	}
	return true
}
