package protolog

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileRecorder appends events to a file in CBOR format. It is safe for
// concurrent use.
type FileRecorder struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileRecorder opens (creating if necessary) path for appending events.
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileRecorder{file: f, encoder: NewEncoder(f)}, nil
}

// Log writes event to the file. Encoding errors are swallowed: logging must
// never disrupt the control loop that produced the event.
func (r *FileRecorder) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	_ = r.encoder.Encode(event)
}

// Close closes the underlying file. Safe to call multiple times.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

var _ Logger = (*FileRecorder)(nil)
