package sink

import (
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-wikicorpus"
)

// JSONL writes one document per line.
type JSONL struct {
	w *wikicorpus.RecordWriter
	c io.Closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewJSONL writes to w. If w is an io.Closer it is closed by Close.
func NewJSONL(w io.Writer) *JSONL {
	c, ok := w.(io.Closer)
	if !ok {
		c = nopCloser{}
	}
	return &JSONL{w: wikicorpus.NewRecordWriter(w), c: c}
}

// CreateJSONL creates path, and any missing parent directories, for
// writing. "-" and "" mean stdout.
func CreateJSONL(path string) (*JSONL, error) {
	if path == "" || path == "-" {
		return &JSONL{w: wikicorpus.NewRecordWriter(os.Stdout), c: nopCloser{}}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewJSONL(f), nil
}

func (j *JSONL) Write(doc wikicorpus.CleanedDocument) error {
	return j.w.Write(doc)
}

// Close flushes buffered lines and closes the underlying file.
func (j *JSONL) Close() error {
	err := j.w.Flush()
	if cerr := j.c.Close(); err == nil {
		err = cerr
	}
	return err
}
