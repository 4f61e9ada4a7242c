package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans every write out to all writers, e.g. stdout and the
// rotated log file. A failing writer does not stop the others.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: append([]io.Writer{}, writers...),
	}
}

// Write returns the sum of bytes written across writers and all write errors combined.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var total int
	var errs error
	for _, w := range cw.Writers {
		written, err := w.Write(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		total += written
	}
	return total, errs
}
