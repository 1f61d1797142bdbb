package sheet

import (
	"errors"
	"io"

	"github.com/nao1215/csvchain"
)

// Convert copies the remaining rows of r to w, running processors on every
// row when given. It stops at the first error and returns the number of rows
// written. w is not flushed.
func Convert(r *Reader, w *csvchain.Writer, processors ...csvchain.CellProcessor) (int, error) {
	written := 0
	for {
		values, err := r.ReadValues(processors...)
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, err
		}
		if err := w.Write(values); err != nil {
			return written, err
		}
		written++
	}
}
