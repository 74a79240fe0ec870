// Package exactio fills fixed-size buffers from readers that may return
// short reads.
package exactio

import (
	"fmt"
	"io"
)

// A reader returning neither data nor an error this many times in a row is
// considered broken.
const maxEmptyReads = 100

// Fill reads from r until buf is full, retrying short reads. It returns
// io.ErrUnexpectedEOF (wrapped with the byte counts) when r runs out before
// the buffer is filled, and io.ErrNoProgress when r keeps returning nothing.
func Fill(r io.Reader, buf []byte) error {
	total := 0
	empty := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if total == len(buf) {
			return nil
		}
		if err == io.EOF {
			return fmt.Errorf("%w: need %d bytes, got %d", io.ErrUnexpectedEOF, len(buf), total)
		}
		if err != nil {
			return err
		}
		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return io.ErrNoProgress
			}
			continue
		}
		empty = 0
	}
	return nil
}
