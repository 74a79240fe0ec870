// Package export writes and reads xz-compressed JSON dumps of index
// records, one JSON document per line inside the compressed stream.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"

	"github.com/cadenza-tools/flacrw/pkg/libindex"
)

// Write compresses recs into w.
func Write(w io.Writer, recs []libindex.Record) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create xz writer: %w", err)
	}
	enc := json.NewEncoder(xw)
	for _, rec := range recs {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record for %s: %w", rec.Path, err)
		}
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("close xz stream: %w", err)
	}
	return nil
}

// Read decompresses a dump produced by Write.
func Read(r io.Reader) ([]libindex.Record, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create xz reader: %w", err)
	}
	var recs []libindex.Record
	dec := json.NewDecoder(xr)
	for {
		var rec libindex.Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return recs, nil
			}
			return nil, fmt.Errorf("decode record: %w", err)
		}
		recs = append(recs, rec)
	}
}
