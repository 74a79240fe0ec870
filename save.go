package flacrw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cadenza-tools/flacrw/pkg/meta"
)

// Save rebuilds the metadata region of f from the current block sequence and
// splices the untouched frame region back behind it. Padding blocks are not
// re-emitted. The last-block flag is recomputed so only the final written
// block carries it.
//
// Save truncates f before the new metadata is fully written, so an I/O
// failure in the middle leaves the file corrupted. SaveTo is the atomic
// alternative.
func (c *Container) Save(f File) error {
	return c.save(f, 0)
}

// SaveWithPadding is Save with a zero-filled padding block of n bytes
// appended as the final metadata block, reserving slack for future in-place
// edits.
func (c *Container) SaveWithPadding(f File, n uint32) error {
	return c.save(f, n)
}

func (c *Container) save(f File, pad uint32) error {
	if c.log == nil {
		c.log = defaultLogger()
	}
	blob, err := c.encodeBlocks(pad)
	if err != nil {
		return err
	}
	frames, err := c.readFrames(f)
	if err != nil {
		return err
	}

	// Point of no return: from here until the frame region is appended the
	// file on disk is incomplete.
	if err := f.Truncate(int64(len(signature))); err != nil {
		return fmt.Errorf("truncate to signature: %w", err)
	}
	if _, err := f.Seek(int64(len(signature)), io.SeekStart); err != nil {
		return fmt.Errorf("seek past signature: %w", err)
	}
	if _, err := f.Write(blob); err != nil {
		return fmt.Errorf("write metadata region: %w", err)
	}
	if _, err := f.Write(frames); err != nil {
		return fmt.Errorf("write frame region: %w", err)
	}

	c.frameStart = int64(len(signature) + len(blob))
	c.log.WithField("frame_offset", c.frameStart).Debug("rewrote metadata region")
	return nil
}

// SaveTo writes a complete copy of the container to path: signature, the
// rebuilt metadata region and the frame region read from src. The copy goes
// through a temporary file in the destination directory and a rename, so a
// failure never leaves a half-written file at path.
func (c *Container) SaveTo(src File, path string) error {
	blob, err := c.encodeBlocks(0)
	if err != nil {
		return err
	}
	frames, err := c.readFrames(src)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".flacrw-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeAll(tmp, signature, blob, frames); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// encodeBlocks serializes every non-padding block with its framing header,
// optionally appending a fresh padding block of pad bytes at the end.
func (c *Container) encodeBlocks(pad uint32) ([]byte, error) {
	type encoded struct {
		typ  meta.Type
		body []byte
	}
	var out []encoded

	for _, b := range c.Blocks {
		if b.BlockType() == meta.TypePadding {
			continue
		}
		body, err := b.Encode()
		if err != nil {
			return nil, fmt.Errorf("encode %s block: %w", b.BlockType(), err)
		}
		out = append(out, encoded{b.BlockType(), body})
	}
	if pad > 0 {
		body, err := (&meta.Padding{NumBytes: pad}).Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, encoded{meta.TypePadding, body})
	}
	if len(out) == 0 {
		return nil, ErrNoBlocks
	}

	buf := new(bytes.Buffer)
	for i, e := range out {
		hdr := meta.Header{
			IsLast: i == len(out)-1,
			Type:   e.typ,
			Length: uint32(len(e.body)),
		}
		word, err := hdr.Encode()
		if err != nil {
			return nil, fmt.Errorf("encode %s header: %w", e.typ, err)
		}
		var w [meta.HeaderSize]byte
		binary.BigEndian.PutUint32(w[:], word)
		buf.Write(w[:])
		buf.Write(e.body)
	}
	return buf.Bytes(), nil
}

// readFrames buffers the whole frame region before anything is mutated.
func (c *Container) readFrames(f File) ([]byte, error) {
	if _, err := f.Seek(c.frameStart, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to frame region: %w", err)
	}
	frames, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read frame region: %w", err)
	}
	return frames, nil
}

func writeAll(w io.Writer, chunks ...[]byte) error {
	for _, chunk := range chunks {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return nil
}
