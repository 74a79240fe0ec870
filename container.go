package flacrw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cadenza-tools/flacrw/internal/exactio"
	"github.com/cadenza-tools/flacrw/pkg/meta"
)

// File is the handle contract the save protocol needs to rewrite a FLAC
// file in place. *os.File satisfies it.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	Truncate(size int64) error
}

// Container holds the decoded metadata blocks of one FLAC file and the
// offset where its frame region begins. Blocks may be reordered, edited,
// added or removed freely before a save.
//
// A Container is not safe for concurrent use, and two containers saved
// against the same file will corrupt each other.
type Container struct {
	Blocks []meta.Block

	frameStart int64
	log        *logrus.Logger
}

// Parse scans the metadata region of r, which must be positioned at the
// start of the stream. The frame region is not read; only its offset is
// recorded.
func Parse(r io.Reader) (*Container, error) {
	return ParseWithConfig(r, Config{})
}

// ParseWithConfig is Parse with explicit configuration.
func ParseWithConfig(r io.Reader, conf Config) (*Container, error) {
	if conf.Logger == nil {
		conf.Logger = defaultLogger()
	}
	c := &Container{log: conf.Logger}

	var sig [4]byte
	if err := exactio.Fill(r, sig[:]); err != nil {
		return nil, fmt.Errorf("read signature: %w", mapEOF(err))
	}
	if !bytes.Equal(sig[:], signature) {
		return nil, ErrNotFLAC
	}

	offset := int64(len(signature))
	for {
		var word [meta.HeaderSize]byte
		if err := exactio.Fill(r, word[:]); err != nil {
			return nil, fmt.Errorf("read block header: %w", mapEOF(err))
		}
		hdr := meta.DecodeHeader(binary.BigEndian.Uint32(word[:]))

		body := make([]byte, hdr.Length)
		if err := exactio.Fill(r, body); err != nil {
			return nil, fmt.Errorf("read %s body: %w", hdr.Type, mapEOF(err))
		}

		block, err := meta.Decode(hdr.Type, body)
		if err != nil {
			return nil, fmt.Errorf("decode %s block: %w", hdr.Type, err)
		}

		switch block.(type) {
		case *meta.StreamInfo:
			if c.StreamInfo() != nil {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateBlock, hdr.Type)
			}
		case *meta.VorbisComment:
			if c.VorbisComment() != nil {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateBlock, hdr.Type)
			}
		}
		c.Blocks = append(c.Blocks, block)
		offset += meta.HeaderSize + int64(hdr.Length)

		c.log.WithFields(logrus.Fields{
			"type":   hdr.Type.String(),
			"length": hdr.Length,
			"last":   hdr.IsLast,
		}).Debug("decoded metadata block")

		if hdr.IsLast {
			c.frameStart = offset
			return c, nil
		}
	}
}

// Open reads and parses the metadata of the FLAC file at path. The file is
// closed before returning; the frame region is never loaded.
func Open(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// StreamInfo returns the stream info block, or nil if the container has
// none.
func (c *Container) StreamInfo() *meta.StreamInfo {
	for _, b := range c.Blocks {
		if si, ok := b.(*meta.StreamInfo); ok {
			return si
		}
	}
	return nil
}

// VorbisComment returns the tag block, or nil if the container has none.
func (c *Container) VorbisComment() *meta.VorbisComment {
	for _, b := range c.Blocks {
		if vc, ok := b.(*meta.VorbisComment); ok {
			return vc
		}
	}
	return nil
}

// FrameOffset reports where the frame region begins in the underlying file.
// Save updates it to match the rewritten metadata region.
func (c *Container) FrameOffset() int64 {
	return c.frameStart
}

func mapEOF(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}
	return err
}
