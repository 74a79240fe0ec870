// Package flacrw reads and rewrites the metadata region of FLAC files while
// leaving the audio frames untouched.
//
// A Container owns the ordered block sequence between the fLaC signature and
// the first audio frame. The frame region itself is never decoded; it is
// located by offset during parsing and copied bit for bit during a save.
package flacrw

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFLAC is returned when the stream does not start with the fLaC
	// signature.
	ErrNotFLAC = errors.New("flacrw: missing fLaC signature")
	// ErrDuplicateBlock is returned when a second STREAMINFO or
	// VORBIS_COMMENT block is encountered. The parse aborts; there is no
	// partial-container recovery.
	ErrDuplicateBlock = errors.New("flacrw: duplicate singleton block")
	// ErrUnexpectedEOF is returned when the stream ends inside the
	// signature, a block header or a block body.
	ErrUnexpectedEOF = errors.New("flacrw: unexpected end of stream")
	// ErrNoBlocks is returned by the save protocol when dropping padding
	// leaves nothing to write, since some block must carry the last flag.
	ErrNoBlocks = errors.New("flacrw: no metadata blocks to write")
)

// Config carries the optional knobs of a parse. The zero value is usable.
type Config struct {
	// Logger receives per-block diagnostics at debug level. If nil a
	// default logger is used.
	Logger *logrus.Logger
}

func defaultLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return log
}

var signature = []byte("fLaC")
