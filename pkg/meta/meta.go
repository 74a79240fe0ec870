// Package meta implements encoding and decoding of FLAC metadata blocks.
//
// Each block kind has its own codec. Decoding copies every field out of the
// supplied byte region, so decoded blocks never alias a read buffer.
package meta

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when a block body is shorter than its
	// declared or fixed layout requires. No codec performs partial decoding.
	ErrTruncated = errors.New("meta: truncated block body")
	// ErrUnknownType is returned for type tags outside the seven defined
	// block kinds.
	ErrUnknownType = errors.New("meta: unknown block type")
	// ErrFieldOutOfRange is returned at encode time when a field cannot be
	// represented in its on-disk width.
	ErrFieldOutOfRange = errors.New("meta: field out of range")
	// ErrBlockTooLarge is returned when a block body exceeds the 24-bit
	// length limit of the block header.
	ErrBlockTooLarge = errors.New("meta: block exceeds maximum size")
)

// Type identifies the kind of a metadata block.
type Type uint8

const (
	TypeStreamInfo Type = iota
	TypePadding
	TypeApplication
	TypeSeekTable
	TypeVorbisComment
	TypeCueSheet
	TypePicture
)

func (t Type) String() string {
	switch t {
	case TypeStreamInfo:
		return "STREAMINFO"
	case TypePadding:
		return "PADDING"
	case TypeApplication:
		return "APPLICATION"
	case TypeSeekTable:
		return "SEEKTABLE"
	case TypeVorbisComment:
		return "VORBIS_COMMENT"
	case TypeCueSheet:
		return "CUESHEET"
	case TypePicture:
		return "PICTURE"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
}

// Block is one decoded metadata block.
type Block interface {
	// BlockType reports the on-disk type tag of the block.
	BlockType() Type
	// Encode serializes the block body, without its framing header.
	Encode() ([]byte, error)
}

// Decode parses a block body of the given type. The region must hold the
// complete body; every codec rejects short regions with ErrTruncated.
func Decode(t Type, body []byte) (Block, error) {
	switch t {
	case TypeStreamInfo:
		return decodeStreamInfo(body)
	case TypePadding:
		return decodePadding(body)
	case TypeApplication:
		return decodeApplication(body)
	case TypeSeekTable:
		return decodeSeekTable(body)
	case TypeVorbisComment:
		return decodeVorbisComment(body)
	case TypeCueSheet:
		return decodeCueSheet(body)
	case TypePicture:
		return decodePicture(body)
	}
	return nil, fmt.Errorf("%w: tag %d", ErrUnknownType, uint8(t))
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
