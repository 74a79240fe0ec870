package meta

import "fmt"

// MaxBodySize is the largest block body the 24-bit header length can
// describe.
const MaxBodySize = 0xFFFFFF

// HeaderSize is the size of the framing word in front of every block.
const HeaderSize = 4

// Header is the 4-byte framing word in front of every metadata block: the
// last-block flag in bit 31, the type tag in bits 24..30 and the body length
// in the low 24 bits.
type Header struct {
	IsLast bool
	Type   Type
	Length uint32
}

// DecodeHeader unpacks a framing word.
func DecodeHeader(word uint32) Header {
	return Header{
		IsLast: word>>31 == 1,
		Type:   Type(word >> 24 & 0x7F),
		Length: word & MaxBodySize,
	}
}

// Encode packs the framing word. Bodies longer than MaxBodySize cannot be
// represented and are rejected rather than truncated.
func (h Header) Encode() (uint32, error) {
	if h.Length > MaxBodySize {
		return 0, fmt.Errorf("%w: %s body is %d bytes, limit %d", ErrBlockTooLarge, h.Type, h.Length, MaxBodySize)
	}
	word := h.Length | uint32(h.Type)<<24
	if h.IsLast {
		word |= 1 << 31
	}
	return word, nil
}
