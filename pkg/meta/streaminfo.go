package meta

import (
	"encoding/binary"
	"fmt"
)

// StreamInfoSize is the fixed body size of a STREAMINFO block.
const StreamInfoSize = 34

// StreamInfo describes the audio stream as a whole. A container holds at
// most one of these.
//
// The body packs SampleRate (20 bits), ChannelCount-1 (3 bits),
// BitsPerSample-1 (5 bits) and TotalSamples (36 bits) into a single 64-bit
// word.
type StreamInfo struct {
	// Minimum and maximum block size (in samples) used in the stream.
	MinBlockSize uint16
	MaxBlockSize uint16
	// Minimum and maximum frame size in bytes, 0 meaning unknown.
	MinFrameSize uint32
	MaxFrameSize uint32
	// Sample rate in Hz, 20 bits on disk.
	SampleRate uint32
	// Number of channels, 1 to 8.
	ChannelCount uint8
	// Bits per sample, 4 to 32.
	BitsPerSample uint8
	// Total inter-channel samples in the stream, 36 bits on disk.
	TotalSamples uint64
	// MD5 signature of the unencoded audio data.
	MD5 [16]byte
}

func decodeStreamInfo(body []byte) (*StreamInfo, error) {
	if len(body) < StreamInfoSize {
		return nil, fmt.Errorf("%w: streaminfo needs %d bytes, have %d", ErrTruncated, StreamInfoSize, len(body))
	}

	si := &StreamInfo{
		MinBlockSize: binary.BigEndian.Uint16(body[0:2]),
		MaxBlockSize: binary.BigEndian.Uint16(body[2:4]),
		MinFrameSize: uint24(body[4:7]),
		MaxFrameSize: uint24(body[7:10]),
	}

	bits := binary.BigEndian.Uint64(body[10:18])
	si.SampleRate = uint32(bits >> 44)
	si.ChannelCount = uint8(bits>>41&0x7) + 1
	si.BitsPerSample = uint8(bits>>36&0x1F) + 1
	si.TotalSamples = bits & 0xFFFFFFFFF

	copy(si.MD5[:], body[18:34])
	return si, nil
}

func (si *StreamInfo) BlockType() Type { return TypeStreamInfo }

// Encode serializes the block body. ChannelCount and BitsPerSample are
// stored offset by one and silently masking them would corrupt the stream,
// so out-of-range values are rejected. SampleRate and TotalSamples are
// masked to their 20- and 36-bit widths.
func (si *StreamInfo) Encode() ([]byte, error) {
	if si.ChannelCount < 1 || si.ChannelCount > 8 {
		return nil, fmt.Errorf("%w: channel count %d, want 1 to 8", ErrFieldOutOfRange, si.ChannelCount)
	}
	if si.BitsPerSample < 4 || si.BitsPerSample > 32 {
		return nil, fmt.Errorf("%w: bits per sample %d, want 4 to 32", ErrFieldOutOfRange, si.BitsPerSample)
	}

	body := make([]byte, StreamInfoSize)
	binary.BigEndian.PutUint16(body[0:2], si.MinBlockSize)
	binary.BigEndian.PutUint16(body[2:4], si.MaxBlockSize)
	putUint24(body[4:7], si.MinFrameSize&MaxBodySize)
	putUint24(body[7:10], si.MaxFrameSize&MaxBodySize)

	bits := uint64(si.SampleRate&0xFFFFF)<<44 |
		uint64(si.ChannelCount-1)<<41 |
		uint64(si.BitsPerSample-1)<<36 |
		si.TotalSamples&0xFFFFFFFFF
	binary.BigEndian.PutUint64(body[10:18], bits)

	copy(body[18:34], si.MD5[:])
	return body, nil
}
