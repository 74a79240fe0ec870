package meta

import "encoding/binary"

// SeekPointSize is the on-disk size of one seek point.
const SeekPointSize = 18

// SeekPoint maps a sample number to a byte offset inside the frame region.
type SeekPoint struct {
	// Sample number of the first sample in the target frame, or
	// 0xFFFFFFFFFFFFFFFF for a placeholder point.
	SampleNumber uint64
	// Offset in bytes from the start of the frame region to the target
	// frame header.
	ByteOffset uint64
	// Number of samples in the target frame.
	FrameSamples uint16
}

// SeekTable holds pre-calculated seek points in stream order.
type SeekTable struct {
	Points []SeekPoint
}

func decodeSeekTable(body []byte) (*SeekTable, error) {
	// Trailing bytes that do not make up a whole seek point are dropped,
	// matching the reference scanner behavior.
	n := len(body) / SeekPointSize
	table := &SeekTable{Points: make([]SeekPoint, n)}
	for i := 0; i < n; i++ {
		p := body[i*SeekPointSize:]
		table.Points[i] = SeekPoint{
			SampleNumber: binary.BigEndian.Uint64(p[0:8]),
			ByteOffset:   binary.BigEndian.Uint64(p[8:16]),
			FrameSamples: binary.BigEndian.Uint16(p[16:18]),
		}
	}
	return table, nil
}

func (t *SeekTable) BlockType() Type { return TypeSeekTable }

func (t *SeekTable) Encode() ([]byte, error) {
	body := make([]byte, len(t.Points)*SeekPointSize)
	for i, p := range t.Points {
		b := body[i*SeekPointSize:]
		binary.BigEndian.PutUint64(b[0:8], p.SampleNumber)
		binary.BigEndian.PutUint64(b[8:16], p.ByteOffset)
		binary.BigEndian.PutUint16(b[16:18], p.FrameSamples)
	}
	return body, nil
}
