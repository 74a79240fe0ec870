package meta_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-tools/flacrw/pkg/meta"
)

func TestPaddingIgnoresContent(t *testing.T) {
	block, err := meta.Decode(meta.TypePadding, []byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.NoError(t, err)
	p := block.(*meta.Padding)
	assert.Equal(t, uint32(4), p.NumBytes)

	body, err := p.Encode()
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 4), body)
}

func TestApplicationRoundTrip(t *testing.T) {
	app := &meta.Application{ID: 0x61766364, Data: []byte("payload")}

	body, err := app.Encode()
	require.NoError(t, err)

	decoded, err := meta.Decode(meta.TypeApplication, body)
	require.NoError(t, err)
	assert.Equal(t, app, decoded)
}

func TestApplicationEmptyData(t *testing.T) {
	body := []byte{0x12, 0x34, 0x56, 0x78}
	decoded, err := meta.Decode(meta.TypeApplication, body)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), decoded.(*meta.Application).ID)
	assert.Empty(t, decoded.(*meta.Application).Data)
}

func TestApplicationTruncated(t *testing.T) {
	_, err := meta.Decode(meta.TypeApplication, []byte{1, 2, 3})
	require.ErrorIs(t, err, meta.ErrTruncated)
}

func TestSeekTableRoundTrip(t *testing.T) {
	table := &meta.SeekTable{Points: []meta.SeekPoint{
		{SampleNumber: 0, ByteOffset: 0, FrameSamples: 4096},
		{SampleNumber: 4096, ByteOffset: 1234, FrameSamples: 4096},
		{SampleNumber: 0xFFFFFFFFFFFFFFFF, ByteOffset: 0, FrameSamples: 0},
	}}

	body, err := table.Encode()
	require.NoError(t, err)
	require.Len(t, body, 3*meta.SeekPointSize)

	decoded, err := meta.Decode(meta.TypeSeekTable, body)
	require.NoError(t, err)
	assert.Equal(t, table, decoded)
}

func TestSeekTableDropsTrailingRemainder(t *testing.T) {
	// 19 bytes hold exactly one whole seek point; the spare byte is
	// silently dropped.
	body := make([]byte, 19)
	binary.BigEndian.PutUint64(body[0:8], 77)
	binary.BigEndian.PutUint64(body[8:16], 88)
	binary.BigEndian.PutUint16(body[16:18], 99)

	decoded, err := meta.Decode(meta.TypeSeekTable, body)
	require.NoError(t, err)
	table := decoded.(*meta.SeekTable)
	require.Len(t, table.Points, 1)
	assert.Equal(t, meta.SeekPoint{SampleNumber: 77, ByteOffset: 88, FrameSamples: 99}, table.Points[0])
}

func TestCueSheetPassThrough(t *testing.T) {
	raw := []byte{1, 2, 3, 4, 5}

	decoded, err := meta.Decode(meta.TypeCueSheet, raw)
	require.NoError(t, err)
	body, err := decoded.Encode()
	require.NoError(t, err)
	assert.Equal(t, raw, body)

	// The decoded block owns its bytes; mutating the source region must
	// not leak through.
	raw[0] = 0xFF
	assert.Equal(t, byte(1), decoded.(*meta.CueSheet).Data[0])
}

func TestPictureRoundTrip(t *testing.T) {
	pic := &meta.Picture{
		Kind:        3,
		MIME:        "image/png",
		Description: "front cover",
		Width:       600,
		Height:      600,
		Depth:       24,
		Colors:      0,
		Data:        bytes.Repeat([]byte{0xAB}, 32),
	}

	body, err := pic.Encode()
	require.NoError(t, err)

	decoded, err := meta.Decode(meta.TypePicture, body)
	require.NoError(t, err)
	assert.Equal(t, pic, decoded)
}

func TestPictureTruncated(t *testing.T) {
	pic := &meta.Picture{Kind: 3, MIME: "image/png", Data: []byte{1, 2, 3}}
	whole, err := pic.Encode()
	require.NoError(t, err)

	for cut := 0; cut < len(whole); cut++ {
		_, err := meta.Decode(meta.TypePicture, whole[:cut])
		require.ErrorIs(t, err, meta.ErrTruncated, "cut at %d", cut)
	}
}

func TestPictureKindName(t *testing.T) {
	assert.Equal(t, "Cover (front)", meta.PictureKindName(3))
	assert.Equal(t, "UNKNOWN", meta.PictureKindName(99))
}
