package flacrw_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-tools/flacrw"
	"github.com/cadenza-tools/flacrw/pkg/meta"
)

// buildFLAC assembles a whole FLAC byte stream: signature, the given blocks
// in order (the final one carrying the last flag) and the frame bytes.
func buildFLAC(t *testing.T, blocks []meta.Block, frames []byte) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	buf.WriteString("fLaC")
	for i, b := range blocks {
		body, err := b.Encode()
		require.NoError(t, err)
		word, err := meta.Header{
			IsLast: i == len(blocks)-1,
			Type:   b.BlockType(),
			Length: uint32(len(body)),
		}.Encode()
		require.NoError(t, err)

		var w [4]byte
		binary.BigEndian.PutUint32(w[:], word)
		buf.Write(w[:])
		buf.Write(body)
	}
	buf.Write(frames)
	return buf.Bytes()
}

func testStreamInfo() *meta.StreamInfo {
	return &meta.StreamInfo{
		MinBlockSize:  4096,
		MaxBlockSize:  4096,
		MinFrameSize:  11,
		MaxFrameSize:  14,
		SampleRate:    44100,
		ChannelCount:  2,
		BitsPerSample: 16,
		TotalSamples:  1014300,
		MD5:           [16]byte{1, 2, 3, 4},
	}
}

func testComment() *meta.VorbisComment {
	vc := meta.NewVorbisComment("ref")
	vc.Add("title", "hello world")
	return vc
}

func TestParseMinimalContainer(t *testing.T) {
	si := testStreamInfo()
	vc := testComment()
	frames := []byte("0123456789")
	raw := buildFLAC(t, []meta.Block{si, vc}, frames)

	c, err := flacrw.Parse(bytes.NewReader(raw))
	require.NoError(t, err)

	require.Len(t, c.Blocks, 2)
	assert.Equal(t, si, c.StreamInfo())
	require.NotNil(t, c.VorbisComment())
	assert.Equal(t, []string{"hello world"}, c.VorbisComment().Get("title"))
	assert.Equal(t, int64(len(raw)-len(frames)), c.FrameOffset())
}

func TestParseRejectsWrongSignature(t *testing.T) {
	_, err := flacrw.Parse(bytes.NewReader([]byte("OggS....")))
	require.ErrorIs(t, err, flacrw.ErrNotFLAC)
}

func TestParseShortSignature(t *testing.T) {
	_, err := flacrw.Parse(bytes.NewReader([]byte("fL")))
	require.ErrorIs(t, err, flacrw.ErrUnexpectedEOF)
}

func TestParseDuplicateStreamInfo(t *testing.T) {
	raw := buildFLAC(t, []meta.Block{testStreamInfo(), testStreamInfo()}, nil)
	_, err := flacrw.Parse(bytes.NewReader(raw))
	require.ErrorIs(t, err, flacrw.ErrDuplicateBlock)
}

func TestParseDuplicateVorbisComment(t *testing.T) {
	raw := buildFLAC(t, []meta.Block{testStreamInfo(), testComment(), testComment()}, nil)
	_, err := flacrw.Parse(bytes.NewReader(raw))
	require.ErrorIs(t, err, flacrw.ErrDuplicateBlock)
}

func TestParseUnknownBlockType(t *testing.T) {
	raw := []byte("fLaC")
	raw = append(raw, 0x80|42, 0, 0, 0) // last flag, type tag 42, empty body
	_, err := flacrw.Parse(bytes.NewReader(raw))
	require.ErrorIs(t, err, meta.ErrUnknownType)
}

func TestParseTruncatedBody(t *testing.T) {
	raw := buildFLAC(t, []meta.Block{testStreamInfo()}, nil)
	_, err := flacrw.Parse(bytes.NewReader(raw[:len(raw)-5]))
	require.ErrorIs(t, err, flacrw.ErrUnexpectedEOF)
}

func TestParseDoesNotReadFrames(t *testing.T) {
	raw := buildFLAC(t, []meta.Block{testStreamInfo()}, []byte("frames"))
	r := bytes.NewReader(raw)

	c, err := flacrw.Parse(r)
	require.NoError(t, err)
	assert.Equal(t, len("frames"), r.Len(), "frame bytes should remain unread")
	assert.Equal(t, int64(len(raw)-len("frames")), c.FrameOffset())
}

// writeTempFLAC materializes a container stream on disk and opens it
// read-write.
func writeTempFLAC(t *testing.T, raw []byte) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.flac")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestSaveRoundTrip(t *testing.T) {
	si := testStreamInfo()
	frames := []byte("0123456789")
	raw := buildFLAC(t, []meta.Block{si, &meta.Padding{NumBytes: 64}, testComment()}, frames)
	f := writeTempFLAC(t, raw)

	c, err := flacrw.Parse(f)
	require.NoError(t, err)
	require.Len(t, c.Blocks, 3)

	require.NoError(t, c.Save(f))

	written, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, frames, written[len(written)-len(frames):], "frame region must survive bit for bit")

	reparsed, err := flacrw.Parse(bytes.NewReader(written))
	require.NoError(t, err)
	require.Len(t, reparsed.Blocks, 2, "padding must be dropped")
	assert.Equal(t, si, reparsed.StreamInfo())
	assert.Equal(t, map[string][]string{"title": {"hello world"}}, reparsed.VorbisComment().Tags())
	assert.Equal(t, "ref", reparsed.VorbisComment().Vendor)
	assert.Equal(t, reparsed.FrameOffset(), c.FrameOffset(), "save must update the recorded frame offset")
}

func TestSaveShrinksFile(t *testing.T) {
	frames := []byte("fr")
	raw := buildFLAC(t, []meta.Block{testStreamInfo(), &meta.Padding{NumBytes: 1000}}, frames)
	f := writeTempFLAC(t, raw)

	c, err := flacrw.Parse(f)
	require.NoError(t, err)
	require.NoError(t, c.Save(f))

	written, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Len(t, written, 4+4+meta.StreamInfoSize+len(frames))
	assert.Equal(t, frames, written[len(written)-len(frames):])
}

func TestSaveEditedTags(t *testing.T) {
	frames := []byte{0xFF, 0xF8, 0x00, 0x00}
	raw := buildFLAC(t, []meta.Block{testStreamInfo(), testComment()}, frames)
	f := writeTempFLAC(t, raw)

	c, err := flacrw.Parse(f)
	require.NoError(t, err)
	c.VorbisComment().Set("title", "renamed")
	c.VorbisComment().Add("genre", "ambient")
	require.NoError(t, c.Save(f))

	reparsed, err := flacrw.Open(f.Name())
	require.NoError(t, err)
	assert.Equal(t, []string{"renamed"}, reparsed.VorbisComment().Get("title"))
	assert.Equal(t, []string{"ambient"}, reparsed.VorbisComment().Get("genre"))
}

func TestSaveWithPadding(t *testing.T) {
	frames := []byte("audio")
	raw := buildFLAC(t, []meta.Block{testStreamInfo()}, frames)
	f := writeTempFLAC(t, raw)

	c, err := flacrw.Parse(f)
	require.NoError(t, err)
	require.NoError(t, c.SaveWithPadding(f, 128))

	reparsed, err := flacrw.Open(f.Name())
	require.NoError(t, err)
	require.Len(t, reparsed.Blocks, 2)
	pad, ok := reparsed.Blocks[1].(*meta.Padding)
	require.True(t, ok, "final block should be the fresh padding")
	assert.Equal(t, uint32(128), pad.NumBytes)

	written, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, frames, written[len(written)-len(frames):])
}

func TestSaveToIsAtomicCopy(t *testing.T) {
	frames := []byte("0123456789")
	raw := buildFLAC(t, []meta.Block{testStreamInfo(), &meta.Padding{NumBytes: 16}, testComment()}, frames)
	f := writeTempFLAC(t, raw)

	c, err := flacrw.Parse(f)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "copy.flac")
	require.NoError(t, c.SaveTo(f, out))

	// The source file is untouched.
	original, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, raw, original)

	copied, err := flacrw.Open(out)
	require.NoError(t, err)
	require.Len(t, copied.Blocks, 2)
	assert.Equal(t, c.StreamInfo(), copied.StreamInfo())

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, frames, written[len(written)-len(frames):])
}

func TestSaveRejectsEmptyContainer(t *testing.T) {
	raw := buildFLAC(t, []meta.Block{&meta.Padding{NumBytes: 8}}, nil)
	f := writeTempFLAC(t, raw)

	c, err := flacrw.Parse(f)
	require.NoError(t, err)
	require.ErrorIs(t, c.Save(f), flacrw.ErrNoBlocks)
}

func TestSavePropagatesEncodeErrors(t *testing.T) {
	si := testStreamInfo()
	raw := buildFLAC(t, []meta.Block{si}, nil)
	f := writeTempFLAC(t, raw)

	c, err := flacrw.Parse(f)
	require.NoError(t, err)
	c.StreamInfo().ChannelCount = 9
	require.ErrorIs(t, c.Save(f), meta.ErrFieldOutOfRange)

	// The failed save must not touch the file.
	written, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, raw, written)
}
