package meta

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// VorbisComment holds the vendor string and the tag mapping. It is the only
// block type whose integers are little-endian.
//
// Keys are case-insensitive and stored lower-cased. Values sharing a key
// accumulate in first-seen order, so re-encoding groups values by key rather
// than reproducing the original interleave; the original interleave is never
// observable again once decoded. A container holds at most one of these.
type VorbisComment struct {
	Vendor string

	keys []string            // lower-cased, first-seen order
	tags map[string][]string // keyed by entries of keys
}

// NewVorbisComment returns an empty comment block with the given vendor
// string.
func NewVorbisComment(vendor string) *VorbisComment {
	return &VorbisComment{Vendor: vendor, tags: make(map[string][]string)}
}

func decodeVorbisComment(body []byte) (*VorbisComment, error) {
	vc := NewVorbisComment("")
	pos := 0

	u32 := func() (uint32, bool) {
		if pos+4 > len(body) {
			return 0, false
		}
		v := binary.LittleEndian.Uint32(body[pos:])
		pos += 4
		return v, true
	}
	str := func(n uint32) (string, bool) {
		if uint64(pos)+uint64(n) > uint64(len(body)) {
			return "", false
		}
		s := string(body[pos : pos+int(n)])
		pos += int(n)
		return s, true
	}

	vendorLen, ok := u32()
	if !ok {
		return nil, fmt.Errorf("%w: vorbis comment vendor length", ErrTruncated)
	}
	vendor, ok := str(vendorLen)
	if !ok {
		return nil, fmt.Errorf("%w: vorbis comment vendor string", ErrTruncated)
	}
	vc.Vendor = vendor

	count, ok := u32()
	if !ok {
		return nil, fmt.Errorf("%w: vorbis comment entry count", ErrTruncated)
	}
	for i := uint32(0); i < count; i++ {
		entryLen, ok := u32()
		if !ok {
			return nil, fmt.Errorf("%w: vorbis comment entry %d length", ErrTruncated, i)
		}
		entry, ok := str(entryLen)
		if !ok {
			return nil, fmt.Errorf("%w: vorbis comment entry %d", ErrTruncated, i)
		}
		key, value, found := strings.Cut(entry, "=")
		if !found {
			// Syntactically possible but carries no key/value pair.
			continue
		}
		vc.Add(key, value)
	}
	return vc, nil
}

func (vc *VorbisComment) BlockType() Type { return TypeVorbisComment }

func (vc *VorbisComment) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)

	writeLenPrefixed := func(s string) {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
		buf.Write(n[:])
		buf.WriteString(s)
	}

	writeLenPrefixed(vc.Vendor)

	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(vc.Len()))
	buf.Write(count[:])

	for _, key := range vc.keys {
		for _, value := range vc.tags[key] {
			writeLenPrefixed(key + "=" + value)
		}
	}
	return buf.Bytes(), nil
}

// Len reports the total number of tag values across all keys.
func (vc *VorbisComment) Len() int {
	n := 0
	for _, values := range vc.tags {
		n += len(values)
	}
	return n
}

// Keys returns the tag keys in first-seen order.
func (vc *VorbisComment) Keys() []string {
	return append([]string(nil), vc.keys...)
}

// Get returns the values stored under key, matched case-insensitively, in
// the order they were added. It returns nil when the key is absent.
func (vc *VorbisComment) Get(key string) []string {
	values := vc.tags[strings.ToLower(key)]
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

// Add appends a value under key.
func (vc *VorbisComment) Add(key, value string) {
	if vc.tags == nil {
		vc.tags = make(map[string][]string)
	}
	k := strings.ToLower(key)
	if _, exists := vc.tags[k]; !exists {
		vc.keys = append(vc.keys, k)
	}
	vc.tags[k] = append(vc.tags[k], value)
}

// Set replaces all values stored under key.
func (vc *VorbisComment) Set(key string, values ...string) {
	vc.Remove(key)
	for _, v := range values {
		vc.Add(key, v)
	}
}

// Remove drops key and all its values.
func (vc *VorbisComment) Remove(key string) {
	k := strings.ToLower(key)
	if _, exists := vc.tags[k]; !exists {
		return
	}
	delete(vc.tags, k)
	for i, existing := range vc.keys {
		if existing == k {
			vc.keys = append(vc.keys[:i], vc.keys[i+1:]...)
			break
		}
	}
}

// Tags returns a copy of the full tag mapping.
func (vc *VorbisComment) Tags() map[string][]string {
	out := make(map[string][]string, len(vc.tags))
	for k, values := range vc.tags {
		out[k] = append([]string(nil), values...)
	}
	return out
}
