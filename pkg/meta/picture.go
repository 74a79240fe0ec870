package meta

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Picture is an embedded image. The Kind field follows the ID3v2 APIC
// picture-type convention; all integers are big-endian and every variable
// field carries a 32-bit byte-count prefix.
type Picture struct {
	Kind        uint32
	MIME        string
	Description string
	Width       uint32
	Height      uint32
	Depth       uint32
	Colors      uint32
	Data        []byte
}

var pictureKindNames = map[uint32]string{
	0:  "Other",
	1:  "File Icon",
	2:  "Other File Icon",
	3:  "Cover (front)",
	4:  "Cover (back)",
	5:  "Leaflet Page",
	6:  "Media",
	7:  "Lead Artist/Lead Performer/Soloist",
	8:  "Artist/Performer",
	9:  "Conductor",
	10: "Band/Orchestra",
	11: "Composer",
	12: "Lyricist/Text Writer",
	13: "Recording Location",
	14: "During Recording",
	15: "During Performance",
	16: "Movie/Video Screen Capture",
	17: "A Bright Coloured Fish",
	18: "Illustration",
	19: "Band/Artist Logotype",
	20: "Publisher/Studio Logotype",
}

// PictureKindName returns a readable name for an APIC picture-type code.
func PictureKindName(kind uint32) string {
	if name, ok := pictureKindNames[kind]; ok {
		return name
	}
	return "UNKNOWN"
}

func decodePicture(body []byte) (*Picture, error) {
	pos := 0

	u32 := func(field string) (uint32, error) {
		if pos+4 > len(body) {
			return 0, fmt.Errorf("%w: picture %s", ErrTruncated, field)
		}
		v := binary.BigEndian.Uint32(body[pos:])
		pos += 4
		return v, nil
	}
	take := func(n uint32, field string) ([]byte, error) {
		if uint64(pos)+uint64(n) > uint64(len(body)) {
			return nil, fmt.Errorf("%w: picture %s", ErrTruncated, field)
		}
		b := body[pos : pos+int(n)]
		pos += int(n)
		return b, nil
	}

	pic := new(Picture)
	var err error
	if pic.Kind, err = u32("type"); err != nil {
		return nil, err
	}

	mimeLen, err := u32("mime length")
	if err != nil {
		return nil, err
	}
	mime, err := take(mimeLen, "mime string")
	if err != nil {
		return nil, err
	}
	pic.MIME = string(mime)

	descLen, err := u32("description length")
	if err != nil {
		return nil, err
	}
	desc, err := take(descLen, "description")
	if err != nil {
		return nil, err
	}
	pic.Description = string(desc)

	if pic.Width, err = u32("width"); err != nil {
		return nil, err
	}
	if pic.Height, err = u32("height"); err != nil {
		return nil, err
	}
	if pic.Depth, err = u32("depth"); err != nil {
		return nil, err
	}
	if pic.Colors, err = u32("colors"); err != nil {
		return nil, err
	}

	dataLen, err := u32("data length")
	if err != nil {
		return nil, err
	}
	data, err := take(dataLen, "data")
	if err != nil {
		return nil, err
	}
	pic.Data = append([]byte(nil), data...)

	return pic, nil
}

func (p *Picture) BlockType() Type { return TypePicture }

func (p *Picture) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)

	u32 := func(v uint32) {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}

	u32(p.Kind)
	u32(uint32(len(p.MIME)))
	buf.WriteString(p.MIME)
	u32(uint32(len(p.Description)))
	buf.WriteString(p.Description)
	u32(p.Width)
	u32(p.Height)
	u32(p.Depth)
	u32(p.Colors)
	u32(uint32(len(p.Data)))
	buf.Write(p.Data)

	return buf.Bytes(), nil
}
