package meta

// Padding reserves space inside the metadata region. Only the length is
// kept; the body content is ignored on decode and written back as zeros.
type Padding struct {
	NumBytes uint32
}

func decodePadding(body []byte) (*Padding, error) {
	return &Padding{NumBytes: uint32(len(body))}, nil
}

func (p *Padding) BlockType() Type { return TypePadding }

func (p *Padding) Encode() ([]byte, error) {
	return make([]byte, p.NumBytes), nil
}
