package meta

// CueSheet carries the cue sheet body verbatim. The track layout inside it
// is not interpreted; decode and encode are pass-through.
type CueSheet struct {
	Data []byte
}

func decodeCueSheet(body []byte) (*CueSheet, error) {
	return &CueSheet{Data: append([]byte(nil), body...)}, nil
}

func (c *CueSheet) BlockType() Type { return TypeCueSheet }

func (c *CueSheet) Encode() ([]byte, error) {
	return append([]byte(nil), c.Data...), nil
}
