package meta

import (
	"encoding/binary"
	"fmt"
)

// Application carries third-party application data behind a registered
// 32-bit application ID.
type Application struct {
	ID   uint32
	Data []byte
}

func decodeApplication(body []byte) (*Application, error) {
	if len(body) < 4 {
		return nil, fmt.Errorf("%w: application block needs 4 bytes for the ID, have %d", ErrTruncated, len(body))
	}
	return &Application{
		ID:   binary.BigEndian.Uint32(body[0:4]),
		Data: append([]byte(nil), body[4:]...),
	}, nil
}

func (a *Application) BlockType() Type { return TypeApplication }

func (a *Application) Encode() ([]byte, error) {
	body := make([]byte, 4+len(a.Data))
	binary.BigEndian.PutUint32(body[0:4], a.ID)
	copy(body[4:], a.Data)
	return body, nil
}
