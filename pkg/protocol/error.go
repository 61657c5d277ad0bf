package protocol

import merrors "github.com/vango-dev/motion/internal/errors"

// ErrorCode identifies the type of error sent to a renderer.
type ErrorCode uint16

const (
	ErrUnknown      ErrorCode = 0x0000
	ErrInvalidFrame ErrorCode = 0x0001 // Malformed frame from the renderer
	ErrRateLimited  ErrorCode = 0x0006 // Renderer too slow; frames dropped
	ErrServerError  ErrorCode = 0x0100
)

// String returns the error code name.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrInvalidFrame:
		return "InvalidFrame"
	case ErrRateLimited:
		return "RateLimited"
	case ErrServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// ErrorMessage reports a problem to the renderer.
type ErrorMessage struct {
	Code    ErrorCode
	Message string
	Fatal   bool // The connection is closed after this frame
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	if em.Fatal {
		return "fatal: " + em.Code.String() + ": " + em.Message
	}
	return em.Code.String() + ": " + em.Message
}

// EncodeErrorMessage encodes em into a payload.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteUint16(uint16(em.Code))
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeErrorMessage decodes an error payload.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	code, err := d.ReadUint16()
	if err != nil {
		return nil, merrors.New("E062").Wrap(err)
	}
	msg, err := d.ReadString()
	if err != nil {
		return nil, merrors.New("E062").Wrap(err)
	}
	fatal, err := d.ReadBool()
	if err != nil {
		return nil, merrors.New("E062").Wrap(err)
	}
	return &ErrorMessage{Code: ErrorCode(code), Message: msg, Fatal: fatal}, nil
}
