package protocol

import (
	"io"

	merrors "github.com/vango-dev/motion/internal/errors"
)

const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 4

	// MaxPayloadSize is the largest payload a frame header can describe.
	MaxPayloadSize = 65535
)

// FrameType identifies the payload of a frame.
type FrameType uint8

const (
	FrameHello   FrameType = 0x00 // Session setup
	FrameStyles  FrameType = 0x01 // Style patches for one animation frame
	FrameStats   FrameType = 0x02 // Projection pass counters
	FrameControl FrameType = 0x03 // Playback control from the renderer
	FrameError   FrameType = 0x05 // Error message
)

// String returns the frame type name.
func (ft FrameType) String() string {
	switch ft {
	case FrameHello:
		return "Hello"
	case FrameStyles:
		return "Styles"
	case FrameStats:
		return "Stats"
	case FrameControl:
		return "Control"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Valid reports whether ft is a known frame type.
func (ft FrameType) Valid() bool {
	return ft.String() != "Unknown"
}

// FrameFlags modify how a payload is interpreted.
type FrameFlags uint8

const (
	// FlagKeyframe marks a styles frame that carries every element's full
	// style map rather than a diff against the previous frame.
	FlagKeyframe FrameFlags = 0x01

	// FlagPartial marks a styles frame whose patches continue in the next
	// frame with the same sequence number.
	FlagPartial FrameFlags = 0x02

	// FlagFinal marks the last frame of a recording.
	FlagFinal FrameFlags = 0x04
)

// Has reports whether ff contains flag.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame is a header plus payload.
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame creates a frame without flags.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode returns the header followed by the payload.
func (f *Frame) Encode() []byte {
	length := len(f.Payload)
	buf := make([]byte, FrameHeaderSize+length)
	buf[0] = byte(f.Type)
	buf[1] = byte(f.Flags)
	buf[2] = byte(length >> 8)
	buf[3] = byte(length)
	copy(buf[FrameHeaderSize:], f.Payload)
	return buf
}

func parseHeader(header []byte) (FrameType, FrameFlags, int, error) {
	ft := FrameType(header[0])
	if !ft.Valid() {
		return 0, 0, 0, merrors.New("E061").WithDetailf("unknown frame type 0x%02x", header[0])
	}
	return ft, FrameFlags(header[1]), int(header[2])<<8 | int(header[3]), nil
}

// DecodeFrame decodes a complete frame from data.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, merrors.New("E061").Wrap(io.ErrUnexpectedEOF)
	}
	ft, flags, length, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < FrameHeaderSize+length {
		return nil, merrors.New("E061").Wrap(io.ErrUnexpectedEOF)
	}
	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:])
	return &Frame{Type: ft, Flags: flags, Payload: payload}, nil
}

// ReadFrame reads one frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	ft, flags, length, err := parseHeader(header)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	return &Frame{Type: ft, Flags: flags, Payload: payload}, nil
}

// WriteFrame writes one frame to w.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return merrors.New("E060").WithDetailf("%d bytes", len(f.Payload))
	}
	_, err := w.Write(f.Encode())
	return err
}
