package protocol

import merrors "github.com/vango-dev/motion/internal/errors"

// Version is the wire protocol version sent in Hello.
const Version uint8 = 1

// Hello is the first frame a renderer receives.
type Hello struct {
	Version   uint8
	SessionID string
	FrameRate uint16
}

// EncodeHello encodes h into a payload.
func EncodeHello(h *Hello) []byte {
	e := NewEncoder()
	e.WriteByte(h.Version)
	e.WriteString(h.SessionID)
	e.WriteUint16(h.FrameRate)
	return e.Bytes()
}

// DecodeHello decodes a hello payload.
func DecodeHello(data []byte) (*Hello, error) {
	d := NewDecoder(data)
	h := &Hello{}
	var err error
	if h.Version, err = d.ReadByte(); err != nil {
		return nil, merrors.New("E062").Wrap(err)
	}
	if h.SessionID, err = d.ReadString(); err != nil {
		return nil, merrors.New("E062").Wrap(err)
	}
	if h.FrameRate, err = d.ReadUint16(); err != nil {
		return nil, merrors.New("E062").Wrap(err)
	}
	return h, nil
}

// ControlType identifies a control message.
type ControlType uint8

const (
	ControlPing     ControlType = 0x01 // Renderer heartbeat
	ControlPong     ControlType = 0x02 // Response to ping
	ControlPause    ControlType = 0x10 // Stop streaming frames
	ControlResume   ControlType = 0x11 // Resume streaming frames
	ControlKeyframe ControlType = 0x12 // Request full style maps
	ControlClose    ControlType = 0x20 // Renderer is leaving
)

// String returns the control type name.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlPause:
		return "Pause"
	case ControlResume:
		return "Resume"
	case ControlKeyframe:
		return "Keyframe"
	case ControlClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// Control is a playback control message. Timestamp is only meaningful for
// Ping and Pong and is in Unix milliseconds.
type Control struct {
	Type      ControlType
	Timestamp uint64
}

// EncodeControl encodes c into a payload.
func EncodeControl(c *Control) []byte {
	e := NewEncoder()
	e.WriteByte(byte(c.Type))
	if c.Type == ControlPing || c.Type == ControlPong {
		e.WriteUint64(c.Timestamp)
	}
	return e.Bytes()
}

// DecodeControl decodes a control payload.
func DecodeControl(data []byte) (*Control, error) {
	d := NewDecoder(data)
	b, err := d.ReadByte()
	if err != nil {
		return nil, merrors.New("E062").Wrap(err)
	}
	c := &Control{Type: ControlType(b)}
	switch c.Type {
	case ControlPing, ControlPong:
		if c.Timestamp, err = d.ReadUint64(); err != nil {
			return nil, merrors.New("E062").Wrap(err)
		}
	case ControlPause, ControlResume, ControlKeyframe, ControlClose:
	default:
		return nil, merrors.New("E062").WithDetailf("unknown control type 0x%02x", b)
	}
	return c, nil
}
