package protocol

import (
	merrors "github.com/vango-dev/motion/internal/errors"
)

// PatchOp is the type of style operation.
type PatchOp uint8

const (
	PatchSetStyle    PatchOp = 0x01 // Set one style declaration
	PatchRemoveStyle PatchOp = 0x02 // Remove one style declaration
	PatchClearStyles PatchOp = 0x03 // Remove every projection style
)

// String returns the operation name.
func (op PatchOp) String() string {
	switch op {
	case PatchSetStyle:
		return "SetStyle"
	case PatchRemoveStyle:
		return "RemoveStyle"
	case PatchClearStyles:
		return "ClearStyles"
	default:
		return "Unknown"
	}
}

// Patch is a single style operation on one element.
type Patch struct {
	Op     PatchOp
	Target string // Element id
	Key    string // Style property (camelCase)
	Value  string
}

// NewSetStylePatch sets key to value on target.
func NewSetStylePatch(target, key, value string) Patch {
	return Patch{Op: PatchSetStyle, Target: target, Key: key, Value: value}
}

// NewRemoveStylePatch removes key from target.
func NewRemoveStylePatch(target, key string) Patch {
	return Patch{Op: PatchRemoveStyle, Target: target, Key: key}
}

// NewClearStylesPatch removes every projection style from target.
func NewClearStylesPatch(target string) Patch {
	return Patch{Op: PatchClearStyles, Target: target}
}

// StylesFrame carries the patches produced by one animation frame.
type StylesFrame struct {
	Seq       uint64
	Timestamp float64 // Frame time in milliseconds
	Patches   []Patch
}

// EncodeStyles encodes sf into a payload.
func EncodeStyles(sf *StylesFrame) []byte {
	e := NewEncoder()
	EncodeStylesTo(e, sf)
	return e.Bytes()
}

// EncodeStylesTo encodes sf using e.
func EncodeStylesTo(e *Encoder, sf *StylesFrame) {
	e.WriteUvarint(sf.Seq)
	e.WriteFloat64(sf.Timestamp)
	e.WriteUvarint(uint64(len(sf.Patches)))
	for i := range sf.Patches {
		encodePatch(e, &sf.Patches[i])
	}
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteString(p.Target)
	switch p.Op {
	case PatchSetStyle:
		e.WriteString(p.Key)
		e.WriteString(p.Value)
	case PatchRemoveStyle:
		e.WriteString(p.Key)
	}
}

// DecodeStyles decodes a styles payload.
func DecodeStyles(data []byte) (*StylesFrame, error) {
	sf, err := decodeStyles(NewDecoder(data))
	if err != nil {
		return nil, merrors.FromError(err, "E062")
	}
	return sf, nil
}

func decodeStyles(d *Decoder) (*StylesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	ts, err := d.ReadFloat64()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	patches := make([]Patch, count)
	for i := range patches {
		if err := decodePatch(d, &patches[i]); err != nil {
			return nil, err
		}
	}
	return &StylesFrame{Seq: seq, Timestamp: ts, Patches: patches}, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(op)
	if p.Target, err = d.ReadString(); err != nil {
		return err
	}
	switch p.Op {
	case PatchSetStyle:
		if p.Key, err = d.ReadString(); err != nil {
			return err
		}
		p.Value, err = d.ReadString()
	case PatchRemoveStyle:
		p.Key, err = d.ReadString()
	case PatchClearStyles:
	default:
		return merrors.New("E062").WithDetailf("unknown patch op 0x%02x", op)
	}
	return err
}

// StylesFrames encodes sf into as many frames as needed to keep every
// payload under MaxPayloadSize. All but the last carry FlagPartial; flags
// are set on every frame.
func StylesFrames(sf *StylesFrame, flags FrameFlags) []*Frame {
	var frames []*Frame
	chunk := &StylesFrame{Seq: sf.Seq, Timestamp: sf.Timestamp}
	size := 0
	pe := NewEncoder()

	flush := func(last bool) {
		f := NewFrame(FrameStyles, EncodeStyles(chunk))
		f.Flags = flags
		if !last {
			f.Flags |= FlagPartial
		}
		frames = append(frames, f)
		chunk = &StylesFrame{Seq: sf.Seq, Timestamp: sf.Timestamp}
		size = 0
	}

	// Header: seq (≤10) + timestamp (8) + count (≤10).
	const headerBudget = 28
	for i := range sf.Patches {
		pe.Reset()
		encodePatch(pe, &sf.Patches[i])
		if len(chunk.Patches) > 0 && headerBudget+size+pe.Len() > MaxPayloadSize {
			flush(false)
		}
		chunk.Patches = append(chunk.Patches, sf.Patches[i])
		size += pe.Len()
	}
	flush(true)
	return frames
}
