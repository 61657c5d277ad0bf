package protocol

import (
	"bytes"
	"strings"
	"testing"

	merrors "github.com/vango-dev/motion/internal/errors"
)

func TestStylesEncodeDecode(t *testing.T) {
	sf := &StylesFrame{
		Seq:       42,
		Timestamp: 116.5,
		Patches: []Patch{
			NewSetStylePatch("card", "transform", "translate3d(10px, 0px, 0) scale(2, 2)"),
			NewSetStylePatch("card", "transformOrigin", "50% 50% 0"),
			NewRemoveStylePatch("avatar", "opacity"),
			NewClearStylesPatch("badge"),
		},
	}

	got, err := DecodeStyles(EncodeStyles(sf))
	if err != nil {
		t.Fatalf("DecodeStyles() error = %v", err)
	}
	if got.Seq != sf.Seq || got.Timestamp != sf.Timestamp {
		t.Errorf("header = (%d, %v), want (%d, %v)", got.Seq, got.Timestamp, sf.Seq, sf.Timestamp)
	}
	if len(got.Patches) != len(sf.Patches) {
		t.Fatalf("len(Patches) = %d, want %d", len(got.Patches), len(sf.Patches))
	}
	for i := range sf.Patches {
		if got.Patches[i] != sf.Patches[i] {
			t.Errorf("Patches[%d] = %+v, want %+v", i, got.Patches[i], sf.Patches[i])
		}
	}
}

func TestSetStylePatchSize(t *testing.T) {
	e := NewEncoder()
	p := NewSetStylePatch("card", "opacity", "1")
	encodePatch(e, &p)
	// op + (1+4) + (1+7) + (1+1)
	if e.Len() != 16 {
		t.Errorf("encoded size = %d, want 16", e.Len())
	}
}

func TestDecodeStylesErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated_timestamp", []byte{0x01, 0x00, 0x00}},
		{"unknown_op", append(append([]byte{0x01}, make([]byte, 8)...), 0x01, 0x7F, 0x00)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeStyles(tc.data)
			if merrors.Code(err) != "E062" {
				t.Errorf("DecodeStyles() error = %v, want E062", err)
			}
		})
	}
}

func TestStylesFramesSplitsLargeBatches(t *testing.T) {
	value := strings.Repeat("x", 1000)
	sf := &StylesFrame{Seq: 3, Timestamp: 16}
	for i := 0; i < 200; i++ {
		sf.Patches = append(sf.Patches, NewSetStylePatch("el", "transform", value))
	}

	frames := StylesFrames(sf, FlagKeyframe)
	if len(frames) < 2 {
		t.Fatalf("len(frames) = %d, want at least 2", len(frames))
	}

	total := 0
	for i, f := range frames {
		if len(f.Payload) > MaxPayloadSize {
			t.Errorf("frame %d payload = %d bytes, over the limit", i, len(f.Payload))
		}
		if !f.Flags.Has(FlagKeyframe) {
			t.Errorf("frame %d lost FlagKeyframe", i)
		}
		last := i == len(frames)-1
		if f.Flags.Has(FlagPartial) == last {
			t.Errorf("frame %d FlagPartial = %v, want %v", i, f.Flags.Has(FlagPartial), !last)
		}
		decoded, err := DecodeStyles(f.Payload)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if decoded.Seq != 3 {
			t.Errorf("frame %d Seq = %d, want 3", i, decoded.Seq)
		}
		total += len(decoded.Patches)
	}
	if total != 200 {
		t.Errorf("total patches = %d, want 200", total)
	}
}

func TestStylesFramesEmpty(t *testing.T) {
	frames := StylesFrames(&StylesFrame{Seq: 1}, 0)
	if len(frames) != 1 || frames[0].Flags.Has(FlagPartial) {
		t.Fatalf("frames = %+v, want one final frame", frames)
	}
}

func TestFrameEncodeDecode(t *testing.T) {
	f := &Frame{Type: FrameStyles, Flags: FlagKeyframe, Payload: []byte{1, 2, 3}}
	data := f.Encode()
	if len(data) != FrameHeaderSize+3 {
		t.Fatalf("Encode() length = %d, want %d", len(data), FrameHeaderSize+3)
	}
	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if got.Type != FrameStyles || got.Flags != FlagKeyframe || !bytes.Equal(got.Payload, f.Payload) {
		t.Errorf("DecodeFrame() = %+v, want %+v", got, f)
	}
}

func TestFrameErrors(t *testing.T) {
	if _, err := DecodeFrame([]byte{0x01, 0x00}); merrors.Code(err) != "E061" {
		t.Errorf("short header error = %v, want E061", err)
	}
	if _, err := DecodeFrame([]byte{0x09, 0x00, 0x00, 0x00}); merrors.Code(err) != "E061" {
		t.Errorf("unknown type error = %v, want E061", err)
	}
	if _, err := DecodeFrame([]byte{0x01, 0x00, 0x00, 0x05, 0x01}); merrors.Code(err) != "E061" {
		t.Errorf("truncated payload error = %v, want E061", err)
	}

	var buf bytes.Buffer
	err := WriteFrame(&buf, NewFrame(FrameStyles, make([]byte, MaxPayloadSize+1)))
	if merrors.Code(err) != "E060" {
		t.Errorf("WriteFrame() error = %v, want E060", err)
	}
}

func TestReadWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	frames := []*Frame{
		NewFrame(FrameHello, EncodeHello(&Hello{Version: Version, SessionID: "s1", FrameRate: 60})),
		NewFrame(FrameStats, EncodeStats(&StatsFrame{Seq: 1, TotalNodes: 4})),
		NewFrame(FrameControl, nil),
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame() error = %v", err)
		}
	}
	for i, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		if got.Type != want.Type || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("frame %d = %v, want %v", i, got.Type, want.Type)
		}
	}
}

func TestFrameTypeString(t *testing.T) {
	tests := []struct {
		ft   FrameType
		want string
	}{
		{FrameHello, "Hello"},
		{FrameStyles, "Styles"},
		{FrameStats, "Stats"},
		{FrameControl, "Control"},
		{FrameError, "Error"},
		{FrameType(0x42), "Unknown"},
	}
	for _, tc := range tests {
		if got := tc.ft.String(); got != tc.want {
			t.Errorf("FrameType(%d).String() = %q, want %q", tc.ft, got, tc.want)
		}
	}
}
