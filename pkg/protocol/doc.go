// Package protocol implements the binary wire format used to stream
// projection output to a remote renderer.
//
// A renderer (a browser devtools panel, a recorder, a test harness) connects
// over WebSocket and receives one Styles frame per animation frame, holding
// only the style declarations that changed since the previous frame, plus an
// optional Stats frame with the projection pass counters.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameHello (0x00): Server → renderer session setup
//   - FrameStyles (0x01): Server → renderer style patches
//   - FrameStats (0x02): Server → renderer projection counters
//   - FrameControl (0x03): Renderer → server playback control
//   - FrameError (0x05): Error message
//
// # Encoding
//
// Integers are protobuf-style varints (ZigZag for signed values), strings
// are varint length-prefixed, fixed-width values are big-endian.
//
// A SetStyle patch for element "card" setting transform costs
// 1 + 5 + 10 + len(value) bytes:
//
//	[Op: 0x01][Target: len-prefixed][Key: len-prefixed][Value: len-prefixed]
//
// # Usage
//
//	sf := &StylesFrame{
//	    Seq:       7,
//	    Timestamp: 116.6,
//	    Patches: []Patch{
//	        NewSetStylePatch("card", "transform", "translate3d(10px, 0px, 0)"),
//	        NewRemoveStylePatch("card", "opacity"),
//	    },
//	}
//	data := NewFrame(FrameStyles, EncodeStyles(sf)).Encode()
package protocol
