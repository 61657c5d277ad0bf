package protocol

import merrors "github.com/vango-dev/motion/internal/errors"

// StatsFrame mirrors the counters of one projection pass.
type StatsFrame struct {
	Seq                    uint64
	TotalNodes             uint32
	ResolvedTargetDeltas   uint32
	RecalculatedProjection uint32
	ActiveAnimations       uint32
}

// EncodeStats encodes sf into a payload.
func EncodeStats(sf *StatsFrame) []byte {
	e := NewEncoder()
	e.WriteUvarint(sf.Seq)
	e.WriteUvarint(uint64(sf.TotalNodes))
	e.WriteUvarint(uint64(sf.ResolvedTargetDeltas))
	e.WriteUvarint(uint64(sf.RecalculatedProjection))
	e.WriteUvarint(uint64(sf.ActiveAnimations))
	return e.Bytes()
}

// DecodeStats decodes a stats payload.
func DecodeStats(data []byte) (*StatsFrame, error) {
	d := NewDecoder(data)
	var fields [5]uint64
	for i := range fields {
		v, err := d.ReadUvarint()
		if err != nil {
			return nil, merrors.New("E062").Wrap(err)
		}
		fields[i] = v
	}
	return &StatsFrame{
		Seq:                    fields[0],
		TotalNodes:             uint32(fields[1]),
		ResolvedTargetDeltas:   uint32(fields[2]),
		RecalculatedProjection: uint32(fields[3]),
		ActiveAnimations:       uint32(fields[4]),
	}, nil
}
