package loader

import (
	"encoding/binary"
	"fmt"
	"io"
)

// LoadFlat reads a raw little-endian 32-bit word stream — no header, no
// segment table — and returns it as a single Program segment starting at
// address 0. It is the simplest possible image format, grounded on the
// same binary.Read/LittleEndian word-stream convention the pack's RV32
// toy simulators use for their test images.
func LoadFlat(r io.Reader) (*Program, error) {
	var words []uint32
	for {
		var word uint32
		err := binary.Read(r, binary.LittleEndian, &word)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("loader: could not decode word stream: %w", err)
		}
		words = append(words, word)
	}

	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}

	return &Program{
		EntryPoint: 0,
		Segments: []Segment{{
			VirtAddr: 0,
			Data:     data,
			MemSize:  uint32(len(data)),
			Flags:    SegmentFlagExecute | SegmentFlagRead,
		}},
	}, nil
}
