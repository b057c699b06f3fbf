package sim_test

import (
	"bytes"
	"context"
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32core/core"
	"github.com/sarchlab/rv32core/loader"
	"github.com/sarchlab/rv32core/sim"
)

func encodeADDI(rd, rs1 uint8, imm int32) uint32 {
	return uint32(imm&0xFFF)<<20 | uint32(rs1)<<15 | uint32(rd)<<7 | 0b0010011
}

func encodeLW(rd, rs1 uint8, imm int32) uint32 {
	return uint32(imm&0xFFF)<<20 | uint32(rs1)<<15 | 0b010<<12 | uint32(rd)<<7 | 0b0000011
}

func flatProgram(words ...uint32) []byte {
	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}
	return data
}

var _ = Describe("Machine", func() {
	It("runs a short program to the NOP sentinel", func() {
		prog := &loader.Program{
			EntryPoint: 0,
			Segments: []loader.Segment{{
				VirtAddr: 0,
				Data:     flatProgram(encodeADDI(1, 0, 41), encodeADDI(1, 1, 1), 0),
			}},
		}

		m := sim.LoadProgram(prog, 4096)
		result := m.Run(context.Background())

		Expect(result.Status).To(Equal(core.StatusOK))
		Expect(m.RegisterFile().Get(1)).To(Equal(uint32(42)))
		Expect(m.InstructionCount()).To(Equal(uint64(3)))
	})

	It("stops early once the instruction cap is reached", func() {
		prog := &loader.Program{
			Segments: []loader.Segment{{
				VirtAddr: 0,
				Data:     flatProgram(encodeADDI(1, 1, 1), encodeADDI(1, 1, 1), encodeADDI(1, 1, 1)),
			}},
		}

		m := sim.LoadProgram(prog, 4096, sim.WithMaxInstructions(2))
		result := m.Run(context.Background())
		Expect(result.Err).To(HaveOccurred())
		Expect(m.InstructionCount()).To(Equal(uint64(2)))
	})

	It("stops between instructions when the context is canceled", func() {
		prog := &loader.Program{
			Segments: []loader.Segment{{
				VirtAddr: 0,
				Data:     flatProgram(encodeADDI(1, 1, 1), encodeADDI(1, 1, 1), encodeADDI(1, 1, 1)),
			}},
		}

		m := sim.LoadProgram(prog, 4096)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result := m.Run(ctx)
		Expect(result.Err).To(MatchError(context.Canceled))
		Expect(m.InstructionCount()).To(BeZero())
	})

	It("forwards executor options through WithExecutorOptions", func() {
		prog := &loader.Program{
			Segments: []loader.Segment{{
				VirtAddr: 0,
				Data:     flatProgram(encodeLW(1, 0, 1), 0), // misaligned LW, then NOP
			}},
		}

		m := sim.LoadProgram(prog, 4096, sim.WithExecutorOptions(core.WithStrictAlignment()))
		result := m.Run(context.Background())
		Expect(result.Status).To(Equal(core.StatusMisaligned))
	})

	It("backs a segment's zero-filled BSS tail out to MemSize", func() {
		// The segment's file contents are 8 bytes, but MemSize reserves a
		// BSS tail out to byte 64. A load from offset 60 must succeed
		// (and read zero) rather than bus-fault as out-of-bounds.
		prog := &loader.Program{
			Segments: []loader.Segment{{
				VirtAddr: 0,
				Data:     flatProgram(encodeLW(1, 0, 60), 0),
				MemSize:  64,
			}},
		}

		m := sim.LoadProgram(prog, 16) // smaller than MemSize, forcing growth
		result := m.Run(context.Background())

		Expect(result.Status).To(Equal(core.StatusOK))
		Expect(m.RegisterFile().Get(1)).To(Equal(uint32(0)))
	})

	It("writes a register dump to the stdout writer when WithVerbose is set", func() {
		prog := &loader.Program{
			Segments: []loader.Segment{{
				VirtAddr: 0,
				Data:     flatProgram(encodeADDI(1, 0, 7), 0),
			}},
		}

		var out bytes.Buffer
		m := sim.LoadProgram(prog, 4096, sim.WithStdout(&out), sim.WithVerbose())
		m.Run(context.Background())

		Expect(out.String()).To(ContainSubstring("x1  = 0x00000007"))
		Expect(out.String()).To(ContainSubstring("pc ="))
	})
})
