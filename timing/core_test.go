package timing_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32core/core"
	"github.com/sarchlab/rv32core/membus"
	"github.com/sarchlab/rv32core/timing"
)

func encodeADDI(rd, rs1 uint8, imm int32) uint32 {
	return uint32(imm&0xFFF)<<20 | uint32(rs1)<<15 | uint32(rd)<<7 | 0b0010011
}

var _ = Describe("Core", func() {
	It("ticks one instruction at a time, accumulating cycles and instruction count", func() {
		flat := membus.NewFlat(4096)
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], encodeADDI(1, 0, 5))
		flat.LoadAt(0, buf[:])
		binary.LittleEndian.PutUint32(buf[:], 0) // NOP sentinel
		flat.LoadAt(4, buf[:])

		bus := membus.NewCachedBus(flat, membus.DefaultL1Config())
		regs := core.NewRegisterFile(0)
		tcore := timing.NewCore(regs, bus, timing.DefaultTable())

		res := tcore.Tick()
		Expect(res.Status).To(Equal(core.StatusRunning))
		Expect(regs.Get(1)).To(Equal(uint32(5)))
		Expect(tcore.Stats().Instructions).To(Equal(uint64(1)))

		res = tcore.Tick()
		Expect(res.Status).To(Equal(core.StatusOK))
		Expect(tcore.Halted()).To(BeTrue())
	})

	It("is a no-op once halted", func() {
		flat := membus.NewFlat(16)
		bus := membus.NewCachedBus(flat, membus.DefaultL1Config())
		regs := core.NewRegisterFile(0)
		tcore := timing.NewCore(regs, bus, timing.DefaultTable())

		tcore.Tick() // word 0 at addr 0 decodes to NOP
		Expect(tcore.Halted()).To(BeTrue())

		before := tcore.Stats()
		tcore.Tick()
		Expect(tcore.Stats()).To(Equal(before))
	})
})
