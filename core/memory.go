package core

import (
	"fmt"

	"github.com/sarchlab/rv32core/isa"
)

// execLoad implements LB/LH/LW/LBU/LHU. The register write is deferred
// until after the bus read returns successfully, so a faulting load
// leaves rd untouched.
func execLoad(e *Executor, inst isa.Instruction) error {
	width := loadWidth(inst.Op)
	addr := e.regs.Get(inst.Rs1) + uint32(inst.ImmI)

	if err := e.checkAlignment(addr, width); err != nil {
		return err
	}

	raw, err := e.bus.Read(addr, width)
	if err != nil {
		return fmt.Errorf("%w: read 0x%x: %v", ErrBusFault, addr, err)
	}

	e.regs.Set(inst.Rd, extend(inst.Op, raw))
	e.regs.IncPC()
	return nil
}

// execStore implements SB/SH/SW.
func execStore(e *Executor, inst isa.Instruction) error {
	width := storeWidth(inst.Op)
	addr := e.regs.Get(inst.Rs1) + uint32(inst.ImmS)

	if err := e.checkAlignment(addr, width); err != nil {
		return err
	}

	value := e.regs.Get(inst.Rs2)
	if err := e.bus.Write(addr, value, width); err != nil {
		return fmt.Errorf("%w: write 0x%x: %v", ErrBusFault, addr, err)
	}

	e.regs.IncPC()
	return nil
}

func (e *Executor) checkAlignment(addr uint32, width uint8) error {
	if !e.strictAlign || width == 1 {
		return nil
	}
	if addr%uint32(width) != 0 {
		return fmt.Errorf("%w: address 0x%x not aligned to %d bytes", ErrMisaligned, addr, width)
	}
	return nil
}

func loadWidth(op isa.Op) uint8 {
	switch op {
	case isa.OpLB, isa.OpLBU:
		return 1
	case isa.OpLH, isa.OpLHU:
		return 2
	default: // isa.OpLW
		return 4
	}
}

func storeWidth(op isa.Op) uint8 {
	switch op {
	case isa.OpSB:
		return 1
	case isa.OpSH:
		return 2
	default: // isa.OpSW
		return 4
	}
}

// extend applies the load's sign/zero extension rule to a bus-read value
// whose meaningful bytes sit in the low Width bytes.
func extend(op isa.Op, raw uint32) uint32 {
	switch op {
	case isa.OpLB:
		return uint32(int32(int8(raw)))
	case isa.OpLH:
		return uint32(int32(int16(raw)))
	default: // LW, LBU, LHU: no extension beyond the bus's own zero-fill
		return raw
	}
}
