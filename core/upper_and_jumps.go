package core

import "github.com/sarchlab/rv32core/isa"

// execLUI implements LUI: R[rd] := imm_U << 12. PC += 4.
func execLUI(e *Executor, inst isa.Instruction) error {
	e.regs.Set(inst.Rd, uint32(inst.ImmU)<<12)
	e.regs.IncPC()
	return nil
}

// execAUIPC implements AUIPC. By default this writes the computed address
// to both PC and rd; WithCanonicalAUIPC restores the ISA-canonical
// PC += 4 / rd-only form.
func execAUIPC(e *Executor, inst isa.Instruction) error {
	newPC := e.regs.PC() + uint32(inst.ImmU)<<12
	if e.canonicalAUIPC {
		e.regs.Set(inst.Rd, newPC)
		e.regs.IncPC()
		return nil
	}
	e.regs.SetPC(newPC)
	e.regs.Set(inst.Rd, newPC)
	return nil
}

// execJAL implements JAL: R[rd] := PC + 4; PC := PC + imm_J.
func execJAL(e *Executor, inst isa.Instruction) error {
	link := e.regs.PC() + 4
	target := e.regs.PC() + uint32(inst.ImmJ)
	e.regs.Set(inst.Rd, link)
	e.regs.SetPC(target)
	return nil
}

// execJALR implements JALR: R[rd] := PC + 4;
// PC := (R[rs1] + imm_I) & ~1. Only bit 0 is cleared — a target with bit 1
// set is allowed to propagate and may fault on the next fetch.
func execJALR(e *Executor, inst isa.Instruction) error {
	link := e.regs.PC() + 4
	target := (e.regs.Get(inst.Rs1) + uint32(inst.ImmI)) &^ 1
	e.regs.Set(inst.Rd, link)
	e.regs.SetPC(target)
	return nil
}
