package core

import "github.com/sarchlab/rv32core/isa"

// execBranch implements BEQ/BNE/BLT/BGE/BLTU/BGEU. All branches compute
// target := PC + imm_B if taken, else fall through (PC += 4).
func execBranch(e *Executor, inst isa.Instruction) error {
	a, b := e.regs.Get(inst.Rs1), e.regs.Get(inst.Rs2)

	var taken bool
	switch inst.Op {
	case isa.OpBEQ:
		taken = a == b
	case isa.OpBNE:
		taken = a != b
	case isa.OpBLT:
		taken = int32(a) < int32(b)
	case isa.OpBGE:
		taken = int32(a) >= int32(b)
	case isa.OpBLTU:
		taken = a < b
	case isa.OpBGEU:
		taken = a >= b
	}

	if taken {
		e.regs.SetPC(e.regs.PC() + uint32(inst.ImmB))
	} else {
		e.regs.IncPC()
	}
	return nil
}
