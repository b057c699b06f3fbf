package core

import "github.com/sarchlab/rv32core/isa"

// execImmALU implements ADDI/SLTI/SLTIU/XORI/ORI/ANDI/SLLI/SRLI/SRAI. All
// are modular unless the routine says otherwise; shift amounts use only
// the low 5 bits of their source (here, the rs2 field, which for
// immediate shifts carries the decoded shamt).
func execImmALU(e *Executor, inst isa.Instruction) error {
	rs1 := e.regs.Get(inst.Rs1)
	imm := uint32(inst.ImmI)
	shamt := inst.Rs2 & 0x1F

	var result uint32
	switch inst.Op {
	case isa.OpADDI:
		result = rs1 + imm
	case isa.OpSLTI:
		result = boolToWord(int32(rs1) < inst.ImmI)
	case isa.OpSLTIU:
		result = boolToWord(rs1 < imm)
	case isa.OpXORI:
		result = rs1 ^ imm
	case isa.OpORI:
		result = rs1 | imm
	case isa.OpANDI:
		result = rs1 & imm
	case isa.OpSLLI:
		result = rs1 << shamt
	case isa.OpSRLI:
		result = rs1 >> shamt
	case isa.OpSRAI:
		result = uint32(int32(rs1) >> shamt)
	}

	e.regs.Set(inst.Rd, result)
	e.regs.IncPC()
	return nil
}

// execRegALU implements ADD/SUB/SLL/SLT/SLTU/XOR/SRL/SRA/OR/AND. Shift
// amounts use the low 5 bits of rs2.
func execRegALU(e *Executor, inst isa.Instruction) error {
	a, b := e.regs.Get(inst.Rs1), e.regs.Get(inst.Rs2)
	shamt := b & 0x1F

	var result uint32
	switch inst.Op {
	case isa.OpADD:
		result = a + b
	case isa.OpSUB:
		result = a - b
	case isa.OpSLL:
		result = a << shamt
	case isa.OpSLT:
		result = boolToWord(int32(a) < int32(b))
	case isa.OpSLTU:
		result = boolToWord(a < b)
	case isa.OpXOR:
		result = a ^ b
	case isa.OpSRL:
		result = a >> shamt
	case isa.OpSRA:
		result = uint32(int32(a) >> shamt)
	case isa.OpOR:
		result = a | b
	case isa.OpAND:
		result = a & b
	}

	e.regs.Set(inst.Rd, result)
	e.regs.IncPC()
	return nil
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
