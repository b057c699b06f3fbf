package core

import "github.com/sarchlab/rv32core/isa"

// execCSR implements CSRRW/CSRRS/CSRRC. All three read the old CSR value
// into rd first, then mutate the CSR.
//
// By default, rd == 0 makes the entire instruction a no-op, including the
// CSR mutation. WithCanonicalCSR restores the ISA-canonical form, where
// only the register write is suppressed and the CSR still mutates.
func execCSR(e *Executor, inst isa.Instruction) error {
	if inst.Rd == 0 && !e.canonicalCSR {
		e.regs.IncPC()
		return nil
	}

	old, err := e.regs.GetCSR(inst.CSR)
	if err != nil {
		return err
	}

	rs1 := e.regs.Get(inst.Rs1)
	var next uint32
	switch inst.Op {
	case isa.OpCSRRW:
		next = rs1
	case isa.OpCSRRS:
		next = old | rs1
	case isa.OpCSRRC:
		next = old &^ rs1
	}

	if err := e.regs.SetCSR(inst.CSR, next); err != nil {
		return err
	}

	e.regs.Set(inst.Rd, old)
	e.regs.IncPC()
	return nil
}
