package core

import (
	"errors"
	"fmt"

	"github.com/sarchlab/rv32core/isa"
)

// StepResult reports the terminal status of one Execute call.
type StepResult struct {
	Status Status
	Err    error
}

// routine is a semantic routine for one opcode. It is responsible for its
// own PC update (IncPC for the fallthrough case, SetPC for anything
// PC-relative) — it must not touch the PC at all before it is certain the
// instruction will not fault, since a fault must leave the PC untouched.
type routine func(e *Executor, inst isa.Instruction) error

// Executor dispatches decoded instructions to their semantic routines,
// mutating register, PC, and CSR state and issuing bus transactions
// through the supplied MemoryPort. It is single-threaded and strictly
// sequential: one instruction is fully retired before the next begins.
//
// The dispatch table is built once in NewExecutor and never mutated
// afterward: a map[isa.Op]routine indexed by opcode tag, rather than a
// per-opcode switch or method set.
type Executor struct {
	regs  *RegisterFile
	bus   MemoryPort
	table map[isa.Op]routine

	halted bool
	last   StepResult

	canonicalAUIPC bool
	canonicalCSR   bool
	strictAlign    bool
}

// ExecutorOption configures an Executor at construction time.
type ExecutorOption func(*Executor)

// WithCanonicalAUIPC makes AUIPC leave the PC alone (PC += 4, the default
// fallthrough) and write only PC_old + (imm_U<<12) to rd, matching the
// canonical ISA rather than the PC-mutating behavior preserved by default.
func WithCanonicalAUIPC() ExecutorOption {
	return func(e *Executor) { e.canonicalAUIPC = true }
}

// WithCanonicalCSR makes CSRRW/CSRRS/CSRRC mutate the CSR even when
// rd == 0 (only the register write is suppressed), matching the canonical
// ISA rather than the full-no-op behavior preserved by default.
func WithCanonicalCSR() ExecutorOption {
	return func(e *Executor) { e.canonicalCSR = true }
}

// WithStrictAlignment makes load and store addresses that are not
// naturally aligned to their width fault with ErrMisaligned instead of
// being forwarded to the bus unmodified. Instruction fetch addresses are
// not checked.
func WithStrictAlignment() ExecutorOption {
	return func(e *Executor) { e.strictAlign = true }
}

// NewExecutor creates an Executor bound to the given register file and
// memory port.
func NewExecutor(regs *RegisterFile, bus MemoryPort, opts ...ExecutorOption) *Executor {
	e := &Executor{regs: regs, bus: bus}
	for _, opt := range opts {
		opt(e)
	}
	e.table = map[isa.Op]routine{
		isa.OpLUI:   execLUI,
		isa.OpAUIPC: execAUIPC,

		isa.OpJAL:  execJAL,
		isa.OpJALR: execJALR,

		isa.OpBEQ:  execBranch,
		isa.OpBNE:  execBranch,
		isa.OpBLT:  execBranch,
		isa.OpBGE:  execBranch,
		isa.OpBLTU: execBranch,
		isa.OpBGEU: execBranch,

		isa.OpLB:  execLoad,
		isa.OpLH:  execLoad,
		isa.OpLW:  execLoad,
		isa.OpLBU: execLoad,
		isa.OpLHU: execLoad,

		isa.OpSB: execStore,
		isa.OpSH: execStore,
		isa.OpSW: execStore,

		isa.OpADDI:  execImmALU,
		isa.OpSLTI:  execImmALU,
		isa.OpSLTIU: execImmALU,
		isa.OpXORI:  execImmALU,
		isa.OpORI:   execImmALU,
		isa.OpANDI:  execImmALU,
		isa.OpSLLI:  execImmALU,
		isa.OpSRLI:  execImmALU,
		isa.OpSRAI:  execImmALU,

		isa.OpADD:  execRegALU,
		isa.OpSUB:  execRegALU,
		isa.OpSLL:  execRegALU,
		isa.OpSLT:  execRegALU,
		isa.OpSLTU: execRegALU,
		isa.OpXOR:  execRegALU,
		isa.OpSRL:  execRegALU,
		isa.OpSRA:  execRegALU,
		isa.OpOR:   execRegALU,
		isa.OpAND:  execRegALU,

		isa.OpCSRRW: execCSR,
		isa.OpCSRRS: execCSR,
		isa.OpCSRRC: execCSR,
	}
	return e
}

// Halted reports whether the Executor has reached a terminal state (the
// NOP sentinel or any fault). Once halted, Execute is a no-op that
// replays the terminal StepResult.
func (e *Executor) Halted() bool {
	return e.halted
}

// Execute dispatches and executes a single decoded instruction. It
// returns the terminal status: StatusRunning while execution should
// continue, or one of the halt statuses once the NOP sentinel or a fault
// is reached.
func (e *Executor) Execute(inst isa.Instruction) StepResult {
	if e.halted {
		return e.last
	}

	if inst.Op == isa.OpNOP {
		e.halted = true
		e.last = StepResult{Status: StatusOK}
		return e.last
	}

	fn, ok := e.table[inst.Op]
	if !ok {
		e.halted = true
		e.last = StepResult{
			Status: StatusIllegalInstruction,
			Err:    fmt.Errorf("%w: opcode %s", ErrIllegalInstruction, inst.Op),
		}
		return e.last
	}

	if err := fn(e, inst); err != nil {
		e.halted = true
		e.last = StepResult{Status: statusFor(err), Err: err}
		return e.last
	}

	return StepResult{Status: StatusRunning}
}

func statusFor(err error) Status {
	switch {
	case errors.Is(err, ErrBusFault):
		return StatusBusFault
	case errors.Is(err, ErrMisaligned):
		return StatusMisaligned
	case errors.Is(err, ErrInvalidCsr):
		return StatusInvalidCSR
	default:
		return StatusIllegalInstruction
	}
}
