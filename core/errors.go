package core

import "errors"

// The following errors are the fault kinds the Executor can surface. All
// of them are fatal to the current simulation step: no instruction is
// partially retired, the PC is left untouched, and the destination
// register (if any) is left untouched.
var (
	// ErrIllegalInstruction indicates the decoded opcode has no semantic
	// routine — either the decoder produced isa.OpUnknown, or an
	// otherwise-valid opcode could not be dispatched.
	ErrIllegalInstruction = errors.New("core: illegal instruction")

	// ErrBusFault indicates the memory transport returned failure for a
	// load or store transaction.
	ErrBusFault = errors.New("core: bus fault")

	// ErrMisaligned indicates a memory access whose address did not
	// satisfy its width's alignment requirement. Only raised when the
	// Executor was constructed with WithStrictAlignment.
	ErrMisaligned = errors.New("core: misaligned memory access")

	// ErrInvalidCsr indicates access to a CSR index outside the
	// configured whitelist. Only raised when the RegisterFile was
	// constructed with WithCSRWhitelist.
	ErrInvalidCsr = errors.New("core: invalid csr")
)

// Status classifies the terminal outcome of a Step for the host.
type Status uint8

// The terminal status codes the Executor can report to its host.
const (
	StatusRunning Status = iota
	StatusOK
	StatusIllegalInstruction
	StatusBusFault
	StatusMisaligned
	StatusInvalidCSR
)

// String names a Status for diagnostics.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusOK:
		return "ok"
	case StatusIllegalInstruction:
		return "illegal-instruction"
	case StatusBusFault:
		return "bus-fault"
	case StatusMisaligned:
		return "misaligned"
	case StatusInvalidCSR:
		return "invalid-csr"
	default:
		return "unknown"
	}
}
