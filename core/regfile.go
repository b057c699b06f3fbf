// Package core implements the instruction execution engine: the register
// file, the memory bus adapter contract, and the executor that dispatches
// decoded instructions to their semantic routines.
package core

// NumRegisters is the number of general-purpose registers, x0 through x31.
const NumRegisters = 32

// RegisterFile holds the 32 general-purpose registers, the program
// counter, and an indexed control/status register bank.
//
// x0 always reads as zero and silently discards writes; every other
// register behaves like a plain 32-bit word. The zero check lives inside
// Get/Set so no caller can forget it.
type RegisterFile struct {
	gpr [NumRegisters]uint32
	pc  uint32
	csr map[uint16]uint32

	csrWhitelist map[uint16]bool
}

// RegisterFileOption configures a RegisterFile at construction time.
type RegisterFileOption func(*RegisterFile)

// WithCSRWhitelist switches GetCSR/SetCSR from the default lazy-create
// policy to a strict one: any index outside indices fails both operations
// with ErrInvalidCsr instead of reading as zero / materializing on write.
func WithCSRWhitelist(indices ...uint16) RegisterFileOption {
	return func(r *RegisterFile) {
		r.csrWhitelist = make(map[uint16]bool, len(indices))
		for _, idx := range indices {
			r.csrWhitelist[idx] = true
		}
	}
}

// NewRegisterFile creates a RegisterFile with all GPRs zeroed, PC set to
// entry, and an empty CSR bank.
func NewRegisterFile(entry uint32, opts ...RegisterFileOption) *RegisterFile {
	r := &RegisterFile{
		pc:  entry,
		csr: make(map[uint16]uint32),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the value of register idx. Reading x0 always yields 0.
func (r *RegisterFile) Get(idx uint8) uint32 {
	if idx == 0 {
		return 0
	}
	return r.gpr[idx]
}

// Set stores value into register idx. Writes to x0 are silently discarded.
func (r *RegisterFile) Set(idx uint8, value uint32) {
	if idx == 0 {
		return
	}
	r.gpr[idx] = value
}

// PC returns the program counter.
func (r *RegisterFile) PC() uint32 {
	return r.pc
}

// SetPC sets the program counter directly. It does not mask alignment;
// producing an aligned PC is the Executor's responsibility (JALR is the
// one routine that masks the low bit itself).
func (r *RegisterFile) SetPC(value uint32) {
	r.pc = value
}

// IncPC advances the program counter by 4, the default fallthrough used
// by every instruction that doesn't branch or jump.
func (r *RegisterFile) IncPC() {
	r.pc += 4
}

// GetCSR reads a control/status register. With no whitelist configured,
// an unmapped index reads as 0 and is not recorded. With a whitelist
// configured (see WithCSRWhitelist), an index outside it returns
// ErrInvalidCsr instead.
func (r *RegisterFile) GetCSR(idx uint16) (uint32, error) {
	if r.csrWhitelist != nil && !r.csrWhitelist[idx] {
		return 0, ErrInvalidCsr
	}
	return r.csr[idx], nil
}

// SetCSR writes a control/status register, creating the entry if it did
// not already exist. With a whitelist configured, an index outside it
// fails with ErrInvalidCsr instead of writing.
func (r *RegisterFile) SetCSR(idx uint16, value uint32) error {
	if r.csrWhitelist != nil && !r.csrWhitelist[idx] {
		return ErrInvalidCsr
	}
	r.csr[idx] = value
	return nil
}

// Snapshot is a diagnostic, side-effect-free copy of register state.
type Snapshot struct {
	GPR [NumRegisters]uint32
	PC  uint32
	CSR map[uint16]uint32
}

// Dump returns a diagnostic snapshot of the register file. It never
// mutates state, and it returns structured data rather than a
// preformatted string so callers can log it however they like.
func (r *RegisterFile) Dump() Snapshot {
	snap := Snapshot{
		GPR: r.gpr,
		PC:  r.pc,
		CSR: make(map[uint16]uint32, len(r.csr)),
	}
	for k, v := range r.csr {
		snap.CSR[k] = v
	}
	return snap
}
