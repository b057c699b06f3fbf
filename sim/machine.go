// Package sim provides the top-level simulation scheduler: the
// fetch-decode-execute loop, instruction counting, and a logging sink
// built on top of the core execution engine.
package sim

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/rv32core/core"
	"github.com/sarchlab/rv32core/isa"
	"github.com/sarchlab/rv32core/loader"
	"github.com/sarchlab/rv32core/membus"
)

// Machine owns a register file, a decoder, a memory bus, and the executor
// bound to them, and drives the instruction loop to completion or fault.
type Machine struct {
	regs     *core.RegisterFile
	bus      core.MemoryPort
	decoder  *isa.Decoder
	executor *core.Executor

	stdout  io.Writer
	stderr  io.Writer
	verbose bool

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit

	executorOpts []core.ExecutorOption
	regFileOpts  []core.RegisterFileOption
}

// MachineOption configures a Machine at construction time.
type MachineOption func(*Machine)

// WithStdout sets a custom stdout writer for diagnostic output.
func WithStdout(w io.Writer) MachineOption {
	return func(m *Machine) { m.stdout = w }
}

// WithVerbose makes Run write the final register snapshot to stdout once
// the Machine halts or faults, in addition to returning the StepResult.
func WithVerbose() MachineOption {
	return func(m *Machine) { m.verbose = true }
}

// WithStderr sets a custom stderr writer for diagnostic output.
func WithStderr(w io.Writer) MachineOption {
	return func(m *Machine) { m.stderr = w }
}

// WithMaxInstructions caps the number of instructions Run will execute
// before stopping early with an error. Zero (the default) means no limit.
func WithMaxInstructions(max uint64) MachineOption {
	return func(m *Machine) { m.maxInstructions = max }
}

// WithExecutorOptions forwards core.ExecutorOption values to the
// Machine's internal Executor, so a host can enable WithCanonicalAUIPC,
// WithCanonicalCSR, or WithStrictAlignment without reaching into the core
// package directly.
func WithExecutorOptions(opts ...core.ExecutorOption) MachineOption {
	return func(m *Machine) { m.executorOpts = append(m.executorOpts, opts...) }
}

// WithRegisterFileOptions forwards core.RegisterFileOption values (for
// example core.WithCSRWhitelist) to the Machine's internal RegisterFile.
func WithRegisterFileOptions(opts ...core.RegisterFileOption) MachineOption {
	return func(m *Machine) { m.regFileOpts = append(m.regFileOpts, opts...) }
}

// NewMachine creates a Machine bound to the given bus and entry point.
func NewMachine(bus core.MemoryPort, entry uint32, opts ...MachineOption) *Machine {
	m := &Machine{
		bus:     bus,
		decoder: isa.NewDecoder(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.regs = core.NewRegisterFile(entry, m.regFileOpts...)
	m.executor = core.NewExecutor(m.regs, bus, m.executorOpts...)
	return m
}

// RegisterFile returns the Machine's register file, for host inspection
// (dumping state, seeding argv registers, and so on).
func (m *Machine) RegisterFile() *core.RegisterFile {
	return m.regs
}

// InstructionCount returns the number of instructions retired so far.
func (m *Machine) InstructionCount() uint64 {
	return m.instructionCount
}

// Halted reports whether the underlying Executor has reached a terminal
// state.
func (m *Machine) Halted() bool {
	return m.executor.Halted()
}

// LoadProgram copies a loader.Program's segments into a membus.Flat
// backing store and returns a Machine ready to run from the program's
// entry point.
func LoadProgram(prog *loader.Program, size int, opts ...MachineOption) *Machine {
	flat := membus.NewFlat(size)
	for _, seg := range prog.Segments {
		flat.LoadAt(seg.VirtAddr, seg.Data)
		flat.Reserve(seg.VirtAddr, seg.MemSize)
	}
	return NewMachine(flat, prog.EntryPoint, opts...)
}

// Step fetches, decodes, and executes a single instruction.
func (m *Machine) Step() core.StepResult {
	if m.maxInstructions > 0 && m.instructionCount >= m.maxInstructions {
		return core.StepResult{
			Status: core.StatusIllegalInstruction,
			Err:    fmt.Errorf("sim: max instructions reached"),
		}
	}

	word, err := m.bus.Read(m.regs.PC(), 4)
	if err != nil {
		return core.StepResult{
			Status: core.StatusBusFault,
			Err:    fmt.Errorf("sim: fetch at 0x%x: %w", m.regs.PC(), err),
		}
	}

	inst := m.decoder.Decode(word)
	result := m.executor.Execute(inst)
	m.instructionCount++
	return result
}

// Run steps the Machine until it halts, a step returns an error (a fault,
// a failed fetch, or the instruction cap), or ctx is canceled.
// Cancellation is observed only between instructions, never
// mid-instruction.
func (m *Machine) Run(ctx context.Context) core.StepResult {
	var result core.StepResult
	for !m.Halted() {
		if err := ctx.Err(); err != nil {
			result = core.StepResult{Status: core.StatusRunning, Err: err}
			break
		}
		result = m.Step()
		if result.Err != nil {
			_, _ = fmt.Fprintf(m.stderr, "sim: %v\n", result.Err)
			break
		}
	}
	if m.verbose {
		m.dumpRegisters()
	}
	return result
}

// dumpRegisters writes the current register snapshot to stdout, one
// register per line, plus the PC and any recorded CSRs.
func (m *Machine) dumpRegisters() {
	snap := m.regs.Dump()
	_, _ = fmt.Fprintf(m.stdout, "pc = 0x%08x\n", snap.PC)
	for i, v := range snap.GPR {
		_, _ = fmt.Fprintf(m.stdout, "x%-2d = 0x%08x\n", i, v)
	}
	for idx, v := range snap.CSR {
		_, _ = fmt.Fprintf(m.stdout, "csr[0x%x] = 0x%08x\n", idx, v)
	}
}
