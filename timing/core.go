package timing

import (
	"fmt"

	"github.com/sarchlab/rv32core/core"
	"github.com/sarchlab/rv32core/isa"
	"github.com/sarchlab/rv32core/membus"
)

// Stats holds cumulative cycle and cache accounting for a Core run. RV32I
// here issues and retires one instruction per Tick, so there are no stalls
// or flushes to report, only cycles, instructions, and cache hit/miss
// counts.
type Stats struct {
	Cycles       uint64
	Instructions uint64
	CacheHits    uint64
	CacheMisses  uint64
}

// CPI returns cycles per instruction, or 0 if no instructions have
// retired yet.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Core drives a core.Executor one instruction at a time through a
// cache-backed bus, charging Table's per-opcode cost plus whatever the
// bus reports for memory-accessing instructions. It never changes
// Executor semantics, only meters them. RV32I here has no superscalar
// issue, branch prediction, or hazard detection to model, so Core is a
// single-issue meter rather than a pipeline.
type Core struct {
	regs     *core.RegisterFile
	bus      *membus.CachedBus
	decoder  *isa.Decoder
	executor *core.Executor
	table    *Table

	stats Stats
}

// NewCore creates a Core around the given register file, cache-backed
// bus, and latency table.
func NewCore(regs *core.RegisterFile, bus *membus.CachedBus, table *Table, opts ...core.ExecutorOption) *Core {
	return &Core{
		regs:     regs,
		bus:      bus,
		decoder:  isa.NewDecoder(),
		executor: core.NewExecutor(regs, bus, opts...),
		table:    table,
	}
}

// Halted reports whether the underlying Executor has reached a terminal
// state.
func (c *Core) Halted() bool {
	return c.executor.Halted()
}

// Stats returns the accumulated cycle and cache counters.
func (c *Core) Stats() Stats {
	return c.stats
}

// Tick fetches, decodes, and executes exactly one instruction, charging
// the configured latency for its opcode class plus the bus's reported
// latency if it was a memory access. It is a no-op once Halted.
func (c *Core) Tick() core.StepResult {
	if c.executor.Halted() {
		return core.StepResult{Status: core.StatusOK}
	}

	word, err := c.bus.Read(c.regs.PC(), 4)
	if err != nil {
		return core.StepResult{Status: core.StatusBusFault, Err: fmt.Errorf("timing: fetch at 0x%x: %w", c.regs.PC(), err)}
	}

	inst := c.decoder.Decode(word)
	fetchAccess := c.bus.LastAccess()

	result := c.executor.Execute(inst)

	c.stats.Cycles += c.table.Latency(inst.Op)
	if fetchAccess.Hit {
		c.stats.CacheHits++
	} else {
		c.stats.CacheMisses++
	}
	c.tallyMemoryAccess(inst.Op)

	if result.Status == core.StatusRunning || result.Status == core.StatusOK {
		c.stats.Instructions++
	}

	return result
}

func (c *Core) tallyMemoryAccess(op isa.Op) {
	if !IsMemoryOp(op) {
		return
	}
	access := c.bus.LastAccess()
	c.stats.Cycles += access.Latency
	if access.Hit {
		c.stats.CacheHits++
	} else {
		c.stats.CacheMisses++
	}
}

// Run ticks Core until it halts or a tick returns an error (including a
// failed fetch), returning the terminal StepResult.
func (c *Core) Run() core.StepResult {
	var result core.StepResult
	for !c.Halted() {
		result = c.Tick()
		if result.Err != nil {
			break
		}
	}
	return result
}
