// Package timing provides an optional per-opcode cycle-cost model layered
// on top of the untimed execution engine in package core. Nothing in this
// package changes Executor semantics — it only meters them, attaching
// per-opcode latencies through configuration rather than living inside
// the core.
package timing

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/rv32core/isa"
)

// Table is a JSON-serializable per-opcode-class cycle-cost map with the
// usual Default.../LoadConfig/SaveConfig/Validate/Clone shape.
type Table struct {
	ALULatency      uint64 `json:"alu_latency"`
	BranchLatency   uint64 `json:"branch_latency"`
	JumpLatency     uint64 `json:"jump_latency"`
	LoadLatency     uint64 `json:"load_latency"`
	StoreLatency    uint64 `json:"store_latency"`
	CSRLatency      uint64 `json:"csr_latency"`
	UpperImmLatency uint64 `json:"upper_imm_latency"`
}

// DefaultTable returns a Table with a flat single-issue in-order cost
// model: one cycle per instruction regardless of class. This is the
// RV32I-appropriate default — there is no superscalar issue or
// out-of-order completion in scope to make the classes diverge — while
// still letting a host express a divergent model through LoadConfig.
func DefaultTable() *Table {
	return &Table{
		ALULatency:      1,
		BranchLatency:   1,
		JumpLatency:     1,
		LoadLatency:     1,
		StoreLatency:    1,
		CSRLatency:      1,
		UpperImmLatency: 1,
	}
}

// LoadConfig reads a Table from a JSON file, starting from DefaultTable
// so a partial config only overrides the classes it mentions.
func LoadConfig(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("timing: failed to read config file: %w", err)
	}

	t := DefaultTable()
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("timing: failed to parse config: %w", err)
	}
	return t, nil
}

// SaveConfig writes a Table to a JSON file.
func (t *Table) SaveConfig(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("timing: failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("timing: failed to write config file: %w", err)
	}
	return nil
}

// Validate checks that every latency class is positive.
func (t *Table) Validate() error {
	for name, v := range map[string]uint64{
		"alu_latency":       t.ALULatency,
		"branch_latency":    t.BranchLatency,
		"jump_latency":      t.JumpLatency,
		"load_latency":      t.LoadLatency,
		"store_latency":     t.StoreLatency,
		"csr_latency":       t.CSRLatency,
		"upper_imm_latency": t.UpperImmLatency,
	} {
		if v == 0 {
			return fmt.Errorf("timing: %s must be > 0", name)
		}
	}
	return nil
}

// Clone returns a deep copy of the Table.
func (t *Table) Clone() *Table {
	clone := *t
	return &clone
}

// Latency returns the configured cycle cost for op's class. It never
// consults the memory bus; the cache's own hit/miss latency is added by
// Core on top of this base cost for load/store instructions.
func (t *Table) Latency(op isa.Op) uint64 {
	switch op {
	case isa.OpLUI, isa.OpAUIPC:
		return t.UpperImmLatency
	case isa.OpJAL, isa.OpJALR:
		return t.JumpLatency
	case isa.OpBEQ, isa.OpBNE, isa.OpBLT, isa.OpBGE, isa.OpBLTU, isa.OpBGEU:
		return t.BranchLatency
	case isa.OpLB, isa.OpLH, isa.OpLW, isa.OpLBU, isa.OpLHU:
		return t.LoadLatency
	case isa.OpSB, isa.OpSH, isa.OpSW:
		return t.StoreLatency
	case isa.OpCSRRW, isa.OpCSRRS, isa.OpCSRRC:
		return t.CSRLatency
	default:
		return t.ALULatency
	}
}

// IsMemoryOp reports whether op issues a bus transaction, and so should
// also be charged whatever membus.CachedBus reports for that access.
func IsMemoryOp(op isa.Op) bool {
	switch op {
	case isa.OpLB, isa.OpLH, isa.OpLW, isa.OpLBU, isa.OpLHU,
		isa.OpSB, isa.OpSH, isa.OpSW:
		return true
	default:
		return false
	}
}
