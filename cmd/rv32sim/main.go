// Package main provides the entry point for rv32sim, a 32-bit base
// integer instruction-set simulator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sarchlab/rv32core/core"
	"github.com/sarchlab/rv32core/loader"
	"github.com/sarchlab/rv32core/membus"
	"github.com/sarchlab/rv32core/sim"
	"github.com/sarchlab/rv32core/timing"
)

const defaultMemorySize = 16 * 1024 * 1024

var (
	useTiming  = flag.Bool("timing", false, "enable the cycle/CPI timing model")
	configPath = flag.String("config", "", "path to a timing latency-table JSON file")
	verbose    = flag.Bool("v", false, "verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rv32sim [options] <program>\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loadProgram(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%x\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	var exitStatus int
	if *useTiming {
		exitStatus = runTiming(prog, programPath)
	} else {
		exitStatus = runFunctional(prog, programPath)
	}
	os.Exit(exitStatus)
}

// loadProgram dispatches on file extension: ".elf" goes through
// loader.LoadELF, anything else is treated as a raw flat word stream
// through loader.LoadFlat.
func loadProgram(path string) (*loader.Program, error) {
	if strings.HasSuffix(path, ".elf") {
		return loader.LoadELF(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return loader.LoadFlat(f)
}

func runFunctional(prog *loader.Program, programPath string) int {
	var opts []sim.MachineOption
	if *verbose {
		opts = append(opts, sim.WithVerbose())
	}
	m := sim.LoadProgram(prog, defaultMemorySize, opts...)
	result := m.Run(context.Background())

	if *verbose {
		fmt.Printf("\nProgram: %s\n", programPath)
		fmt.Printf("Status: %s\n", result.Status)
		fmt.Printf("Instructions executed: %d\n", m.InstructionCount())
	}

	if result.Err != nil {
		return 1
	}
	return 0
}

func runTiming(prog *loader.Program, programPath string) int {
	table := timing.DefaultTable()
	if *configPath != "" {
		var err error
		table, err = timing.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
	}

	flat := membus.NewFlat(defaultMemorySize)
	for _, seg := range prog.Segments {
		flat.LoadAt(seg.VirtAddr, seg.Data)
		flat.Reserve(seg.VirtAddr, seg.MemSize)
	}
	bus := membus.NewCachedBus(flat, membus.DefaultL1Config())

	regs := core.NewRegisterFile(prog.EntryPoint)
	tcore := timing.NewCore(regs, bus, table)
	result := tcore.Run()

	stats := tcore.Stats()
	fmt.Printf("\nProgram: %s\n", programPath)
	fmt.Printf("Status: %s\n", result.Status)
	fmt.Printf("Instructions: %d\n", stats.Instructions)
	fmt.Printf("Cycles: %d\n", stats.Cycles)
	fmt.Printf("CPI: %.2f\n", stats.CPI())
	fmt.Printf("Cache hits/misses: %d/%d\n", stats.CacheHits, stats.CacheMisses)

	if result.Err != nil {
		return 1
	}
	return 0
}
