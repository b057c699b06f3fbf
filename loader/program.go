// Package loader reads a program image — either a raw little-endian word
// stream or a 32-bit ELF binary — into a Program ready for a membus.Flat.
package loader

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

// The protection flags a loaded segment can carry.
const (
	SegmentFlagExecute SegmentFlags = 1 << iota
	SegmentFlagWrite
	SegmentFlagRead
)

// Segment is one loadable region of a Program.
type Segment struct {
	// VirtAddr is the address where this segment's data begins.
	VirtAddr uint32
	// Data is the segment's file contents.
	Data []byte
	// MemSize is the size in memory, which may exceed len(Data) for a
	// zero-filled BSS tail.
	MemSize uint32
	// Flags carries the segment's protection bits.
	Flags SegmentFlags
}

// Program is a loaded image ready for execution: an entry PC and the
// ordered segments to place into memory before the first instruction
// fetch.
type Program struct {
	// EntryPoint is the initial PC.
	EntryPoint uint32
	// Segments are the loadable regions, in file order.
	Segments []Segment
}

// DefaultStackTop is a conventional high address for the initial stack
// pointer in a flat 32-bit address space, leaving headroom above it for a
// loader that wants to place argv/envp there.
const DefaultStackTop uint32 = 0x7FFF0000

// DefaultStackSize is the default stack reservation.
const DefaultStackSize uint32 = 1 * 1024 * 1024
