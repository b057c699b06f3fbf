// Package membus provides memory-transport implementations of
// core.MemoryPort: a flat backing store and an optional cache-backed
// adapter in front of it.
package membus

import "fmt"

// Flat is a plain, bounds-checked, little-endian backing store. It is the
// reference transport for architectural correctness: every access either
// succeeds exactly as addressed or fails with an out-of-bounds error the
// Executor reports as a bus fault.
type Flat struct {
	data []byte
}

// NewFlat creates a Flat backing store of the given size in bytes.
func NewFlat(size int) *Flat {
	return &Flat{data: make([]byte, size)}
}

// LoadAt copies data into the backing store starting at addr, growing the
// store if necessary to fit it. It is used by the loader to place program
// segments before execution begins; it is not part of core.MemoryPort.
func (f *Flat) LoadAt(addr uint32, data []byte) {
	end := int(addr) + len(data)
	if end > len(f.data) {
		grown := make([]byte, end)
		copy(grown, f.data)
		f.data = grown
	}
	copy(f.data[addr:end], data)
}

// Reserve grows the backing store so the byte range [addr, addr+size) is
// addressable, zero-filling any newly added bytes without touching
// existing content. It is used to back a segment's zero-filled BSS tail
// (MemSize beyond len(Data)) after its file contents have been placed
// with LoadAt.
func (f *Flat) Reserve(addr uint32, size uint32) {
	end := int(addr) + int(size)
	if end > len(f.data) {
		grown := make([]byte, end)
		copy(grown, f.data)
		f.data = grown
	}
}

// Size returns the current size of the backing store in bytes.
func (f *Flat) Size() int {
	return len(f.data)
}

// Read returns the width-byte little-endian value at addr, zero-extended
// to 32 bits.
func (f *Flat) Read(addr uint32, width uint8) (uint32, error) {
	if err := f.bounds(addr, width); err != nil {
		return 0, err
	}
	var v uint32
	for i := uint8(0); i < width; i++ {
		v |= uint32(f.data[addr+uint32(i)]) << (8 * i)
	}
	return v, nil
}

// Write stores the low width bytes of value at addr, little-endian.
func (f *Flat) Write(addr uint32, value uint32, width uint8) error {
	if err := f.bounds(addr, width); err != nil {
		return err
	}
	for i := uint8(0); i < width; i++ {
		f.data[addr+uint32(i)] = byte(value >> (8 * i))
	}
	return nil
}

func (f *Flat) bounds(addr uint32, width uint8) error {
	if uint64(addr)+uint64(width) > uint64(len(f.data)) {
		return fmt.Errorf("membus: access at 0x%x width %d out of bounds (size 0x%x)", addr, width, len(f.data))
	}
	return nil
}
