package membus

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// CacheConfig parameterizes a CachedBus's single L1 data cache.
type CacheConfig struct {
	// Size is the cache capacity in bytes.
	Size int
	// Associativity is the number of ways per set.
	Associativity int
	// BlockSize is the cache line size in bytes.
	BlockSize int
	// HitLatency is the cycle cost timing.Core charges on a hit.
	HitLatency uint64
	// MissLatency is the cycle cost timing.Core charges on a miss, in
	// addition to whatever the backing store itself costs.
	MissLatency uint64
}

// DefaultL1Config returns a modest single-core L1 data cache configuration
// (32KB, 4-way, 32B line), sized for a single in-order RV32I core with no
// superscalar load/store unit to keep fed.
func DefaultL1Config() CacheConfig {
	return CacheConfig{
		Size:          32 * 1024,
		Associativity: 4,
		BlockSize:     32,
		HitLatency:    1,
		MissLatency:   10,
	}
}

// AccessResult reports how one CachedBus access resolved, for timing.Core
// to charge the appropriate cycle cost.
type AccessResult struct {
	Hit     bool
	Latency uint64
}

// CachedBus models a single L1 data cache in front of a Flat backing
// store, using Akita's directory/victim-finder primitives for tag and LRU
// bookkeeping over RV32's 32-bit address space. It satisfies
// core.MemoryPort, so it is a drop-in replacement for Flat wherever a
// host wants per-access hit/miss accounting.
type CachedBus struct {
	config    CacheConfig
	backing   *Flat
	directory *akitacache.DirectoryImpl
	dataStore [][]byte

	lastAccess AccessResult
}

// NewCachedBus creates a CachedBus fronting the given Flat backing store.
func NewCachedBus(backing *Flat, config CacheConfig) *CachedBus {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &CachedBus{
		config:  config,
		backing: backing,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
	}
}

// LastAccess reports the hit/miss outcome and latency of the most recent
// Read or Write, for timing.Core to accumulate.
func (c *CachedBus) LastAccess() AccessResult {
	return c.lastAccess
}

// Read implements core.MemoryPort, served through the L1 model.
func (c *CachedBus) Read(addr uint32, width uint8) (uint32, error) {
	blockAddr, offset := c.split(addr)
	block := c.lookup(blockAddr)

	v, err := c.backing.Read(addr, width)
	if err != nil {
		return 0, err
	}

	if block != nil {
		c.lastAccess = AccessResult{Hit: true, Latency: c.config.HitLatency}
		c.directory.Visit(block)
	} else {
		c.lastAccess = AccessResult{Hit: false, Latency: c.config.MissLatency}
		c.fill(blockAddr)
	}
	_ = offset
	return v, nil
}

// Write implements core.MemoryPort, served through the L1 model with a
// write-allocate policy: the write is applied to the backing store, and a
// miss then fills the line in the directory.
func (c *CachedBus) Write(addr uint32, value uint32, width uint8) error {
	blockAddr, _ := c.split(addr)
	block := c.lookup(blockAddr)

	if err := c.backing.Write(addr, value, width); err != nil {
		return err
	}

	if block != nil {
		c.lastAccess = AccessResult{Hit: true, Latency: c.config.HitLatency}
		c.directory.Visit(block)
	} else {
		c.lastAccess = AccessResult{Hit: false, Latency: c.config.MissLatency}
		c.fill(blockAddr)
	}
	return nil
}

func (c *CachedBus) split(addr uint32) (blockAddr, offset uint32) {
	blockSize := uint32(c.config.BlockSize)
	blockAddr = (addr / blockSize) * blockSize
	return blockAddr, addr - blockAddr
}

func (c *CachedBus) lookup(blockAddr uint32) *akitacache.Block {
	block := c.directory.Lookup(0, uint64(blockAddr))
	if block != nil && block.IsValid {
		return block
	}
	return nil
}

// fill brings blockAddr into the cache, evicting an LRU victim if needed.
// The backing store has already been updated by the caller, so fill never
// needs to write back or fetch payload bytes — it only updates the
// directory's tag/valid/LRU bookkeeping.
func (c *CachedBus) fill(blockAddr uint32) {
	victim := c.directory.FindVictim(uint64(blockAddr))
	if victim == nil {
		return
	}
	victim.Tag = uint64(blockAddr)
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)
}
