// Package bufpool provides the pooled backing storage used by xdr.Writer.
//
// Writers grow in fixed chunks. Every pooled size class is a multiple of
// the chunk size, so a buffer taken from the pool can stand in for a
// chunk-aligned allocation without breaking the growth invariant.
//
// # Size classes
//
//   - Small (default 8KB): one chunk, covers most ledger entries and envelopes
//   - Medium (default 64KB): batches and large contract values
//   - Large (default 1MB): snapshots and bulk payloads
//
// Requests above the large class are allocated directly, rounded up to a
// whole number of chunks, and never pooled.
//
// # Thread Safety
//
// All operations are safe for concurrent use via sync.Pool.
package bufpool

import (
	"sync"
)

// Default size classes.
const (
	// ChunkSize is the growth increment. All size classes are multiples of it.
	ChunkSize = 8 << 10

	// DefaultSmallSize is one chunk (8KB)
	DefaultSmallSize = ChunkSize

	// DefaultMediumSize is 8 chunks (64KB)
	DefaultMediumSize = 64 << 10

	// DefaultLargeSize is 128 chunks (1MB)
	DefaultLargeSize = 1 << 20
)

// Pool manages byte slices by size class.
type Pool struct {
	small      sync.Pool
	medium     sync.Pool
	large      sync.Pool
	chunkSize  int
	smallSize  int
	mediumSize int
	largeSize  int
}

// Config holds configuration for creating a custom buffer pool.
// Sizes that are not a multiple of ChunkSize are rounded up.
type Config struct {
	// ChunkSize is the allocation granularity (default: 8KB)
	ChunkSize int

	// SmallSize is the size of small buffers (default: 8KB)
	SmallSize int

	// MediumSize is the size of medium buffers (default: 64KB)
	MediumSize int

	// LargeSize is the size of large buffers (default: 1MB)
	LargeSize int
}

// DefaultConfig returns the default pool configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:  ChunkSize,
		SmallSize:  DefaultSmallSize,
		MediumSize: DefaultMediumSize,
		LargeSize:  DefaultLargeSize,
	}
}

// NewPool creates a new buffer pool with the given configuration.
// If cfg is nil, default values are used.
func NewPool(cfg *Config) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.ChunkSize > 0 {
			c.ChunkSize = cfg.ChunkSize
		}
		if cfg.SmallSize > 0 {
			c.SmallSize = cfg.SmallSize
		}
		if cfg.MediumSize > 0 {
			c.MediumSize = cfg.MediumSize
		}
		if cfg.LargeSize > 0 {
			c.LargeSize = cfg.LargeSize
		}
	}

	p := &Pool{chunkSize: c.ChunkSize}
	p.smallSize = p.RoundUp(c.SmallSize)
	p.mediumSize = p.RoundUp(c.MediumSize)
	p.largeSize = p.RoundUp(c.LargeSize)

	p.small.New = newBuf(p.smallSize)
	p.medium.New = newBuf(p.mediumSize)
	p.large.New = newBuf(p.largeSize)
	return p
}

func newBuf(size int) func() any {
	return func() any {
		buf := make([]byte, size)
		return &buf
	}
}

// RoundUp returns the smallest multiple of the chunk size that is >= n.
// Zero and negative sizes round to one chunk.
func (p *Pool) RoundUp(n int) int {
	if n <= 0 {
		return p.chunkSize
	}
	return (n + p.chunkSize - 1) / p.chunkSize * p.chunkSize
}

// ChunkSize returns the pool's allocation granularity.
func (p *Pool) ChunkSize() int {
	return p.chunkSize
}

// Get returns a zero-length slice whose capacity is a chunk multiple of at
// least size. The contents of the spare capacity are unspecified.
//
// Callers should return the buffer with Put once it is no longer referenced.
func (p *Pool) Get(size int) []byte {
	var bufPtr *[]byte

	switch {
	case size <= p.smallSize:
		bufPtr = p.small.Get().(*[]byte)
	case size <= p.mediumSize:
		bufPtr = p.medium.Get().(*[]byte)
	case size <= p.largeSize:
		bufPtr = p.large.Get().(*[]byte)
	default:
		return make([]byte, 0, p.RoundUp(size))
	}

	return (*bufPtr)[:0]
}

// Put returns a buffer to the pool. Buffers whose capacity does not match a
// size class are dropped.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}

	full := buf[:cap(buf)]
	switch cap(buf) {
	case p.smallSize:
		p.small.Put(&full)
	case p.mediumSize:
		p.medium.Put(&full)
	case p.largeSize:
		p.large.Put(&full)
	}
}

// =============================================================================
// Global Pool
// =============================================================================

var globalPool = NewPool(nil)

// Get returns a buffer from the global pool.
func Get(size int) []byte {
	return globalPool.Get(size)
}

// Put returns a buffer to the global pool.
func Put(buf []byte) {
	globalPool.Put(buf)
}

// RoundUp rounds n up to the global pool's chunk size.
func RoundUp(n int) int {
	return globalPool.RoundUp(n)
}
