package segdeque

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

const (
	// DefaultBlockBytes is the byte threshold a block is sized against.
	DefaultBlockBytes = 512
	// DefaultMapSize is the number of slots a new index array starts with.
	DefaultMapSize = 8
)

// Config holds the knobs of a Deque. The zero value is not valid; start from
// DefaultConfig or pass Options to NewDeque.
type Config struct {
	// BlockBytes is divided by the element size to obtain the number of
	// elements per block. Ignored when BlockSize is set.
	BlockBytes int
	// BlockSize, when positive, fixes the number of elements per block.
	BlockSize int
	// MapSize is the initial number of slots in the index array.
	MapSize int
	// Allocator accounts for every block and slot array the Deque holds.
	Allocator Allocator
	// Logger receives debug events about index array reallocation.
	Logger *zap.Logger
}

// DefaultConfig returns the configuration MakeDeque uses.
func DefaultConfig() Config {
	return Config{
		BlockBytes: DefaultBlockBytes,
		MapSize:    DefaultMapSize,
		Allocator:  HeapAllocator{},
		Logger:     zap.NewNop(),
	}
}

// Verify reports whether the configuration can build a Deque.
func (c *Config) Verify() error {
	switch {
	case c.BlockSize < 0:
		return fmt.Errorf("%w: got %d elements", ErrInvalidBlockSize, c.BlockSize)
	case c.BlockSize == 0 && c.BlockBytes <= 0:
		return fmt.Errorf("%w: got %d bytes", ErrInvalidBlockSize, c.BlockBytes)
	case c.MapSize <= 0:
		return fmt.Errorf("%w: got %d slots", ErrInvalidMapSize, c.MapSize)
	}
	return nil
}

// Option mutates a Config before the Deque is built.
type Option func(*Config)

// WithBlockBytes sets the byte threshold used to size blocks.
func WithBlockBytes(n int) Option {
	return func(c *Config) { c.BlockBytes = n }
}

// WithBlockSize fixes the number of elements per block, overriding the
// byte threshold.
func WithBlockSize(n int) Option {
	return func(c *Config) { c.BlockSize = n }
}

// WithMapSize sets the initial number of index array slots.
func WithMapSize(n int) Option {
	return func(c *Config) { c.MapSize = n }
}

// WithAllocator routes block and slot array accounting through a.
func WithAllocator(a Allocator) Option {
	return func(c *Config) { c.Allocator = a }
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// blockSizeOf returns the number of T that fit in a block under c. Large
// elements degrade to one element per block.
func blockSizeOf[T any](c *Config) int {
	if c.BlockSize > 0 {
		return c.BlockSize
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return c.BlockBytes
	}
	return max(1, c.BlockBytes/size)
}
