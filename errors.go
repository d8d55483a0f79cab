package segdeque

import "errors"

/*****************************************************************************
 * SENTINEL ERRORS
 *****************************************************************************/

// ErrOutOfMemory is returned when the Allocator refuses to hand out storage
// for a block or for the index array. It is never retried internally.
var ErrOutOfMemory = errors.New("out of memory")

// ErrOutOfRange is returned by the checked accessors when an index falls
// outside [0, Len()).
var ErrOutOfRange = errors.New("index out of range")

// ErrInvalidBlockSize is returned when a Config asks for blocks that cannot
// hold a single element.
var ErrInvalidBlockSize = errors.New("block size must be positive")

// ErrInvalidMapSize is returned when a Config asks for fewer than one initial
// slot in the index array.
var ErrInvalidMapSize = errors.New("map size must be positive")
