package anvil

import (
	"errors"
	"fmt"
)

var (
	ErrNoChunk            = errors.New("anvil: chunk not found")
	ErrMalformedContainer = errors.New("anvil: malformed region file")
	ErrInvalidName        = errors.New("anvil: invalid region file name")
	ErrInvalidState       = errors.New("anvil: invalid chunk state")
	ErrInvalidSlot        = errors.New("anvil: slot index out of range")
	ErrChunkTooLarge      = errors.New("anvil: chunk exceeds maximum sector count")
	ErrRegionTooLarge     = errors.New("anvil: region exceeds maximum sector offset")

	ErrInvalidChunkLength = fmt.Errorf("%w: invalid chunk length", ErrMalformedContainer)
)

// SlotError ties a chunk failure to the slot it was read from or written to.
type SlotError struct {
	Index int
	Err   error
}

func (e *SlotError) Error() string {
	x, z := SlotCoords(e.Index)
	return fmt.Sprintf("anvil: chunk %d,%d (slot %d): %v", x, z, e.Index, e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}
