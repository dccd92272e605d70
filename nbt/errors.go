package nbt

import "errors"

var (
	ErrTypeMismatch     = errors.New("nbt: tag type mismatch")
	ErrKeyNotFound      = errors.New("nbt: key not found")
	ErrMaxDepthExceeded = errors.New("nbt: reached maximum depth of NBT structure")
	ErrInvalidState     = errors.New("nbt: invalid tag state")
	ErrInvalidTagType   = errors.New("nbt: invalid tag type")
	ErrInvalidLength    = errors.New("nbt: invalid length")
	ErrStringTooLong    = errors.New("nbt: string exceeds 65535 bytes")
)
