package ais

import "errors"

// Error kinds surfaced by the codec. Callers match with errors.Is; every
// failure path wraps one of these so the kind survives context wrapping,
// except sentence framing failures, which wrap nmea.ErrChecksum or
// nmea.ErrFormat.
var (
	// ErrBadArmor reports a payload character outside the two legal
	// armoring ranges '0'..'W' and '`'..'w'.
	ErrBadArmor = errors.New("illegal character in armored payload")

	// ErrOutOfRange reports a bit access past the end of a BitVector.
	ErrOutOfRange = errors.New("bit index out of range")

	// ErrBadWidth reports a read or write wider than 64 bits.
	ErrBadWidth = errors.New("bit width exceeds 64")

	// ErrBadAlignment reports a string operation whose bit count is not a
	// multiple of 6, or a string longer than its field.
	ErrBadAlignment = errors.New("string field misaligned")

	// ErrTruncated reports a message decoder running out of bits mid-field.
	ErrTruncated = errors.New("message truncated")

	// ErrUnsupportedType reports a message type or application id with no
	// registered decoder.
	ErrUnsupportedType = errors.New("unsupported message type")

	// ErrBadFragment reports a fragment with an index, count, channel or
	// fill-bits value out of range.
	ErrBadFragment = errors.New("invalid fragment")
)
