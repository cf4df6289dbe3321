// Package application decodes the payloads carried inside AIS binary
// envelope messages (types 6 and 8), keyed by the (DAC, FI) application id.
package application

import (
	"github.com/pkg/errors"

	"go162/internal/ais"
)

// Designated area codes.
const (
	DACTest          uint16 = 0
	DACInternational uint16 = 1
	DACEurope        uint16 = 200
	DACCanada        uint16 = 316
	DACUSA           uint16 = 366
)

// International (DAC 1) function identifiers.
const (
	FIAreaNotice     uint16 = 22
	FIMeteoHydroData uint16 = 31
)

// Key identifies an application payload format.
type Key struct {
	DAC uint16
	FI  uint16
}

// Payload is a decoded application payload.
type Payload interface {
	// ApplicationID returns the (DAC, FI) pair this payload encodes as.
	ApplicationID() (dac, fi uint16)
	// AppendBits encodes the payload onto bv.
	AppendBits(bv *ais.BitVector) error
	// String renders a human-readable field dump.
	String() string
}

// DecoderFunc turns envelope data bits into a typed payload.
type DecoderFunc func(data *ais.BitVector) (Payload, error)

var registry = make(map[Key]DecoderFunc)

// Register installs fn for the (dac, fi) pair. Each payload format registers
// itself in its init function.
func Register(dac, fi uint16, fn DecoderFunc) {
	registry[Key{DAC: dac, FI: fi}] = fn
}

// Lookup returns the decoder for (dac, fi), if one is registered.
func Lookup(dac, fi uint16) (DecoderFunc, bool) {
	fn, ok := registry[Key{DAC: dac, FI: fi}]
	return fn, ok
}

// Decode dispatches data to the decoder registered for (dac, fi).
// Unrecognized pairs fail with ais.ErrUnsupportedType and the envelope data
// stays opaque.
func Decode(dac, fi uint16, data *ais.BitVector) (Payload, error) {
	fn, ok := Lookup(dac, fi)
	if !ok {
		return nil, errors.Wrapf(ais.ErrUnsupportedType, "application id dac=%d fi=%d", dac, fi)
	}
	return fn(data)
}

// payloadBits encodes p into a fresh vector.
func payloadBits(p Payload) (*ais.BitVector, error) {
	bv := ais.NewBitVector()
	if err := p.AppendBits(bv); err != nil {
		return nil, err
	}
	return bv, nil
}

// ToBroadcast wraps p in a type 8 binary broadcast envelope.
func ToBroadcast(p Payload, mmsi uint32, repeatIndicator uint8) (*ais.BinaryBroadcast, error) {
	bits, err := payloadBits(p)
	if err != nil {
		return nil, err
	}
	m := ais.NewBinaryBroadcast(mmsi, repeatIndicator)
	dac, fi := p.ApplicationID()
	m.SetApplicationID(dac, fi)
	m.SetData(bits)
	return m, nil
}

// ToAddressed wraps p in a type 6 binary addressed envelope.
func ToAddressed(p Payload, mmsi, destMMSI uint32, sequenceNumber, repeatIndicator uint8) (*ais.BinaryAddressed, error) {
	bits, err := payloadBits(p)
	if err != nil {
		return nil, err
	}
	m := ais.NewBinaryAddressed(mmsi, destMMSI, sequenceNumber, repeatIndicator)
	dac, fi := p.ApplicationID()
	m.SetApplicationID(dac, fi)
	m.SetData(bits)
	return m, nil
}
