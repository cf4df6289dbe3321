package ais

import (
	"sync"

	"github.com/pkg/errors"
)

// minMessageBits is the common prefix every AIS message carries: type tag,
// repeat indicator and MMSI.
const minMessageBits = 38

// DecoderFunc turns an assembled bit stream into a typed message. Decoders
// are pure over their input.
type DecoderFunc func(bv *BitVector) (Message, error)

// Factory dispatches bit streams to per-type decoders keyed by the leading
// 6-bit type tag.
type Factory struct {
	decoders map[uint8]DecoderFunc
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{decoders: make(map[uint8]DecoderFunc)}
}

// Register installs fn for messageType, replacing any previous decoder.
func (f *Factory) Register(messageType uint8, fn DecoderFunc) {
	f.decoders[messageType] = fn
}

// Registered reports whether a decoder exists for messageType.
func (f *Factory) Registered(messageType uint8) bool {
	_, ok := f.decoders[messageType]
	return ok
}

// Decode reads the leading type tag and dispatches to its decoder.
func (f *Factory) Decode(bv *BitVector) (Message, error) {
	if bv.Len() < minMessageBits {
		return nil, errors.Wrapf(ErrTruncated, "%d bits, want at least %d", bv.Len(), minMessageBits)
	}
	tag, err := bv.GetUint(0, 6)
	if err != nil {
		return nil, err
	}
	fn, ok := f.decoders[uint8(tag)]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedType, "type %d", tag)
	}
	return fn(bv)
}

var (
	defaultFactory     *Factory
	defaultFactoryOnce sync.Once
)

// DefaultFactory returns the process-wide factory with the builtin message
// types registered. The table is built once and treated as read-only.
func DefaultFactory() *Factory {
	defaultFactoryOnce.Do(func() {
		f := NewFactory()
		f.Register(1, decodePositionReportA)
		f.Register(2, decodePositionReportA)
		f.Register(3, decodePositionReportA)
		f.Register(4, decodeBaseStationReport)
		f.Register(5, decodeStaticVoyageData)
		f.Register(6, decodeBinaryAddressed)
		f.Register(8, decodeBinaryBroadcast)
		f.Register(18, decodeStandardPositionB)
		f.Register(19, decodeExtendedPositionB)
		defaultFactory = f
	})
	return defaultFactory
}

// DecodeBits decodes an assembled bit stream with the default factory.
func DecodeBits(bv *BitVector) (Message, error) {
	return DefaultFactory().Decode(bv)
}
