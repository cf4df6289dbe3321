package ais

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applicationData(t *testing.T) *BitVector {
	t.Helper()
	data := NewBitVector()
	require.NoError(t, data.AppendUint(0xCAFE, 16))
	require.NoError(t, data.AppendUint(0x5, 3)) // odd length on purpose
	return data
}

func TestBinaryBroadcastRoundTrip(t *testing.T) {
	m := NewBinaryBroadcast(366123456, 0)
	m.SetApplicationID(1, 31)
	m.SetData(applicationData(t))

	bv := NewBitVector()
	require.NoError(t, m.AppendBits(bv))
	assert.Equal(t, binaryBroadcastHeaderBits+19, bv.Len())

	decoded, err := DecodeBits(bv)
	require.NoError(t, err)

	broadcast, ok := decoded.(*BinaryBroadcast)
	require.True(t, ok)
	assert.Equal(t, uint8(8), broadcast.MessageType())
	assert.Equal(t, uint16(1), broadcast.DAC())
	assert.Equal(t, uint16(31), broadcast.FI())
	assert.True(t, m.Data().Equal(broadcast.Data()))
}

func TestBinaryAddressedRoundTrip(t *testing.T) {
	m := NewBinaryAddressed(366123456, 538001234, 2, 1)
	m.SetRetransmit(true)
	m.SetApplicationID(1, 22)
	m.SetData(applicationData(t))

	bv := NewBitVector()
	require.NoError(t, m.AppendBits(bv))
	assert.Equal(t, binaryAddressedHeaderBits+19, bv.Len())

	decoded, err := DecodeBits(bv)
	require.NoError(t, err)

	addressed, ok := decoded.(*BinaryAddressed)
	require.True(t, ok)
	assert.Equal(t, uint8(6), addressed.MessageType())
	assert.Equal(t, uint32(538001234), addressed.DestMMSI())
	assert.Equal(t, uint8(2), addressed.SequenceNumber())
	assert.True(t, addressed.Retransmit())
	assert.Equal(t, uint16(1), addressed.DAC())
	assert.Equal(t, uint16(22), addressed.FI())
	assert.True(t, m.Data().Equal(addressed.Data()))
}

func TestBinaryEnvelopeEmptyData(t *testing.T) {
	m := NewBinaryBroadcast(1, 0)
	m.SetApplicationID(366, 1)

	bv := NewBitVector()
	require.NoError(t, m.AppendBits(bv))
	assert.Equal(t, binaryBroadcastHeaderBits, bv.Len())

	decoded, err := DecodeBits(bv)
	require.NoError(t, err)

	broadcast := decoded.(*BinaryBroadcast)
	assert.Equal(t, 0, broadcast.Data().Len())
	assert.Equal(t, uint32(366)<<16|1, broadcast.ApplicationID())
}

func TestBinaryAddressedSequenceClamped(t *testing.T) {
	m := NewBinaryAddressed(1, 2, 7, 0)
	assert.Equal(t, uint8(0), m.SequenceNumber())
}

// TestEnvelopeDataIsOwned checks that mutating the decoded data does not
// reach back into the source bits.
func TestEnvelopeDataIsOwned(t *testing.T) {
	m := NewBinaryBroadcast(1, 0)
	m.SetApplicationID(1, 31)
	m.SetData(applicationData(t))

	bv := NewBitVector()
	require.NoError(t, m.AppendBits(bv))

	decoded, err := DecodeBits(bv)
	require.NoError(t, err)
	broadcast := decoded.(*BinaryBroadcast)

	require.NoError(t, broadcast.Data().SetBit(0, true))
	fresh, err := DecodeBits(bv)
	require.NoError(t, err)
	assert.True(t, m.Data().Equal(fresh.(*BinaryBroadcast).Data()))
}
