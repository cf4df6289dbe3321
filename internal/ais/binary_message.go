package ais

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	binaryAddressedHeaderBits = 88
	binaryBroadcastHeaderBits = 56
)

// binaryEnvelope carries the fields shared by the binary addressed and
// broadcast messages: the (DAC, FI) application id and the opaque payload
// bits, which the envelope exclusively owns.
type binaryEnvelope struct {
	repeatIndicator uint8
	mmsi            uint32
	dac             uint16
	fi              uint16
	data            *BitVector
}

// DAC returns the designated area code of the application id.
func (m *binaryEnvelope) DAC() uint16 { return m.dac }

// FI returns the function identifier of the application id.
func (m *binaryEnvelope) FI() uint16 { return m.fi }

// ApplicationID packs DAC and FI into a single comparable value.
func (m *binaryEnvelope) ApplicationID() uint32 {
	return uint32(m.dac)<<16 | uint32(m.fi)
}

// Data returns the opaque application payload bits, which may be nil.
func (m *binaryEnvelope) Data() *BitVector { return m.data }

// SetApplicationID stores the (DAC, FI) pair.
func (m *binaryEnvelope) SetApplicationID(dac, fi uint16) {
	m.dac = dac
	m.fi = fi
}

// SetData replaces the application payload bits.
func (m *binaryEnvelope) SetData(data *BitVector) { m.data = data }

// MMSI returns the source station identity.
func (m *binaryEnvelope) MMSI() uint32 { return m.mmsi }

// RepeatIndicator returns the repeat counter.
func (m *binaryEnvelope) RepeatIndicator() uint8 { return m.repeatIndicator }

func (m *binaryEnvelope) dataLen() int {
	if m.data == nil {
		return 0
	}
	return m.data.Len()
}

func (m *binaryEnvelope) appendData(w *bitWriter) {
	if w.err != nil || m.data == nil {
		return
	}
	w.err = w.bv.AppendRange(m.data, 0, m.data.Len())
}

// sliceData copies the residual bits after the envelope header into an
// independently owned vector.
func sliceData(bv *BitVector, start int) (*BitVector, error) {
	n := bv.Len() - start
	if n <= 0 {
		return NewBitVector(), nil
	}
	data := NewBitVectorCap(n)
	if err := data.AppendRange(bv, start, n); err != nil {
		return nil, err
	}
	return data, nil
}

// BinaryAddressed is message type 6: point-to-point binary data with a
// destination MMSI and a sequence number.
type BinaryAddressed struct {
	binaryEnvelope
	sequenceNumber uint8
	destMMSI       uint32
	retransmit     bool
}

// NewBinaryAddressed returns an empty addressed envelope.
func NewBinaryAddressed(mmsi, destMMSI uint32, sequenceNumber, repeatIndicator uint8) *BinaryAddressed {
	m := &BinaryAddressed{destMMSI: destMMSI}
	m.mmsi = mmsi
	m.repeatIndicator = repeatIndicator
	m.SetSequenceNumber(sequenceNumber)
	return m
}

func decodeBinaryAddressed(bv *BitVector) (Message, error) {
	if bv.Len() < binaryAddressedHeaderBits {
		return nil, errors.Wrapf(ErrTruncated, "binary addressed message: %d bits, want at least %d", bv.Len(), binaryAddressedHeaderBits)
	}
	r := newBitReader(bv)
	if tag := r.readUint(6); tag != 6 {
		return nil, errors.Wrapf(ErrUnsupportedType, "type %d is not a binary addressed message", tag)
	}
	m := &BinaryAddressed{}
	m.repeatIndicator = uint8(r.readUint(2))
	m.mmsi = uint32(r.readUint(30))
	m.sequenceNumber = uint8(r.readUint(2))
	m.destMMSI = uint32(r.readUint(30))
	m.retransmit = r.readBool()
	r.skip(1) // spare
	m.dac = uint16(r.readUint(10))
	m.fi = uint16(r.readUint(6))
	if r.err != nil {
		return nil, r.err
	}
	data, err := sliceData(bv, binaryAddressedHeaderBits)
	if err != nil {
		return nil, err
	}
	m.data = data
	return m, nil
}

// AppendBits encodes the envelope and its payload onto bv.
func (m *BinaryAddressed) AppendBits(bv *BitVector) error {
	w := newBitWriter(bv)
	w.writeUint(6, 6)
	w.writeUint(uint64(m.repeatIndicator), 2)
	w.writeUint(uint64(m.mmsi), 30)
	w.writeUint(uint64(m.sequenceNumber), 2)
	w.writeUint(uint64(m.destMMSI), 30)
	w.writeBool(m.retransmit)
	w.writeUint(0, 1) // spare
	w.writeUint(uint64(m.dac), 10)
	w.writeUint(uint64(m.fi), 6)
	m.appendData(w)
	return w.err
}

// MessageType returns 6.
func (m *BinaryAddressed) MessageType() uint8 { return 6 }

// DestMMSI returns the destination station identity.
func (m *BinaryAddressed) DestMMSI() uint32 { return m.destMMSI }

// SetDestMMSI stores the destination station identity.
func (m *BinaryAddressed) SetDestMMSI(destMMSI uint32) { m.destMMSI = destMMSI }

// SequenceNumber returns the 2-bit transmission sequence number.
func (m *BinaryAddressed) SequenceNumber() uint8 { return m.sequenceNumber }

// SetSequenceNumber stores the sequence number; values past 3 store zero.
func (m *BinaryAddressed) SetSequenceNumber(seq uint8) {
	if seq > 3 {
		seq = 0
	}
	m.sequenceNumber = seq
}

// Retransmit reports whether this is a retransmission.
func (m *BinaryAddressed) Retransmit() bool { return m.retransmit }

// SetRetransmit sets the retransmit flag.
func (m *BinaryAddressed) SetRetransmit(retransmit bool) { m.retransmit = retransmit }

func (m *BinaryAddressed) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Binary Addressed Message (type 6) mmsi=%d repeat=%d\n", m.mmsi, m.repeatIndicator)
	fmt.Fprintf(&sb, "  seq: %d dest: %d retransmit: %t\n", m.sequenceNumber, m.destMMSI, m.retransmit)
	fmt.Fprintf(&sb, "  application id: dac=%d fi=%d data: %d bits", m.dac, m.fi, m.dataLen())
	if m.dataLen() > 0 {
		fmt.Fprintf(&sb, " (%s)", m.data.ToHex())
	}
	return sb.String()
}

// BinaryBroadcast is message type 8: broadcast binary data.
type BinaryBroadcast struct {
	binaryEnvelope
}

// NewBinaryBroadcast returns an empty broadcast envelope.
func NewBinaryBroadcast(mmsi uint32, repeatIndicator uint8) *BinaryBroadcast {
	m := &BinaryBroadcast{}
	m.mmsi = mmsi
	m.repeatIndicator = repeatIndicator
	return m
}

func decodeBinaryBroadcast(bv *BitVector) (Message, error) {
	if bv.Len() < binaryBroadcastHeaderBits {
		return nil, errors.Wrapf(ErrTruncated, "binary broadcast message: %d bits, want at least %d", bv.Len(), binaryBroadcastHeaderBits)
	}
	r := newBitReader(bv)
	if tag := r.readUint(6); tag != 8 {
		return nil, errors.Wrapf(ErrUnsupportedType, "type %d is not a binary broadcast message", tag)
	}
	m := &BinaryBroadcast{}
	m.repeatIndicator = uint8(r.readUint(2))
	m.mmsi = uint32(r.readUint(30))
	r.skip(2) // spare
	m.dac = uint16(r.readUint(10))
	m.fi = uint16(r.readUint(6))
	if r.err != nil {
		return nil, r.err
	}
	data, err := sliceData(bv, binaryBroadcastHeaderBits)
	if err != nil {
		return nil, err
	}
	m.data = data
	return m, nil
}

// AppendBits encodes the envelope and its payload onto bv.
func (m *BinaryBroadcast) AppendBits(bv *BitVector) error {
	w := newBitWriter(bv)
	w.writeUint(8, 6)
	w.writeUint(uint64(m.repeatIndicator), 2)
	w.writeUint(uint64(m.mmsi), 30)
	w.writeUint(0, 2) // spare
	w.writeUint(uint64(m.dac), 10)
	w.writeUint(uint64(m.fi), 6)
	m.appendData(w)
	return w.err
}

// MessageType returns 8.
func (m *BinaryBroadcast) MessageType() uint8 { return 8 }

func (m *BinaryBroadcast) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Binary Broadcast Message (type 8) mmsi=%d repeat=%d\n", m.mmsi, m.repeatIndicator)
	fmt.Fprintf(&sb, "  application id: dac=%d fi=%d data: %d bits", m.dac, m.fi, m.dataLen())
	if m.dataLen() > 0 {
		fmt.Fprintf(&sb, " (%s)", m.data.ToHex())
	}
	return sb.String()
}
