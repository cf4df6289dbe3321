package ais

import (
	"go162/internal/nmea"
)

// Position fixed-point sentinels shared by every message carrying a
// 1/10000-minute position: 181 and 91 degrees mean "not available".
const (
	lonNotAvailable int32 = 0x6791AC0
	latNotAvailable int32 = 0x3412140

	sogNotAvailable     uint16 = 1023
	sogMax              uint16 = 1022
	cogNotAvailable     uint16 = 3600
	headingNotAvailable uint16 = 511
	timestampNotAvail   uint8  = 60
)

// degToFixed converts degrees to 1/10000-minute fixed point.
func degToFixed(deg float64) int32 {
	return int32(roundHalfAway(deg * 600000.0))
}

func roundHalfAway(v float64) float64 {
	if v < 0 {
		return -float64(int64(-v + 0.5))
	}
	return float64(int64(v + 0.5))
}

// Message is a decoded AIS message. Every variant carries the common 38-bit
// prefix: type tag, repeat indicator and source MMSI.
type Message interface {
	// MessageType returns the 6-bit type tag (1..27).
	MessageType() uint8
	// MMSI returns the 30-bit source station identity.
	MMSI() uint32
	// RepeatIndicator returns the 2-bit repeat counter.
	RepeatIndicator() uint8
	// AppendBits encodes the message onto the end of bv.
	AppendBits(bv *BitVector) error
	// String renders a human-readable field dump.
	String() string
}

// maxPayloadChars is the armored payload budget per sentence; longer
// messages are split into fragments.
const maxPayloadChars = 60

// ToSentences encodes m into one or more NMEA sentences. Multi-fragment
// output shares groupID and announces fill bits on the final fragment only.
func ToSentences(m Message, talker string, channel byte, groupID string) ([]string, error) {
	bv := NewBitVector()
	if err := m.AppendBits(bv); err != nil {
		return nil, err
	}
	payload := bv.ToPayload()
	fill := bv.FillBits()

	if len(payload) <= maxPayloadChars {
		s := nmea.Sentence{
			Talker:        talker,
			FragmentCount: 1,
			FragmentIndex: 1,
			Channel:       channel,
			Payload:       payload,
			FillBits:      fill,
		}
		return []string{s.Encode()}, nil
	}

	count := (len(payload) + maxPayloadChars - 1) / maxPayloadChars
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		start := i * maxPayloadChars
		end := start + maxPayloadChars
		if end > len(payload) {
			end = len(payload)
		}
		s := nmea.Sentence{
			Talker:        talker,
			FragmentCount: count,
			FragmentIndex: i + 1,
			GroupID:       groupID,
			Channel:       channel,
			Payload:       payload[start:end],
		}
		if i == count-1 {
			s.FillBits = fill
		}
		out = append(out, s.Encode())
	}
	return out, nil
}

// ToNMEA encodes m as received-traffic sentences on channel A with group
// id "1" when fragmented.
func ToNMEA(m Message) ([]string, error) {
	return ToSentences(m, nmea.TalkerVDM, 'A', "1")
}
