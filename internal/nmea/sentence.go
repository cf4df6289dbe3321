// Package nmea handles the NMEA 0183 sentence layer carrying AIS payloads:
// field framing, checksum validation and serialization of AIVDM/AIVDO
// sentences.
package nmea

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// TalkerVDM marks received AIS traffic.
	TalkerVDM = "AIVDM"
	// TalkerVDO marks own-vessel AIS traffic.
	TalkerVDO = "AIVDO"
)

// Error kinds raised by the sentence layer.
var (
	// ErrChecksum reports a missing or mismatched sentence checksum.
	ErrChecksum = errors.New("nmea checksum mismatch")
	// ErrFormat reports a structurally malformed sentence.
	ErrFormat = errors.New("malformed nmea sentence")
)

// Sentence is one AIVDM/AIVDO sentence: seven comma-separated fields between
// the leading '!' and the trailing checksum.
type Sentence struct {
	Talker        string // AIVDM or AIVDO
	FragmentCount int    // 1..9
	FragmentIndex int    // 1..FragmentCount
	GroupID       string // empty for single-fragment groups
	Channel       byte   // 'A' or 'B'
	Payload       string // armored payload
	FillBits      int    // 0..5, final fragment only
	Raw           string // the line as received
}

// Checksum XORs every character of body, which must exclude the leading
// '!'/'$' and the trailing '*HH'.
func Checksum(body string) byte {
	var sum byte
	for i := 0; i < len(body); i++ {
		sum ^= body[i]
	}
	return sum
}

// Parse extracts and validates the seven sentence fields from line.
func Parse(line string) (Sentence, error) {
	s := Sentence{Raw: line}
	line = strings.TrimRight(line, "\r\n")

	if len(line) == 0 || (line[0] != '!' && line[0] != '$') {
		return s, errors.Wrap(ErrFormat, "missing sentence start")
	}
	star := strings.LastIndexByte(line, '*')
	if star < 0 || len(line)-star != 3 {
		return s, errors.Wrap(ErrChecksum, "missing checksum")
	}
	want, err := strconv.ParseUint(line[star+1:], 16, 8)
	if err != nil {
		return s, errors.Wrap(ErrChecksum, "unreadable checksum")
	}
	body := line[1:star]
	if got := Checksum(body); got != byte(want) {
		return s, errors.Wrapf(ErrChecksum, "calculated %02X, sentence says %02X", got, want)
	}

	fields := strings.Split(body, ",")
	if len(fields) != 7 {
		return s, errors.Wrapf(ErrFormat, "%d fields, want 7", len(fields))
	}
	if fields[0] != TalkerVDM && fields[0] != TalkerVDO {
		return s, errors.Wrapf(ErrFormat, "not an AIS sentence: %q", fields[0])
	}
	s.Talker = fields[0]

	if s.FragmentCount, err = strconv.Atoi(fields[1]); err != nil {
		return s, errors.Wrap(ErrFormat, "fragment count")
	}
	if s.FragmentIndex, err = strconv.Atoi(fields[2]); err != nil {
		return s, errors.Wrap(ErrFormat, "fragment index")
	}
	if s.FragmentCount < 1 || s.FragmentCount > 9 ||
		s.FragmentIndex < 1 || s.FragmentIndex > s.FragmentCount {
		return s, errors.Wrapf(ErrFormat, "fragment %d of %d", s.FragmentIndex, s.FragmentCount)
	}
	s.GroupID = fields[3]

	if len(fields[4]) != 1 || (fields[4][0] != 'A' && fields[4][0] != 'B') {
		return s, errors.Wrapf(ErrFormat, "channel %q", fields[4])
	}
	s.Channel = fields[4][0]
	s.Payload = fields[5]

	if s.FillBits, err = strconv.Atoi(fields[6]); err != nil {
		return s, errors.Wrap(ErrFormat, "fill bits")
	}
	if s.FillBits < 0 || s.FillBits > 5 {
		return s, errors.Wrapf(ErrFormat, "fill bits %d", s.FillBits)
	}
	if s.FillBits != 0 && s.FragmentIndex != s.FragmentCount {
		return s, errors.Wrap(ErrFormat, "fill bits on a non-final fragment")
	}
	return s, nil
}

// Encode serializes the sentence with its checksum appended.
func (s Sentence) Encode() string {
	talker := s.Talker
	if talker == "" {
		talker = TalkerVDM
	}
	body := fmt.Sprintf("%s,%d,%d,%s,%c,%s,%d",
		talker, s.FragmentCount, s.FragmentIndex, s.GroupID, s.Channel, s.Payload, s.FillBits)
	return fmt.Sprintf("!%s*%02X", body, Checksum(body))
}
