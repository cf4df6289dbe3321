package ais

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// NavigationStatus is the 4-bit navigational status of a Class A report.
type NavigationStatus uint8

const (
	NavStatusUnderWayEngine NavigationStatus = iota
	NavStatusAtAnchor
	NavStatusNotUnderCommand
	NavStatusRestrictedManeuver
	NavStatusConstrainedDraught
	NavStatusMoored
	NavStatusAground
	NavStatusFishing
	NavStatusUnderWaySailing
	NavStatusReservedHSC
	NavStatusReservedWIG
	NavStatusReserved11
	NavStatusReserved12
	NavStatusReserved13
	NavStatusSARTActive
	NavStatusNotDefined
)

const positionReportABits = 168

// PositionReportA is a Class A position report, message types 1, 2 and 3.
type PositionReportA struct {
	messageType      uint8
	repeatIndicator  uint8
	mmsi             uint32
	navStatus        NavigationStatus
	rateOfTurn       int8
	speedOverGround  uint16
	positionAccuracy bool
	longitude        int32
	latitude         int32
	courseOverGround uint16
	trueHeading      uint16
	timestamp        uint8
	specialManeuver  uint8
	spare            uint8
	raim             bool
	radioStatus      uint32
}

// NewPositionReportA returns a report with every optional field at its
// "not available" sentinel. messageType must be 1, 2 or 3.
func NewPositionReportA(messageType uint8, mmsi uint32, repeatIndicator uint8, status NavigationStatus) (*PositionReportA, error) {
	if messageType != 1 && messageType != 2 && messageType != 3 {
		return nil, errors.Wrapf(ErrUnsupportedType, "type %d is not a Class A position report", messageType)
	}
	return &PositionReportA{
		messageType:      messageType,
		repeatIndicator:  repeatIndicator,
		mmsi:             mmsi,
		navStatus:        status,
		rateOfTurn:       -128,
		speedOverGround:  sogNotAvailable,
		longitude:        lonNotAvailable,
		latitude:         latNotAvailable,
		courseOverGround: cogNotAvailable,
		trueHeading:      headingNotAvailable,
		timestamp:        timestampNotAvail,
	}, nil
}

func decodePositionReportA(bv *BitVector) (Message, error) {
	if bv.Len() < positionReportABits {
		return nil, errors.Wrapf(ErrTruncated, "position report: %d bits, want %d", bv.Len(), positionReportABits)
	}
	r := newBitReader(bv)
	m := &PositionReportA{}
	m.messageType = uint8(r.readUint(6))
	if m.messageType != 1 && m.messageType != 2 && m.messageType != 3 {
		return nil, errors.Wrapf(ErrUnsupportedType, "type %d is not a Class A position report", m.messageType)
	}
	m.repeatIndicator = uint8(r.readUint(2))
	m.mmsi = uint32(r.readUint(30))
	m.navStatus = NavigationStatus(r.readUint(4))
	m.rateOfTurn = int8(r.readInt(8))
	m.speedOverGround = uint16(r.readUint(10))
	m.positionAccuracy = r.readBool()
	m.longitude = int32(r.readInt(28))
	m.latitude = int32(r.readInt(27))
	m.courseOverGround = uint16(r.readUint(12))
	m.trueHeading = uint16(r.readUint(9))
	m.timestamp = uint8(r.readUint(6))
	m.specialManeuver = uint8(r.readUint(2))
	m.spare = uint8(r.readUint(3))
	m.raim = r.readBool()
	m.radioStatus = uint32(r.readUint(19))
	return m, r.err
}

// AppendBits encodes the 168-bit report onto bv.
func (m *PositionReportA) AppendBits(bv *BitVector) error {
	w := newBitWriter(bv)
	w.writeUint(uint64(m.messageType), 6)
	w.writeUint(uint64(m.repeatIndicator), 2)
	w.writeUint(uint64(m.mmsi), 30)
	w.writeUint(uint64(m.navStatus), 4)
	w.writeInt(int64(m.rateOfTurn), 8)
	w.writeUint(uint64(m.speedOverGround), 10)
	w.writeBool(m.positionAccuracy)
	w.writeInt(int64(m.longitude), 28)
	w.writeInt(int64(m.latitude), 27)
	w.writeUint(uint64(m.courseOverGround), 12)
	w.writeUint(uint64(m.trueHeading), 9)
	w.writeUint(uint64(m.timestamp), 6)
	w.writeUint(uint64(m.specialManeuver), 2)
	w.writeUint(uint64(m.spare), 3)
	w.writeBool(m.raim)
	w.writeUint(uint64(m.radioStatus), 19)
	return w.err
}

// MessageType returns 1, 2 or 3.
func (m *PositionReportA) MessageType() uint8 { return m.messageType }

// MMSI returns the source station identity.
func (m *PositionReportA) MMSI() uint32 { return m.mmsi }

// RepeatIndicator returns the repeat counter.
func (m *PositionReportA) RepeatIndicator() uint8 { return m.repeatIndicator }

// NavigationStatus returns the navigational status enumeration.
func (m *PositionReportA) NavigationStatus() NavigationStatus { return m.navStatus }

// SetNavigationStatus replaces the navigational status.
func (m *PositionReportA) SetNavigationStatus(status NavigationStatus) { m.navStatus = status }

// RateOfTurnRaw returns the 8-bit ROT indicator as transmitted.
func (m *PositionReportA) RateOfTurnRaw() int8 { return m.rateOfTurn }

// SetRateOfTurnRaw stores the ROT indicator without conversion.
func (m *PositionReportA) SetRateOfTurnRaw(rot int8) { m.rateOfTurn = rot }

// RateOfTurn returns the rate of turn in degrees per minute. NaN means not
// available; ±Inf means turning faster than 5 degrees per 30 seconds.
func (m *PositionReportA) RateOfTurn() float64 {
	switch m.rateOfTurn {
	case -128:
		return math.NaN()
	case 127:
		return math.Inf(1)
	case -127:
		return math.Inf(-1)
	case 0:
		return 0
	}
	rot := 4.733 * math.Sqrt(math.Abs(float64(m.rateOfTurn)))
	if m.rateOfTurn < 0 {
		return -rot
	}
	return rot
}

// SetRateOfTurn converts degrees per minute to the ROT indicator: NaN stores
// the not-available code, magnitudes of 708 degrees per minute or more store
// the fast-turn codes, everything else rounds through the 4.733*sqrt curve
// and clamps to ±126.
func (m *PositionReportA) SetRateOfTurn(degPerMin float64) {
	switch {
	case math.IsNaN(degPerMin):
		m.rateOfTurn = -128
	case degPerMin >= 708.0:
		m.rateOfTurn = 127
	case degPerMin <= -708.0:
		m.rateOfTurn = -127
	case degPerMin == 0:
		m.rateOfTurn = 0
	default:
		ind := math.Pow(math.Abs(degPerMin)/4.733, 2.0)
		v := int64(roundHalfAway(ind))
		if v > 126 {
			v = 126
		}
		if degPerMin < 0 {
			v = -v
		}
		m.rateOfTurn = int8(v)
	}
}

// SpeedOverGround returns the speed in knots. NaN means not available;
// 102.2 means 102.2 knots or more.
func (m *PositionReportA) SpeedOverGround() float64 {
	switch m.speedOverGround {
	case sogNotAvailable:
		return math.NaN()
	case sogMax:
		return 102.2
	}
	return float64(m.speedOverGround) / 10.0
}

// SetSpeedOverGround stores the speed in 0.1-knot resolution. NaN stores the
// not-available code; speeds at or above 102.2 knots saturate.
func (m *PositionReportA) SetSpeedOverGround(knots float64) {
	switch {
	case math.IsNaN(knots):
		m.speedOverGround = sogNotAvailable
	case knots >= 102.2:
		m.speedOverGround = sogMax
	case knots < 0:
		m.speedOverGround = 0
	default:
		v := uint16(roundHalfAway(knots * 10.0))
		if v > sogMax {
			v = sogMax
		}
		m.speedOverGround = v
	}
}

// PositionAccuracy reports high (true) or low (false) position accuracy.
func (m *PositionReportA) PositionAccuracy() bool { return m.positionAccuracy }

// SetPositionAccuracy sets the position accuracy flag.
func (m *PositionReportA) SetPositionAccuracy(accuracy bool) { m.positionAccuracy = accuracy }

// Longitude returns degrees east-positive; 181 means not available.
func (m *PositionReportA) Longitude() float64 {
	if m.longitude == lonNotAvailable {
		return 181.0
	}
	return float64(m.longitude) / 600000.0
}

// SetLongitude stores degrees in 1/10000-minute fixed point; values outside
// [-180, 180] store the not-available sentinel.
func (m *PositionReportA) SetLongitude(deg float64) {
	if deg > 180.0 || deg < -180.0 {
		m.longitude = lonNotAvailable
		return
	}
	m.longitude = degToFixed(deg)
}

// Latitude returns degrees north-positive; 91 means not available.
func (m *PositionReportA) Latitude() float64 {
	if m.latitude == latNotAvailable {
		return 91.0
	}
	return float64(m.latitude) / 600000.0
}

// SetLatitude stores degrees in 1/10000-minute fixed point; values outside
// [-90, 90] store the not-available sentinel.
func (m *PositionReportA) SetLatitude(deg float64) {
	if deg > 90.0 || deg < -90.0 {
		m.latitude = latNotAvailable
		return
	}
	m.latitude = degToFixed(deg)
}

// CourseOverGround returns the course in degrees; NaN means not available.
func (m *PositionReportA) CourseOverGround() float64 {
	if m.courseOverGround == cogNotAvailable {
		return math.NaN()
	}
	return float64(m.courseOverGround) / 10.0
}

// SetCourseOverGround wraps the course into [0, 360) with a 0.05-degree
// tolerance snapping 360 back to 0, then stores 0.1-degree resolution. NaN
// stores the not-available code.
func (m *PositionReportA) SetCourseOverGround(deg float64) {
	if math.IsNaN(deg) {
		m.courseOverGround = cogNotAvailable
		return
	}
	wrapped := math.Mod(deg, 360.0)
	if wrapped < 0 {
		wrapped += 360.0
	}
	if math.Abs(wrapped-360.0) < 0.05 {
		wrapped = 0
	}
	v := uint16(roundHalfAway(wrapped * 10.0))
	if v >= cogNotAvailable {
		v = cogNotAvailable - 1
	}
	m.courseOverGround = v
}

// TrueHeading returns the heading in degrees; 511 means not available.
func (m *PositionReportA) TrueHeading() uint16 { return m.trueHeading }

// SetTrueHeading stores the heading; values of 360 or more that are not the
// sentinel store the not-available code.
func (m *PositionReportA) SetTrueHeading(heading uint16) {
	if heading >= 360 && heading != headingNotAvailable {
		heading = headingNotAvailable
	}
	m.trueHeading = heading
}

// Timestamp returns the UTC second of the fix; 60..63 are the special codes
// and surface unchanged.
func (m *PositionReportA) Timestamp() uint8 { return m.timestamp }

// SetTimestamp stores the UTC second; values past 63 store the
// not-available code.
func (m *PositionReportA) SetTimestamp(second uint8) {
	if second > 63 {
		second = timestampNotAvail
	}
	m.timestamp = second
}

// SpecialManeuver returns the 2-bit special maneuver indicator.
func (m *PositionReportA) SpecialManeuver() uint8 { return m.specialManeuver }

// SetSpecialManeuver stores the indicator; values past 2 store zero.
func (m *PositionReportA) SetSpecialManeuver(indicator uint8) {
	if indicator > 2 {
		indicator = 0
	}
	m.specialManeuver = indicator
}

// RAIM reports whether receiver autonomous integrity monitoring is in use.
func (m *PositionReportA) RAIM() bool { return m.raim }

// SetRAIM sets the RAIM flag.
func (m *PositionReportA) SetRAIM(raim bool) { m.raim = raim }

// RadioStatus returns the opaque 19-bit SOTDMA/ITDMA state.
func (m *PositionReportA) RadioStatus() uint32 { return m.radioStatus }

// SetRadioStatus stores the radio state.
func (m *PositionReportA) SetRadioStatus(status uint32) { m.radioStatus = status }

func (m *PositionReportA) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Position Report Class A (type %d) mmsi=%d repeat=%d\n", m.messageType, m.mmsi, m.repeatIndicator)
	fmt.Fprintf(&sb, "  nav status: %d\n", m.navStatus)
	switch rot := m.RateOfTurn(); {
	case math.IsNaN(rot):
		sb.WriteString("  rate of turn: not available\n")
	case math.IsInf(rot, 1):
		sb.WriteString("  rate of turn: turning right > 5 deg/30s\n")
	case math.IsInf(rot, -1):
		sb.WriteString("  rate of turn: turning left > 5 deg/30s\n")
	default:
		fmt.Fprintf(&sb, "  rate of turn: %.1f deg/min\n", rot)
	}
	if sog := m.SpeedOverGround(); math.IsNaN(sog) {
		sb.WriteString("  speed over ground: not available\n")
	} else {
		fmt.Fprintf(&sb, "  speed over ground: %.1f kn\n", sog)
	}
	sb.WriteString(formatPosition(m.Longitude(), m.Latitude()))
	if cog := m.CourseOverGround(); math.IsNaN(cog) {
		sb.WriteString("  course over ground: not available\n")
	} else {
		fmt.Fprintf(&sb, "  course over ground: %.1f deg\n", cog)
	}
	if m.trueHeading == headingNotAvailable {
		sb.WriteString("  true heading: not available\n")
	} else {
		fmt.Fprintf(&sb, "  true heading: %d deg\n", m.trueHeading)
	}
	fmt.Fprintf(&sb, "  timestamp: %s\n", timestampLabel(m.timestamp))
	fmt.Fprintf(&sb, "  raim: %t radio: 0x%05X", m.raim, m.radioStatus)
	return sb.String()
}

func formatPosition(lon, lat float64) string {
	var sb strings.Builder
	if lon > 180.0 {
		sb.WriteString("  longitude: not available\n")
	} else {
		fmt.Fprintf(&sb, "  longitude: %.6f deg\n", lon)
	}
	if lat > 90.0 {
		sb.WriteString("  latitude: not available\n")
	} else {
		fmt.Fprintf(&sb, "  latitude: %.6f deg\n", lat)
	}
	return sb.String()
}

func timestampLabel(ts uint8) string {
	switch ts {
	case 60:
		return "not available"
	case 61:
		return "manual input mode"
	case 62:
		return "estimated (dead reckoning)"
	case 63:
		return "positioning system inoperative"
	}
	return fmt.Sprintf("%d s", ts)
}
