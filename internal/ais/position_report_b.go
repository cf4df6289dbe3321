package ais

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

const (
	standardPositionBBits = 168
	extendedPositionBBits = 312
)

// StandardPositionB is message type 18: the Class B equipment position
// report, kinematics plus capability flags.
type StandardPositionB struct {
	repeatIndicator  uint8
	mmsi             uint32
	speedOverGround  uint16
	positionAccuracy bool
	longitude        int32
	latitude         int32
	courseOverGround uint16
	trueHeading      uint16
	timestamp        uint8
	csUnit           bool
	display          bool
	dsc              bool
	band             bool
	message22        bool
	assigned         bool
	raim             bool
	radioStatus      uint32
}

// NewStandardPositionB returns a report with every kinematic field at its
// "not available" sentinel and carrier-sense operation flagged.
func NewStandardPositionB(mmsi uint32, repeatIndicator uint8) *StandardPositionB {
	return &StandardPositionB{
		repeatIndicator:  repeatIndicator,
		mmsi:             mmsi,
		speedOverGround:  sogNotAvailable,
		longitude:        lonNotAvailable,
		latitude:         latNotAvailable,
		courseOverGround: cogNotAvailable,
		trueHeading:      headingNotAvailable,
		timestamp:        timestampNotAvail,
		csUnit:           true,
	}
}

func decodeStandardPositionB(bv *BitVector) (Message, error) {
	if bv.Len() < standardPositionBBits {
		return nil, errors.Wrapf(ErrTruncated, "class B position report: %d bits, want %d", bv.Len(), standardPositionBBits)
	}
	r := newBitReader(bv)
	if tag := r.readUint(6); tag != 18 {
		return nil, errors.Wrapf(ErrUnsupportedType, "type %d is not a standard Class B report", tag)
	}
	m := &StandardPositionB{}
	m.decodeCommon(r)
	r.skip(2) // regional reserved
	m.csUnit = r.readBool()
	m.display = r.readBool()
	m.dsc = r.readBool()
	m.band = r.readBool()
	m.message22 = r.readBool()
	m.assigned = r.readBool()
	m.raim = r.readBool()
	m.radioStatus = uint32(r.readUint(20))
	return m, r.err
}

// decodeCommon reads the kinematic block shared by types 18 and 19: it
// leaves the cursor just past the 6-bit timestamp.
func (m *StandardPositionB) decodeCommon(r *bitReader) {
	m.repeatIndicator = uint8(r.readUint(2))
	m.mmsi = uint32(r.readUint(30))
	r.skip(8) // regional reserved
	m.speedOverGround = uint16(r.readUint(10))
	m.positionAccuracy = r.readBool()
	m.longitude = int32(r.readInt(28))
	m.latitude = int32(r.readInt(27))
	m.courseOverGround = uint16(r.readUint(12))
	m.trueHeading = uint16(r.readUint(9))
	m.timestamp = uint8(r.readUint(6))
}

// appendCommon writes the shared kinematic block after the type tag.
func (m *StandardPositionB) appendCommon(w *bitWriter) {
	w.writeUint(uint64(m.repeatIndicator), 2)
	w.writeUint(uint64(m.mmsi), 30)
	w.writeUint(0, 8) // regional reserved
	w.writeUint(uint64(m.speedOverGround), 10)
	w.writeBool(m.positionAccuracy)
	w.writeInt(int64(m.longitude), 28)
	w.writeInt(int64(m.latitude), 27)
	w.writeUint(uint64(m.courseOverGround), 12)
	w.writeUint(uint64(m.trueHeading), 9)
	w.writeUint(uint64(m.timestamp), 6)
}

// AppendBits encodes the 168-bit report onto bv.
func (m *StandardPositionB) AppendBits(bv *BitVector) error {
	w := newBitWriter(bv)
	w.writeUint(18, 6)
	m.appendCommon(w)
	w.writeUint(0, 2) // regional reserved
	w.writeBool(m.csUnit)
	w.writeBool(m.display)
	w.writeBool(m.dsc)
	w.writeBool(m.band)
	w.writeBool(m.message22)
	w.writeBool(m.assigned)
	w.writeBool(m.raim)
	w.writeUint(uint64(m.radioStatus), 20)
	return w.err
}

// MessageType returns 18.
func (m *StandardPositionB) MessageType() uint8 { return 18 }

// MMSI returns the source station identity.
func (m *StandardPositionB) MMSI() uint32 { return m.mmsi }

// RepeatIndicator returns the repeat counter.
func (m *StandardPositionB) RepeatIndicator() uint8 { return m.repeatIndicator }

// SpeedOverGround returns the speed in knots; NaN means not available.
func (m *StandardPositionB) SpeedOverGround() float64 {
	switch m.speedOverGround {
	case sogNotAvailable:
		return math.NaN()
	case sogMax:
		return 102.2
	}
	return float64(m.speedOverGround) / 10.0
}

// SetSpeedOverGround stores the speed; negative or NaN stores the sentinel.
func (m *StandardPositionB) SetSpeedOverGround(knots float64) {
	switch {
	case math.IsNaN(knots) || knots < 0:
		m.speedOverGround = sogNotAvailable
	case knots >= 102.2:
		m.speedOverGround = sogMax
	default:
		v := uint16(roundHalfAway(knots * 10.0))
		if v > sogMax {
			v = sogMax
		}
		m.speedOverGround = v
	}
}

// PositionAccuracy reports high (true) or low (false) position accuracy.
func (m *StandardPositionB) PositionAccuracy() bool { return m.positionAccuracy }

// SetPositionAccuracy sets the position accuracy flag.
func (m *StandardPositionB) SetPositionAccuracy(accuracy bool) { m.positionAccuracy = accuracy }

// Longitude returns degrees east-positive; 181 means not available.
func (m *StandardPositionB) Longitude() float64 {
	if m.longitude == lonNotAvailable {
		return 181.0
	}
	return float64(m.longitude) / 600000.0
}

// SetLongitude stores degrees; out-of-range values store the sentinel.
func (m *StandardPositionB) SetLongitude(deg float64) {
	if deg > 180.0 || deg < -180.0 {
		m.longitude = lonNotAvailable
		return
	}
	m.longitude = degToFixed(deg)
}

// Latitude returns degrees north-positive; 91 means not available.
func (m *StandardPositionB) Latitude() float64 {
	if m.latitude == latNotAvailable {
		return 91.0
	}
	return float64(m.latitude) / 600000.0
}

// SetLatitude stores degrees; out-of-range values store the sentinel.
func (m *StandardPositionB) SetLatitude(deg float64) {
	if deg > 90.0 || deg < -90.0 {
		m.latitude = latNotAvailable
		return
	}
	m.latitude = degToFixed(deg)
}

// CourseOverGround returns the course in degrees; NaN means not available.
func (m *StandardPositionB) CourseOverGround() float64 {
	if m.courseOverGround == cogNotAvailable {
		return math.NaN()
	}
	return float64(m.courseOverGround) / 10.0
}

// SetCourseOverGround stores the course; values outside [0, 360) store the
// sentinel.
func (m *StandardPositionB) SetCourseOverGround(deg float64) {
	if math.IsNaN(deg) || deg < 0 || deg >= 360.0 {
		m.courseOverGround = cogNotAvailable
		return
	}
	m.courseOverGround = uint16(roundHalfAway(deg * 10.0))
}

// TrueHeading returns the heading in degrees; 511 means not available.
func (m *StandardPositionB) TrueHeading() uint16 { return m.trueHeading }

// SetTrueHeading stores the heading; values past 359 that are not the
// sentinel store the not-available code.
func (m *StandardPositionB) SetTrueHeading(heading uint16) {
	if heading > 359 && heading != headingNotAvailable {
		heading = headingNotAvailable
	}
	m.trueHeading = heading
}

// Timestamp returns the UTC second of the fix; 60..63 are special codes.
func (m *StandardPositionB) Timestamp() uint8 { return m.timestamp }

// SetTimestamp stores the UTC second; values past 63 store the
// not-available code.
func (m *StandardPositionB) SetTimestamp(second uint8) {
	if second > 63 {
		second = timestampNotAvail
	}
	m.timestamp = second
}

// CSUnit reports carrier-sense (true) or SOTDMA (false) operation.
func (m *StandardPositionB) CSUnit() bool { return m.csUnit }

// SetCSUnit sets the unit mode flag.
func (m *StandardPositionB) SetCSUnit(cs bool) { m.csUnit = cs }

// Display reports whether the unit has a message display.
func (m *StandardPositionB) Display() bool { return m.display }

// SetDisplay sets the display capability flag.
func (m *StandardPositionB) SetDisplay(display bool) { m.display = display }

// DSC reports whether the unit is attached to a DSC radio.
func (m *StandardPositionB) DSC() bool { return m.dsc }

// SetDSC sets the DSC capability flag.
func (m *StandardPositionB) SetDSC(dsc bool) { m.dsc = dsc }

// Band reports whether the unit can use the whole marine band.
func (m *StandardPositionB) Band() bool { return m.band }

// SetBand sets the band capability flag.
func (m *StandardPositionB) SetBand(band bool) { m.band = band }

// Message22 reports whether the unit accepts channel management.
func (m *StandardPositionB) Message22() bool { return m.message22 }

// SetMessage22 sets the channel management flag.
func (m *StandardPositionB) SetMessage22(accepts bool) { m.message22 = accepts }

// Assigned reports assigned (true) or autonomous (false) mode.
func (m *StandardPositionB) Assigned() bool { return m.assigned }

// SetAssigned sets the assigned mode flag.
func (m *StandardPositionB) SetAssigned(assigned bool) { m.assigned = assigned }

// RAIM reports whether integrity monitoring is in use.
func (m *StandardPositionB) RAIM() bool { return m.raim }

// SetRAIM sets the RAIM flag.
func (m *StandardPositionB) SetRAIM(raim bool) { m.raim = raim }

// RadioStatus returns the opaque 20-bit commstate.
func (m *StandardPositionB) RadioStatus() uint32 { return m.radioStatus }

// SetRadioStatus stores the radio state.
func (m *StandardPositionB) SetRadioStatus(status uint32) { m.radioStatus = status }

func (m *StandardPositionB) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Standard Class B Position Report (type 18) mmsi=%d repeat=%d\n", m.mmsi, m.repeatIndicator)
	sb.WriteString(m.kinematicsString())
	fmt.Fprintf(&sb, "  cs: %t display: %t dsc: %t band: %t msg22: %t assigned: %t\n",
		m.csUnit, m.display, m.dsc, m.band, m.message22, m.assigned)
	fmt.Fprintf(&sb, "  raim: %t radio: 0x%05X", m.raim, m.radioStatus)
	return sb.String()
}

func (m *StandardPositionB) kinematicsString() string {
	var sb strings.Builder
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
	return sb.String()
}

// ExtendedPositionB is message type 19: the Class B report extended with the
// static descriptor fields of a type 5 message.
type ExtendedPositionB struct {
	StandardPositionB

	vesselName           string
	shipType             ShipType
	dimensionToBow       uint16
	dimensionToStern     uint16
	dimensionToPort      uint8
	dimensionToStarboard uint8
	epfdType             uint8
	dte                  bool
}

// NewExtendedPositionB returns a report with kinematics unavailable and the
// static descriptor blank. Type 19 carries no CS flag, so the CS unit flag is
// left false, as decoding yields it.
func NewExtendedPositionB(mmsi uint32, repeatIndicator uint8) *ExtendedPositionB {
	m := &ExtendedPositionB{StandardPositionB: *NewStandardPositionB(mmsi, repeatIndicator)}
	m.csUnit = false
	return m
}

func decodeExtendedPositionB(bv *BitVector) (Message, error) {
	if bv.Len() < extendedPositionBBits {
		return nil, errors.Wrapf(ErrTruncated, "extended Class B report: %d bits, want %d", bv.Len(), extendedPositionBBits)
	}
	r := newBitReader(bv)
	if tag := r.readUint(6); tag != 19 {
		return nil, errors.Wrapf(ErrUnsupportedType, "type %d is not an extended Class B report", tag)
	}
	m := &ExtendedPositionB{}
	m.decodeCommon(r)
	r.skip(4) // regional reserved
	m.vesselName = r.readString(vesselNameBits)
	m.shipType = ShipType(r.readUint(8))
	m.dimensionToBow = uint16(r.readUint(9))
	m.dimensionToStern = uint16(r.readUint(9))
	m.dimensionToPort = uint8(r.readUint(6))
	m.dimensionToStarboard = uint8(r.readUint(6))
	m.epfdType = uint8(r.readUint(4))
	m.raim = r.readBool()
	m.dte = r.readBool()
	m.assigned = r.readBool()
	r.skip(4) // spare
	return m, r.err
}

// AppendBits encodes the 312-bit report onto bv.
func (m *ExtendedPositionB) AppendBits(bv *BitVector) error {
	w := newBitWriter(bv)
	w.writeUint(19, 6)
	m.appendCommon(w)
	w.writeUint(0, 4) // regional reserved
	w.writeString(m.vesselName, vesselNameBits)
	w.writeUint(uint64(m.shipType), 8)
	w.writeUint(uint64(m.dimensionToBow), 9)
	w.writeUint(uint64(m.dimensionToStern), 9)
	w.writeUint(uint64(m.dimensionToPort), 6)
	w.writeUint(uint64(m.dimensionToStarboard), 6)
	w.writeUint(uint64(m.epfdType), 4)
	w.writeBool(m.raim)
	w.writeBool(m.dte)
	w.writeBool(m.assigned)
	w.writeUint(0, 4) // spare
	return w.err
}

// MessageType returns 19.
func (m *ExtendedPositionB) MessageType() uint8 { return 19 }

// VesselName returns the vessel name.
func (m *ExtendedPositionB) VesselName() string { return m.vesselName }

// SetVesselName stores the name, truncated to 20 characters.
func (m *ExtendedPositionB) SetVesselName(name string) {
	m.vesselName = truncateField(name, vesselNameBits/6)
}

// ShipType returns the ship and cargo type code.
func (m *ExtendedPositionB) ShipType() ShipType { return m.shipType }

// SetShipType stores the ship type code.
func (m *ExtendedPositionB) SetShipType(shipType ShipType) { m.shipType = shipType }

// Dimensions returns the reference-point distances in meters.
func (m *ExtendedPositionB) Dimensions() (toBow, toStern uint16, toPort, toStarboard uint8) {
	return m.dimensionToBow, m.dimensionToStern, m.dimensionToPort, m.dimensionToStarboard
}

// SetDimensions stores the four reference-point distances.
func (m *ExtendedPositionB) SetDimensions(toBow, toStern uint16, toPort, toStarboard uint8) {
	m.dimensionToBow = toBow
	m.dimensionToStern = toStern
	m.dimensionToPort = toPort
	m.dimensionToStarboard = toStarboard
}

// EPFDType returns the position-fixing device type code.
func (m *ExtendedPositionB) EPFDType() uint8 { return m.epfdType }

// SetEPFDType stores the device code; values past 15 store zero.
func (m *ExtendedPositionB) SetEPFDType(epfd uint8) {
	if epfd > 15 {
		epfd = 0
	}
	m.epfdType = epfd
}

// DTE reports whether the data terminal is ready.
func (m *ExtendedPositionB) DTE() bool { return m.dte }

// SetDTE sets the data terminal ready flag.
func (m *ExtendedPositionB) SetDTE(dte bool) { m.dte = dte }

func (m *ExtendedPositionB) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Extended Class B Position Report (type 19) mmsi=%d repeat=%d\n", m.mmsi, m.repeatIndicator)
	sb.WriteString(m.kinematicsString())
	fmt.Fprintf(&sb, "  name: %q ship type: %d dims: %dx%dx%dx%d epfd: %d\n",
		m.vesselName, m.shipType, m.dimensionToBow, m.dimensionToStern, m.dimensionToPort, m.dimensionToStarboard, m.epfdType)
	fmt.Fprintf(&sb, "  raim: %t dte: %t assigned: %t", m.raim, m.dte, m.assigned)
	return sb.String()
}
