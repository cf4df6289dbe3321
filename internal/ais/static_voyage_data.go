package ais

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const staticVoyageDataBits = 424

const (
	callSignBits   = 42  // 7 six-bit characters
	vesselNameBits = 120 // 20 six-bit characters
)

// ShipType holds the 8-bit ship and cargo type code of a type 5 message.
type ShipType uint8

const (
	ShipTypeNotAvailable ShipType = 0
	ShipTypeWIG          ShipType = 20
	ShipTypeFishing      ShipType = 30
	ShipTypeTowing       ShipType = 31
	ShipTypeDredging     ShipType = 33
	ShipTypeDiving       ShipType = 34
	ShipTypeMilitary     ShipType = 35
	ShipTypeSailing      ShipType = 36
	ShipTypePleasure     ShipType = 37
	ShipTypeHighSpeed    ShipType = 40
	ShipTypePilot        ShipType = 50
	ShipTypeSAR          ShipType = 51
	ShipTypeTug          ShipType = 52
	ShipTypePassenger    ShipType = 60
	ShipTypeCargo        ShipType = 70
	ShipTypeTanker       ShipType = 80
	ShipTypeOther        ShipType = 90
)

// StaticVoyageData is message type 5: the vessel's static identity and
// current voyage particulars.
type StaticVoyageData struct {
	repeatIndicator      uint8
	mmsi                 uint32
	aisVersion           uint8
	imoNumber            uint32
	callSign             string
	vesselName           string
	shipType             ShipType
	dimensionToBow       uint16
	dimensionToStern     uint16
	dimensionToPort      uint8
	dimensionToStarboard uint8
	epfdType             uint8
	etaMonth             uint8
	etaDay               uint8
	etaHour              uint8
	etaMinute            uint8
	draught              uint8
	destination          string
	dte                  bool
}

// NewStaticVoyageData returns a message with the ETA unavailable and every
// text field blank.
func NewStaticVoyageData(mmsi uint32, repeatIndicator uint8) *StaticVoyageData {
	return &StaticVoyageData{
		repeatIndicator: repeatIndicator,
		mmsi:            mmsi,
		etaHour:         24,
		etaMinute:       60,
	}
}

func decodeStaticVoyageData(bv *BitVector) (Message, error) {
	if bv.Len() < staticVoyageDataBits {
		return nil, errors.Wrapf(ErrTruncated, "static and voyage data: %d bits, want %d", bv.Len(), staticVoyageDataBits)
	}
	r := newBitReader(bv)
	if tag := r.readUint(6); tag != 5 {
		return nil, errors.Wrapf(ErrUnsupportedType, "type %d is not static and voyage data", tag)
	}
	m := &StaticVoyageData{}
	m.repeatIndicator = uint8(r.readUint(2))
	m.mmsi = uint32(r.readUint(30))
	m.aisVersion = uint8(r.readUint(2))
	m.imoNumber = uint32(r.readUint(30))
	m.callSign = r.readString(callSignBits)
	m.vesselName = r.readString(vesselNameBits)
	m.shipType = ShipType(r.readUint(8))
	m.dimensionToBow = uint16(r.readUint(9))
	m.dimensionToStern = uint16(r.readUint(9))
	m.dimensionToPort = uint8(r.readUint(6))
	m.dimensionToStarboard = uint8(r.readUint(6))
	m.epfdType = uint8(r.readUint(4))
	m.etaMonth = uint8(r.readUint(4))
	m.etaDay = uint8(r.readUint(5))
	m.etaHour = uint8(r.readUint(5))
	m.etaMinute = uint8(r.readUint(6))
	m.draught = uint8(r.readUint(8))
	m.destination = r.readString(vesselNameBits)
	m.dte = r.readBool()
	r.skip(1) // spare
	return m, r.err
}

// AppendBits encodes the 424-bit message onto bv.
func (m *StaticVoyageData) AppendBits(bv *BitVector) error {
	w := newBitWriter(bv)
	w.writeUint(5, 6)
	w.writeUint(uint64(m.repeatIndicator), 2)
	w.writeUint(uint64(m.mmsi), 30)
	w.writeUint(uint64(m.aisVersion), 2)
	w.writeUint(uint64(m.imoNumber), 30)
	w.writeString(m.callSign, callSignBits)
	w.writeString(m.vesselName, vesselNameBits)
	w.writeUint(uint64(m.shipType), 8)
	w.writeUint(uint64(m.dimensionToBow), 9)
	w.writeUint(uint64(m.dimensionToStern), 9)
	w.writeUint(uint64(m.dimensionToPort), 6)
	w.writeUint(uint64(m.dimensionToStarboard), 6)
	w.writeUint(uint64(m.epfdType), 4)
	w.writeUint(uint64(m.etaMonth), 4)
	w.writeUint(uint64(m.etaDay), 5)
	w.writeUint(uint64(m.etaHour), 5)
	w.writeUint(uint64(m.etaMinute), 6)
	w.writeUint(uint64(m.draught), 8)
	w.writeString(m.destination, vesselNameBits)
	w.writeBool(m.dte)
	w.writeUint(0, 1) // spare
	return w.err
}

// MessageType returns 5.
func (m *StaticVoyageData) MessageType() uint8 { return 5 }

// MMSI returns the source station identity.
func (m *StaticVoyageData) MMSI() uint32 { return m.mmsi }

// RepeatIndicator returns the repeat counter.
func (m *StaticVoyageData) RepeatIndicator() uint8 { return m.repeatIndicator }

// AISVersion returns the station's ITU-1371 compliance generation.
func (m *StaticVoyageData) AISVersion() uint8 { return m.aisVersion }

// SetAISVersion stores the version; values past 3 store zero.
func (m *StaticVoyageData) SetAISVersion(version uint8) {
	if version > 3 {
		version = 0
	}
	m.aisVersion = version
}

// IMONumber returns the IMO ship identification number, 0 when unavailable.
func (m *StaticVoyageData) IMONumber() uint32 { return m.imoNumber }

// SetIMONumber stores the IMO number.
func (m *StaticVoyageData) SetIMONumber(imo uint32) { m.imoNumber = imo }

// CallSign returns the radio call sign.
func (m *StaticVoyageData) CallSign() string { return m.callSign }

// SetCallSign stores the call sign, truncated to 7 characters.
func (m *StaticVoyageData) SetCallSign(callSign string) {
	m.callSign = truncateField(callSign, callSignBits/6)
}

// VesselName returns the vessel name.
func (m *StaticVoyageData) VesselName() string { return m.vesselName }

// SetVesselName stores the name, truncated to 20 characters.
func (m *StaticVoyageData) SetVesselName(name string) {
	m.vesselName = truncateField(name, vesselNameBits/6)
}

// ShipType returns the ship and cargo type code.
func (m *StaticVoyageData) ShipType() ShipType { return m.shipType }

// SetShipType stores the ship type code.
func (m *StaticVoyageData) SetShipType(shipType ShipType) { m.shipType = shipType }

// Dimensions returns the distances from the reference point to bow, stern,
// port and starboard in meters.
func (m *StaticVoyageData) Dimensions() (toBow, toStern uint16, toPort, toStarboard uint8) {
	return m.dimensionToBow, m.dimensionToStern, m.dimensionToPort, m.dimensionToStarboard
}

// SetDimensions stores the four reference-point distances.
func (m *StaticVoyageData) SetDimensions(toBow, toStern uint16, toPort, toStarboard uint8) {
	m.dimensionToBow = toBow
	m.dimensionToStern = toStern
	m.dimensionToPort = toPort
	m.dimensionToStarboard = toStarboard
}

// EPFDType returns the position-fixing device type code.
func (m *StaticVoyageData) EPFDType() uint8 { return m.epfdType }

// SetEPFDType stores the device code; values past 15 store zero.
func (m *StaticVoyageData) SetEPFDType(epfd uint8) {
	if epfd > 15 {
		epfd = 0
	}
	m.epfdType = epfd
}

// ETAComponents returns the raw month/day/hour/minute of the estimated time
// of arrival, with 0/0/24/60 marking unavailable parts.
func (m *StaticVoyageData) ETAComponents() (month, day, hour, minute uint8) {
	return m.etaMonth, m.etaDay, m.etaHour, m.etaMinute
}

// SetETAComponents stores the ETA parts, substituting the unavailable codes
// for out-of-range values.
func (m *StaticVoyageData) SetETAComponents(month, day, hour, minute uint8) {
	if month > 12 {
		month = 0
	}
	if day > 31 {
		day = 0
	}
	if hour > 24 {
		hour = 24
	}
	if minute > 60 {
		minute = 60
	}
	m.etaMonth, m.etaDay, m.etaHour, m.etaMinute = month, day, hour, minute
}

// ETA resolves the month/day/hour/minute against the current UTC year,
// rolling into next year when the month has already passed. The zero time is
// returned while any component is unavailable.
func (m *StaticVoyageData) ETA() time.Time {
	if m.etaMonth == 0 || m.etaDay == 0 || m.etaHour >= 24 || m.etaMinute >= 60 {
		return time.Time{}
	}
	now := time.Now().UTC()
	year := now.Year()
	if time.Month(m.etaMonth) < now.Month() {
		year++
	}
	return time.Date(year, time.Month(m.etaMonth), int(m.etaDay),
		int(m.etaHour), int(m.etaMinute), 0, 0, time.UTC)
}

// SetETA stores the ETA from a wall-clock time.
func (m *StaticVoyageData) SetETA(eta time.Time) {
	eta = eta.UTC()
	m.SetETAComponents(uint8(eta.Month()), uint8(eta.Day()), uint8(eta.Hour()), uint8(eta.Minute()))
}

// Draught returns the present static draught in meters.
func (m *StaticVoyageData) Draught() float64 { return float64(m.draught) / 10.0 }

// SetDraught stores the draught in 0.1-meter resolution, clamped to 25.5.
func (m *StaticVoyageData) SetDraught(meters float64) {
	switch {
	case meters < 0:
		m.draught = 0
	case meters > 25.5:
		m.draught = 255
	default:
		m.draught = uint8(roundHalfAway(meters * 10.0))
	}
}

// Destination returns the voyage destination.
func (m *StaticVoyageData) Destination() string { return m.destination }

// SetDestination stores the destination, truncated to 20 characters.
func (m *StaticVoyageData) SetDestination(destination string) {
	m.destination = truncateField(destination, vesselNameBits/6)
}

// DTE reports whether the data terminal is ready.
func (m *StaticVoyageData) DTE() bool { return m.dte }

// SetDTE sets the data terminal ready flag.
func (m *StaticVoyageData) SetDTE(dte bool) { m.dte = dte }

func (m *StaticVoyageData) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Static and Voyage Data (type 5) mmsi=%d repeat=%d\n", m.mmsi, m.repeatIndicator)
	fmt.Fprintf(&sb, "  imo: %d call sign: %q name: %q\n", m.imoNumber, m.callSign, m.vesselName)
	fmt.Fprintf(&sb, "  ship type: %d dims: %dx%dx%dx%d epfd: %d\n",
		m.shipType, m.dimensionToBow, m.dimensionToStern, m.dimensionToPort, m.dimensionToStarboard, m.epfdType)
	if m.etaMonth == 0 || m.etaDay == 0 || m.etaHour >= 24 || m.etaMinute >= 60 {
		sb.WriteString("  eta: not available\n")
	} else {
		fmt.Fprintf(&sb, "  eta: month %d day %d %02d:%02d UTC\n", m.etaMonth, m.etaDay, m.etaHour, m.etaMinute)
	}
	fmt.Fprintf(&sb, "  draught: %.1f m destination: %q dte: %t", m.Draught(), m.destination, m.dte)
	return sb.String()
}

// truncateField clips s to at most chars characters so an over-long value
// stores its prefix instead of failing at encode time.
func truncateField(s string, chars int) string {
	if len(s) > chars {
		return s[:chars]
	}
	return s
}
