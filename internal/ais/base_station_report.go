package ais

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const baseStationReportBits = 168

// EPFD device type codes (4 bits); 15 marks an internal GNSS.
const (
	EPFDUndefined  uint8 = 0
	EPFDGPS        uint8 = 1
	EPFDGLONASS    uint8 = 2
	EPFDCombined   uint8 = 3
	EPFDLoranC     uint8 = 4
	EPFDChayka     uint8 = 5
	EPFDIntegrated uint8 = 6
	EPFDSurveyed   uint8 = 7
	EPFDGalileo    uint8 = 8
)

// BaseStationReport is message type 4: a shore station's UTC time and
// position reference.
type BaseStationReport struct {
	repeatIndicator  uint8
	mmsi             uint32
	utcYear          uint16
	utcMonth         uint8
	utcDay           uint8
	utcHour          uint8
	utcMinute        uint8
	utcSecond        uint8
	positionAccuracy bool
	longitude        int32
	latitude         int32
	epfdType         uint8
	spare            uint16
	raim             bool
	radioStatus      uint32
}

// NewBaseStationReport returns a report with time and position unavailable.
func NewBaseStationReport(mmsi uint32, repeatIndicator uint8) *BaseStationReport {
	return &BaseStationReport{
		repeatIndicator: repeatIndicator,
		mmsi:            mmsi,
		utcHour:         24,
		utcMinute:       60,
		utcSecond:       60,
		longitude:       lonNotAvailable,
		latitude:        latNotAvailable,
		epfdType:        15,
	}
}

func decodeBaseStationReport(bv *BitVector) (Message, error) {
	if bv.Len() < baseStationReportBits {
		return nil, errors.Wrapf(ErrTruncated, "base station report: %d bits, want %d", bv.Len(), baseStationReportBits)
	}
	r := newBitReader(bv)
	if tag := r.readUint(6); tag != 4 {
		return nil, errors.Wrapf(ErrUnsupportedType, "type %d is not a base station report", tag)
	}
	m := &BaseStationReport{}
	m.repeatIndicator = uint8(r.readUint(2))
	m.mmsi = uint32(r.readUint(30))
	m.utcYear = uint16(r.readUint(14))
	m.utcMonth = uint8(r.readUint(4))
	m.utcDay = uint8(r.readUint(5))
	m.utcHour = uint8(r.readUint(5))
	m.utcMinute = uint8(r.readUint(6))
	m.utcSecond = uint8(r.readUint(6))
	m.positionAccuracy = r.readBool()
	m.longitude = int32(r.readInt(28))
	m.latitude = int32(r.readInt(27))
	m.epfdType = uint8(r.readUint(4))
	m.spare = uint16(r.readUint(10))
	m.raim = r.readBool()
	m.radioStatus = uint32(r.readUint(19))
	return m, r.err
}

// AppendBits encodes the 168-bit report onto bv.
func (m *BaseStationReport) AppendBits(bv *BitVector) error {
	w := newBitWriter(bv)
	w.writeUint(4, 6)
	w.writeUint(uint64(m.repeatIndicator), 2)
	w.writeUint(uint64(m.mmsi), 30)
	w.writeUint(uint64(m.utcYear), 14)
	w.writeUint(uint64(m.utcMonth), 4)
	w.writeUint(uint64(m.utcDay), 5)
	w.writeUint(uint64(m.utcHour), 5)
	w.writeUint(uint64(m.utcMinute), 6)
	w.writeUint(uint64(m.utcSecond), 6)
	w.writeBool(m.positionAccuracy)
	w.writeInt(int64(m.longitude), 28)
	w.writeInt(int64(m.latitude), 27)
	w.writeUint(uint64(m.epfdType), 4)
	w.writeUint(uint64(m.spare), 10)
	w.writeBool(m.raim)
	w.writeUint(uint64(m.radioStatus), 19)
	return w.err
}

// MessageType returns 4.
func (m *BaseStationReport) MessageType() uint8 { return 4 }

// MMSI returns the source station identity.
func (m *BaseStationReport) MMSI() uint32 { return m.mmsi }

// RepeatIndicator returns the repeat counter.
func (m *BaseStationReport) RepeatIndicator() uint8 { return m.repeatIndicator }

// UTCYear returns the year, 0 when unavailable.
func (m *BaseStationReport) UTCYear() uint16 { return m.utcYear }

// UTCMonth returns the month, 0 when unavailable.
func (m *BaseStationReport) UTCMonth() uint8 { return m.utcMonth }

// UTCDay returns the day of month, 0 when unavailable.
func (m *BaseStationReport) UTCDay() uint8 { return m.utcDay }

// UTCHour returns the hour, 24 when unavailable.
func (m *BaseStationReport) UTCHour() uint8 { return m.utcHour }

// UTCMinute returns the minute, 60 when unavailable.
func (m *BaseStationReport) UTCMinute() uint8 { return m.utcMinute }

// UTCSecond returns the second, 60 when unavailable.
func (m *BaseStationReport) UTCSecond() uint8 { return m.utcSecond }

// UTCTime assembles the broadcast time. The zero time is returned while any
// component carries its unavailable code.
func (m *BaseStationReport) UTCTime() time.Time {
	if m.utcYear == 0 || m.utcMonth == 0 || m.utcDay == 0 ||
		m.utcHour >= 24 || m.utcMinute >= 60 || m.utcSecond >= 60 {
		return time.Time{}
	}
	return time.Date(int(m.utcYear), time.Month(m.utcMonth), int(m.utcDay),
		int(m.utcHour), int(m.utcMinute), int(m.utcSecond), 0, time.UTC)
}

// SetUTCTime stores the time components, substituting the unavailable code
// for any out-of-range component.
func (m *BaseStationReport) SetUTCTime(year uint16, month, day, hour, minute, second uint8) {
	if year > 9999 {
		year = 0
	}
	if month > 12 {
		month = 0
	}
	if day > 31 {
		day = 0
	}
	if hour > 23 {
		hour = 24
	}
	if minute > 59 {
		minute = 60
	}
	if second > 59 {
		second = 60
	}
	m.utcYear, m.utcMonth, m.utcDay = year, month, day
	m.utcHour, m.utcMinute, m.utcSecond = hour, minute, second
}

// PositionAccuracy reports high (true) or low (false) position accuracy.
func (m *BaseStationReport) PositionAccuracy() bool { return m.positionAccuracy }

// SetPositionAccuracy sets the position accuracy flag.
func (m *BaseStationReport) SetPositionAccuracy(accuracy bool) { m.positionAccuracy = accuracy }

// Longitude returns degrees east-positive; 181 means not available.
func (m *BaseStationReport) Longitude() float64 {
	if m.longitude == lonNotAvailable {
		return 181.0
	}
	return float64(m.longitude) / 600000.0
}

// SetLongitude stores degrees; out-of-range values store the sentinel.
func (m *BaseStationReport) SetLongitude(deg float64) {
	if deg > 180.0 || deg < -180.0 {
		m.longitude = lonNotAvailable
		return
	}
	m.longitude = degToFixed(deg)
}

// Latitude returns degrees north-positive; 91 means not available.
func (m *BaseStationReport) Latitude() float64 {
	if m.latitude == latNotAvailable {
		return 91.0
	}
	return float64(m.latitude) / 600000.0
}

// SetLatitude stores degrees; out-of-range values store the sentinel.
func (m *BaseStationReport) SetLatitude(deg float64) {
	if deg > 90.0 || deg < -90.0 {
		m.latitude = latNotAvailable
		return
	}
	m.latitude = degToFixed(deg)
}

// EPFDType returns the position-fixing device type code.
func (m *BaseStationReport) EPFDType() uint8 { return m.epfdType }

// SetEPFDType stores the device code; values past 15 store zero.
func (m *BaseStationReport) SetEPFDType(epfd uint8) {
	if epfd > 15 {
		epfd = 0
	}
	m.epfdType = epfd
}

// RAIM reports whether integrity monitoring is in use.
func (m *BaseStationReport) RAIM() bool { return m.raim }

// SetRAIM sets the RAIM flag.
func (m *BaseStationReport) SetRAIM(raim bool) { m.raim = raim }

// RadioStatus returns the opaque 19-bit SOTDMA state.
func (m *BaseStationReport) RadioStatus() uint32 { return m.radioStatus }

// SetRadioStatus stores the radio state.
func (m *BaseStationReport) SetRadioStatus(status uint32) { m.radioStatus = status }

func (m *BaseStationReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Base Station Report (type 4) mmsi=%d repeat=%d\n", m.mmsi, m.repeatIndicator)
	if t := m.UTCTime(); t.IsZero() {
		sb.WriteString("  utc time: not available\n")
	} else {
		fmt.Fprintf(&sb, "  utc time: %s\n", t.Format("2006-01-02 15:04:05"))
	}
	sb.WriteString(formatPosition(m.Longitude(), m.Latitude()))
	fmt.Fprintf(&sb, "  epfd: %d raim: %t radio: 0x%05X", m.epfdType, m.raim, m.radioStatus)
	return sb.String()
}
