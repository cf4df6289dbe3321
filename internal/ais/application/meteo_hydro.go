package application

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go162/internal/ais"
)

// meteoHydroBits is the fixed payload length of a Meteo/Hydro report.
const meteoHydroBits = 244

// Wire sentinels for unavailable fields: all-ones for unsigned widths, the
// most negative value for the signed ones.
const (
	meteoNA10 uint16 = 0x3FF
	meteoNA9  uint16 = 0x1FF
	meteoNA8  uint16 = 0xFF
	meteoNA7  uint16 = 0x7F
	meteoNA6  uint16 = 0x3F
	meteoNA3  uint16 = 0x7
	meteoNA2  uint16 = 0x3

	meteoNATemp  int16 = -1024
	meteoNALevel int16 = -2048
)

// MeteoHydro is the IMO Meteorological and Hydrological Data payload
// (DAC 1, FI 31). The position is 1/1000-minute fixed point, ten times
// coarser than the hull-level position reports. Every measurement is
// optional: absent fields report ok=false and encode their wire sentinel.
type MeteoHydro struct {
	latitude  int32 // 1/1000 minute, 24-bit signed
	longitude int32 // 1/1000 minute, 25-bit signed
	day       uint8
	hour      uint8
	minute    uint8

	windSpeed     optUint // 0.1 kn, 10 bits
	windGust      optUint // 0.1 kn, 10 bits
	windDirection optUint // deg, 9 bits
	airTemp       optInt  // 0.1 C, 11 bits signed
	humidity      optUint // %, 7 bits
	dewPoint      optInt  // 0.1 C, 11 bits signed
	airPressure   optUint // hPa, 9 bits
	pressureTrend optUint // 2 bits
	visibility    optUint // 0.1 NM, 8 bits
	waterLevel    optInt  // 0.01 m, 12 bits signed
	levelTrend    optUint // 2 bits
	currentSpeed  optUint // 0.1 kn, 8 bits
	currentDir    optUint // deg, 9 bits
	waveHeight    optUint // 0.1 m, 8 bits
	wavePeriod    optUint // s, 6 bits
	waveDirection optUint // deg, 9 bits
	swellHeight   optUint // 0.1 m, 8 bits
	swellPeriod   optUint // s, 6 bits
	swellDir      optUint // deg, 9 bits
	seaTemp       optInt  // 0.1 C, 11 bits signed
	precipitation optUint // type code, 3 bits
	salinity      optUint // 0.1 permille, 9 bits
	ice           optUint // 2 bits
}

type optUint struct {
	value uint16
	ok    bool
}

type optInt struct {
	value int16
	ok    bool
}

func init() {
	Register(DACInternational, FIMeteoHydroData, func(data *ais.BitVector) (Payload, error) {
		return DecodeMeteoHydro(data)
	})
}

// NewMeteoHydro returns a report at (lon, lat) degrees with every
// measurement absent.
func NewMeteoHydro(lon, lat float64, day, hour, minute uint8) *MeteoHydro {
	m := &MeteoHydro{day: day, hour: hour, minute: minute}
	m.SetPosition(lon, lat)
	return m
}

// ApplicationID returns (1, 31).
func (m *MeteoHydro) ApplicationID() (dac, fi uint16) {
	return DACInternational, FIMeteoHydroData
}

// DecodeMeteoHydro parses envelope data bits into a Meteo/Hydro report.
func DecodeMeteoHydro(data *ais.BitVector) (*MeteoHydro, error) {
	if data.Len() < meteoHydroBits {
		return nil, fmt.Errorf("meteo/hydro report: %w: %d bits, want %d", ais.ErrTruncated, data.Len(), meteoHydroBits)
	}
	r := newReader(data)
	m := &MeteoHydro{}
	m.latitude = int32(r.readInt(24))
	m.longitude = int32(r.readInt(25))
	m.day = uint8(r.readUint(5))
	m.hour = uint8(r.readUint(5))
	m.minute = uint8(r.readUint(6))

	m.windSpeed = readOptUint(r, 10, meteoNA10)
	m.windGust = readOptUint(r, 10, meteoNA10)
	m.windDirection = readOptUint(r, 9, meteoNA9)
	m.airTemp = readOptInt(r, 11, meteoNATemp)
	m.humidity = readOptUint(r, 7, meteoNA7)
	m.dewPoint = readOptInt(r, 11, meteoNATemp)
	m.airPressure = readOptUint(r, 9, meteoNA9)
	m.pressureTrend = readOptUint(r, 2, meteoNA2)
	m.visibility = readOptUint(r, 8, meteoNA8)
	m.waterLevel = readOptInt(r, 12, meteoNALevel)
	m.levelTrend = readOptUint(r, 2, meteoNA2)
	m.currentSpeed = readOptUint(r, 8, meteoNA8)
	m.currentDir = readOptUint(r, 9, meteoNA9)
	m.waveHeight = readOptUint(r, 8, meteoNA8)
	m.wavePeriod = readOptUint(r, 6, meteoNA6)
	m.waveDirection = readOptUint(r, 9, meteoNA9)
	m.swellHeight = readOptUint(r, 8, meteoNA8)
	m.swellPeriod = readOptUint(r, 6, meteoNA6)
	m.swellDir = readOptUint(r, 9, meteoNA9)
	m.seaTemp = readOptInt(r, 11, meteoNATemp)
	m.precipitation = readOptUint(r, 3, meteoNA3)
	m.salinity = readOptUint(r, 9, meteoNA9)
	m.ice = readOptUint(r, 2, meteoNA2)
	return m, r.err
}

func readOptUint(r *reader, bits int, sentinel uint16) optUint {
	v := uint16(r.readUint(bits))
	if v == sentinel {
		return optUint{}
	}
	return optUint{value: v, ok: true}
}

func readOptInt(r *reader, bits int, sentinel int16) optInt {
	v := int16(r.readInt(bits))
	if v == sentinel {
		return optInt{}
	}
	return optInt{value: v, ok: true}
}

// AppendBits encodes the 244-bit report onto bv, emitting the wire sentinel
// for every absent field.
func (m *MeteoHydro) AppendBits(bv *ais.BitVector) error {
	w := newWriter(bv)
	w.writeInt(int64(m.latitude), 24)
	w.writeInt(int64(m.longitude), 25)
	w.writeUint(uint64(m.day), 5)
	w.writeUint(uint64(m.hour), 5)
	w.writeUint(uint64(m.minute), 6)

	writeOptUint(w, m.windSpeed, 10, meteoNA10)
	writeOptUint(w, m.windGust, 10, meteoNA10)
	writeOptUint(w, m.windDirection, 9, meteoNA9)
	writeOptInt(w, m.airTemp, 11, meteoNATemp)
	writeOptUint(w, m.humidity, 7, meteoNA7)
	writeOptInt(w, m.dewPoint, 11, meteoNATemp)
	writeOptUint(w, m.airPressure, 9, meteoNA9)
	writeOptUint(w, m.pressureTrend, 2, meteoNA2)
	writeOptUint(w, m.visibility, 8, meteoNA8)
	writeOptInt(w, m.waterLevel, 12, meteoNALevel)
	writeOptUint(w, m.levelTrend, 2, meteoNA2)
	writeOptUint(w, m.currentSpeed, 8, meteoNA8)
	writeOptUint(w, m.currentDir, 9, meteoNA9)
	writeOptUint(w, m.waveHeight, 8, meteoNA8)
	writeOptUint(w, m.wavePeriod, 6, meteoNA6)
	writeOptUint(w, m.waveDirection, 9, meteoNA9)
	writeOptUint(w, m.swellHeight, 8, meteoNA8)
	writeOptUint(w, m.swellPeriod, 6, meteoNA6)
	writeOptUint(w, m.swellDir, 9, meteoNA9)
	writeOptInt(w, m.seaTemp, 11, meteoNATemp)
	writeOptUint(w, m.precipitation, 3, meteoNA3)
	writeOptUint(w, m.salinity, 9, meteoNA9)
	writeOptUint(w, m.ice, 2, meteoNA2)
	return w.err
}

func writeOptUint(w *writer, v optUint, bits int, sentinel uint16) {
	if v.ok {
		w.writeUint(uint64(v.value), bits)
	} else {
		w.writeUint(uint64(sentinel), bits)
	}
}

func writeOptInt(w *writer, v optInt, bits int, sentinel int16) {
	if v.ok {
		w.writeInt(int64(v.value), bits)
	} else {
		w.writeInt(int64(sentinel), bits)
	}
}

// Position returns the observation point in degrees.
func (m *MeteoHydro) Position() (lon, lat float64) {
	return float64(m.longitude) / 60000.0, float64(m.latitude) / 60000.0
}

// SetPosition stores the observation point in 1/1000-minute fixed point.
func (m *MeteoHydro) SetPosition(lon, lat float64) {
	m.longitude = int32(roundFixed(lon * 60000.0))
	m.latitude = int32(roundFixed(lat * 60000.0))
}

func roundFixed(v float64) float64 {
	if v < 0 {
		return -math.Floor(-v + 0.5)
	}
	return math.Floor(v + 0.5)
}

// ObservationTime returns the raw day/hour/minute of the observation.
func (m *MeteoHydro) ObservationTime() (day, hour, minute uint8) {
	return m.day, m.hour, m.minute
}

// SetObservationTime stores the day/hour/minute of the observation.
func (m *MeteoHydro) SetObservationTime(day, hour, minute uint8) {
	m.day, m.hour, m.minute = day, hour, minute
}

// Timestamp resolves the day-of-month observation time against the current
// UTC month, rolling back one month when the day has not happened yet.
func (m *MeteoHydro) Timestamp() time.Time {
	now := time.Now().UTC()
	t := time.Date(now.Year(), now.Month(), int(m.day), int(m.hour), int(m.minute), 0, 0, time.UTC)
	if int(m.day) > now.Day() {
		t = t.AddDate(0, -1, 0)
	}
	return t
}

// WindSpeed returns the average wind speed in knots.
func (m *MeteoHydro) WindSpeed() (float64, bool) { return scale10(m.windSpeed) }

// SetWindSpeed stores the wind speed; negative marks it absent.
func (m *MeteoHydro) SetWindSpeed(knots float64) { m.windSpeed = store10(knots) }

// WindGust returns the gust speed in knots.
func (m *MeteoHydro) WindGust() (float64, bool) { return scale10(m.windGust) }

// SetWindGust stores the gust speed; negative marks it absent.
func (m *MeteoHydro) SetWindGust(knots float64) { m.windGust = store10(knots) }

// WindDirection returns the wind bearing in degrees.
func (m *MeteoHydro) WindDirection() (uint16, bool) { return m.windDirection.value, m.windDirection.ok }

// SetWindDirection stores the bearing; values outside 0..359 mark it absent.
func (m *MeteoHydro) SetWindDirection(deg int) { m.windDirection = storeBearing(deg) }

// AirTemperature returns the dry-bulb temperature in degrees Celsius.
func (m *MeteoHydro) AirTemperature() (float64, bool) { return scaleSigned10(m.airTemp) }

// SetAirTemperature stores the temperature; NaN marks it absent.
func (m *MeteoHydro) SetAirTemperature(celsius float64) { m.airTemp = storeSigned10(celsius) }

// RelativeHumidity returns the humidity in percent.
func (m *MeteoHydro) RelativeHumidity() (uint8, bool) {
	return uint8(m.humidity.value), m.humidity.ok
}

// SetRelativeHumidity stores the humidity; values outside 0..100 mark it
// absent.
func (m *MeteoHydro) SetRelativeHumidity(percent int) {
	if percent < 0 || percent > 100 {
		m.humidity = optUint{}
		return
	}
	m.humidity = optUint{value: uint16(percent), ok: true}
}

// DewPoint returns the dew point in degrees Celsius.
func (m *MeteoHydro) DewPoint() (float64, bool) { return scaleSigned10(m.dewPoint) }

// SetDewPoint stores the dew point; NaN marks it absent.
func (m *MeteoHydro) SetDewPoint(celsius float64) { m.dewPoint = storeSigned10(celsius) }

// AirPressure returns the pressure in hPa.
func (m *MeteoHydro) AirPressure() (uint16, bool) { return m.airPressure.value, m.airPressure.ok }

// SetAirPressure stores the pressure; negative marks it absent.
func (m *MeteoHydro) SetAirPressure(hPa int) {
	if hPa < 0 {
		m.airPressure = optUint{}
		return
	}
	m.airPressure = optUint{value: uint16(hPa), ok: true}
}

// AirPressureTendency returns the 0..2 trend code.
func (m *MeteoHydro) AirPressureTendency() (uint8, bool) {
	return uint8(m.pressureTrend.value), m.pressureTrend.ok
}

// SetAirPressureTendency stores the trend; codes past 2 mark it absent.
func (m *MeteoHydro) SetAirPressureTendency(trend int) { m.pressureTrend = storeTrend(trend) }

// Visibility returns the horizontal visibility in nautical miles.
func (m *MeteoHydro) Visibility() (float64, bool) { return scale10(m.visibility) }

// SetVisibility stores the visibility; negative marks it absent.
func (m *MeteoHydro) SetVisibility(nm float64) { m.visibility = store10(nm) }

// WaterLevel returns the water level in meters relative to datum.
func (m *MeteoHydro) WaterLevel() (float64, bool) {
	if !m.waterLevel.ok {
		return 0, false
	}
	return float64(m.waterLevel.value) / 100.0, true
}

// SetWaterLevel stores the level in 0.01-meter resolution; NaN marks it
// absent.
func (m *MeteoHydro) SetWaterLevel(meters float64) {
	if math.IsNaN(meters) {
		m.waterLevel = optInt{}
		return
	}
	m.waterLevel = optInt{value: int16(roundFixed(meters * 100.0)), ok: true}
}

// WaterLevelTrend returns the 0..2 trend code.
func (m *MeteoHydro) WaterLevelTrend() (uint8, bool) {
	return uint8(m.levelTrend.value), m.levelTrend.ok
}

// SetWaterLevelTrend stores the trend; codes past 2 mark it absent.
func (m *MeteoHydro) SetWaterLevelTrend(trend int) { m.levelTrend = storeTrend(trend) }

// SurfaceCurrentSpeed returns the surface current speed in knots.
func (m *MeteoHydro) SurfaceCurrentSpeed() (float64, bool) { return scale10(m.currentSpeed) }

// SetSurfaceCurrentSpeed stores the speed; negative marks it absent.
func (m *MeteoHydro) SetSurfaceCurrentSpeed(knots float64) { m.currentSpeed = store10(knots) }

// SurfaceCurrentDirection returns the current bearing in degrees.
func (m *MeteoHydro) SurfaceCurrentDirection() (uint16, bool) {
	return m.currentDir.value, m.currentDir.ok
}

// SetSurfaceCurrentDirection stores the bearing; values outside 0..359 mark
// it absent.
func (m *MeteoHydro) SetSurfaceCurrentDirection(deg int) { m.currentDir = storeBearing(deg) }

// WaveHeight returns the significant wave height in meters.
func (m *MeteoHydro) WaveHeight() (float64, bool) { return scale10(m.waveHeight) }

// SetWaveHeight stores the height; negative marks it absent.
func (m *MeteoHydro) SetWaveHeight(meters float64) { m.waveHeight = store10(meters) }

// WavePeriod returns the wave period in seconds.
func (m *MeteoHydro) WavePeriod() (uint8, bool) { return uint8(m.wavePeriod.value), m.wavePeriod.ok }

// SetWavePeriod stores the period; negative marks it absent.
func (m *MeteoHydro) SetWavePeriod(seconds int) {
	if seconds < 0 {
		m.wavePeriod = optUint{}
		return
	}
	m.wavePeriod = optUint{value: uint16(seconds), ok: true}
}

// WaveDirection returns the wave bearing in degrees.
func (m *MeteoHydro) WaveDirection() (uint16, bool) {
	return m.waveDirection.value, m.waveDirection.ok
}

// SetWaveDirection stores the bearing; values outside 0..359 mark it absent.
func (m *MeteoHydro) SetWaveDirection(deg int) { m.waveDirection = storeBearing(deg) }

// SwellHeight returns the swell height in meters.
func (m *MeteoHydro) SwellHeight() (float64, bool) { return scale10(m.swellHeight) }

// SetSwellHeight stores the height; negative marks it absent.
func (m *MeteoHydro) SetSwellHeight(meters float64) { m.swellHeight = store10(meters) }

// SwellPeriod returns the swell period in seconds.
func (m *MeteoHydro) SwellPeriod() (uint8, bool) {
	return uint8(m.swellPeriod.value), m.swellPeriod.ok
}

// SetSwellPeriod stores the period; negative marks it absent.
func (m *MeteoHydro) SetSwellPeriod(seconds int) {
	if seconds < 0 {
		m.swellPeriod = optUint{}
		return
	}
	m.swellPeriod = optUint{value: uint16(seconds), ok: true}
}

// SwellDirection returns the swell bearing in degrees.
func (m *MeteoHydro) SwellDirection() (uint16, bool) { return m.swellDir.value, m.swellDir.ok }

// SetSwellDirection stores the bearing; values outside 0..359 mark it
// absent.
func (m *MeteoHydro) SetSwellDirection(deg int) { m.swellDir = storeBearing(deg) }

// SeaTemperature returns the water temperature in degrees Celsius.
func (m *MeteoHydro) SeaTemperature() (float64, bool) { return scaleSigned10(m.seaTemp) }

// SetSeaTemperature stores the temperature; NaN marks it absent.
func (m *MeteoHydro) SetSeaTemperature(celsius float64) { m.seaTemp = storeSigned10(celsius) }

// Precipitation returns the 0..5 precipitation type code.
func (m *MeteoHydro) Precipitation() (uint8, bool) {
	return uint8(m.precipitation.value), m.precipitation.ok
}

// SetPrecipitation stores the type; codes past 5 mark it absent.
func (m *MeteoHydro) SetPrecipitation(code int) {
	if code < 0 || code > 5 {
		m.precipitation = optUint{}
		return
	}
	m.precipitation = optUint{value: uint16(code), ok: true}
}

// Salinity returns the salinity in parts per thousand.
func (m *MeteoHydro) Salinity() (float64, bool) { return scale10(m.salinity) }

// SetSalinity stores the salinity; negative marks it absent.
func (m *MeteoHydro) SetSalinity(permille float64) { m.salinity = store10(permille) }

// Ice returns the 0..1 ice presence code.
func (m *MeteoHydro) Ice() (uint8, bool) { return uint8(m.ice.value), m.ice.ok }

// SetIce stores the code; values other than 0 and 1 mark it absent.
func (m *MeteoHydro) SetIce(code int) {
	if code < 0 || code > 1 {
		m.ice = optUint{}
		return
	}
	m.ice = optUint{value: uint16(code), ok: true}
}

func scale10(v optUint) (float64, bool) {
	if !v.ok {
		return 0, false
	}
	return float64(v.value) / 10.0, true
}

func store10(v float64) optUint {
	if math.IsNaN(v) || v < 0 {
		return optUint{}
	}
	return optUint{value: uint16(roundFixed(v * 10.0)), ok: true}
}

func scaleSigned10(v optInt) (float64, bool) {
	if !v.ok {
		return 0, false
	}
	return float64(v.value) / 10.0, true
}

func storeSigned10(v float64) optInt {
	if math.IsNaN(v) {
		return optInt{}
	}
	return optInt{value: int16(roundFixed(v * 10.0)), ok: true}
}

func storeBearing(deg int) optUint {
	if deg < 0 || deg > 359 {
		return optUint{}
	}
	return optUint{value: uint16(deg), ok: true}
}

func storeTrend(trend int) optUint {
	if trend < 0 || trend > 2 {
		return optUint{}
	}
	return optUint{value: uint16(trend), ok: true}
}

// ToBroadcast wraps the report in a type 8 envelope.
func (m *MeteoHydro) ToBroadcast(mmsi uint32, repeatIndicator uint8) (*ais.BinaryBroadcast, error) {
	return ToBroadcast(m, mmsi, repeatIndicator)
}

// ToAddressed wraps the report in a type 6 envelope.
func (m *MeteoHydro) ToAddressed(mmsi, destMMSI uint32, sequenceNumber, repeatIndicator uint8) (*ais.BinaryAddressed, error) {
	return ToAddressed(m, mmsi, destMMSI, sequenceNumber, repeatIndicator)
}

func (m *MeteoHydro) String() string {
	var sb strings.Builder
	lon, lat := m.Position()
	fmt.Fprintf(&sb, "Meteo/Hydro Data (dac=1 fi=31) at (%.4f, %.4f) day %d %02d:%02d UTC",
		lon, lat, m.day, m.hour, m.minute)
	if v, ok := m.WindSpeed(); ok {
		fmt.Fprintf(&sb, "\n  wind: %.1f kn", v)
		if g, ok := m.WindGust(); ok {
			fmt.Fprintf(&sb, " gusting %.1f kn", g)
		}
		if d, ok := m.WindDirection(); ok {
			fmt.Fprintf(&sb, " from %d deg", d)
		}
	}
	if v, ok := m.AirTemperature(); ok {
		fmt.Fprintf(&sb, "\n  air: %.1f C", v)
		if h, ok := m.RelativeHumidity(); ok {
			fmt.Fprintf(&sb, " humidity %d%%", h)
		}
		if p, ok := m.AirPressure(); ok {
			fmt.Fprintf(&sb, " pressure %d hPa", p)
		}
	}
	if v, ok := m.WaterLevel(); ok {
		fmt.Fprintf(&sb, "\n  water level: %.2f m", v)
	}
	if v, ok := m.WaveHeight(); ok {
		fmt.Fprintf(&sb, "\n  waves: %.1f m", v)
		if p, ok := m.WavePeriod(); ok {
			fmt.Fprintf(&sb, " period %d s", p)
		}
	}
	if v, ok := m.SeaTemperature(); ok {
		fmt.Fprintf(&sb, "\n  sea: %.1f C", v)
	}
	if v, ok := m.Salinity(); ok {
		fmt.Fprintf(&sb, "\n  salinity: %.1f ppt", v)
	}
	return sb.String()
}
