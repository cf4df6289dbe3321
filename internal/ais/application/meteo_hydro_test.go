package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go162/internal/ais"
)

func TestMeteoHydroAllAbsentRoundTrip(t *testing.T) {
	m := NewMeteoHydro(24.9384, 60.1699, 21, 6, 15)

	bv := ais.NewBitVector()
	require.NoError(t, m.AppendBits(bv))
	assert.Equal(t, meteoHydroBits, bv.Len())

	decoded, err := DecodeMeteoHydro(bv)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)

	_, ok := decoded.WindSpeed()
	assert.False(t, ok)
	_, ok = decoded.AirTemperature()
	assert.False(t, ok)
	_, ok = decoded.WaterLevel()
	assert.False(t, ok)
	_, ok = decoded.Ice()
	assert.False(t, ok)

	lon, lat := decoded.Position()
	assert.InDelta(t, 24.9384, lon, 1e-4)
	assert.InDelta(t, 60.1699, lat, 1e-4)

	day, hour, minute := decoded.ObservationTime()
	assert.Equal(t, uint8(21), day)
	assert.Equal(t, uint8(6), hour)
	assert.Equal(t, uint8(15), minute)
}

func TestMeteoHydroPopulatedRoundTrip(t *testing.T) {
	m := NewMeteoHydro(-3.7038, 40.4168, 5, 18, 0)
	m.SetWindSpeed(14.5)
	m.SetWindGust(22.0)
	m.SetWindDirection(245)
	m.SetAirTemperature(-2.5)
	m.SetRelativeHumidity(87)
	m.SetDewPoint(-4.1)
	// The wire field is 9 bits with raw hPa semantics, so only values
	// below the 511 sentinel survive a round trip.
	m.SetAirPressure(490)
	m.SetAirPressureTendency(2)
	m.SetVisibility(8.5)
	m.SetWaterLevel(-1.25)
	m.SetWaterLevelTrend(1)
	m.SetSurfaceCurrentSpeed(1.8)
	m.SetSurfaceCurrentDirection(310)
	m.SetWaveHeight(2.3)
	m.SetWavePeriod(7)
	m.SetWaveDirection(280)
	m.SetSwellHeight(1.1)
	m.SetSwellPeriod(9)
	m.SetSwellDirection(265)
	m.SetSeaTemperature(11.2)
	m.SetPrecipitation(5)
	m.SetSalinity(35.1)
	m.SetIce(0)

	bv := ais.NewBitVector()
	require.NoError(t, m.AppendBits(bv))
	assert.Equal(t, meteoHydroBits, bv.Len())

	decoded, err := DecodeMeteoHydro(bv)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)

	wind, ok := decoded.WindSpeed()
	require.True(t, ok)
	assert.InDelta(t, 14.5, wind, 1e-9)

	temp, ok := decoded.AirTemperature()
	require.True(t, ok)
	assert.InDelta(t, -2.5, temp, 1e-9)

	level, ok := decoded.WaterLevel()
	require.True(t, ok)
	assert.InDelta(t, -1.25, level, 1e-9)

	trend, ok := decoded.WaterLevelTrend()
	require.True(t, ok)
	assert.Equal(t, uint8(1), trend)

	ice, ok := decoded.Ice()
	require.True(t, ok)
	assert.Equal(t, uint8(0), ice)
}

// TestMeteoHydroWireSentinels pins the raw sentinel encodings for absent
// fields: all-ones unsigned, -1024/-2048 for the signed ones.
func TestMeteoHydroWireSentinels(t *testing.T) {
	m := NewMeteoHydro(0, 0, 1, 0, 0)

	bv := ais.NewBitVector()
	require.NoError(t, m.AppendBits(bv))

	windSpeed, err := bv.GetUint(65, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x3FF), windSpeed)

	airTemp, err := bv.GetInt(94, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(-1024), airTemp)

	waterLevel, err := bv.GetInt(142, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(-2048), waterLevel)

	ice, err := bv.GetUint(242, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x3), ice)
}

func TestMeteoHydroSetterValidation(t *testing.T) {
	m := NewMeteoHydro(0, 0, 1, 0, 0)

	m.SetWindSpeed(-1)
	_, ok := m.WindSpeed()
	assert.False(t, ok)

	m.SetWindDirection(360)
	_, ok = m.WindDirection()
	assert.False(t, ok)

	m.SetRelativeHumidity(101)
	_, ok = m.RelativeHumidity()
	assert.False(t, ok)

	m.SetAirPressureTendency(3)
	_, ok = m.AirPressureTendency()
	assert.False(t, ok)

	m.SetPrecipitation(6)
	_, ok = m.Precipitation()
	assert.False(t, ok)

	m.SetIce(2)
	_, ok = m.Ice()
	assert.False(t, ok)

	// Setting a field back to a valid value restores it.
	m.SetWindDirection(359)
	dir, ok := m.WindDirection()
	require.True(t, ok)
	assert.Equal(t, uint16(359), dir)
}

func TestMeteoHydroCoarsePosition(t *testing.T) {
	// 1/1000 minute resolution: one thousandth of a minute is 1/60000 deg.
	m := NewMeteoHydro(10.5, 55.25, 1, 0, 0)

	bv := ais.NewBitVector()
	require.NoError(t, m.AppendBits(bv))

	lat, err := bv.GetInt(0, 24)
	require.NoError(t, err)
	assert.Equal(t, int64(55.25*60000), lat)

	lon, err := bv.GetInt(24, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(10.5*60000), lon)
}

func TestMeteoHydroTruncated(t *testing.T) {
	bv := ais.NewBitVector()
	require.NoError(t, bv.AppendUint(0, 64))
	require.NoError(t, bv.AppendUint(0, 36))

	_, err := DecodeMeteoHydro(bv)
	require.Error(t, err)
}

func TestMeteoHydroEnvelopeRoundTrip(t *testing.T) {
	m := NewMeteoHydro(12.6, 55.7, 9, 12, 30)
	m.SetWindSpeed(5.0)
	m.SetSeaTemperature(16.4)

	msg, err := m.ToBroadcast(2190047, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), msg.DAC())
	assert.Equal(t, uint16(31), msg.FI())

	payload, err := Decode(msg.DAC(), msg.FI(), msg.Data())
	require.NoError(t, err)

	report, ok := payload.(*MeteoHydro)
	require.True(t, ok)
	assert.Equal(t, m, report)
}
