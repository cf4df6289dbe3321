package ais

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecodeLivePositionReport decodes a captured Class A report.
func TestDecodeLivePositionReport(t *testing.T) {
	bv, err := FromPayload("15MgK45P3@G?fl0E`JbR0OwT0@MS")
	require.NoError(t, err)
	require.Equal(t, 168, bv.Len())

	msg, err := DecodeBits(bv)
	require.NoError(t, err)

	report, ok := msg.(*PositionReportA)
	require.True(t, ok)

	assert.Equal(t, uint8(1), report.MessageType())
	assert.Equal(t, uint32(366730000), report.MMSI())
	assert.Equal(t, uint8(0), report.RepeatIndicator())
	assert.Equal(t, NavStatusMoored, report.NavigationStatus())
	assert.True(t, math.IsNaN(report.RateOfTurn()), "rot raw -128 is not available")
	assert.InDelta(t, 20.8, report.SpeedOverGround(), 1e-9)
	assert.InDelta(t, -122.392533, report.Longitude(), 1e-5)
	assert.InDelta(t, 37.803803, report.Latitude(), 1e-5)
	assert.InDelta(t, 51.3, report.CourseOverGround(), 1e-9)
	assert.Equal(t, headingNotAvailable, report.TrueHeading())
	assert.Equal(t, uint8(50), report.Timestamp())
}

// TestPositionReportRoundTrip checks decode(encode(m)) == m field-wise.
func TestPositionReportRoundTrip(t *testing.T) {
	m, err := NewPositionReportA(3, 211234567, 1, NavStatusUnderWayEngine)
	require.NoError(t, err)
	m.SetRateOfTurn(12.5)
	m.SetSpeedOverGround(14.2)
	m.SetPositionAccuracy(true)
	m.SetLongitude(4.891)
	m.SetLatitude(52.373)
	m.SetCourseOverGround(275.3)
	m.SetTrueHeading(271)
	m.SetTimestamp(33)
	m.SetSpecialManeuver(1)
	m.SetRAIM(true)
	m.SetRadioStatus(0x25A71)

	bv := NewBitVector()
	require.NoError(t, m.AppendBits(bv))
	assert.Equal(t, positionReportABits, bv.Len())

	decoded, err := DecodeBits(bv)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestPositionReportTruncated(t *testing.T) {
	bv := NewBitVector()
	require.NoError(t, bv.AppendUint(1, 6))
	require.NoError(t, bv.AppendUint(0, 60))

	_, err := decodePositionReportA(bv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncated))
}

func TestNewPositionReportRejectsOtherTypes(t *testing.T) {
	_, err := NewPositionReportA(4, 1, 0, NavStatusNotDefined)
	require.Error(t, err)
}

func TestRateOfTurnBoundaries(t *testing.T) {
	m, err := NewPositionReportA(1, 1, 0, NavStatusNotDefined)
	require.NoError(t, err)

	t.Run("raw specials decode", func(t *testing.T) {
		m.SetRateOfTurnRaw(-128)
		assert.True(t, math.IsNaN(m.RateOfTurn()))
		m.SetRateOfTurnRaw(127)
		assert.True(t, math.IsInf(m.RateOfTurn(), 1))
		m.SetRateOfTurnRaw(-127)
		assert.True(t, math.IsInf(m.RateOfTurn(), -1))
		m.SetRateOfTurnRaw(0)
		assert.Equal(t, 0.0, m.RateOfTurn())
	})

	t.Run("setter maps specials", func(t *testing.T) {
		m.SetRateOfTurn(math.NaN())
		assert.Equal(t, int8(-128), m.RateOfTurnRaw())
		m.SetRateOfTurn(math.Inf(1))
		assert.Equal(t, int8(127), m.RateOfTurnRaw())
		m.SetRateOfTurn(math.Inf(-1))
		assert.Equal(t, int8(-127), m.RateOfTurnRaw())
		m.SetRateOfTurn(709.0)
		assert.Equal(t, int8(127), m.RateOfTurnRaw())
		m.SetRateOfTurn(-709.0)
		assert.Equal(t, int8(-127), m.RateOfTurnRaw())
		m.SetRateOfTurn(708.0)
		assert.Equal(t, int8(127), m.RateOfTurnRaw(), "708 is inclusive")
		m.SetRateOfTurn(-708.0)
		assert.Equal(t, int8(-127), m.RateOfTurnRaw())
		m.SetRateOfTurn(0)
		assert.Equal(t, int8(0), m.RateOfTurnRaw())
	})

	t.Run("curve round trips", func(t *testing.T) {
		// 4.733 * sqrt(20) = 21.166 deg/min encodes as indicator 20.
		m.SetRateOfTurn(21.166)
		assert.Equal(t, int8(20), m.RateOfTurnRaw())
		assert.InDelta(t, 21.166, m.RateOfTurn(), 0.01)

		m.SetRateOfTurn(-21.166)
		assert.Equal(t, int8(-20), m.RateOfTurnRaw())
	})

	t.Run("clamps to 126", func(t *testing.T) {
		m.SetRateOfTurn(700.0)
		assert.Equal(t, int8(126), m.RateOfTurnRaw())
	})
}

func TestPositionSentinels(t *testing.T) {
	m, err := NewPositionReportA(1, 1, 0, NavStatusNotDefined)
	require.NoError(t, err)

	m.SetLongitude(181.0)
	assert.Equal(t, 181.0, m.Longitude(), "reads stay outside the legal range")
	m.SetLongitude(-200.0)
	assert.Equal(t, 181.0, m.Longitude())
	m.SetLongitude(-122.392533)
	assert.InDelta(t, -122.392533, m.Longitude(), 1e-5)

	m.SetLatitude(91.0)
	assert.Equal(t, 91.0, m.Latitude())
	m.SetLatitude(-95.0)
	assert.Equal(t, 91.0, m.Latitude())
	m.SetLatitude(37.803803)
	assert.InDelta(t, 37.803803, m.Latitude(), 1e-5)
}

func TestSpeedOverGroundBoundaries(t *testing.T) {
	m, err := NewPositionReportA(1, 1, 0, NavStatusNotDefined)
	require.NoError(t, err)

	m.SetSpeedOverGround(math.NaN())
	assert.True(t, math.IsNaN(m.SpeedOverGround()))

	m.SetSpeedOverGround(150.0)
	assert.Equal(t, 102.2, m.SpeedOverGround())

	m.SetSpeedOverGround(-5.0)
	assert.Equal(t, 0.0, m.SpeedOverGround())

	m.SetSpeedOverGround(12.3)
	assert.InDelta(t, 12.3, m.SpeedOverGround(), 1e-9)
}

func TestCourseOverGroundWraps(t *testing.T) {
	m, err := NewPositionReportA(1, 1, 0, NavStatusNotDefined)
	require.NoError(t, err)

	m.SetCourseOverGround(math.NaN())
	assert.True(t, math.IsNaN(m.CourseOverGround()))

	m.SetCourseOverGround(360.0)
	assert.Equal(t, 0.0, m.CourseOverGround(), "360 snaps to 0")

	m.SetCourseOverGround(359.99)
	assert.Equal(t, 0.0, m.CourseOverGround(), "within the 0.05 tolerance")

	m.SetCourseOverGround(-90.0)
	assert.InDelta(t, 270.0, m.CourseOverGround(), 1e-9)

	m.SetCourseOverGround(725.0)
	assert.InDelta(t, 5.0, m.CourseOverGround(), 1e-9)
}

func TestHeadingAndTimestampBoundaries(t *testing.T) {
	m, err := NewPositionReportA(1, 1, 0, NavStatusNotDefined)
	require.NoError(t, err)

	m.SetTrueHeading(360)
	assert.Equal(t, headingNotAvailable, m.TrueHeading())
	m.SetTrueHeading(511)
	assert.Equal(t, headingNotAvailable, m.TrueHeading())
	m.SetTrueHeading(359)
	assert.Equal(t, uint16(359), m.TrueHeading())

	// Special codes 60..63 surface unchanged.
	for ts := uint8(60); ts <= 63; ts++ {
		m.SetTimestamp(ts)
		assert.Equal(t, ts, m.Timestamp())
	}
	m.SetTimestamp(64)
	assert.Equal(t, timestampNotAvail, m.Timestamp())

	m.SetSpecialManeuver(3)
	assert.Equal(t, uint8(0), m.SpecialManeuver())
}
