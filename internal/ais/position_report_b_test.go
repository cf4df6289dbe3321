package ais

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardPositionBRoundTrip(t *testing.T) {
	m := NewStandardPositionB(338123456, 0)
	m.SetSpeedOverGround(6.4)
	m.SetPositionAccuracy(true)
	m.SetLongitude(-71.0404)
	m.SetLatitude(42.3503)
	m.SetCourseOverGround(121.9)
	m.SetTrueHeading(119)
	m.SetTimestamp(48)
	m.SetCSUnit(true)
	m.SetDisplay(true)
	m.SetDSC(true)
	m.SetBand(true)
	m.SetMessage22(true)
	m.SetRAIM(true)
	m.SetRadioStatus(0x3FFFF)

	bv := NewBitVector()
	require.NoError(t, m.AppendBits(bv))
	assert.Equal(t, standardPositionBBits, bv.Len())

	decoded, err := DecodeBits(bv)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

// TestStandardPositionBOffsets pins the kinematics layout, which is shifted
// relative to Class A by the regional reserved block.
func TestStandardPositionBOffsets(t *testing.T) {
	m := NewStandardPositionB(338123456, 0)
	m.SetSpeedOverGround(6.4)
	m.SetLongitude(-71.0404)

	bv := NewBitVector()
	require.NoError(t, m.AppendBits(bv))

	tag, err := bv.GetUint(0, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(18), tag)

	sog, err := bv.GetUint(46, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(64), sog)

	lon, err := bv.GetInt(57, 28)
	require.NoError(t, err)
	assert.Equal(t, int64(-42624240), lon)
}

func TestStandardPositionBSentinels(t *testing.T) {
	m := NewStandardPositionB(1, 0)
	assert.True(t, math.IsNaN(m.SpeedOverGround()))
	assert.Equal(t, 181.0, m.Longitude())
	assert.Equal(t, 91.0, m.Latitude())
	assert.True(t, math.IsNaN(m.CourseOverGround()))
	assert.Equal(t, headingNotAvailable, m.TrueHeading())

	m.SetSpeedOverGround(-1)
	assert.True(t, math.IsNaN(m.SpeedOverGround()))
	m.SetCourseOverGround(400.0)
	assert.True(t, math.IsNaN(m.CourseOverGround()))
}

func TestExtendedPositionBRoundTrip(t *testing.T) {
	m := NewExtendedPositionB(338987654, 0)
	m.SetSpeedOverGround(9.1)
	m.SetLongitude(18.0686)
	m.SetLatitude(59.3293)
	m.SetCourseOverGround(201.0)
	m.SetTrueHeading(198)
	m.SetTimestamp(12)
	m.SetVesselName("SKERRY RUNNER")
	m.SetShipType(ShipTypePassenger)
	m.SetDimensions(18, 6, 3, 3)
	m.SetEPFDType(EPFDGPS)
	m.SetRAIM(true)
	m.SetDTE(true)
	m.SetAssigned(false)

	bv := NewBitVector()
	require.NoError(t, m.AppendBits(bv))
	assert.Equal(t, extendedPositionBBits, bv.Len())

	decoded, err := DecodeBits(bv)
	require.NoError(t, err)

	extended, ok := decoded.(*ExtendedPositionB)
	require.True(t, ok)
	assert.Equal(t, uint8(19), extended.MessageType())
	assert.Equal(t, "SKERRY RUNNER", extended.VesselName())
	assert.Equal(t, m, extended)
}

// TestExtendedPositionBStaticOffsets pins the extended descriptor layout.
func TestExtendedPositionBStaticOffsets(t *testing.T) {
	m := NewExtendedPositionB(1, 0)
	m.SetVesselName("SKERRY RUNNER")
	m.SetShipType(ShipTypePassenger)

	bv := NewBitVector()
	require.NoError(t, m.AppendBits(bv))

	name, err := bv.GetString(143, 120)
	require.NoError(t, err)
	assert.Equal(t, "SKERRY RUNNER", name)

	shipType, err := bv.GetUint(263, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(ShipTypePassenger), shipType)
}
