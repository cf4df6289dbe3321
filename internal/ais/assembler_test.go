package ais

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives the assembler's notion of time without sleeping.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestAssembler(timeout time.Duration, maxGroups int) (*Assembler, *fakeClock) {
	clock := newFakeClock()
	a := NewAssembler(timeout, maxGroups)
	a.now = func() time.Time { return clock.now }
	return a, clock
}

func payloadOf(t *testing.T, bits *BitVector) string {
	t.Helper()
	return bits.ToPayload()
}

// twoFragments encodes a type 5 message and splits its payload in two.
func twoFragments(t *testing.T) (first, second string, fill int, want *BitVector) {
	t.Helper()
	msg := NewStaticVoyageData(123456789, 0)
	msg.SetCallSign("TEST123")
	msg.SetVesselName("MULTI PART TEST VESSEL")

	want = NewBitVector()
	require.NoError(t, msg.AppendBits(want))
	payload := want.ToPayload()
	require.Greater(t, len(payload), 60)
	return payload[:60], payload[60:], want.FillBits(), want
}

func TestOfferSingleFragmentBypassesTable(t *testing.T) {
	a, _ := newTestAssembler(time.Minute, 10)

	bv := NewBitVector()
	require.NoError(t, bv.AppendUint(0x15, 6))
	bits, err := a.Offer(1, 1, "", 'A', payloadOf(t, bv), 0)
	require.NoError(t, err)
	require.NotNil(t, bits)
	assert.True(t, bv.Equal(bits))
	assert.Equal(t, 0, a.Len())
}

func TestOfferInOrder(t *testing.T) {
	a, _ := newTestAssembler(time.Minute, 10)
	first, second, fill, want := twoFragments(t)

	bits, err := a.Offer(1, 2, "1", 'A', first, 0)
	require.NoError(t, err)
	assert.Nil(t, bits)
	assert.Equal(t, 1, a.Len())

	bits, err = a.Offer(2, 2, "1", 'A', second, fill)
	require.NoError(t, err)
	require.NotNil(t, bits)
	assert.True(t, want.Equal(bits))
	assert.Equal(t, 0, a.Len(), "completion removes the group")
}

func TestOfferOutOfOrder(t *testing.T) {
	a, _ := newTestAssembler(time.Minute, 10)
	first, second, fill, want := twoFragments(t)

	bits, err := a.Offer(2, 2, "1", 'A', second, fill)
	require.NoError(t, err)
	assert.Nil(t, bits)

	bits, err = a.Offer(1, 2, "1", 'A', first, 0)
	require.NoError(t, err)
	require.NotNil(t, bits)
	assert.True(t, want.Equal(bits))
}

func TestOfferValidation(t *testing.T) {
	a, _ := newTestAssembler(time.Minute, 10)

	tests := []struct {
		name    string
		index   int
		count   int
		groupID string
		channel byte
		fill    int
	}{
		{"index zero", 0, 2, "1", 'A', 0},
		{"index past count", 3, 2, "1", 'A', 0},
		{"count zero", 1, 0, "1", 'A', 0},
		{"bad channel", 1, 2, "1", 'C', 0},
		{"fill past five", 1, 2, "1", 'A', 6},
		{"blank group id on multipart", 1, 2, "", 'A', 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Offer(tt.index, tt.count, tt.groupID, tt.channel, "0000", tt.fill)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadFragment), "got %v", err)
		})
	}
	assert.Equal(t, 0, a.Len())
}

func TestDuplicateFragmentIgnored(t *testing.T) {
	a, clock := newTestAssembler(time.Minute, 10)
	first, second, fill, want := twoFragments(t)

	_, err := a.Offer(1, 2, "1", 'A', first, 0)
	require.NoError(t, err)

	// The duplicate carries different bits; the first copy must win and the
	// group timestamp must not refresh.
	clock.advance(50 * time.Second)
	bits, err := a.Offer(1, 2, "1", 'A', second, 0)
	require.NoError(t, err)
	assert.Nil(t, bits)
	assert.Equal(t, 1, a.Len())

	// The group still expires relative to the original arrival.
	clock.advance(11 * time.Second)
	a.SweepExpired()
	assert.Equal(t, 0, a.Len())

	// A fresh pair still assembles cleanly afterwards.
	_, err = a.Offer(1, 2, "2", 'A', first, 0)
	require.NoError(t, err)
	bits, err = a.Offer(2, 2, "2", 'A', second, fill)
	require.NoError(t, err)
	require.NotNil(t, bits)
	assert.True(t, want.Equal(bits))
}

func TestChannelsSeparateGroups(t *testing.T) {
	a, _ := newTestAssembler(time.Minute, 10)
	first, second, fill, want := twoFragments(t)

	_, err := a.Offer(1, 2, "1", 'A', first, 0)
	require.NoError(t, err)
	_, err = a.Offer(1, 2, "1", 'B', first, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Len())

	bits, err := a.Offer(2, 2, "1", 'B', second, fill)
	require.NoError(t, err)
	require.NotNil(t, bits)
	assert.True(t, want.Equal(bits))
	assert.Equal(t, 1, a.Len(), "channel A group unaffected")
}

func TestSweepExpired(t *testing.T) {
	a, clock := newTestAssembler(time.Second, 10)
	first, _, _, _ := twoFragments(t)

	_, err := a.Offer(1, 2, "1", 'A', first, 0)
	require.NoError(t, err)

	clock.advance(2 * time.Second)
	a.SweepExpired()
	assert.Equal(t, 0, a.Len())
}

func TestSweepKeepsFreshGroups(t *testing.T) {
	a, clock := newTestAssembler(10*time.Second, 10)
	first, _, _, _ := twoFragments(t)

	_, err := a.Offer(1, 2, "old", 'A', first, 0)
	require.NoError(t, err)
	clock.advance(9 * time.Second)
	_, err = a.Offer(1, 2, "new", 'A', first, 0)
	require.NoError(t, err)

	clock.advance(2 * time.Second)
	a.SweepExpired()
	assert.Equal(t, 1, a.Len(), "only the stale group drops")
}

func TestCapacityEviction(t *testing.T) {
	a, clock := newTestAssembler(time.Minute, 3)
	first, _, _, _ := twoFragments(t)

	for _, id := range []string{"1", "2", "3", "4"} {
		_, err := a.Offer(1, 2, id, 'A', first, 0)
		require.NoError(t, err)
		clock.advance(time.Second)
	}
	assert.Equal(t, 3, a.Len())

	// Group "1" was the oldest; its second fragment now opens a new group
	// instead of completing one.
	bits, err := a.Offer(2, 2, "1", 'A', first, 0)
	require.NoError(t, err)
	assert.Nil(t, bits)
}

func TestSetMaxGroupsEvictsImmediately(t *testing.T) {
	a, clock := newTestAssembler(time.Minute, 10)
	first, second, fill, _ := twoFragments(t)

	for _, id := range []string{"1", "2", "3", "4", "5"} {
		_, err := a.Offer(1, 2, id, 'A', first, 0)
		require.NoError(t, err)
		clock.advance(time.Second)
	}
	require.Equal(t, 5, a.Len())

	a.SetMaxGroups(2)
	assert.Equal(t, 2, a.Len())

	// The two newest groups survive.
	bits, err := a.Offer(2, 2, "5", 'A', second, fill)
	require.NoError(t, err)
	assert.NotNil(t, bits)
	bits, err = a.Offer(2, 2, "4", 'A', second, fill)
	require.NoError(t, err)
	assert.NotNil(t, bits)
}

func TestClear(t *testing.T) {
	a, _ := newTestAssembler(time.Minute, 10)
	first, _, _, _ := twoFragments(t)

	_, err := a.Offer(1, 2, "1", 'A', first, 0)
	require.NoError(t, err)
	a.Clear()
	assert.Equal(t, 0, a.Len())
}

func TestOfferAllOrderings(t *testing.T) {
	// Property: for a three-fragment group delivered in any order, exactly
	// the last offer returns the assembled bits.
	msg := NewStaticVoyageData(987654321, 0)
	msg.SetVesselName("ORDERING TEST")
	msg.SetDestination("ANY PORT")
	want := NewBitVector()
	require.NoError(t, msg.AppendBits(want))
	payload := want.ToPayload()
	fill := want.FillBits()

	third := (len(payload) + 2) / 3
	parts := []string{payload[:third], payload[third : 2*third], payload[2*third:]}

	orders := [][]int{
		{1, 2, 3}, {1, 3, 2}, {2, 1, 3}, {2, 3, 1}, {3, 1, 2}, {3, 2, 1},
	}
	for _, order := range orders {
		a, _ := newTestAssembler(time.Minute, 10)
		var got *BitVector
		for i, idx := range order {
			f := 0
			if idx == 3 {
				f = fill
			}
			bits, err := a.Offer(idx, 3, "7", 'A', parts[idx-1], f)
			require.NoError(t, err)
			if i < len(order)-1 {
				assert.Nil(t, bits, "order %v step %d", order, i)
			} else {
				got = bits
			}
		}
		require.NotNil(t, got, "order %v", order)
		assert.True(t, want.Equal(got), "order %v", order)
	}
}
