package ais

import (
	"time"

	"github.com/pkg/errors"
)

// FragmentKey identifies a multipart group: two fragments belong together
// iff their group id and radio channel match.
type FragmentKey struct {
	GroupID string
	Channel byte
}

type fragmentSlot struct {
	payload  string
	fillBits int
	received bool
}

type fragmentGroup struct {
	slots         []fragmentSlot
	receivedCount int
	lastUpdated   time.Time
}

// Assembler buffers fragments of multi-sentence AIS messages until a group
// completes, with caller-driven expiry and a bounded group table. It is not
// safe for concurrent use; callers shard or lock externally.
type Assembler struct {
	timeout   time.Duration
	maxGroups int
	groups    map[FragmentKey]*fragmentGroup

	now func() time.Time
}

// NewAssembler returns an assembler dropping groups idle longer than timeout
// and holding at most maxGroups incomplete groups.
func NewAssembler(timeout time.Duration, maxGroups int) *Assembler {
	return &Assembler{
		timeout:   timeout,
		maxGroups: maxGroups,
		groups:    make(map[FragmentKey]*fragmentGroup),
		now:       time.Now,
	}
}

// Offer records one fragment. It returns the assembled bit stream when the
// fragment completes its group, nil while slots are still missing. A
// single-fragment offer bypasses the group table entirely.
func (a *Assembler) Offer(index, count int, groupID string, channel byte, payload string, fillBits int) (*BitVector, error) {
	if count < 1 || index < 1 || index > count {
		return nil, errors.Wrapf(ErrBadFragment, "fragment %d of %d", index, count)
	}
	if channel != 'A' && channel != 'B' {
		return nil, errors.Wrapf(ErrBadFragment, "channel %q", channel)
	}
	if fillBits < 0 || fillBits > 5 {
		return nil, errors.Wrapf(ErrBadFragment, "fill bits %d", fillBits)
	}

	if count == 1 {
		bv, err := FromPayload(payload)
		if err != nil {
			return nil, err
		}
		bv.TrimRight(fillBits)
		return bv, nil
	}
	if groupID == "" {
		return nil, errors.Wrap(ErrBadFragment, "multipart fragment without group id")
	}

	key := FragmentKey{GroupID: groupID, Channel: channel}
	group, ok := a.groups[key]
	if !ok {
		group = &fragmentGroup{
			slots:       make([]fragmentSlot, count),
			lastUpdated: a.now(),
		}
		a.groups[key] = group
		if len(a.groups) > a.maxGroups {
			a.evictOldest()
		}
	}
	if len(group.slots) != count {
		return nil, errors.Wrapf(ErrBadFragment, "fragment count %d for a group of %d", count, len(group.slots))
	}

	slot := &group.slots[index-1]
	if slot.received {
		// Same packet heard twice inside one key: keep the first copy and
		// do not refresh the timestamp, so timeouts measure real progress.
		return nil, nil
	}
	slot.payload = payload
	slot.fillBits = fillBits
	slot.received = true
	group.receivedCount++
	group.lastUpdated = a.now()

	if group.receivedCount < len(group.slots) {
		return nil, nil
	}
	delete(a.groups, key)
	return combineFragments(group.slots)
}

// combineFragments concatenates slot payload bits in ascending order,
// trimming the announced fill bits from the final slot.
func combineFragments(slots []fragmentSlot) (*BitVector, error) {
	combined := NewBitVector()
	for i, slot := range slots {
		bv, err := FromPayload(slot.payload)
		if err != nil {
			return nil, err
		}
		if i == len(slots)-1 {
			bv.TrimRight(slot.fillBits)
		}
		if err := combined.AppendRange(bv, 0, bv.Len()); err != nil {
			return nil, err
		}
	}
	return combined, nil
}

// evictOldest removes the group with the smallest lastUpdated.
func (a *Assembler) evictOldest() {
	var oldestKey FragmentKey
	var oldest time.Time
	first := true
	for key, group := range a.groups {
		if first || group.lastUpdated.Before(oldest) {
			oldestKey, oldest = key, group.lastUpdated
			first = false
		}
	}
	if !first {
		delete(a.groups, oldestKey)
	}
}

// SweepExpired drops every group idle longer than the timeout. The caller
// drives liveness; there is no background timer.
func (a *Assembler) SweepExpired() {
	now := a.now()
	for key, group := range a.groups {
		if now.Sub(group.lastUpdated) > a.timeout {
			delete(a.groups, key)
		}
	}
}

// Clear drops all incomplete groups.
func (a *Assembler) Clear() {
	a.groups = make(map[FragmentKey]*fragmentGroup)
}

// Len returns the number of incomplete groups held.
func (a *Assembler) Len() int {
	return len(a.groups)
}

// SetTimeout replaces the expiry window for subsequent sweeps.
func (a *Assembler) SetTimeout(timeout time.Duration) {
	a.timeout = timeout
}

// SetMaxGroups lowers or raises the group bound, evicting the oldest groups
// immediately if the table now exceeds it.
func (a *Assembler) SetMaxGroups(maxGroups int) {
	a.maxGroups = maxGroups
	for len(a.groups) > a.maxGroups {
		a.evictOldest()
	}
}
