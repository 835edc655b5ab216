package alarm

import (
	"hash/fnv"
	"strconv"
)

// IDMapper derives the small-integer notification id a native scheduler
// needs from an alarm's opaque string id. Schedule and cancel must use the
// same mapper so they address the same registration; hosts with different
// id constraints can supply their own.
type IDMapper interface {
	NotificationID(alarmID string) int32
}

// HexPrefixMapper interprets the first 8 hex characters of the alarm id as
// a 32-bit integer, the natural mapping for UUID ids, where the prefix is
// the UUID's first field. Ids without a hex prefix fall back to an FNV-1a
// hash of the whole id.
//
// Eight hex characters is a narrow keyspace relative to a full UUID: two
// alarms sharing a prefix collide and overwrite each other's registration.
// With per-pair alarm counts in the tens, the birthday bound keeps the
// collision probability around 1e-8; accepted rather than widened, since
// widening would orphan registrations made under the old mapping.
type HexPrefixMapper struct{}

func (HexPrefixMapper) NotificationID(alarmID string) int32 {
	prefix := alarmID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	if v, err := strconv.ParseUint(prefix, 16, 32); err == nil {
		return int32(v)
	}

	h := fnv.New32a()
	h.Write([]byte(alarmID))
	return int32(h.Sum32())
}
