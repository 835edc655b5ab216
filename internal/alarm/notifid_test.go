package alarm

import "testing"

func TestHexPrefixMapperParsesUUIDPrefix(t *testing.T) {
	m := HexPrefixMapper{}
	// 0x550e8400 = 1427014656.
	if got := m.NotificationID("550e8400-e29b-41d4-a716-446655440000"); got != 0x550e8400 {
		t.Errorf("NotificationID = %d, want %d", got, 0x550e8400)
	}
}

func TestHexPrefixMapperStable(t *testing.T) {
	m := HexPrefixMapper{}
	ids := []string{
		"550e8400-e29b-41d4-a716-446655440000",
		"alarm-without-hex-prefix",
		"a1",
	}
	for _, id := range ids {
		if m.NotificationID(id) != m.NotificationID(id) {
			t.Errorf("mapping for %q not stable", id)
		}
	}
}

func TestHexPrefixMapperFallsBackToHash(t *testing.T) {
	m := HexPrefixMapper{}
	// Not valid hex → FNV fallback, still deterministic and nonzero here.
	a := m.NotificationID("not-hex-at-all")
	b := m.NotificationID("not-hex-at-all")
	if a != b {
		t.Errorf("fallback mapping not stable: %d vs %d", a, b)
	}
}

func TestHexPrefixMapperDistinctForCorpus(t *testing.T) {
	// The ids actually exercised across the test suite must not collide.
	m := HexPrefixMapper{}
	corpus := []string{
		"550e8400-e29b-41d4-a716-446655440000",
		"6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"a1", "a2", "a3",
		"not-hex-at-all",
		"alarm-without-hex-prefix",
	}
	seen := make(map[int32]string)
	for _, id := range corpus {
		n := m.NotificationID(id)
		if prev, ok := seen[n]; ok {
			t.Errorf("ids %q and %q both map to %d", prev, id, n)
		}
		seen[n] = id
	}
}

func TestHexPrefixMapperShortID(t *testing.T) {
	m := HexPrefixMapper{}
	// Shorter than 8 chars but valid hex: parsed directly.
	if got := m.NotificationID("ff"); got != 255 {
		t.Errorf("NotificationID(\"ff\") = %d, want 255", got)
	}
}
