// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"encoding/json"
	"testing"
)

func TestParseUserID(t *testing.T) {
	valid := []string{
		"1101467683083530331",
		"12345678901234567",      // 17 digits, minimum length
		"18446744073709551615",   // 20 digits, max uint64
	}
	for _, raw := range valid {
		if _, err := ParseUserID(raw); err != nil {
			t.Errorf("ParseUserID(%q) = %v, want nil", raw, err)
		}
	}

	invalid := []string{
		"",
		"1234567890123456",       // 16 digits, too short
		"123456789012345678901",  // 21 digits, too long
		"01234567890123456789",   // leading zero
		"11014676830835303x1",    // non-digit
		"@alice:example.com",
	}
	for _, raw := range invalid {
		if _, err := ParseUserID(raw); err == nil {
			t.Errorf("ParseUserID(%q) = nil error, want error", raw)
		}
	}
}

func TestUserIDZero(t *testing.T) {
	var id UserID
	if !id.IsZero() {
		t.Error("zero UserID IsZero() = false, want true")
	}
	parsed, err := ParseUserID("1101467683083530331")
	if err != nil {
		t.Fatalf("ParseUserID: %v", err)
	}
	if parsed.IsZero() {
		t.Error("parsed UserID IsZero() = true, want false")
	}
}

func TestUserIDJSONRoundTrip(t *testing.T) {
	original, err := ParseUserID("1101467683083530331")
	if err != nil {
		t.Fatalf("ParseUserID: %v", err)
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"1101467683083530331"` {
		t.Errorf("marshaled = %s, want %q", data, `"1101467683083530331"`)
	}

	var decoded UserID
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip = %v, want %v", decoded, original)
	}
}

func TestUserIDUnmarshalRejectsInvalid(t *testing.T) {
	var id UserID
	if err := json.Unmarshal([]byte(`"not-a-snowflake"`), &id); err == nil {
		t.Error("unmarshal of invalid snowflake succeeded, want error")
	}
}

func TestUserIDUnmarshalEmptyIsZero(t *testing.T) {
	var id UserID
	if err := json.Unmarshal([]byte(`""`), &id); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if !id.IsZero() {
		t.Error("unmarshal of empty string should produce zero value")
	}
}

func TestSpaceAndChannelIDs(t *testing.T) {
	if _, err := ParseSpaceID("1345359844445524041"); err != nil {
		t.Errorf("ParseSpaceID valid: %v", err)
	}
	if _, err := ParseSpaceID("guild-42"); err == nil {
		t.Error("ParseSpaceID accepted non-snowflake")
	}
	if _, err := ParseChannelID("1389284016099950693"); err != nil {
		t.Errorf("ParseChannelID valid: %v", err)
	}
	if _, err := ParseChannelID(""); err == nil {
		t.Error("ParseChannelID accepted empty string")
	}
}

// SpaceID is used as a JSON map key in the store snapshot; the text
// marshaler must make that round-trip cleanly.
func TestSpaceIDAsMapKey(t *testing.T) {
	space, err := ParseSpaceID("1345359844445524041")
	if err != nil {
		t.Fatalf("ParseSpaceID: %v", err)
	}
	m := map[SpaceID]int{space: 7}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal map: %v", err)
	}

	var decoded map[SpaceID]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if decoded[space] != 7 {
		t.Errorf("decoded[%v] = %d, want 7", space, decoded[space])
	}
}
