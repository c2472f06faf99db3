// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// SpaceID is a validated identifier for a space — an isolated
// community/tenant on the host platform (a "guild"). All of Warden's
// per-space state (antinuke configuration, whitelist, ticket counters)
// is keyed by SpaceID.
//
// SpaceID is an immutable value type. The zero value is not valid;
// use IsZero to check.
type SpaceID struct {
	id string
}

// ParseSpaceID validates and wraps a raw snowflake string.
func ParseSpaceID(raw string) (SpaceID, error) {
	if err := validateSnowflake("space ID", raw); err != nil {
		return SpaceID{}, err
	}
	return SpaceID{id: raw}, nil
}

// String returns the decimal snowflake string.
func (s SpaceID) String() string { return s.id }

// IsZero reports whether the SpaceID is the zero value (uninitialized).
func (s SpaceID) IsZero() bool { return s.id == "" }

// MarshalText implements encoding.TextMarshaler.
func (s SpaceID) MarshalText() ([]byte, error) {
	if s.id == "" {
		return []byte{}, nil
	}
	return []byte(s.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// snowflake format. An empty input produces the zero value.
func (s *SpaceID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*s = SpaceID{}
		return nil
	}
	parsed, err := ParseSpaceID(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
