// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// UserID is a validated platform user identifier (a snowflake, e.g.
// "1101467683083530331").
//
// UserID is an immutable value type. The zero value is not valid;
// use IsZero to check.
type UserID struct {
	id string
}

// ParseUserID validates and wraps a raw snowflake string.
func ParseUserID(raw string) (UserID, error) {
	if err := validateSnowflake("user ID", raw); err != nil {
		return UserID{}, err
	}
	return UserID{id: raw}, nil
}

// String returns the decimal snowflake string.
func (u UserID) String() string { return u.id }

// IsZero reports whether the UserID is the zero value (uninitialized).
func (u UserID) IsZero() bool { return u.id == "" }

// MarshalText implements encoding.TextMarshaler for JSON, CBOR, and
// other text-based serialization formats.
func (u UserID) MarshalText() ([]byte, error) {
	if u.id == "" {
		return []byte{}, nil
	}
	return []byte(u.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// snowflake format. An empty input produces the zero value.
func (u *UserID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*u = UserID{}
		return nil
	}
	parsed, err := ParseUserID(string(data))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
