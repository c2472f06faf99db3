// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// ChannelID is a validated identifier for a channel within a space.
// Ticket channels are tracked by ChannelID in the store's active
// ticket index.
//
// ChannelID is an immutable value type. The zero value is not valid;
// use IsZero to check.
type ChannelID struct {
	id string
}

// ParseChannelID validates and wraps a raw snowflake string.
func ParseChannelID(raw string) (ChannelID, error) {
	if err := validateSnowflake("channel ID", raw); err != nil {
		return ChannelID{}, err
	}
	return ChannelID{id: raw}, nil
}

// String returns the decimal snowflake string.
func (c ChannelID) String() string { return c.id }

// IsZero reports whether the ChannelID is the zero value (uninitialized).
func (c ChannelID) IsZero() bool { return c.id == "" }

// MarshalText implements encoding.TextMarshaler.
func (c ChannelID) MarshalText() ([]byte, error) {
	if c.id == "" {
		return []byte{}, nil
	}
	return []byte(c.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// snowflake format. An empty input produces the zero value.
func (c *ChannelID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*c = ChannelID{}
		return nil
	}
	parsed, err := ParseChannelID(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
