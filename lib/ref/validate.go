// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import "fmt"

// Snowflake length bounds. The platform's epoch places every real ID
// in this range: the smallest IDs ever issued are 17 digits, and a
// 64-bit value is at most 20 digits.
const (
	minSnowflakeDigits = 17
	maxSnowflakeDigits = 20
)

// validateSnowflake checks that raw is a plausible platform snowflake:
// non-empty, all ASCII digits, no leading zero, and within the length
// range the platform can actually issue. kind names the identifier
// type for error messages ("user ID", "space ID", "channel ID").
func validateSnowflake(kind, raw string) error {
	if raw == "" {
		return fmt.Errorf("ref: empty %s", kind)
	}
	if len(raw) < minSnowflakeDigits || len(raw) > maxSnowflakeDigits {
		return fmt.Errorf("ref: %s %q must be %d-%d digits", kind, raw, minSnowflakeDigits, maxSnowflakeDigits)
	}
	if raw[0] == '0' {
		return fmt.Errorf("ref: %s %q has a leading zero", kind, raw)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return fmt.Errorf("ref: %s %q contains non-digit character %q", kind, raw, raw[i])
		}
	}
	return nil
}
