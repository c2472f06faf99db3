// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package config

import "time"

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "5m". yaml.v3 cannot decode duration strings into a raw
// time.Duration, but it honors encoding.TextUnmarshaler.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}
