// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import "fmt"

// Badge is a named profile decoration. The set is closed: unknown
// names are rejected at the boundary so the store never holds a badge
// it cannot render.
type Badge string

const (
	BadgeOwner    Badge = "owner"
	BadgeAdmin    Badge = "admin"
	BadgeStaff    Badge = "staff"
	BadgeNoPrefix Badge = "no_prefix"
)

// NoBadgeGlyph renders in place of an empty badge set.
const NoBadgeGlyph = "❌"

// glyphs maps each badge to its display glyph.
var glyphs = map[Badge]string{
	BadgeOwner:    "👑",
	BadgeAdmin:    "🛡️",
	BadgeStaff:    "🔧",
	BadgeNoPrefix: "🎯",
}

// ParseBadge validates a badge name.
func ParseBadge(name string) (Badge, error) {
	badge := Badge(name)
	if _, known := glyphs[badge]; !known {
		return "", fmt.Errorf("profile: unknown badge %q", name)
	}
	return badge, nil
}

// Glyph returns the badge's display glyph.
func (b Badge) Glyph() string {
	return glyphs[b]
}

func (b Badge) String() string {
	return string(b)
}
