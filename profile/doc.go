// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

// Package profile manages user badges and the prefix-free command
// set.
//
// Badges are a closed set of named decorations ([BadgeOwner],
// [BadgeAdmin], [BadgeStaff], [BadgeNoPrefix]) rendered as glyphs.
// Grant, revoke, and no-prefix toggles are owner-only operations;
// lookups are open to anyone. All mutations persist through the store
// before returning.
package profile
