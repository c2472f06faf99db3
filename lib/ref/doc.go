// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides validated identifier types for the chat
// platform's object model: [UserID], [SpaceID], and [ChannelID].
//
// The platform assigns every object a snowflake: a 64-bit unsigned
// integer rendered in decimal. Warden never does arithmetic on
// snowflakes — they are opaque keys — so the types wrap the decimal
// string form and validate the format at construction. Validated IDs
// travel through JSON, CBOR, and the store's snapshot format via
// encoding.TextMarshaler/TextUnmarshaler, so deserialization gets the
// same validation as explicit parsing.
//
// All three types are immutable value types. The zero value is not a
// valid identifier; use IsZero to check.
package ref
