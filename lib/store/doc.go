// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

// Package store persists the agent's durable state: badge
// assignments, prefix-free users, antinuke configuration, and ticket
// numbering.
//
// The on-disk format is a single JSON snapshot with an embedded
// BLAKE3 checksum over the canonical state bytes. Writes are atomic
// (temp file, fsync, rename, directory fsync) and verified by reading
// the file back; a mismatch surfaces as [ErrInconsistent]. Before
// each save the previous snapshot is kept zstd-compressed alongside
// the live file, and a corrupt snapshot at startup falls back to that
// generation.
//
// [Open] retries transient I/O failures with exponential backoff; the
// corrupt-snapshot path never degrades to empty state, since that
// would silently discard every badge and ticket.
//
// All access goes through [Store.View] and [Store.Update]. Update
// persists synchronously; [Store.RunPeriodicSave] retries saves that
// failed.
package store
