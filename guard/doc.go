// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

// Package guard protects spaces against destructive administrators.
//
// The gateway frontend reports four event kinds: member bans, member
// kicks, channel deletions, and role deletions. The event stream does
// not say who acted, so the guard correlates each event against the
// newest matching entry in the space's admin history, bounded by a
// configurable age window. An unresolved actor means no action —
// inaction is always preferred over punishing the wrong admin.
//
// For a resolved, non-exempt actor the guard bans them (and unbans
// the victim of a ban event first). The configured owner, the space's
// owning user, and whitelisted users are exempt. Permission refusals
// from the platform are logged and suppressed so a de-privileged
// guard never breaks the event path.
package guard
