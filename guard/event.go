// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"fmt"

	"github.com/warden-foundation/warden/lib/ref"
	"github.com/warden-foundation/warden/platform"
)

// EventKind names a destructive event class the guard reacts to.
type EventKind string

const (
	EventMemberBan     EventKind = "member-ban"
	EventMemberKick    EventKind = "member-kick"
	EventChannelDelete EventKind = "channel-delete"
	EventRoleDelete    EventKind = "role-delete"
)

// ParseEventKind validates an event kind name.
func ParseEventKind(name string) (EventKind, error) {
	kind := EventKind(name)
	if _, known := auditActions[kind]; !known {
		return "", fmt.Errorf("guard: unknown event kind %q", name)
	}
	return kind, nil
}

// auditActions maps each event kind to the audit log action type used
// to resolve its actor.
var auditActions = map[EventKind]int{
	EventMemberBan:     platform.AuditMemberBan,
	EventMemberKick:    platform.AuditMemberKick,
	EventChannelDelete: platform.AuditChannelDelete,
	EventRoleDelete:    platform.AuditRoleDelete,
}

// Event is a destructive occurrence reported by the gateway frontend.
// The frontend observes the event stream; it does not know who acted.
// Actor resolution is the guard's job.
type Event struct {
	Kind  EventKind
	Space ref.SpaceID

	// TargetUser is the banned or kicked user for member events.
	// Zero for channel and role events.
	TargetUser ref.UserID

	// TargetID is the deleted channel or role ID for those events,
	// or the target user's ID for member events. Used to confirm the
	// audit entry describes this event.
	TargetID string
}
