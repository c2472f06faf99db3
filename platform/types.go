// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"strconv"
	"time"

	"github.com/warden-foundation/warden/lib/ref"
)

// Audit action types. These are protocol constants from the
// platform's audit log API.
const (
	AuditChannelDelete = 12
	AuditMemberKick    = 20
	AuditMemberBan     = 22
	AuditRoleDelete    = 32
)

// AuditEntry is one record from a space's admin action history.
type AuditEntry struct {
	// ID is the entry's snowflake. Its timestamp portion dates the
	// action.
	ID string `json:"id"`
	// ActorID is the administrator who performed the action.
	ActorID ref.UserID `json:"user_id"`
	// TargetID is the object acted on (user, channel, or role ID,
	// depending on ActionType).
	TargetID string `json:"target_id"`
	// ActionType is one of the Audit* constants.
	ActionType int `json:"action_type"`
}

// snowflakeEpoch is the platform's epoch in Unix milliseconds
// (2015-01-01T00:00:00Z). Snowflake timestamps count from here.
const snowflakeEpoch = 1420070400000

// CreatedAt extracts the entry's creation time from its snowflake
// ID. Returns the zero time if the ID is malformed.
func (e AuditEntry) CreatedAt() time.Time {
	raw, err := strconv.ParseUint(e.ID, 10, 64)
	if err != nil {
		return time.Time{}
	}
	milliseconds := int64(raw>>22) + snowflakeEpoch
	return time.UnixMilli(milliseconds).UTC()
}

// auditLogResponse is the wire shape of the audit log endpoint.
type auditLogResponse struct {
	Entries []AuditEntry `json:"audit_log_entries"`
}

// Channel types.
const (
	ChannelTypeText = 0
)

// Permission bits used in channel overwrites.
const (
	PermissionViewChannel  = 1 << 10
	PermissionSendMessages = 1 << 11
)

// Overwrite target types.
const (
	OverwriteRole   = 0
	OverwriteMember = 1
)

// PermissionOverwrite grants or denies permission bits for one role
// or member on a channel. Allow and Deny are decimal bitfield
// strings, matching the wire format.
type PermissionOverwrite struct {
	ID    string `json:"id"`
	Type  int    `json:"type"`
	Allow string `json:"allow,omitempty"`
	Deny  string `json:"deny,omitempty"`
}

// PermissionString renders a permission bitfield in wire format.
func PermissionString(bits int64) string {
	return strconv.FormatInt(bits, 10)
}

// Channel is a space channel as returned by the platform.
type Channel struct {
	ID       ref.ChannelID `json:"id"`
	SpaceID  ref.SpaceID   `json:"guild_id"`
	Name     string        `json:"name"`
	Type     int           `json:"type"`
	ParentID string        `json:"parent_id,omitempty"`
}

// Message is a posted channel message.
type Message struct {
	ID        string        `json:"id"`
	ChannelID ref.ChannelID `json:"channel_id"`
	Content   string        `json:"content"`
}

// space is the subset of the space object the agent reads.
type space struct {
	ID      ref.SpaceID `json:"id"`
	OwnerID ref.UserID  `json:"owner_id"`
}

// createChannelRequest is the wire shape for channel creation.
type createChannelRequest struct {
	Name       string                `json:"name"`
	Type       int                   `json:"type"`
	Overwrites []PermissionOverwrite `json:"permission_overwrites,omitempty"`
}

// sendMessageRequest is the wire shape for posting a message.
type sendMessageRequest struct {
	Content string `json:"content"`
}
