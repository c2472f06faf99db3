// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"

	"github.com/warden-foundation/warden/lib/ref"
)

// Session is the platform surface the agent's domain packages depend
// on. *Client implements it against the real REST API; tests
// substitute fakes.
//
// Every method takes a reason string where the platform records one
// in the space's audit log; callers pass "" when no reason applies.
type Session interface {
	// BanUser bans the user from the space.
	BanUser(ctx context.Context, space ref.SpaceID, user ref.UserID, reason string) error

	// UnbanUser lifts a ban.
	UnbanUser(ctx context.Context, space ref.SpaceID, user ref.UserID, reason string) error

	// KickUser removes the user from the space without banning.
	KickUser(ctx context.Context, space ref.SpaceID, user ref.UserID, reason string) error

	// CreateChannel creates a text channel with the given permission
	// overwrites.
	CreateChannel(ctx context.Context, space ref.SpaceID, name string, overwrites []PermissionOverwrite) (*Channel, error)

	// DeleteChannel deletes a channel.
	DeleteChannel(ctx context.Context, channel ref.ChannelID, reason string) error

	// SendMessage posts a message to a channel.
	SendMessage(ctx context.Context, channel ref.ChannelID, content string) (*Message, error)

	// RecentAuditEntries returns the newest limit admin-history
	// entries of the given action type, newest first.
	RecentAuditEntries(ctx context.Context, space ref.SpaceID, actionType, limit int) ([]AuditEntry, error)

	// SpaceOwner returns the owning user of a space.
	SpaceOwner(ctx context.Context, space ref.SpaceID) (ref.UserID, error)
}
