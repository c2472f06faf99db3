// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/warden-foundation/warden/guard"
	"github.com/warden-foundation/warden/lib/clock"
	"github.com/warden-foundation/warden/lib/ref"
	"github.com/warden-foundation/warden/lib/service"
	"github.com/warden-foundation/warden/lib/store"
	"github.com/warden-foundation/warden/profile"
	"github.com/warden-foundation/warden/tickets"
)

// Agent bundles the domain services behind the control socket. The
// gateway frontend is the only client; it has already verified that
// the acting user issued the command, so requests carry plain user
// IDs and the agent enforces its own authority rules (owner-only
// badge management, ticket close authorization) on top.
type Agent struct {
	store    *store.Store
	profiles *profile.Service
	guard    *guard.Guard
	tickets  *tickets.Manager

	startedAt time.Time
	clock     clock.Clock
	logger    *slog.Logger
}

// registerActions wires every socket action. Grouped by concern:
// profile (badges, no-prefix), antinuke configuration, destructive
// event reports, and tickets.
func (a *Agent) registerActions(server *service.SocketServer) {
	server.Handle("status", a.handleStatus)
	server.Handle("save", a.handleSave)

	server.Handle("badge-grant", a.handleBadgeGrant)
	server.Handle("badge-revoke", a.handleBadgeRevoke)
	server.Handle("badge-show", a.handleBadgeShow)
	server.Handle("no-prefix-toggle", a.handleNoPrefixToggle)

	server.Handle("antinuke-set", a.handleAntinukeSet)
	server.Handle("antinuke-whitelist-add", a.handleWhitelistAdd)
	server.Handle("antinuke-whitelist-remove", a.handleWhitelistRemove)
	server.Handle("antinuke-status", a.handleAntinukeStatus)
	server.Handle("guard-event", a.handleGuardEvent)

	server.Handle("ticket-open", a.handleTicketOpen)
	server.Handle("ticket-close", a.handleTicketClose)
	server.Handle("ticket-list", a.handleTicketList)
}

// statusResponse is the response to the "status" action.
type statusResponse struct {
	UptimeSeconds float64 `cbor:"uptime_seconds"`

	// Spaces is the number of spaces with any tracked state.
	Spaces int `cbor:"spaces"`

	// OpenTickets counts active tickets across all spaces.
	OpenTickets int `cbor:"open_tickets"`

	StatePath string `cbor:"state_path"`
}

func (a *Agent) handleStatus(ctx context.Context, raw []byte) (any, error) {
	response := statusResponse{
		UptimeSeconds: a.clock.Now().Sub(a.startedAt).Seconds(),
		StatePath:     a.store.Path(),
	}
	a.store.View(func(state *store.State) {
		response.Spaces = len(state.Spaces)
		for _, space := range state.Spaces {
			response.OpenTickets += len(space.Tickets.Active)
		}
	})
	return response, nil
}

// handleSave forces a synchronous state flush. Mutating actions save
// on their own; this is an operator tool for checking that the state
// file is writable and current.
func (a *Agent) handleSave(ctx context.Context, raw []byte) (any, error) {
	return nil, a.store.Save()
}

// parseUser wraps ref.ParseUserID with the request field name so the
// frontend sees which field was malformed.
func parseUser(field, raw string) (ref.UserID, error) {
	user, err := ref.ParseUserID(raw)
	if err != nil {
		return ref.UserID{}, fieldError(field, err)
	}
	return user, nil
}

func parseSpace(field, raw string) (ref.SpaceID, error) {
	space, err := ref.ParseSpaceID(raw)
	if err != nil {
		return ref.SpaceID{}, fieldError(field, err)
	}
	return space, nil
}

func parseChannel(field, raw string) (ref.ChannelID, error) {
	channel, err := ref.ParseChannelID(raw)
	if err != nil {
		return ref.ChannelID{}, fieldError(field, err)
	}
	return channel, nil
}

type requestFieldError struct {
	field string
	err   error
}

func fieldError(field string, err error) error {
	return &requestFieldError{field: field, err: err}
}

func (e *requestFieldError) Error() string {
	return e.field + ": " + e.err.Error()
}

func (e *requestFieldError) Unwrap() error { return e.err }
