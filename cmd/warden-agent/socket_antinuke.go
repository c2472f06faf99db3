// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/warden-foundation/warden/guard"
	"github.com/warden-foundation/warden/lib/codec"
)

type antinukeSetRequest struct {
	Space   string `cbor:"space"`
	Enabled bool   `cbor:"enabled"`
}

// changedResponse reports whether a configuration mutation actually
// changed anything, so the frontend can word its reply ("enabled"
// versus "was already enabled").
type changedResponse struct {
	Changed bool `cbor:"changed"`
}

func (a *Agent) handleAntinukeSet(ctx context.Context, raw []byte) (any, error) {
	var request antinukeSetRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	space, err := parseSpace("space", request.Space)
	if err != nil {
		return nil, err
	}
	changed, err := a.guard.SetEnabled(space, request.Enabled)
	if err != nil {
		return nil, err
	}
	return changedResponse{Changed: changed}, nil
}

type whitelistRequest struct {
	Space string `cbor:"space"`
	User  string `cbor:"user"`
}

func (a *Agent) handleWhitelistAdd(ctx context.Context, raw []byte) (any, error) {
	var request whitelistRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	space, err := parseSpace("space", request.Space)
	if err != nil {
		return nil, err
	}
	user, err := parseUser("user", request.User)
	if err != nil {
		return nil, err
	}
	changed, err := a.guard.Whitelist(space, user)
	if err != nil {
		return nil, err
	}
	return changedResponse{Changed: changed}, nil
}

func (a *Agent) handleWhitelistRemove(ctx context.Context, raw []byte) (any, error) {
	var request whitelistRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	space, err := parseSpace("space", request.Space)
	if err != nil {
		return nil, err
	}
	user, err := parseUser("user", request.User)
	if err != nil {
		return nil, err
	}
	changed, err := a.guard.Unwhitelist(space, user)
	if err != nil {
		return nil, err
	}
	return changedResponse{Changed: changed}, nil
}

type antinukeStatusRequest struct {
	Space string `cbor:"space"`
}

type antinukeStatusResponse struct {
	Enabled   bool     `cbor:"enabled"`
	Whitelist []string `cbor:"whitelist"`
}

func (a *Agent) handleAntinukeStatus(ctx context.Context, raw []byte) (any, error) {
	var request antinukeStatusRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	space, err := parseSpace("space", request.Space)
	if err != nil {
		return nil, err
	}

	enabled, whitelist := a.guard.Status(space)
	users := make([]string, len(whitelist))
	for i, user := range whitelist {
		users[i] = user.String()
	}
	return antinukeStatusResponse{Enabled: enabled, Whitelist: users}, nil
}

// guardEventRequest reports a destructive event the frontend observed
// on the event stream.
type guardEventRequest struct {
	Kind  string `cbor:"kind"`
	Space string `cbor:"space"`

	// TargetUser is set for member-ban and member-kick events.
	TargetUser string `cbor:"target_user,omitempty"`

	// TargetID is the deleted channel or role ID, or the target
	// user's ID for member events.
	TargetID string `cbor:"target_id"`
}

func (a *Agent) handleGuardEvent(ctx context.Context, raw []byte) (any, error) {
	var request guardEventRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	kind, err := guard.ParseEventKind(request.Kind)
	if err != nil {
		return nil, err
	}
	space, err := parseSpace("space", request.Space)
	if err != nil {
		return nil, err
	}
	event := guard.Event{
		Kind:     kind,
		Space:    space,
		TargetID: request.TargetID,
	}
	if request.TargetUser != "" {
		event.TargetUser, err = parseUser("target_user", request.TargetUser)
		if err != nil {
			return nil, err
		}
	}
	return nil, a.guard.HandleEvent(ctx, event)
}
