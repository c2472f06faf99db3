// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/warden-foundation/warden/lib/codec"
	"github.com/warden-foundation/warden/profile"
)

// badgeRequest is shared by badge-grant and badge-revoke.
type badgeRequest struct {
	// Actor is the user issuing the command. Only the owner may
	// manage badges.
	Actor string `cbor:"actor"`
	User  string `cbor:"user"`
	Badge string `cbor:"badge"`
}

func (a *Agent) handleBadgeGrant(ctx context.Context, raw []byte) (any, error) {
	var request badgeRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	actor, err := parseUser("actor", request.Actor)
	if err != nil {
		return nil, err
	}
	user, err := parseUser("user", request.User)
	if err != nil {
		return nil, err
	}
	badge, err := profile.ParseBadge(request.Badge)
	if err != nil {
		return nil, err
	}
	if err := a.profiles.Grant(actor, user, badge); err != nil {
		return nil, err
	}
	return nil, nil
}

func (a *Agent) handleBadgeRevoke(ctx context.Context, raw []byte) (any, error) {
	var request badgeRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	actor, err := parseUser("actor", request.Actor)
	if err != nil {
		return nil, err
	}
	user, err := parseUser("user", request.User)
	if err != nil {
		return nil, err
	}
	badge, err := profile.ParseBadge(request.Badge)
	if err != nil {
		return nil, err
	}
	if err := a.profiles.Revoke(actor, user, badge); err != nil {
		return nil, err
	}
	return nil, nil
}

type badgeShowRequest struct {
	User string `cbor:"user"`
}

// badgeShowResponse carries everything the frontend needs to render a
// profile card: badge names for logic, glyphs for display.
type badgeShowResponse struct {
	User   string   `cbor:"user"`
	Badges []string `cbor:"badges"`

	// Glyphs is the rendered glyph line, ready for display.
	Glyphs   string `cbor:"glyphs"`
	NoPrefix bool   `cbor:"no_prefix"`
}

func (a *Agent) handleBadgeShow(ctx context.Context, raw []byte) (any, error) {
	var request badgeShowRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	user, err := parseUser("user", request.User)
	if err != nil {
		return nil, err
	}

	view := a.profiles.Show(user)
	badges := make([]string, len(view.Badges))
	for i, badge := range view.Badges {
		badges[i] = badge.String()
	}
	return badgeShowResponse{
		User:     user.String(),
		Badges:   badges,
		Glyphs:   view.Glyphs(),
		NoPrefix: view.NoPrefix,
	}, nil
}

type noPrefixRequest struct {
	Actor string `cbor:"actor"`
	User  string `cbor:"user"`
}

type noPrefixResponse struct {
	// Enabled is the user's no-prefix membership after the toggle.
	Enabled bool `cbor:"enabled"`
}

func (a *Agent) handleNoPrefixToggle(ctx context.Context, raw []byte) (any, error) {
	var request noPrefixRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	actor, err := parseUser("actor", request.Actor)
	if err != nil {
		return nil, err
	}
	user, err := parseUser("user", request.User)
	if err != nil {
		return nil, err
	}
	enabled, err := a.profiles.ToggleNoPrefix(actor, user)
	if err != nil {
		return nil, err
	}
	return noPrefixResponse{Enabled: enabled}, nil
}
