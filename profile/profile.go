// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/warden-foundation/warden/lib/ref"
	"github.com/warden-foundation/warden/lib/store"
)

// Sentinel errors for badge and no-prefix mutations.
var (
	// ErrNotOwner is returned when anyone but the configured owner
	// attempts a mutation.
	ErrNotOwner = errors.New("profile: only the owner may do this")

	// ErrAlreadyHeld is returned when granting a badge the user
	// already holds.
	ErrAlreadyHeld = errors.New("profile: badge already held")

	// ErrNotHeld is returned when revoking a badge the user does not
	// hold.
	ErrNotHeld = errors.New("profile: badge not held")
)

// Service manages badge assignments and the prefix-free user set.
// All mutations are restricted to the configured owner and persist
// through the store before returning.
type Service struct {
	store  *store.Store
	owner  ref.UserID
	logger *slog.Logger
}

// NewService creates a profile service.
func NewService(st *store.Store, owner ref.UserID, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		owner:  owner,
		logger: logger,
	}
}

// Grant gives user the badge. Only the owner may grant.
func (s *Service) Grant(actor, user ref.UserID, badge Badge) error {
	if actor != s.owner {
		return ErrNotOwner
	}

	err := s.store.Update(func(state *store.State) error {
		if !state.AddBadge(user, badge.String()) {
			return fmt.Errorf("%w: %s already has %s", ErrAlreadyHeld, user, badge)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("badge granted", "user", user, "badge", badge)
	return nil
}

// Revoke removes the badge from user. Only the owner may revoke.
func (s *Service) Revoke(actor, user ref.UserID, badge Badge) error {
	if actor != s.owner {
		return ErrNotOwner
	}

	err := s.store.Update(func(state *store.State) error {
		if !state.RemoveBadge(user, badge.String()) {
			return fmt.Errorf("%w: %s does not have %s", ErrNotHeld, user, badge)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("badge revoked", "user", user, "badge", badge)
	return nil
}

// ToggleNoPrefix flips user's membership in the prefix-free set and
// returns the new membership. Only the owner may toggle.
func (s *Service) ToggleNoPrefix(actor, user ref.UserID) (bool, error) {
	if actor != s.owner {
		return false, ErrNotOwner
	}

	var enabled bool
	err := s.store.Update(func(state *store.State) error {
		enabled = state.ToggleNoPrefix(user)
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("no-prefix toggled", "user", user, "enabled", enabled)
	return enabled, nil
}

// View is a read-only snapshot of one user's profile.
type View struct {
	User     ref.UserID
	Badges   []Badge
	NoPrefix bool
}

// Glyphs renders the user's badges as a glyph string, or
// [NoBadgeGlyph] if they hold none.
func (v View) Glyphs() string {
	if len(v.Badges) == 0 {
		return NoBadgeGlyph
	}
	rendered := make([]string, len(v.Badges))
	for i, badge := range v.Badges {
		rendered[i] = badge.Glyph()
	}
	return strings.Join(rendered, " ")
}

// Show returns user's current profile. Anyone may look.
func (s *Service) Show(user ref.UserID) View {
	view := View{User: user}
	s.store.View(func(state *store.State) {
		for _, name := range state.Badges[user] {
			// Unknown names can only enter via hand-edited
			// snapshots; skip rather than render garbage.
			badge, err := ParseBadge(name)
			if err != nil {
				continue
			}
			view.Badges = append(view.Badges, badge)
		}
		view.NoPrefix = state.HasNoPrefix(user)
	})
	return view
}
