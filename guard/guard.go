// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/warden-foundation/warden/lib/clock"
	"github.com/warden-foundation/warden/lib/ref"
	"github.com/warden-foundation/warden/lib/store"
	"github.com/warden-foundation/warden/platform"
)

// banReason is the audit log reason attached to compensating actions.
const banReason = "warden antinuke"

// Options configures NewGuard.
type Options struct {
	Store   *store.Store
	Session platform.Session

	// Owner is the configured agent owner, always exempt from
	// compensating bans.
	Owner ref.UserID

	// MaxAge is the correlation window: how old an admin-history
	// entry may be and still count as this event's actor.
	MaxAge time.Duration

	// Clock defaults to the real clock.
	Clock clock.Clock

	Logger *slog.Logger
}

// Guard reacts to destructive events in protected spaces by banning
// the responsible administrator and undoing what can be undone. It
// never acts when it cannot name an actor with confidence.
type Guard struct {
	store   *store.Store
	session platform.Session
	owner   ref.UserID
	maxAge  time.Duration
	clock   clock.Clock
	logger  *slog.Logger
}

// NewGuard creates a guard.
func NewGuard(options Options) *Guard {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	return &Guard{
		store:   options.Store,
		session: options.Session,
		owner:   options.Owner,
		maxAge:  options.MaxAge,
		clock:   options.Clock,
		logger:  options.Logger,
	}
}

// HandleEvent processes one destructive event. Disabled spaces,
// unresolved actors, and exempt actors are all clean no-ops. For a
// resolved non-exempt actor the guard bans them, and for member bans
// it first unbans the victim.
//
// Permission refusals from the platform are suppressed and logged: a
// guard that has lost its own permissions must not take down the
// event path. Other platform failures are returned.
func (g *Guard) HandleEvent(ctx context.Context, event Event) error {
	if _, known := auditActions[event.Kind]; !known {
		return fmt.Errorf("guard: unknown event kind %q", event.Kind)
	}

	var enabled bool
	g.store.View(func(state *store.State) {
		if space, ok := state.Spaces[event.Space]; ok {
			enabled = space.Antinuke.Enabled
		}
	})
	if !enabled {
		return nil
	}

	actor, err := g.resolveActor(ctx, event)
	if err != nil {
		return err
	}
	if actor.IsZero() {
		g.logger.Debug("actor unresolved, no action taken",
			"space", event.Space,
			"kind", event.Kind,
		)
		return nil
	}

	exempt, err := g.isExempt(ctx, event.Space, actor)
	if err != nil {
		return err
	}
	if exempt {
		g.logger.Debug("actor exempt",
			"space", event.Space,
			"kind", event.Kind,
			"actor", actor,
		)
		return nil
	}

	return g.compensate(ctx, event, actor)
}

// isExempt reports whether the actor is beyond the guard's reach: the
// configured owner, the space's owning user, or whitelisted.
func (g *Guard) isExempt(ctx context.Context, spaceID ref.SpaceID, actor ref.UserID) (bool, error) {
	if actor == g.owner {
		return true, nil
	}

	var whitelisted bool
	g.store.View(func(state *store.State) {
		if space, ok := state.Spaces[spaceID]; ok {
			whitelisted = space.Antinuke.IsWhitelisted(actor)
		}
	})
	if whitelisted {
		return true, nil
	}

	spaceOwner, err := g.session.SpaceOwner(ctx, spaceID)
	if err != nil {
		return false, fmt.Errorf("guard: resolving space owner: %w", err)
	}
	return actor == spaceOwner, nil
}

// compensate executes the reaction for a resolved, non-exempt actor.
func (g *Guard) compensate(ctx context.Context, event Event, actor ref.UserID) error {
	// For a ban event the victim comes back first. An already-lifted
	// ban is fine; the goal state is "not banned".
	if event.Kind == EventMemberBan && !event.TargetUser.IsZero() {
		err := g.session.UnbanUser(ctx, event.Space, event.TargetUser, banReason)
		switch {
		case err == nil:
			g.logger.Info("unbanned victim",
				"space", event.Space,
				"user", event.TargetUser,
			)
		case platform.IsNotFound(err):
			// Ban already lifted.
		case platform.IsForbidden(err):
			g.logger.Warn("cannot unban victim, missing permissions",
				"space", event.Space,
				"user", event.TargetUser,
			)
		default:
			return err
		}
	}

	err := g.session.BanUser(ctx, event.Space, actor, banReason)
	switch {
	case err == nil:
		g.logger.Info("banned actor",
			"space", event.Space,
			"kind", event.Kind,
			"actor", actor,
		)
		return nil
	case platform.IsForbidden(err):
		g.logger.Warn("cannot ban actor, missing permissions",
			"space", event.Space,
			"kind", event.Kind,
			"actor", actor,
		)
		return nil
	default:
		return err
	}
}

// SetEnabled turns protection on or off for a space and reports
// whether the setting changed. Admin gating happens at the gateway
// frontend, which verifies platform permissions before forwarding.
func (g *Guard) SetEnabled(spaceID ref.SpaceID, enabled bool) (bool, error) {
	var changed bool
	err := g.store.Update(func(state *store.State) error {
		antinuke := &state.Space(spaceID).Antinuke
		changed = antinuke.Enabled != enabled
		antinuke.Enabled = enabled
		return nil
	})
	if err != nil {
		return false, err
	}
	if changed {
		g.logger.Info("antinuke toggled", "space", spaceID, "enabled", enabled)
	}
	return changed, nil
}

// Whitelist exempts a user from compensating bans in a space. Returns
// false if already whitelisted.
func (g *Guard) Whitelist(spaceID ref.SpaceID, user ref.UserID) (bool, error) {
	var added bool
	err := g.store.Update(func(state *store.State) error {
		added = state.Space(spaceID).Antinuke.AddWhitelist(user)
		return nil
	})
	if err != nil {
		return false, err
	}
	if added {
		g.logger.Info("whitelisted", "space", spaceID, "user", user)
	}
	return added, nil
}

// Unwhitelist removes a user's exemption. Returns false if they were
// not whitelisted.
func (g *Guard) Unwhitelist(spaceID ref.SpaceID, user ref.UserID) (bool, error) {
	var removed bool
	err := g.store.Update(func(state *store.State) error {
		removed = state.Space(spaceID).Antinuke.RemoveWhitelist(user)
		return nil
	})
	if err != nil {
		return false, err
	}
	if removed {
		g.logger.Info("unwhitelisted", "space", spaceID, "user", user)
	}
	return removed, nil
}

// Status returns a space's protection setting and whitelist.
func (g *Guard) Status(spaceID ref.SpaceID) (enabled bool, whitelist []ref.UserID) {
	g.store.View(func(state *store.State) {
		space, ok := state.Spaces[spaceID]
		if !ok {
			return
		}
		enabled = space.Antinuke.Enabled
		whitelist = append(whitelist, space.Antinuke.Whitelist...)
	})
	return enabled, whitelist
}
