// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"context"
	"fmt"

	"github.com/warden-foundation/warden/lib/ref"
)

// resolveActor identifies who performed the event by reading the
// space's admin history. Only the single newest entry of the matching
// action type is considered: if a burst of admins act at once the
// entry may describe a different action, in which case the actor is
// unresolved and the guard does nothing — a deliberate bias toward
// inaction over punishing the wrong admin.
//
// Returns the zero UserID when no entry matches: no history, a
// target mismatch, or an entry older than the correlation window
// (stale history describes some earlier action, not this event).
func (g *Guard) resolveActor(ctx context.Context, event Event) (ref.UserID, error) {
	entries, err := g.session.RecentAuditEntries(ctx, event.Space, auditActions[event.Kind], 1)
	if err != nil {
		return ref.UserID{}, fmt.Errorf("guard: reading admin history: %w", err)
	}
	if len(entries) == 0 {
		return ref.UserID{}, nil
	}

	entry := entries[0]
	if event.TargetID != "" && entry.TargetID != event.TargetID {
		g.logger.Debug("newest admin-history entry targets something else",
			"space", event.Space,
			"kind", event.Kind,
			"entry_target", entry.TargetID,
			"event_target", event.TargetID,
		)
		return ref.UserID{}, nil
	}

	age := g.clock.Now().Sub(entry.CreatedAt())
	if age > g.maxAge {
		g.logger.Debug("newest admin-history entry too old",
			"space", event.Space,
			"kind", event.Kind,
			"age", age,
		)
		return ref.UserID{}, nil
	}

	return entry.ActorID, nil
}
