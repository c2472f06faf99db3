// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/warden-foundation/warden/lib/ref"
	"github.com/warden-foundation/warden/lib/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func testUser(t *testing.T, raw string) ref.UserID {
	t.Helper()
	user, err := ref.ParseUserID(raw)
	if err != nil {
		t.Fatalf("ParseUserID(%q): %v", raw, err)
	}
	return user
}

func newTestService(t *testing.T) (*Service, ref.UserID) {
	t.Helper()
	st, err := store.Open(context.Background(), store.Options{
		Path:   filepath.Join(t.TempDir(), "warden.json"),
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	owner := testUser(t, "1101467683083530331")
	return NewService(st, owner, testLogger()), owner
}

func TestGrantRevokeRoundTrip(t *testing.T) {
	service, owner := newTestService(t)
	user := testUser(t, "21431235245654425")

	if err := service.Grant(owner, user, BadgeStaff); err != nil {
		t.Fatalf("Grant: %v", err)
	}

	view := service.Show(user)
	if len(view.Badges) != 1 || view.Badges[0] != BadgeStaff {
		t.Fatalf("badges after grant = %v", view.Badges)
	}
	if view.Glyphs() != BadgeStaff.Glyph() {
		t.Errorf("glyphs = %q, want staff glyph", view.Glyphs())
	}

	if err := service.Revoke(owner, user, BadgeStaff); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if got := service.Show(user); len(got.Badges) != 0 {
		t.Errorf("badges after revoke = %v", got.Badges)
	}
}

func TestGrantDuplicate(t *testing.T) {
	service, owner := newTestService(t)
	user := testUser(t, "21431235245654425")

	if err := service.Grant(owner, user, BadgeAdmin); err != nil {
		t.Fatalf("first Grant: %v", err)
	}
	err := service.Grant(owner, user, BadgeAdmin)
	if !errors.Is(err, ErrAlreadyHeld) {
		t.Fatalf("duplicate Grant = %v, want ErrAlreadyHeld", err)
	}
}

func TestRevokeAbsent(t *testing.T) {
	service, owner := newTestService(t)
	user := testUser(t, "21431235245654425")

	err := service.Revoke(owner, user, BadgeAdmin)
	if !errors.Is(err, ErrNotHeld) {
		t.Fatalf("Revoke absent = %v, want ErrNotHeld", err)
	}
}

func TestMutationsAreOwnerOnly(t *testing.T) {
	service, _ := newTestService(t)
	intruder := testUser(t, "30000000000000001")
	user := testUser(t, "21431235245654425")

	if err := service.Grant(intruder, user, BadgeStaff); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Grant by non-owner = %v, want ErrNotOwner", err)
	}
	if err := service.Revoke(intruder, user, BadgeStaff); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Revoke by non-owner = %v, want ErrNotOwner", err)
	}
	if _, err := service.ToggleNoPrefix(intruder, user); !errors.Is(err, ErrNotOwner) {
		t.Errorf("ToggleNoPrefix by non-owner = %v, want ErrNotOwner", err)
	}

	// Nothing should have been persisted.
	if got := service.Show(user); len(got.Badges) != 0 || got.NoPrefix {
		t.Errorf("state mutated by unauthorized caller: %+v", got)
	}
}

func TestToggleNoPrefix(t *testing.T) {
	service, owner := newTestService(t)
	user := testUser(t, "21431235245654425")

	enabled, err := service.ToggleNoPrefix(owner, user)
	if err != nil || !enabled {
		t.Fatalf("first toggle = (%v, %v), want enabled", enabled, err)
	}
	if !service.Show(user).NoPrefix {
		t.Error("Show does not reflect no-prefix membership")
	}

	enabled, err = service.ToggleNoPrefix(owner, user)
	if err != nil || enabled {
		t.Fatalf("second toggle = (%v, %v), want disabled", enabled, err)
	}
}

func TestShowEmptyProfile(t *testing.T) {
	service, _ := newTestService(t)
	user := testUser(t, "21431235245654425")

	view := service.Show(user)
	if view.Glyphs() != NoBadgeGlyph {
		t.Errorf("empty profile glyphs = %q, want %q", view.Glyphs(), NoBadgeGlyph)
	}
}

func TestParseBadge(t *testing.T) {
	for _, name := range []string{"owner", "admin", "staff", "no_prefix"} {
		if _, err := ParseBadge(name); err != nil {
			t.Errorf("ParseBadge(%q): %v", name, err)
		}
	}
	if _, err := ParseBadge("legend"); err == nil {
		t.Error("ParseBadge accepted an unknown badge")
	}
}
