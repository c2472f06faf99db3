// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"slices"
	"testing"

	"github.com/warden-foundation/warden/lib/ref"
)

func TestBadgeSetOperations(t *testing.T) {
	user := testUser(t, "1101467683083530331")
	state := NewState()

	if !state.AddBadge(user, "staff") {
		t.Fatal("first AddBadge returned false")
	}
	if state.AddBadge(user, "staff") {
		t.Error("duplicate AddBadge returned true")
	}
	if !state.AddBadge(user, "admin") {
		t.Fatal("second AddBadge returned false")
	}

	// Insertion keeps the set sorted regardless of grant order.
	if got := state.Badges[user]; !slices.Equal(got, []string{"admin", "staff"}) {
		t.Errorf("badges = %v, want sorted [admin staff]", got)
	}

	if !state.RemoveBadge(user, "admin") {
		t.Fatal("RemoveBadge returned false for held badge")
	}
	if state.RemoveBadge(user, "admin") {
		t.Error("RemoveBadge returned true for absent badge")
	}
	if !state.HasBadge(user, "staff") {
		t.Error("unrelated badge removed")
	}
}

func TestBadgeEntryRemovedWhenEmpty(t *testing.T) {
	user := testUser(t, "1101467683083530331")
	state := NewState()

	state.AddBadge(user, "staff")
	state.RemoveBadge(user, "staff")

	if _, exists := state.Badges[user]; exists {
		t.Error("empty badge set left a map entry behind")
	}
}

func TestToggleNoPrefix(t *testing.T) {
	first := testUser(t, "1101467683083530331")
	second := testUser(t, "21431235245654425")
	state := NewState()

	if !state.ToggleNoPrefix(first) {
		t.Fatal("first toggle should enable")
	}
	if !state.ToggleNoPrefix(second) {
		t.Fatal("toggle for second user should enable")
	}
	if state.ToggleNoPrefix(first) {
		t.Fatal("second toggle should disable")
	}
	if state.HasNoPrefix(first) {
		t.Error("first user still prefix-free after disable")
	}
	if !state.HasNoPrefix(second) {
		t.Error("second user lost membership")
	}
}

func TestWhitelistOperations(t *testing.T) {
	user := testUser(t, "1101467683083530331")
	space := testSpace(t, "214312352456544256")
	state := NewState()

	antinuke := &state.Space(space).Antinuke
	if !antinuke.AddWhitelist(user) {
		t.Fatal("AddWhitelist returned false")
	}
	if antinuke.AddWhitelist(user) {
		t.Error("duplicate AddWhitelist returned true")
	}
	if !antinuke.IsWhitelisted(user) {
		t.Error("user not whitelisted after add")
	}
	if !antinuke.RemoveWhitelist(user) {
		t.Fatal("RemoveWhitelist returned false")
	}
	if antinuke.RemoveWhitelist(user) {
		t.Error("RemoveWhitelist returned true for absent user")
	}
}

func TestNormalizeRestoresSetInvariants(t *testing.T) {
	user := testUser(t, "1101467683083530331")
	state := NewState()

	// Simulate a hand-edited snapshot: unsorted, with a duplicate.
	state.Badges[user] = []string{"staff", "admin", "staff"}
	state.NoPrefix = []ref.UserID{user, user}

	state.normalize()

	if got := state.Badges[user]; !slices.Equal(got, []string{"admin", "staff"}) {
		t.Errorf("normalized badges = %v, want [admin staff]", got)
	}
	if len(state.NoPrefix) != 1 {
		t.Errorf("normalized no-prefix = %v, want single entry", state.NoPrefix)
	}
}
