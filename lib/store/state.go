// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"cmp"
	"slices"
	"time"

	"github.com/warden-foundation/warden/lib/ref"
)

// State is the complete durable state of the agent: badge
// assignments, prefix-free users, and per-space antinuke and ticket
// state. All mutation happens inside [Store.Update]; State itself has
// no locking.
//
// Sets are represented as sorted slices so that the canonical JSON
// encoding is deterministic and snapshot verification can compare
// bytes.
type State struct {
	// Badges maps a user to the sorted set of badge names they hold.
	// Users with no badges have no entry.
	Badges map[ref.UserID][]string `json:"badges,omitempty"`

	// NoPrefix is the sorted set of users who may invoke commands
	// without the command prefix.
	NoPrefix []ref.UserID `json:"no_prefix,omitempty"`

	// Spaces holds per-space antinuke and ticket state.
	Spaces map[ref.SpaceID]*SpaceState `json:"spaces,omitempty"`
}

// SpaceState is the durable state scoped to a single space.
type SpaceState struct {
	Antinuke AntinukeState `json:"antinuke"`
	Tickets  TicketState   `json:"tickets"`
}

// AntinukeState configures destructive-event protection for a space.
type AntinukeState struct {
	// Enabled gates all compensating action. Disabled spaces observe
	// nothing.
	Enabled bool `json:"enabled"`

	// Whitelist is the sorted set of users exempt from compensating
	// bans.
	Whitelist []ref.UserID `json:"whitelist,omitempty"`
}

// TicketState tracks ticket numbering and open tickets for a space.
type TicketState struct {
	// Counter is the last ticket number issued. Numbers are never
	// reused, even after tickets close.
	Counter int `json:"counter"`

	// Active maps a ticket channel to its record.
	Active map[ref.ChannelID]TicketRecord `json:"active,omitempty"`
}

// TicketRecord describes one open ticket.
type TicketRecord struct {
	Number    int        `json:"number"`
	Requester ref.UserID `json:"requester"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewState returns an empty state with initialized maps.
func NewState() *State {
	return &State{
		Badges: make(map[ref.UserID][]string),
		Spaces: make(map[ref.SpaceID]*SpaceState),
	}
}

// Space returns the state for the given space, creating an empty
// entry if none exists.
func (s *State) Space(id ref.SpaceID) *SpaceState {
	if s.Spaces == nil {
		s.Spaces = make(map[ref.SpaceID]*SpaceState)
	}
	space, ok := s.Spaces[id]
	if !ok {
		space = &SpaceState{}
		s.Spaces[id] = space
	}
	return space
}

// normalize restores the sorted-set invariants after decoding a
// snapshot that may have been edited by hand.
func (s *State) normalize() {
	for user, badges := range s.Badges {
		s.Badges[user] = sortUnique(badges, cmp.Compare[string])
	}
	s.NoPrefix = sortUniqueUsers(s.NoPrefix)
	for _, space := range s.Spaces {
		space.Antinuke.Whitelist = sortUniqueUsers(space.Antinuke.Whitelist)
	}
}

// HasBadge reports whether the user holds the named badge.
func (s *State) HasBadge(user ref.UserID, badge string) bool {
	_, found := slices.BinarySearch(s.Badges[user], badge)
	return found
}

// AddBadge inserts badge into the user's sorted badge set. Returns
// false if the user already held it.
func (s *State) AddBadge(user ref.UserID, badge string) bool {
	held := s.Badges[user]
	index, found := slices.BinarySearch(held, badge)
	if found {
		return false
	}
	if s.Badges == nil {
		s.Badges = make(map[ref.UserID][]string)
	}
	s.Badges[user] = slices.Insert(held, index, badge)
	return true
}

// RemoveBadge removes badge from the user's badge set, deleting the
// user's entry entirely when their last badge goes. Returns false if
// the user did not hold it.
func (s *State) RemoveBadge(user ref.UserID, badge string) bool {
	held := s.Badges[user]
	index, found := slices.BinarySearch(held, badge)
	if !found {
		return false
	}
	held = slices.Delete(held, index, index+1)
	if len(held) == 0 {
		delete(s.Badges, user)
	} else {
		s.Badges[user] = held
	}
	return true
}

// HasNoPrefix reports whether the user is in the prefix-free set.
func (s *State) HasNoPrefix(user ref.UserID) bool {
	_, found := searchUsers(s.NoPrefix, user)
	return found
}

// ToggleNoPrefix flips the user's membership in the prefix-free set
// and reports the new membership.
func (s *State) ToggleNoPrefix(user ref.UserID) bool {
	index, found := searchUsers(s.NoPrefix, user)
	if found {
		s.NoPrefix = slices.Delete(s.NoPrefix, index, index+1)
		return false
	}
	s.NoPrefix = slices.Insert(s.NoPrefix, index, user)
	return true
}

// IsWhitelisted reports whether the user is on the space's antinuke
// whitelist.
func (a *AntinukeState) IsWhitelisted(user ref.UserID) bool {
	_, found := searchUsers(a.Whitelist, user)
	return found
}

// AddWhitelist inserts the user into the whitelist. Returns false if
// already present.
func (a *AntinukeState) AddWhitelist(user ref.UserID) bool {
	index, found := searchUsers(a.Whitelist, user)
	if found {
		return false
	}
	a.Whitelist = slices.Insert(a.Whitelist, index, user)
	return true
}

// RemoveWhitelist removes the user from the whitelist. Returns false
// if not present.
func (a *AntinukeState) RemoveWhitelist(user ref.UserID) bool {
	index, found := searchUsers(a.Whitelist, user)
	if !found {
		return false
	}
	a.Whitelist = slices.Delete(a.Whitelist, index, index+1)
	return true
}

func searchUsers(users []ref.UserID, target ref.UserID) (int, bool) {
	return slices.BinarySearchFunc(users, target, compareUsers)
}

func sortUniqueUsers(users []ref.UserID) []ref.UserID {
	return sortUnique(users, compareUsers)
}

func sortUnique[T comparable](values []T, compare func(a, b T) int) []T {
	if len(values) == 0 {
		return nil
	}
	slices.SortFunc(values, compare)
	return slices.CompactFunc(values, func(a, b T) bool { return a == b })
}

func compareUsers(a, b ref.UserID) int {
	return cmp.Compare(a.String(), b.String())
}
