// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/warden-foundation/warden/lib/clock"
	"github.com/warden-foundation/warden/lib/ref"
	"github.com/warden-foundation/warden/lib/store"
	"github.com/warden-foundation/warden/platform"
)

// Sentinel errors for ticket operations.
var (
	// ErrNotAuthorized is returned when the closer is neither the
	// ticket's requester, an admin, nor the owner.
	ErrNotAuthorized = errors.New("tickets: not authorized to close this ticket")

	// ErrNoTicket is returned when the channel is not an open ticket.
	ErrNoTicket = errors.New("tickets: no open ticket for channel")

	// ErrOrphanChannel is returned when a ticket channel was created
	// on the platform but its record could not be persisted, and the
	// cleanup deletion also failed. The channel exists with no state
	// behind it; an operator must remove it by hand.
	ErrOrphanChannel = errors.New("tickets: channel orphaned, manual cleanup required")
)

// Options configures NewManager.
type Options struct {
	Store   *store.Store
	Session platform.Session

	// Owner may close any ticket.
	Owner ref.UserID

	Clock  clock.Clock
	Logger *slog.Logger
}

// Manager runs the ticket lifecycle: open a numbered private channel,
// track it in durable state, close it on request. Ticket numbers are
// per-space, strictly increasing, and never reused; a per-space lock
// serializes the reserve-create-record sequence so concurrent opens
// cannot share a number.
type Manager struct {
	store   *store.Store
	session platform.Session
	owner   ref.UserID
	clock   clock.Clock
	logger  *slog.Logger

	// mu guards spaceLocks. The per-space locks themselves are held
	// across platform calls, which mu never is.
	mu         sync.Mutex
	spaceLocks map[ref.SpaceID]*sync.Mutex
}

// NewManager creates a ticket manager.
func NewManager(options Options) *Manager {
	return &Manager{
		store:      options.Store,
		session:    options.Session,
		owner:      options.Owner,
		clock:      options.Clock,
		logger:     options.Logger,
		spaceLocks: make(map[ref.SpaceID]*sync.Mutex),
	}
}

// spaceLock returns the mutex serializing ticket operations for one
// space, creating it on first use.
func (m *Manager) spaceLock(spaceID ref.SpaceID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.spaceLocks[spaceID]
	if !ok {
		lock = &sync.Mutex{}
		m.spaceLocks[spaceID] = lock
	}
	return lock
}

// Ticket describes an open ticket.
type Ticket struct {
	Space     ref.SpaceID
	Channel   ref.ChannelID
	Number    int
	Requester ref.UserID
}

// ChannelName renders the ticket's channel name.
func (t Ticket) ChannelName() string {
	return channelName(t.Number)
}

func channelName(number int) string {
	return fmt.Sprintf("ticket-%04d", number)
}

// Open creates a ticket for requester in the space: reserves the next
// number, creates a private channel visible only to the requester and
// staff, posts a greeting, and records the ticket durably.
//
// The number is reserved (and persisted) before the channel exists,
// so a failed creation burns a number — gaps are acceptable, reuse is
// not. If the channel is created but the record cannot be persisted,
// Open deletes the channel; if even that fails it returns
// ErrOrphanChannel.
func (m *Manager) Open(ctx context.Context, spaceID ref.SpaceID, requester ref.UserID) (*Ticket, error) {
	lock := m.spaceLock(spaceID)
	lock.Lock()
	defer lock.Unlock()

	var number int
	err := m.store.Update(func(state *store.State) error {
		tickets := &state.Space(spaceID).Tickets
		tickets.Counter++
		number = tickets.Counter
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tickets: reserving number: %w", err)
	}

	channel, err := m.session.CreateChannel(ctx, spaceID, channelName(number), ticketOverwrites(spaceID, requester))
	if err != nil {
		return nil, fmt.Errorf("tickets: creating channel: %w", err)
	}

	// The greeting is best-effort: the ticket is real once the
	// channel exists.
	greeting := fmt.Sprintf("Ticket #%04d opened by <@%s>. Staff will be with you shortly.", number, requester)
	if _, err := m.session.SendMessage(ctx, channel.ID, greeting); err != nil {
		m.logger.Warn("ticket greeting failed",
			"space", spaceID,
			"channel", channel.ID,
			"error", err,
		)
	}

	err = m.store.Update(func(state *store.State) error {
		tickets := &state.Space(spaceID).Tickets
		if tickets.Active == nil {
			tickets.Active = make(map[ref.ChannelID]store.TicketRecord)
		}
		if existing, ok := tickets.Active[channel.ID]; ok {
			return fmt.Errorf("tickets: channel %s already holds ticket #%04d", channel.ID, existing.Number)
		}
		tickets.Active[channel.ID] = store.TicketRecord{
			Number:    number,
			Requester: requester,
			CreatedAt: m.clock.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		// The channel exists but nothing on disk says so. Remove it
		// rather than leave a channel the agent will never manage.
		if deleteErr := m.session.DeleteChannel(ctx, channel.ID, "ticket record could not be persisted"); deleteErr != nil {
			m.logger.Error("orphaned ticket channel",
				"space", spaceID,
				"channel", channel.ID,
				"number", number,
				"save_error", err,
				"delete_error", deleteErr,
			)
			return nil, fmt.Errorf("%w: channel %s: %v", ErrOrphanChannel, channel.ID, err)
		}
		return nil, fmt.Errorf("tickets: recording ticket: %w", err)
	}

	m.logger.Info("ticket opened",
		"space", spaceID,
		"channel", channel.ID,
		"number", number,
		"requester", requester,
	)
	return &Ticket{
		Space:     spaceID,
		Channel:   channel.ID,
		Number:    number,
		Requester: requester,
	}, nil
}

// ticketOverwrites hides the channel from the space at large and
// opens it to the requester. The @everyone role shares the space's
// ID.
func ticketOverwrites(spaceID ref.SpaceID, requester ref.UserID) []platform.PermissionOverwrite {
	return []platform.PermissionOverwrite{
		{
			ID:   spaceID.String(),
			Type: platform.OverwriteRole,
			Deny: platform.PermissionString(platform.PermissionViewChannel),
		},
		{
			ID:    requester.String(),
			Type:  platform.OverwriteMember,
			Allow: platform.PermissionString(platform.PermissionViewChannel | platform.PermissionSendMessages),
		},
	}
}

// Close ends the ticket in channel. Allowed for the requester, any
// admin-badged user, and the owner. The platform channel is deleted;
// a channel that is already gone is fine — the record is removed
// either way, so manual deletions cannot wedge a ticket open.
func (m *Manager) Close(ctx context.Context, spaceID ref.SpaceID, channelID ref.ChannelID, actor ref.UserID) error {
	lock := m.spaceLock(spaceID)
	lock.Lock()
	defer lock.Unlock()

	var record store.TicketRecord
	var found, authorized bool
	m.store.View(func(state *store.State) {
		space, ok := state.Spaces[spaceID]
		if !ok {
			return
		}
		record, found = space.Tickets.Active[channelID]
		if !found {
			return
		}
		authorized = actor == record.Requester ||
			actor == m.owner ||
			state.HasBadge(actor, "admin")
	})
	if !found {
		return fmt.Errorf("%w: %s", ErrNoTicket, channelID)
	}
	if !authorized {
		return ErrNotAuthorized
	}

	if err := m.session.DeleteChannel(ctx, channelID, fmt.Sprintf("ticket #%04d closed by %s", record.Number, actor)); err != nil {
		if !platform.IsNotFound(err) {
			return fmt.Errorf("tickets: deleting channel: %w", err)
		}
		m.logger.Debug("ticket channel already gone", "channel", channelID)
	}

	err := m.store.Update(func(state *store.State) error {
		delete(state.Space(spaceID).Tickets.Active, channelID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("tickets: removing record: %w", err)
	}

	m.logger.Info("ticket closed",
		"space", spaceID,
		"channel", channelID,
		"number", record.Number,
		"actor", actor,
	)
	return nil
}

// List returns the open tickets in a space, in no particular order.
func (m *Manager) List(spaceID ref.SpaceID) []Ticket {
	var tickets []Ticket
	m.store.View(func(state *store.State) {
		space, ok := state.Spaces[spaceID]
		if !ok {
			return
		}
		for channelID, record := range space.Tickets.Active {
			tickets = append(tickets, Ticket{
				Space:     spaceID,
				Channel:   channelID,
				Number:    record.Number,
				Requester: record.Requester,
			})
		}
	})
	return tickets
}
