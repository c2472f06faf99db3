// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/warden-foundation/warden/lib/codec"
)

type ticketOpenRequest struct {
	Space     string `cbor:"space"`
	Requester string `cbor:"requester"`
}

type ticketOpenResponse struct {
	Channel string `cbor:"channel"`
	Number  int    `cbor:"number"`
	Name    string `cbor:"name"`
}

func (a *Agent) handleTicketOpen(ctx context.Context, raw []byte) (any, error) {
	var request ticketOpenRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	space, err := parseSpace("space", request.Space)
	if err != nil {
		return nil, err
	}
	requester, err := parseUser("requester", request.Requester)
	if err != nil {
		return nil, err
	}

	ticket, err := a.tickets.Open(ctx, space, requester)
	if err != nil {
		return nil, err
	}
	return ticketOpenResponse{
		Channel: ticket.Channel.String(),
		Number:  ticket.Number,
		Name:    ticket.ChannelName(),
	}, nil
}

type ticketCloseRequest struct {
	Space   string `cbor:"space"`
	Channel string `cbor:"channel"`
	Actor   string `cbor:"actor"`
}

func (a *Agent) handleTicketClose(ctx context.Context, raw []byte) (any, error) {
	var request ticketCloseRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	space, err := parseSpace("space", request.Space)
	if err != nil {
		return nil, err
	}
	channel, err := parseChannel("channel", request.Channel)
	if err != nil {
		return nil, err
	}
	actor, err := parseUser("actor", request.Actor)
	if err != nil {
		return nil, err
	}
	return nil, a.tickets.Close(ctx, space, channel, actor)
}

type ticketListRequest struct {
	Space string `cbor:"space"`
}

type ticketSummary struct {
	Channel   string `cbor:"channel"`
	Number    int    `cbor:"number"`
	Requester string `cbor:"requester"`
}

type ticketListResponse struct {
	Tickets []ticketSummary `cbor:"tickets"`
}

func (a *Agent) handleTicketList(ctx context.Context, raw []byte) (any, error) {
	var request ticketListRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	space, err := parseSpace("space", request.Space)
	if err != nil {
		return nil, err
	}

	open := a.tickets.List(space)
	summaries := make([]ticketSummary, len(open))
	for i, ticket := range open {
		summaries[i] = ticketSummary{
			Channel:   ticket.Channel.String(),
			Number:    ticket.Number,
			Requester: ticket.Requester.String(),
		}
	}
	return ticketListResponse{Tickets: summaries}, nil
}
