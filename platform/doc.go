// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

// Package platform is the chat platform REST client.
//
// [Client] wraps the platform's HTTP API with typed methods for the
// operations the agent performs: bans, kicks, channel management,
// messages, audit log reads, and space metadata. All requests carry
// the bot token; moderation calls carry an audit log reason header.
//
// Errors from the platform decode into [APIError] with the platform's
// numeric error code; [IsForbidden] and [IsNotFound] classify the two
// families the agent treats specially. Transport failures remain
// plain wrapped errors.
//
// Domain packages depend on the [Session] interface rather than
// *Client so their tests can run against fakes.
package platform
