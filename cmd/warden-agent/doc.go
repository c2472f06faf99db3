// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

// warden-agent is the moderation agent behind a Warden deployment. It
// owns the durable state (badges, no-prefix roster, antinuke
// configuration, open tickets) and the outbound platform REST client,
// and exposes its operations over a CBOR Unix control socket.
//
// The gateway frontend holds the event stream connection and
// translates user commands and destructive events into socket
// actions; the agent makes the decisions and performs the platform
// calls. Splitting the two keeps state ownership in one process while
// the frontend can restart or be replaced freely.
package main
