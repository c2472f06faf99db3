// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

// Package service implements the CBOR control socket protocol between
// the gateway frontend and the Warden agent.
//
// The agent owns all durable state and platform credentials; the
// frontend that terminates the chat platform's event stream holds
// neither. It drives the agent over a Unix socket: one CBOR request
// per connection, one CBOR response back, connection closed.
//
// [SocketServer] is the agent side: register an [ActionFunc] per
// action name with Handle, then Serve until the context is cancelled.
// Serve drains in-flight handlers before returning.
//
// [Client] is the frontend side: Call opens a connection, sends the
// action plus its fields as a CBOR map, and decodes the response.
// Server-reported failures come back as *[CallError]; transport
// failures as plain errors.
package service
