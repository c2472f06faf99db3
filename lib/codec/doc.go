// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Warden's standard CBOR encoding configuration.
//
// Warden uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: the chat platform's REST API and
//     the on-disk state snapshot (which operators inspect and edit by
//     hand during recovery).
//   - CBOR for the internal protocol: the control socket that the
//     gateway frontend uses to drive the agent.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every Warden package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC
// 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (the control socket):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// # Struct Tag Rules
//
// The struct tag on a type documents its serialization format:
//
//   - `cbor` tag: this type is only ever serialized as CBOR (control
//     socket envelopes and payloads).
//   - `json` tag: this type may be serialized as both JSON and CBOR.
//     fxamacker/cbor v2 reads `json` tags as fallback when `cbor`
//     tags are absent, so a single `json` tag controls field naming
//     and omitempty for both formats.
//
// Never use both `cbor` and `json` tags on the same field. The tag
// choice documents the contract.
package codec
