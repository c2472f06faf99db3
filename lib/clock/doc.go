// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides a time abstraction for testable code.
//
// Production code takes a Clock and calls Real() at the composition
// root; tests substitute Fake(initial) and drive time explicitly with
// Advance. This keeps periodic work (snapshot saves, retry backoff)
// deterministic under test without real sleeps.
package clock
