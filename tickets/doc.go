// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

// Package tickets opens and closes support tickets. A ticket is a
// private text channel numbered per space; the number comes from a
// durable counter that only moves forward, so a closed ticket's
// number is never handed out again. Per-space locks serialize the
// open sequence end to end — reserving the number, creating the
// channel, and recording the ticket happen under one lock so two
// concurrent requests can never collide.
package tickets
