// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/warden-foundation/warden/lib/clock"
)

// Options configures Open.
type Options struct {
	// Path is the snapshot file location.
	Path string

	// Clock drives retry backoff and periodic saves. Defaults to the
	// real clock.
	Clock clock.Clock

	// Logger receives persistence events. Required.
	Logger *slog.Logger

	// Retries is how many load attempts are made before giving up.
	// Defaults to 3.
	Retries int

	// Backoff is the delay before the first retry; each subsequent
	// retry doubles it. Defaults to 1s.
	Backoff time.Duration

	// AllowFresh permits starting with empty state when every load
	// attempt failed with a transient I/O error. Corrupt snapshots
	// never fall back regardless of this setting.
	AllowFresh bool
}

// Store owns the agent's durable state. All reads go through View and
// all mutations through Update; Update persists synchronously and
// verifies the write before returning. A background saver
// (RunPeriodicSave) re-persists dirty state as a safety net.
type Store struct {
	path   string
	clock  clock.Clock
	logger *slog.Logger

	mu    sync.Mutex
	state *State

	// dirty is set when in-memory state has mutations that are not
	// confirmed on disk (a synchronous save failed). The periodic
	// saver retries these.
	dirty bool
}

// Open loads the snapshot at options.Path, retrying transient I/O
// failures with exponential backoff. A missing file is a normal first
// run and yields empty state. A corrupt snapshot (ErrInconsistent)
// falls back to the compressed backup generation; if that also fails,
// Open returns the corruption error — operator intervention is
// required, empty state would silently discard every badge and
// ticket.
func Open(ctx context.Context, options Options) (*Store, error) {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Retries < 1 {
		options.Retries = 3
	}
	if options.Backoff <= 0 {
		options.Backoff = time.Second
	}

	store := &Store{
		path:   options.Path,
		clock:  options.Clock,
		logger: options.Logger,
	}

	state, err := loadWithRetry(ctx, options)
	if err != nil {
		return nil, err
	}
	store.state = state
	return store, nil
}

// loadWithRetry implements Open's retry and fallback policy.
func loadWithRetry(ctx context.Context, options Options) (*State, error) {
	backoff := options.Backoff

	for attempt := 1; ; attempt++ {
		data, err := os.ReadFile(options.Path)
		if err == nil {
			state, decodeErr := decodeSnapshot(data)
			if decodeErr == nil {
				options.Logger.Info("state loaded",
					"path", options.Path,
					"spaces", len(state.Spaces),
				)
				return state, nil
			}
			err = decodeErr
		}

		if os.IsNotExist(err) {
			options.Logger.Info("no state snapshot, starting fresh", "path", options.Path)
			return NewState(), nil
		}

		if errors.Is(err, ErrInconsistent) {
			options.Logger.Error("state snapshot corrupt, trying backup",
				"path", options.Path,
				"error", err,
			)
			state, backupErr := loadBackup(options.Path)
			if backupErr != nil {
				options.Logger.Error("backup unusable",
					"path", options.Path+backupSuffix,
					"error", backupErr,
				)
				return nil, err
			}
			options.Logger.Warn("recovered state from backup generation",
				"path", options.Path+backupSuffix,
			)
			return state, nil
		}

		if attempt >= options.Retries {
			if options.AllowFresh {
				options.Logger.Error("state load failed after retries, starting with EMPTY state",
					"path", options.Path,
					"attempts", attempt,
					"error", err,
				)
				return NewState(), nil
			}
			return nil, fmt.Errorf("loading state after %d attempts: %w", attempt, err)
		}

		options.Logger.Warn("state load failed, retrying",
			"path", options.Path,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)
		select {
		case <-options.Clock.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
}

// View calls fn with the current state under the store lock. fn must
// not retain references to state internals after returning.
func (s *Store) View(fn func(state *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Update calls fn with the state under the store lock, then persists
// and verifies the snapshot. If fn returns an error, nothing is
// saved — fn must validate before mutating. If the save fails, the
// mutation stays in memory, the store is marked dirty for the
// periodic saver, and the error is returned.
func (s *Store) Update(fn func(state *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.state); err != nil {
		return err
	}

	s.dirty = true
	if err := s.saveLocked(); err != nil {
		s.logger.Error("state save failed, mutation held in memory", "error", err)
		return err
	}
	return nil
}

// Save persists the current state unconditionally. Used at shutdown.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked writes the snapshot, rotates the backup generation, and
// verifies the written file round-trips to the in-memory state.
// Caller holds s.mu.
func (s *Store) saveLocked() error {
	data, err := encodeSnapshot(s.state)
	if err != nil {
		return err
	}

	// Keep the previous generation before overwriting. A backup
	// failure is logged but does not block the live save.
	if err := rotateBackup(s.path); err != nil {
		s.logger.Warn("backup rotation failed", "error", err)
	}

	if err := writeFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	if err := s.verifyLocked(); err != nil {
		return err
	}

	s.dirty = false
	return nil
}

// verifyLocked reads the snapshot back and confirms it reproduces the
// in-memory state. Caller holds s.mu.
func (s *Store) verifyLocked() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading back snapshot: %w", err)
	}
	written, err := decodeSnapshot(data)
	if err != nil {
		return err
	}

	wantBytes, err := canonicalState(s.state)
	if err != nil {
		return err
	}
	gotBytes, err := canonicalState(written)
	if err != nil {
		return err
	}
	if string(wantBytes) != string(gotBytes) {
		return fmt.Errorf("%w: written snapshot does not reproduce in-memory state", ErrInconsistent)
	}
	return nil
}

// RunPeriodicSave persists the state every interval until ctx is
// cancelled. Mutations normally persist synchronously in Update; this
// loop retries the saves that failed and rewrites the snapshot if it
// was deleted or damaged on disk between ticks.
func (s *Store) RunPeriodicSave(ctx context.Context, interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		wasDirty := s.dirty
		err := s.saveLocked()
		s.mu.Unlock()

		if err != nil {
			s.logger.Error("periodic state save failed", "error", err)
		} else if wasDirty {
			s.logger.Info("periodic save flushed pending state")
		}
	}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}
