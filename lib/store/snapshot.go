// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// ErrInconsistent reports that snapshot bytes disagree with the state
// they claim to hold: the embedded checksum does not match, or a
// post-save read-back did not reproduce the in-memory state. This is
// corruption, not a transient failure — it is never retried and never
// falls back to empty state.
var ErrInconsistent = errors.New("store: snapshot inconsistent")

// snapshotVersion is the on-disk format version. Bump only with a
// migration path for existing snapshots.
const snapshotVersion = 1

// snapshotDomainKey is the BLAKE3 keyed-hash domain for snapshot
// checksums. The byte values are the ASCII encoding of the domain
// name, zero-padded to 32 bytes; readable ASCII makes the key
// inspectable in hex dumps without sacrificing any cryptographic
// property.
var snapshotDomainKey = [32]byte{
	'w', 'a', 'r', 'd', 'e', 'n', '.', 's', 't', 'o', 'r', 'e', '.',
	's', 'n', 'a', 'p', 's', 'h', 'o', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// envelope is the on-disk snapshot format: a version, a checksum over
// the canonical state bytes, and the state itself. The file is JSON
// so operators can inspect and, in emergencies, hand-edit it; the
// checksum catches torn writes and accidental corruption, not
// malice.
type envelope struct {
	Version  int             `json:"version"`
	Checksum string          `json:"checksum"`
	State    json.RawMessage `json:"state"`
}

// canonicalState returns the deterministic JSON encoding of state.
// encoding/json sorts map keys and our ID types marshal as plain
// strings, so the same logical state always produces identical bytes.
func canonicalState(state *State) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshaling state: %w", err)
	}
	return data, nil
}

// checksumState computes the hex BLAKE3 keyed hash of canonical state
// bytes.
func checksumState(canonical []byte) string {
	hasher, err := blake3.NewKeyed(snapshotDomainKey[:])
	if err != nil {
		panic("store: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(canonical)
	return hex.EncodeToString(hasher.Sum(nil))
}

// encodeSnapshot renders the full snapshot file contents for state.
func encodeSnapshot(state *State) ([]byte, error) {
	canonical, err := canonicalState(state)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(envelope{
		Version:  snapshotVersion,
		Checksum: checksumState(canonical),
		State:    canonical,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot envelope: %w", err)
	}
	// Trailing newline for clean file content.
	return append(data, '\n'), nil
}

// decodeSnapshot parses and verifies snapshot file contents. Returns
// ErrInconsistent (wrapped) if the checksum does not match the state
// bytes.
func decodeSnapshot(data []byte) (*State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: parsing envelope: %v", ErrInconsistent, err)
	}
	if env.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", ErrInconsistent, env.Version)
	}

	state := NewState()
	if err := json.Unmarshal(env.State, state); err != nil {
		return nil, fmt.Errorf("%w: parsing state: %v", ErrInconsistent, err)
	}

	// Verify against the re-canonicalized state rather than the raw
	// bytes so that a hand-edited but checksum-updated snapshot with
	// different whitespace still loads.
	state.normalize()
	canonical, err := canonicalState(state)
	if err != nil {
		return nil, err
	}
	if checksumState(canonical) != env.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrInconsistent)
	}

	return state, nil
}

// writeFileAtomic writes data to path via a temporary file in the
// same directory: write, fsync, close, rename, fsync the directory.
// A crash at any point leaves either the old file or the new file,
// never a torn mixture.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}

	// Write, sync, close — in that order. If any step fails, remove
	// the temporary file and report the first error.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming temporary file: %w", err)
	}

	// Sync the directory so the rename itself is durable.
	directory, err := os.Open(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("opening directory for sync: %w", err)
	}
	defer directory.Close()
	if err := directory.Sync(); err != nil {
		return fmt.Errorf("syncing directory: %w", err)
	}
	return nil
}
