// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// backupSuffix names the compressed previous-generation snapshot kept
// alongside the live file.
const backupSuffix = ".1.zst"

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. zstd.Encoder and zstd.Decoder
// are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("store: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("store: zstd decoder initialization failed: " + err.Error())
	}
}

// rotateBackup compresses the current snapshot at path into
// path+".1.zst", replacing any previous backup. A missing snapshot
// (first save) is not an error.
func rotateBackup(path string) error {
	current, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading snapshot for backup: %w", err)
	}

	compressed := zstdEncoder.EncodeAll(current, nil)
	if err := writeFileAtomic(path+backupSuffix, compressed, 0o600); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

// loadBackup decompresses and verifies the previous-generation
// snapshot for path. Returns os.ErrNotExist (wrapped) if no backup
// exists.
func loadBackup(path string) (*State, error) {
	compressed, err := os.ReadFile(path + backupSuffix)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	data, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing backup: %w", err)
	}

	return decodeSnapshot(data)
}
