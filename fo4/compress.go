// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package fo4

import (
	"fmt"

	"github.com/aldmeris/bsarc"
)

// CompressFiles compresses every decompressed chunk of the files
// selected by rules, in place. The rule path is the stored file name and
// the size gate applies to the file's total decompressed size. It
// returns the number of chunks transitioned. A nil rule set selects
// nothing.
func (a *Archive) CompressFiles(rules *bsarc.CompressRules, opts CompressionOptions) (int, error) {
	transitioned := 0
	for _, entry := range a.entries {
		if !rules.Match(entry.Key.name, entry.File.DecompressedLen()) {
			continue
		}

		for i, chunk := range entry.File.chunks {
			if chunk.IsCompressed() {
				continue
			}
			if err := chunk.Compress(opts); err != nil {
				return transitioned, fmt.Errorf("compress %q chunk %d: %w", entry.Key.name, i, err)
			}
			transitioned++
		}
	}

	return transitioned, nil
}

// DecompressFiles decompresses every compressed chunk in place. It
// returns the number of chunks transitioned.
func (a *Archive) DecompressFiles(opts CompressionOptions) (int, error) {
	transitioned := 0
	for _, entry := range a.entries {
		for i, chunk := range entry.File.chunks {
			if !chunk.IsCompressed() {
				continue
			}
			if err := chunk.Decompress(opts); err != nil {
				return transitioned, fmt.Errorf("decompress %q chunk %d: %w", entry.Key.name, i, err)
			}
			transitioned++
		}
	}

	return transitioned, nil
}
