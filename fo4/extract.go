// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package fo4

import (
	"context"
	"fmt"
	"io"

	"github.com/aldmeris/bsarc"
)

// Extract writes every file below dstDir using sanitized entry paths,
// concatenating chunks and decompressing on the fly. Files without
// stored names are skipped; name tables are optional in this generation.
func (a *Archive) Extract(ctx context.Context, dstDir string, copts CompressionOptions, opts bsarc.ExtractOptions) error {
	entries := make([]bsarc.ExtractEntry, 0, len(a.entries))
	for _, entry := range a.entries {
		if len(entry.Key.name) == 0 {
			continue
		}

		rel, err := bsarc.SanitizeExtractPath(entry.Key.name)
		if err != nil {
			return fmt.Errorf("entry %q: %w", entry.Key.name, err)
		}

		file := entry.File
		entries = append(entries, bsarc.ExtractEntry{
			Path: rel,
			WriteTo: func(w io.Writer) error {
				return file.WriteDecompressed(w, copts)
			},
		})
	}

	return bsarc.ExtractEntries(ctx, dstDir, entries, opts)
}
