// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes3

import (
	"context"
	"fmt"
	"io"

	"github.com/aldmeris/bsarc"
)

// Extract writes every file below dstDir using sanitized entry paths.
func (a *Archive) Extract(ctx context.Context, dstDir string, opts bsarc.ExtractOptions) error {
	entries := make([]bsarc.ExtractEntry, 0, len(a.entries))
	for _, entry := range a.entries {
		rel, err := bsarc.SanitizeExtractPath(entry.Key.name)
		if err != nil {
			return fmt.Errorf("entry %q: %w", entry.Key.name, err)
		}

		file := entry.File
		entries = append(entries, bsarc.ExtractEntry{
			Path: rel,
			WriteTo: func(w io.Writer) error {
				_, err := w.Write(file.Bytes())
				return err
			},
		})
	}

	return bsarc.ExtractEntries(ctx, dstDir, entries, opts)
}
