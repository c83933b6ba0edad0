// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes4

import (
	"context"
	"fmt"
	"io"

	"github.com/aldmeris/bsarc"
)

// Extract writes every file below dstDir using sanitized entry paths,
// decompressing stored payloads on the fly.
func (a *Archive) Extract(ctx context.Context, dstDir string, copts CompressionOptions, opts bsarc.ExtractOptions) error {
	entries := make([]bsarc.ExtractEntry, 0, a.FileCount())
	for _, dir := range a.entries {
		for _, fe := range dir.Directory.entries {
			full := fullName(dir.Key.name, fe.Key.name)
			rel, err := bsarc.SanitizeExtractPath(full)
			if err != nil {
				return fmt.Errorf("entry %q: %w", full, err)
			}

			file := fe.File
			entries = append(entries, bsarc.ExtractEntry{
				Path: rel,
				WriteTo: func(w io.Writer) error {
					return file.WriteDecompressed(w, copts)
				},
			})
		}
	}

	return bsarc.ExtractEntries(ctx, dstDir, entries, opts)
}
