// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes4

import (
	"fmt"

	"github.com/aldmeris/bsarc"
)

// CompressFiles compresses every decompressed file selected by rules,
// in place. The rule path is the full "directory\file" name. It returns
// the number of files transitioned. A nil rule set selects nothing.
func (a *Archive) CompressFiles(rules *bsarc.CompressRules, opts CompressionOptions) (int, error) {
	transitioned := 0
	for _, dir := range a.entries {
		for _, fe := range dir.Directory.entries {
			if fe.File.IsCompressed() {
				continue
			}

			full := fullName(dir.Key.name, fe.Key.name)
			if !rules.Match(full, fe.File.Len()) {
				continue
			}

			if err := fe.File.Compress(opts); err != nil {
				return transitioned, fmt.Errorf("compress %q: %w", full, err)
			}
			transitioned++
		}
	}

	return transitioned, nil
}

// DecompressFiles decompresses every compressed file in place. It
// returns the number of files transitioned.
func (a *Archive) DecompressFiles(opts CompressionOptions) (int, error) {
	transitioned := 0
	for _, dir := range a.entries {
		for _, fe := range dir.Directory.entries {
			if !fe.File.IsCompressed() {
				continue
			}

			if err := fe.File.Decompress(opts); err != nil {
				return transitioned, fmt.Errorf("decompress %q: %w", fullName(dir.Key.name, fe.Key.name), err)
			}
			transitioned++
		}
	}

	return transitioned, nil
}

// fullName joins a directory and file name with the archive separator.
func fullName(dir, file []byte) []byte {
	if len(dir) == 0 {
		return file
	}

	full := make([]byte, 0, len(dir)+1+len(file))
	full = append(full, dir...)
	full = append(full, '\\')
	full = append(full, file...)
	return full
}
