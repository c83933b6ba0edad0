// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes4

// FileReadOptions configure building a File from loose file bytes.
type FileReadOptions struct {
	// Compress stores the ingested payload compressed.
	Compress bool
	// Version selects the codec used when compressing.
	Version Version
	// Codec overrides the version-implied algorithm.
	Codec CompressionCodec
}

// ReadFile builds a File from loose file bytes, optionally compressing
// the payload for the target version.
func ReadFile(data []byte, opts FileReadOptions) (*File, error) {
	file := FileFromBytes(data)
	if !opts.Compress {
		return file, nil
	}

	if err := file.Compress(CompressionOptions{Version: opts.Version, Codec: opts.Codec}); err != nil {
		return nil, err
	}

	return file, nil
}
