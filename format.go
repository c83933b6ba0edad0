// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package bsarc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Format identifies one archive generation.
type Format int

// Supported archive generations.
const (
	// FormatUnknown means the magic did not match any known generation.
	FormatUnknown Format = iota
	// FormatTES3 is the flat Morrowind archive.
	FormatTES3
	// FormatTES4 is the hierarchical Oblivion through Skyrim archive.
	FormatTES4
	// FormatFO4 is the chunked Fallout 4 through Starfield archive.
	FormatFO4
)

// Archive magic dwords.
const (
	// MagicTES3 is the generation-A header version tag.
	MagicTES3 uint32 = 0x100
	// MagicTES4 is "BSA\0".
	MagicTES4 uint32 = 0x00415342
	// MagicFO4 is "BTDX".
	MagicFO4 uint32 = 0x58445442
)

// String returns the conventional name of the format.
func (f Format) String() string {
	switch f {
	case FormatTES3:
		return "tes3"
	case FormatTES4:
		return "tes4"
	case FormatFO4:
		return "fo4"
	default:
		return "unknown"
	}
}

// GuessFormat reads the leading dword from r and classifies the archive
// generation. The reader is left positioned after the magic.
func GuessFormat(r io.Reader) (Format, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return FormatUnknown, fmt.Errorf("%w: read magic: %w", ErrTruncated, err)
	}

	return GuessFormatBytes(buf[:]), nil
}

// GuessFormatBytes classifies the archive generation from its leading bytes.
func GuessFormatBytes(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	switch binary.LittleEndian.Uint32(data) {
	case MagicTES3:
		return FormatTES3
	case MagicTES4:
		return FormatTES4
	case MagicFO4:
		return FormatFO4
	default:
		return FormatUnknown
	}
}
