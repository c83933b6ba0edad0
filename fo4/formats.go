// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package fo4

import "github.com/aldmeris/bsarc"

// Version identifies the on-disk revision of a generation-C archive.
type Version uint32

// Known archive versions.
const (
	// V1 is the initial Fallout 4 revision.
	V1 Version = 1
	// V2 was introduced in Starfield.
	V2 Version = 2
	// V3 was introduced in Starfield and carries a compression-format field.
	V3 Version = 3
	// V7 is the Fallout 4 next-gen update revision; layout matches V1.
	V7 Version = 7
	// V8 is the Fallout 4 next-gen update revision; layout matches V1.
	V8 Version = 8
)

// valid reports whether the version is a known revision.
func (v Version) valid() bool {
	switch v {
	case V1, V2, V3, V7, V8:
		return true
	default:
		return false
	}
}

// Format selects the file header variant of an archive.
type Format byte

// File header variants.
const (
	// GNRL archives contain arbitrary files with no extra header data.
	GNRL Format = iota
	// DX10 archives contain DirectX textures with streamable mip ranges.
	DX10
	// GNMF archives contain console textures with an opaque metadata blob.
	GNMF
)

// Format tag fourccs.
var formatTags = map[Format]uint32{
	GNRL: bsarc.FourCC([]byte("GNRL")),
	DX10: bsarc.FourCC([]byte("DX10")),
	GNMF: bsarc.FourCC([]byte("GNMF")),
}

// String returns the on-disk tag name.
func (f Format) String() string {
	switch f {
	case GNRL:
		return "GNRL"
	case DX10:
		return "DX10"
	case GNMF:
		return "GNMF"
	default:
		return "unknown"
	}
}

// CompressionFormat selects the chunk compression algorithm.
type CompressionFormat byte

// Chunk compression algorithms.
const (
	// Zip is the default zlib-based format, compatible with every game.
	Zip CompressionFormat = iota
	// LZ4 is the Starfield block format with faster decompression.
	LZ4
)

// compressionFormatLZ4 is the wire value of the LZ4 format in version-3
// headers; any other value selects zip.
const compressionFormatLZ4 = 3

// CompressionLevel selects the zip compression strength.
type CompressionLevel byte

// Zip compression levels.
const (
	// LevelFO4 is the Fallout 4 default.
	LevelFO4 CompressionLevel = iota
	// LevelFO4Xbox trades time for ratio like the Xbox pipeline.
	LevelFO4Xbox
	// LevelSF is the Starfield profile.
	LevelSF

	// LevelFO76 aliases the Fallout 76 profile.
	LevelFO76 = LevelFO4
)
