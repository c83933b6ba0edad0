// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes4

import (
	"bytes"

	"github.com/aldmeris/bsarc"
)

// Hash uniquely identifies a directory or file within a generation-B
// archive. The layout mirrors the on-disk record exactly.
type Hash struct {
	Last   byte
	Last2  byte
	Length byte
	First  byte
	CRC    uint32
}

// Numeric folds the hash into the 64-bit value used for ordering and
// equality.
func (h Hash) Numeric() uint64 {
	return uint64(h.Last) |
		uint64(h.Last2)<<8 |
		uint64(h.Length)<<16 |
		uint64(h.First)<<24 |
		uint64(h.CRC)<<32
}

// hashCRC is the rolling sum the engine uses inside names. It is not a
// real CRC; the multiplier is 0x1003F.
func hashCRC(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc = uint32(b) + crc*0x1003F
	}
	return crc
}

// extensionFourCCs lists the extensions that perturb file hashes, in the
// order the engine indexes them.
var extensionFourCCs = [6]uint32{
	bsarc.FourCC(nil),
	bsarc.FourCC([]byte(".nif")),
	bsarc.FourCC([]byte(".kf")),
	bsarc.FourCC([]byte(".dds")),
	bsarc.FourCC([]byte(".wav")),
	bsarc.FourCC([]byte(".adp")),
}

// HashDirectory hashes a directory path and returns the hash together
// with the normalized name that would be stored on disk.
func HashDirectory(path []byte) (Hash, []byte) {
	name := bsarc.NormalizePath(path)
	return hashDirectoryName(name), name
}

// hashDirectoryName hashes an already normalized name.
func hashDirectoryName(name []byte) Hash {
	var h Hash
	n := len(name)
	if n >= 3 {
		h.Last2 = name[n-2]
	}
	if n >= 1 {
		h.Last = name[n-1]
		h.First = name[0]
	}

	// deliberate truncation, this is how the engine does it
	h.Length = byte(n)

	if h.Length > 3 {
		// first and last two chars are already folded in above
		h.CRC = hashCRC(name[1 : n-2])
	}

	return h
}

// HashFile hashes a file name (directory part stripped) and returns the
// hash together with the normalized stored name. Stems of 260 bytes or
// more and extensions of 16 bytes or more hash to zero, matching the
// engine's tooling.
func HashFile(path []byte) (Hash, []byte) {
	name := bsarc.NormalizePath(path)
	if pos := bytes.LastIndexByte(name, '\\'); pos >= 0 {
		name = name[pos+1:]
	}

	stem, extension := name, []byte(nil)
	if pos := bytes.LastIndexByte(name, '.'); pos >= 0 {
		stem, extension = name[:pos], name[pos:]
	}

	if len(stem) == 0 || len(stem) >= 260 || len(extension) >= 16 {
		return Hash{}, name
	}

	h := hashDirectoryName(stem)
	h.CRC += hashCRC(extension)

	cc := bsarc.FourCC(extension)
	for i, known := range extensionFourCCs {
		if known != cc {
			continue
		}

		h.First += byte(32 * (i & 0xFC))
		h.Last += byte((i & 0xFE) << 6)
		h.Last2 += byte(i << 7)
		break
	}

	return h, name
}
