// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package fo4

import (
	"bytes"
	"hash/crc32"

	"github.com/aldmeris/bsarc"
)

// Hash uniquely identifies a file within a generation-C archive: a CRC
// of the file stem, the extension fourcc, and a CRC of the parent
// directory.
type Hash struct {
	File      uint32
	Extension uint32
	Directory uint32
}

// Less orders hashes by file, extension, then directory CRC, matching
// the field order of the on-disk record.
func (h Hash) Less(other Hash) bool {
	if h.File != other.File {
		return h.File < other.File
	}
	if h.Extension != other.Extension {
		return h.Extension < other.Extension
	}
	return h.Directory < other.Directory
}

// nameCRC is a plain table-driven CRC-32 over the IEEE polynomial with
// zero initial value and no final complement. stdlib crc32 applies both
// conditioning steps, so feed it the complement and undo it afterwards.
func nameCRC(data []byte) uint32 {
	return ^crc32.Update(^uint32(0), crc32.IEEETable, data)
}

// HashFile hashes a file path and returns the hash together with the
// normalized name that would be stored on disk. The stem and extension
// split uses the last dot of the whole path, reproducing the engine's
// behavior for names without an extension inside dotted directories.
func HashFile(path []byte) (Hash, []byte) {
	name := bsarc.NormalizePath(path)

	parent := []byte(nil)
	first := 0
	if pos := bytes.LastIndexByte(name, '\\'); pos >= 0 {
		parent = name[:pos]
		first = pos + 1
	}

	extension := []byte(nil)
	last := len(name)
	if pos := bytes.LastIndexByte(name, '.'); pos >= 0 {
		extension = name[pos+1:]
		last = pos
	}

	stem := []byte(nil)
	if first <= last {
		stem = name[first:last]
	}

	return Hash{
		File:      nameCRC(stem),
		Extension: bsarc.FourCC(extension),
		Directory: nameCRC(parent),
	}, name
}
