// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes4

// Version identifies the on-disk revision of a generation-B archive.
type Version uint32

// Known archive versions.
const (
	// TES4 is the Oblivion revision.
	TES4 Version = 103
	// FO3 is the Fallout 3 / New Vegas / Skyrim LE revision.
	FO3 Version = 104
	// SSE is the Skyrim Special Edition revision.
	SSE Version = 105

	// TES5 aliases the Skyrim LE revision.
	TES5 = FO3
	// FNV aliases the New Vegas revision.
	FNV = FO3
)

// ArchiveFlags is the header flag bitset governing parsing and layout.
type ArchiveFlags uint32

// Archive flag bits.
const (
	// DirectoryStrings means directory records carry an inline length-prefixed name.
	DirectoryStrings ArchiveFlags = 1 << 0
	// FileStrings means a trailing flat file-name pool is present.
	FileStrings ArchiveFlags = 1 << 1
	// Compressed means files default to the compressed state; a per-file
	// size bit inverts the default.
	Compressed ArchiveFlags = 1 << 2
	// RetainDirectoryNames is preserved across round trips.
	RetainDirectoryNames ArchiveFlags = 1 << 3
	// RetainFileNames is preserved across round trips.
	RetainFileNames ArchiveFlags = 1 << 4
	// RetainFileNameOffsets is preserved across round trips.
	RetainFileNameOffsets ArchiveFlags = 1 << 5
	// XboxArchive stores hashes big-endian.
	XboxArchive ArchiveFlags = 1 << 6
	// RetainStringsDuringStartup is preserved across round trips.
	RetainStringsDuringStartup ArchiveFlags = 1 << 7
	// EmbeddedFileNames prefixes each payload with its full path.
	EmbeddedFileNames ArchiveFlags = 1 << 8
	// XboxCompressed hints the Xbox compression variant.
	XboxCompressed ArchiveFlags = 1 << 9
)

// Has reports whether every bit of flag is set.
func (f ArchiveFlags) Has(flag ArchiveFlags) bool {
	return f&flag == flag
}

// DirectoryStrings reports the inline-directory-name flag.
func (f ArchiveFlags) DirectoryStrings() bool { return f.Has(DirectoryStrings) }

// FileStrings reports the file-name-pool flag.
func (f ArchiveFlags) FileStrings() bool { return f.Has(FileStrings) }

// Compressed reports the default-compressed flag.
func (f ArchiveFlags) Compressed() bool { return f.Has(Compressed) }

// XboxArchive reports the big-endian-hash flag.
func (f ArchiveFlags) XboxArchive() bool { return f.Has(XboxArchive) }

// EmbeddedFileNames reports the payload-name-prefix flag.
func (f ArchiveFlags) EmbeddedFileNames() bool { return f.Has(EmbeddedFileNames) }

// ArchiveTypes is the header bitset of content categories.
type ArchiveTypes uint16

// Archive content categories.
const (
	TypeMeshes ArchiveTypes = 1 << iota
	TypeTextures
	TypeMenus
	TypeSounds
	TypeVoices
	TypeShaders
	TypeTrees
	TypeFonts
	TypeMisc
)

// Has reports whether every bit of t is set.
func (f ArchiveTypes) Has(t ArchiveTypes) bool {
	return f&t == t
}
