// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes4

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/aldmeris/bsarc"
)

// On-disk layout constants.
const (
	headerSize        = 0x24
	directoryEntry32  = 0x10
	directoryEntry64  = 0x18
	fileEntrySize     = 0x10
	fileFlagFlipped   = uint32(1) << 30
	fileFlagChecked   = uint32(1) << 31
	fileFlagSecondary = uint32(1) << 31
)

// Options mirrors the archive header metadata. Read returns the observed
// options; Write consumes them verbatim.
type Options struct {
	// Version selects the on-disk revision; zero means 103.
	Version Version
	// Flags is the archive flag bitset.
	Flags ArchiveFlags
	// Types is the content category bitset.
	Types ArchiveTypes
}

// applyDefaults fills zero-valued options.
func (o *Options) applyDefaults() {
	if o.Version == 0 {
		o.Version = TES4
	}
}

// ReadOptions configures parse behavior.
type ReadOptions struct {
	// CompressionResult selects whether payloads keep their on-disk
	// compressed form or are eagerly decoded.
	CompressionResult bsarc.CompressionResult
	// Codec overrides the version-implied codec for eager decoding.
	Codec CompressionCodec
}

// ArchiveKey identifies one directory within an archive: the stored path
// bytes plus the directory hash.
type ArchiveKey struct {
	name []byte
	hash Hash
}

// NewArchiveKey normalizes and hashes a user-supplied directory path
// into a key.
func NewArchiveKey(name []byte) ArchiveKey {
	hash, normalized := HashDirectory(name)
	return ArchiveKey{name: normalized, hash: hash}
}

// Hash returns the key hash.
func (k ArchiveKey) Hash() Hash {
	return k.hash
}

// Name returns the raw name bytes.
func (k ArchiveKey) Name() []byte {
	return k.name
}

// DirectoryEntry pairs an archive key with its directory.
type DirectoryEntry struct {
	Directory *Directory
	Key       ArchiveKey
}

// Archive is an ordered, duplicate-free mapping from directory key to
// directory. Iteration is strictly hash-ascending.
type Archive struct {
	entries  []DirectoryEntry
	provider *bsarc.Provider
}

// NewArchive returns an empty archive.
func NewArchive() *Archive {
	return &Archive{}
}

// Len returns the number of directories.
func (a *Archive) Len() int {
	return len(a.entries)
}

// IsEmpty reports whether the archive holds no directories.
func (a *Archive) IsEmpty() bool {
	return len(a.entries) == 0
}

// FileCount returns the total number of files across directories.
func (a *Archive) FileCount() int {
	total := 0
	for _, entry := range a.entries {
		total += entry.Directory.Len()
	}
	return total
}

// Entries returns a copy of the directory list in hash order.
func (a *Archive) Entries() []DirectoryEntry {
	out := make([]DirectoryEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// search locates the insert position for a hash.
func (a *Archive) search(h Hash) (int, bool) {
	n := h.Numeric()
	idx := sort.Search(len(a.entries), func(i int) bool {
		return a.entries[i].Key.hash.Numeric() >= n
	})
	return idx, idx < len(a.entries) && a.entries[idx].Key.hash.Numeric() == n
}

// Insert adds a directory under key, keeping hash order. Inserting a
// second entry with the same hash fails with ErrDuplicateKey.
func (a *Archive) Insert(key ArchiveKey, directory *Directory) error {
	idx, found := a.search(key.hash)
	if found {
		return fmt.Errorf("%w: %q", bsarc.ErrDuplicateKey, key.name)
	}

	a.entries = append(a.entries, DirectoryEntry{})
	copy(a.entries[idx+1:], a.entries[idx:])
	a.entries[idx] = DirectoryEntry{Key: key, Directory: directory}
	return nil
}

// Get returns the directory stored under hash, or nil.
func (a *Archive) Get(h Hash) *Directory {
	idx, found := a.search(h)
	if !found {
		return nil
	}
	return a.entries[idx].Directory
}

// GetName returns the directory stored under the hash of name, or nil.
func (a *Archive) GetName(name []byte) *Directory {
	h, _ := HashDirectory(name)
	return a.Get(h)
}

// Remove deletes and returns the directory stored under hash, or nil.
func (a *Archive) Remove(h Hash) *Directory {
	idx, found := a.search(h)
	if !found {
		return nil
	}

	directory := a.entries[idx].Directory
	a.entries = append(a.entries[:idx], a.entries[idx+1:]...)
	return directory
}

// Close releases the backing mapping when the archive owns one.
func (a *Archive) Close() error {
	if a.provider == nil {
		return nil
	}

	p := a.provider
	a.provider = nil
	return p.Close()
}

// Open maps the archive at path read-only and parses it. The returned
// archive owns the mapping.
func Open(path string, opts ReadOptions) (*Archive, Options, error) {
	provider, err := bsarc.OpenProvider(path)
	if err != nil {
		return nil, Options{}, err
	}

	archive, meta, err := Decode(provider.Bytes(), opts)
	if err != nil {
		_ = provider.Close()
		return nil, Options{}, err
	}

	archive.provider = provider
	return archive, meta, nil
}

// header carries the decoded archive header.
type header struct {
	version        Version
	flags          ArchiveFlags
	directoryCount uint32
	fileCount      uint32
	directoryNames uint32
	fileNames      uint32
	types          ArchiveTypes
}

// hashEndian selects the byte order for hash records.
func (h *header) hashEndian() bsarc.Endian {
	if h.flags.XboxArchive() {
		return bsarc.BigEndian
	}
	return bsarc.LittleEndian
}

// Decode parses an archive from a byte span. Payloads borrow from the
// span, which must outlive the archive.
func Decode(data []byte, opts ReadOptions) (*Archive, Options, error) {
	src := bsarc.NewSource(data)

	hdr, err := readHeader(src)
	if err != nil {
		return nil, Options{}, err
	}

	// region cursors advanced as directories and names are consumed
	fileEntries := headerSize + directoryEntrySize(hdr.version)*int(hdr.directoryCount)
	fileNames := fileEntries + int(hdr.fileCount)*fileEntrySize
	if hdr.flags.DirectoryStrings() {
		// directoryNames counts each string and terminator but not the
		// length prefix byte, hence the extra directoryCount
		fileNames += int(hdr.directoryNames) + int(hdr.directoryCount)
	}

	archive := NewArchive()
	for i := uint32(0); i < hdr.directoryCount; i++ {
		key, directory, err := readDirectory(src, hdr, &fileEntries, &fileNames)
		if err != nil {
			return nil, Options{}, err
		}
		if err := archive.Insert(key, directory); err != nil {
			return nil, Options{}, err
		}
	}

	meta := Options{Version: hdr.version, Flags: hdr.flags, Types: hdr.types}

	if opts.CompressionResult == bsarc.Decompressed {
		copts := CompressionOptions{Version: hdr.version, Codec: opts.Codec}
		for _, dir := range archive.entries {
			for _, fe := range dir.Directory.entries {
				if !fe.File.IsCompressed() {
					continue
				}
				if err := fe.File.Decompress(copts); err != nil {
					return nil, Options{}, fmt.Errorf("file %q: %w", fe.Key.name, err)
				}
			}
		}
	}

	return archive, meta, nil
}

// directoryEntrySize returns the on-disk directory record size for a version.
func directoryEntrySize(v Version) int {
	if v >= SSE {
		return directoryEntry64
	}
	return directoryEntry32
}

// readHeader decodes and validates the fixed archive header.
func readHeader(src *bsarc.Source) (*header, error) {
	magic, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	if magic != bsarc.MagicTES4 {
		return nil, fmt.Errorf("%w: 0x%X", bsarc.ErrInvalidMagic, magic)
	}

	var raw [8]uint32
	for i := 1; i < 8; i++ {
		if raw[i], err = src.ReadU32(bsarc.LittleEndian); err != nil {
			return nil, err
		}
	}
	types, err := src.ReadU16(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	if _, err := src.ReadU16(bsarc.LittleEndian); err != nil {
		return nil, err
	}

	version := Version(raw[1])
	switch version {
	case TES4, FO3, SSE:
	default:
		return nil, fmt.Errorf("%w: %d", bsarc.ErrUnsupportedVersion, raw[1])
	}

	if raw[2] != headerSize {
		return nil, fmt.Errorf("%w: header size %d", bsarc.ErrUnsupportedVersion, raw[2])
	}

	// valid archives exist with stray extra bits; keep only the known ones
	return &header{
		version:        version,
		flags:          ArchiveFlags(raw[3]) & (1<<10 - 1),
		directoryCount: raw[4],
		fileCount:      raw[5],
		directoryNames: raw[6],
		fileNames:      raw[7],
		types:          ArchiveTypes(types) & (1<<9 - 1),
	}, nil
}

// readHash decodes one hash record in the archive's hash byte order.
func readHash(src *bsarc.Source, e bsarc.Endian) (Hash, error) {
	var h Hash
	var err error
	if h.Last, err = src.ReadU8(); err != nil {
		return h, err
	}
	if h.Last2, err = src.ReadU8(); err != nil {
		return h, err
	}
	if h.Length, err = src.ReadU8(); err != nil {
		return h, err
	}
	if h.First, err = src.ReadU8(); err != nil {
		return h, err
	}
	if h.CRC, err = src.ReadU32(e); err != nil {
		return h, err
	}
	return h, nil
}

// readDirectory decodes one directory record and its file block.
func readDirectory(src *bsarc.Source, hdr *header, fileEntries, fileNames *int) (ArchiveKey, *Directory, error) {
	hash, err := readHash(src, hdr.hashEndian())
	if err != nil {
		return ArchiveKey{}, nil, err
	}

	fileCount, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return ArchiveKey{}, nil, err
	}

	// the stored block offset is rederived structurally, skip it
	skip := 4
	if hdr.version >= SSE {
		skip = 12
	}
	if err := src.Seek(src.Pos() + skip); err != nil {
		return ArchiveKey{}, nil, err
	}

	var name []byte
	directory := NewDirectory()
	err = src.SaveRestore(func(src *bsarc.Source) error {
		if err := src.Seek(*fileEntries); err != nil {
			return err
		}
		if hdr.flags.DirectoryStrings() {
			inline, err := src.ReadBZString()
			if err != nil {
				return err
			}
			name = inline
		}

		for i := uint32(0); i < fileCount; i++ {
			key, file, err := readFileEntry(src, hdr, fileNames, &name)
			if err != nil {
				return err
			}
			if err := directory.Insert(key, file); err != nil {
				return err
			}
		}

		*fileEntries = src.Pos()
		return nil
	})
	if err != nil {
		return ArchiveKey{}, nil, err
	}

	return ArchiveKey{name: name, hash: hash}, directory, nil
}

// readFileEntry decodes one file record and slices its payload block.
func readFileEntry(src *bsarc.Source, hdr *header, fileNames *int, directoryName *[]byte) (DirectoryKey, *File, error) {
	hash, err := readHash(src, hdr.hashEndian())
	if err != nil {
		return DirectoryKey{}, nil, err
	}

	rawSize, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return DirectoryKey{}, nil, err
	}
	rawOffset, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return DirectoryKey{}, nil, err
	}

	flipped := rawSize&fileFlagFlipped != 0
	dataSize := int(rawSize &^ (fileFlagFlipped | fileFlagChecked))
	dataOffset := int(rawOffset &^ fileFlagSecondary)

	var name []byte
	if hdr.flags.FileStrings() {
		err := src.SaveRestore(func(src *bsarc.Source) error {
			if err := src.Seek(*fileNames); err != nil {
				return err
			}
			pooled, err := src.ReadZString()
			if err != nil {
				return err
			}
			name = pooled
			*fileNames = src.Pos()
			return nil
		})
		if err != nil {
			return DirectoryKey{}, nil, err
		}
	}

	var file *File
	err = src.SaveRestore(func(src *bsarc.Source) error {
		if err := src.Seek(dataOffset); err != nil {
			return fmt.Errorf("payload of %q: %w", name, err)
		}

		if hdr.flags.EmbeddedFileNames() && hdr.version >= FO3 {
			embedded, err := src.ReadBString()
			if err != nil {
				return err
			}
			if len(embedded)+1 > dataSize {
				return fmt.Errorf("%w: embedded name of %d bytes exceeds payload block of %d",
					bsarc.ErrTruncated, len(embedded), dataSize)
			}
			dataSize -= len(embedded) + 1
			if pos := lastSeparator(embedded); pos >= 0 {
				if *directoryName == nil {
					*directoryName = embedded[:pos]
				}
				embedded = embedded[pos+1:]
			}
			if name == nil {
				name = embedded
			}
		}

		compressed := hdr.flags.Compressed() != flipped
		decompressedLen := 0
		if compressed {
			if dataSize < 4 {
				return fmt.Errorf("%w: compressed payload block of %d bytes", bsarc.ErrTruncated, dataSize)
			}
			v, err := src.ReadU32(bsarc.LittleEndian)
			if err != nil {
				return err
			}
			decompressedLen = int(v)
			dataSize -= 4
		}

		data, err := src.ReadBytes(dataSize)
		if err != nil {
			return fmt.Errorf("payload of %q: %w", name, err)
		}

		if compressed {
			file = FileFromCompressedBytes(data, decompressedLen)
		} else {
			file = FileFromBytes(data)
		}
		return nil
	})
	if err != nil {
		return DirectoryKey{}, nil, err
	}

	return DirectoryKey{name: name, hash: hash}, file, nil
}

// lastSeparator finds the final path separator of either style.
func lastSeparator(path []byte) int {
	if pos := bytes.LastIndexAny(path, `\/`); pos >= 0 {
		return pos
	}
	return -1
}
