// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes3

import (
	"fmt"
	"io"
	"sort"

	"github.com/aldmeris/bsarc"
)

// On-disk layout constants, all little-endian.
const (
	headerSize    = 0xC
	fileEntrySize = 0x8
	hashSize      = 0x8
)

// Key identifies one file: the raw name bytes as stored on disk plus the
// hash used for ordering and equality.
type Key struct {
	name []byte
	hash Hash
}

// NewKey normalizes and hashes a user-supplied path into a key.
func NewKey(name []byte) Key {
	hash, normalized := HashFile(name)
	return Key{name: normalized, hash: hash}
}

// Hash returns the key hash.
func (k Key) Hash() Hash {
	return k.hash
}

// Name returns the raw name bytes.
func (k Key) Name() []byte {
	return k.name
}

// Entry pairs a key with its file.
type Entry struct {
	File *File
	Key  Key
}

// Archive is an ordered, duplicate-free mapping from key to file.
// Iteration is strictly hash-ascending.
type Archive struct {
	entries  []Entry
	provider *bsarc.Provider
}

// NewArchive returns an empty archive.
func NewArchive() *Archive {
	return &Archive{}
}

// Len returns the number of files.
func (a *Archive) Len() int {
	return len(a.entries)
}

// IsEmpty reports whether the archive holds no files.
func (a *Archive) IsEmpty() bool {
	return len(a.entries) == 0
}

// Entries returns a copy of the entry list in hash order.
func (a *Archive) Entries() []Entry {
	out := make([]Entry, len(a.entries))
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

// Insert adds a file under key, keeping hash order. Inserting a second
// entry with the same hash fails with ErrDuplicateKey.
func (a *Archive) Insert(key Key, file *File) error {
	idx, found := a.search(key.hash)
	if found {
		return fmt.Errorf("%w: %q", bsarc.ErrDuplicateKey, key.name)
	}

	a.entries = append(a.entries, Entry{})
	copy(a.entries[idx+1:], a.entries[idx:])
	a.entries[idx] = Entry{Key: key, File: file}
	return nil
}

// Get returns the file stored under hash, or nil.
func (a *Archive) Get(h Hash) *File {
	idx, found := a.search(h)
	if !found {
		return nil
	}
	return a.entries[idx].File
}

// GetName returns the file stored under the hash of name, or nil.
func (a *Archive) GetName(name []byte) *File {
	h, _ := HashFile(name)
	return a.Get(h)
}

// Remove deletes and returns the file stored under hash, or nil.
func (a *Archive) Remove(h Hash) *File {
	idx, found := a.search(h)
	if !found {
		return nil
	}

	file := a.entries[idx].File
	a.entries = append(a.entries[:idx], a.entries[idx+1:]...)
	return file
}

// Close releases the backing mapping when the archive owns one. Borrowed
// payloads must not be touched afterwards.
func (a *Archive) Close() error {
	if a.provider == nil {
		return nil
	}

	p := a.provider
	a.provider = nil
	return p.Close()
}

// Open maps the archive at path read-only and parses it. The returned
// archive owns the mapping; Close it after the payloads are no longer
// needed.
func Open(path string) (*Archive, error) {
	provider, err := bsarc.OpenProvider(path)
	if err != nil {
		return nil, err
	}

	archive, err := Decode(provider.Bytes())
	if err != nil {
		_ = provider.Close()
		return nil, err
	}

	archive.provider = provider
	return archive, nil
}

// Decode parses an archive from a byte span. Payloads borrow from the
// span, which must outlive the archive.
func Decode(data []byte) (*Archive, error) {
	src := bsarc.NewSource(data)

	magic, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	if magic != bsarc.MagicTES3 {
		return nil, fmt.Errorf("%w: 0x%X", bsarc.ErrInvalidMagic, magic)
	}

	hashOffset, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	fileCount, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}

	count := int(fileCount)
	nameOffsets := headerSize + fileEntrySize*count
	names := nameOffsets + 4*count
	hashes := headerSize + int(hashOffset)
	fileData := hashes + hashSize*count

	archive := NewArchive()
	for i := 0; i < count; i++ {
		key, file, err := readFile(src, i, nameOffsets, names, hashes, fileData)
		if err != nil {
			return nil, err
		}
		if err := archive.Insert(key, file); err != nil {
			return nil, err
		}
	}

	return archive, nil
}

// readFile decodes the i-th file by stitching the parallel tables together.
func readFile(src *bsarc.Source, i, nameOffsets, names, hashes, fileData int) (Key, *File, error) {
	var hash Hash
	err := src.SaveRestore(func(src *bsarc.Source) error {
		if err := src.Seek(hashes + hashSize*i); err != nil {
			return err
		}
		lo, err := src.ReadU32(bsarc.LittleEndian)
		if err != nil {
			return err
		}
		hi, err := src.ReadU32(bsarc.LittleEndian)
		if err != nil {
			return err
		}
		hash = Hash{Lo: lo, Hi: hi}
		return nil
	})
	if err != nil {
		return Key{}, nil, err
	}

	var name []byte
	err = src.SaveRestore(func(src *bsarc.Source) error {
		if err := src.Seek(nameOffsets + 4*i); err != nil {
			return err
		}
		offset, err := src.ReadU32(bsarc.LittleEndian)
		if err != nil {
			return err
		}
		if err := src.Seek(names + int(offset)); err != nil {
			return err
		}
		name, err = src.ReadZString()
		return err
	})
	if err != nil {
		return Key{}, nil, err
	}

	if recomputed, _ := HashFile(name); recomputed != hash {
		return Key{}, nil, fmt.Errorf("%w: file %q stored %016X, computed %016X",
			bsarc.ErrHashMismatch, name, hash.Numeric(), recomputed.Numeric())
	}

	size, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return Key{}, nil, err
	}
	offset, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return Key{}, nil, err
	}

	data, err := src.ReadBytesAt(fileData+int(offset), int(size))
	if err != nil {
		return Key{}, nil, fmt.Errorf("payload of %q: %w", name, err)
	}

	return Key{name: name, hash: hash}, NewFile(bsarc.BorrowedPayload(data)), nil
}

// Write serializes the archive: header, file table, name-offset table,
// name pool, hash table, then payloads with no padding.
func (a *Archive) Write(w io.Writer) error {
	sink := bsarc.NewSink(w)

	namesLen := 0
	for _, entry := range a.entries {
		namesLen += len(entry.Key.name) + 1
	}

	// hash table offset is measured from the end of the header
	hashOffset := (fileEntrySize+4)*len(a.entries) + namesLen

	if err := sink.WriteU32(bsarc.MagicTES3, bsarc.LittleEndian); err != nil {
		return err
	}
	if err := sink.WriteU32(uint32(hashOffset), bsarc.LittleEndian); err != nil {
		return err
	}
	if err := sink.WriteU32(uint32(len(a.entries)), bsarc.LittleEndian); err != nil {
		return err
	}

	offset := uint32(0)
	for _, entry := range a.entries {
		if err := sink.WriteU32(uint32(entry.File.Len()), bsarc.LittleEndian); err != nil {
			return err
		}
		if err := sink.WriteU32(offset, bsarc.LittleEndian); err != nil {
			return err
		}
		offset += uint32(entry.File.Len())
	}

	nameOffset := uint32(0)
	for _, entry := range a.entries {
		if err := sink.WriteU32(nameOffset, bsarc.LittleEndian); err != nil {
			return err
		}
		nameOffset += uint32(len(entry.Key.name) + 1)
	}

	for _, entry := range a.entries {
		if err := sink.WriteZString(entry.Key.name); err != nil {
			return err
		}
	}

	for _, entry := range a.entries {
		if err := sink.WriteU32(entry.Key.hash.Lo, bsarc.LittleEndian); err != nil {
			return err
		}
		if err := sink.WriteU32(entry.Key.hash.Hi, bsarc.LittleEndian); err != nil {
			return err
		}
	}

	for _, entry := range a.entries {
		if err := sink.WriteBytes(entry.File.Bytes()); err != nil {
			return err
		}
	}

	return nil
}
