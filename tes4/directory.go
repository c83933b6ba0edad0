// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes4

import (
	"fmt"
	"sort"

	"github.com/aldmeris/bsarc"
)

// DirectoryKey identifies one file within a directory: the stored name
// bytes plus the file hash.
type DirectoryKey struct {
	name []byte
	hash Hash
}

// NewDirectoryKey normalizes and hashes a user-supplied file name into a
// key. Any directory part is stripped before hashing.
func NewDirectoryKey(name []byte) DirectoryKey {
	hash, normalized := HashFile(name)
	return DirectoryKey{name: normalized, hash: hash}
}

// Hash returns the key hash.
func (k DirectoryKey) Hash() Hash {
	return k.hash
}

// Name returns the raw name bytes.
func (k DirectoryKey) Name() []byte {
	return k.name
}

// FileEntry pairs a directory key with its file.
type FileEntry struct {
	File *File
	Key  DirectoryKey
}

// Directory is an ordered, duplicate-free mapping from file key to file.
// Iteration is strictly hash-ascending.
type Directory struct {
	entries []FileEntry
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{}
}

// Len returns the number of files.
func (d *Directory) Len() int {
	return len(d.entries)
}

// IsEmpty reports whether the directory holds no files.
func (d *Directory) IsEmpty() bool {
	return len(d.entries) == 0
}

// Entries returns a copy of the file list in hash order.
func (d *Directory) Entries() []FileEntry {
	out := make([]FileEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// search locates the insert position for a hash.
func (d *Directory) search(h Hash) (int, bool) {
	n := h.Numeric()
	idx := sort.Search(len(d.entries), func(i int) bool {
		return d.entries[i].Key.hash.Numeric() >= n
	})
	return idx, idx < len(d.entries) && d.entries[idx].Key.hash.Numeric() == n
}

// Insert adds a file under key, keeping hash order. Inserting a second
// entry with the same hash fails with ErrDuplicateKey.
func (d *Directory) Insert(key DirectoryKey, file *File) error {
	idx, found := d.search(key.hash)
	if found {
		return fmt.Errorf("%w: %q", bsarc.ErrDuplicateKey, key.name)
	}

	d.entries = append(d.entries, FileEntry{})
	copy(d.entries[idx+1:], d.entries[idx:])
	d.entries[idx] = FileEntry{Key: key, File: file}
	return nil
}

// Get returns the file stored under hash, or nil.
func (d *Directory) Get(h Hash) *File {
	idx, found := d.search(h)
	if !found {
		return nil
	}
	return d.entries[idx].File
}

// GetName returns the file stored under the hash of name, or nil.
func (d *Directory) GetName(name []byte) *File {
	h, _ := HashFile(name)
	return d.Get(h)
}

// Remove deletes and returns the file stored under hash, or nil.
func (d *Directory) Remove(h Hash) *File {
	idx, found := d.search(h)
	if !found {
		return nil
	}

	file := d.entries[idx].File
	d.entries = append(d.entries[:idx], d.entries[idx+1:]...)
	return file
}
