// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package fo4

import (
	"errors"
	"io"
)

// maxChunks is the engine's per-file streaming limit.
const maxChunks = 4

// ErrTooManyChunks means a file already holds the maximum chunk count.
var ErrTooManyChunks = errors.New("file already holds the maximum number of chunks")

// DX10Header is the texture sub-header of a DX10 file.
type DX10Header struct {
	Height   uint16
	Width    uint16
	MipCount uint8
	Format   uint8
	Flags    uint8
	TileMode uint8
}

// GNMFHeader is the console texture sub-header of a GNMF file: a
// fixed-length metadata blob the library treats as opaque.
type GNMFHeader struct {
	Metadata [32]byte
}

// FileHeader is the closed variant family of per-file header data. Kind
// discriminates; exactly the matching pointer is set.
type FileHeader struct {
	DX10 *DX10Header
	GNMF *GNMFHeader
	Kind Format
}

// GeneralHeader returns the header of a general file.
func GeneralHeader() FileHeader {
	return FileHeader{Kind: GNRL}
}

// TextureHeader returns the header of a DX10 texture file.
func TextureHeader(h DX10Header) FileHeader {
	return FileHeader{Kind: DX10, DX10: &h}
}

// ConsoleTextureHeader returns the header of a GNMF console texture file.
func ConsoleTextureHeader(h GNMFHeader) FileHeader {
	return FileHeader{Kind: GNMF, GNMF: &h}
}

// File is a generation-C leaf: a header variant plus an order-significant
// chunk sequence.
type File struct {
	chunks []*Chunk
	Header FileHeader
}

// NewFile returns an empty file with the given header variant.
func NewFile(header FileHeader) *File {
	return &File{Header: header}
}

// Len returns the chunk count.
func (f *File) Len() int {
	return len(f.chunks)
}

// IsEmpty reports whether the file holds no chunks.
func (f *File) IsEmpty() bool {
	return len(f.chunks) == 0
}

// Chunks returns a copy of the chunk list in stream order.
func (f *File) Chunks() []*Chunk {
	out := make([]*Chunk, len(f.chunks))
	copy(out, f.chunks)
	return out
}

// Chunk returns the i-th chunk, or nil when out of range.
func (f *File) Chunk(i int) *Chunk {
	if i < 0 || i >= len(f.chunks) {
		return nil
	}
	return f.chunks[i]
}

// Push appends a chunk, failing once the streaming limit is reached.
func (f *File) Push(chunk *Chunk) error {
	if len(f.chunks) >= maxChunks {
		return ErrTooManyChunks
	}

	f.chunks = append(f.chunks, chunk)
	return nil
}

// Remove deletes and returns the i-th chunk, or nil when out of range.
func (f *File) Remove(i int) *Chunk {
	if i < 0 || i >= len(f.chunks) {
		return nil
	}

	chunk := f.chunks[i]
	f.chunks = append(f.chunks[:i], f.chunks[i+1:]...)
	return chunk
}

// Clear removes every chunk.
func (f *File) Clear() {
	f.chunks = nil
}

// DecompressedLen returns the total decompressed size across chunks.
func (f *File) DecompressedLen() int {
	total := 0
	for _, chunk := range f.chunks {
		total += chunk.DecompressedLen()
	}
	return total
}

// WriteDecompressed streams every chunk into w in order, decoding
// compressed chunks on the fly.
func (f *File) WriteDecompressed(w io.Writer, opts CompressionOptions) error {
	for _, chunk := range f.chunks {
		if err := chunk.WriteDecompressed(w, opts); err != nil {
			return err
		}
	}
	return nil
}
