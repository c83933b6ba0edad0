// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes4

import (
	"io"

	"github.com/aldmeris/bsarc"
)

// CompressionCodec selects the compression algorithm for payload
// transitions.
type CompressionCodec byte

// Supported codecs.
const (
	// CodecDefault picks the codec the version implies: zlib for 103 and
	// 104, the LZ4 frame for 105.
	CodecDefault CompressionCodec = iota
	// CodecZlib forces the legacy zlib stream.
	CodecZlib
	// CodecLZ4 forces the LZ4 frame.
	CodecLZ4
)

// CompressionOptions configure payload compression transitions.
type CompressionOptions struct {
	// Version selects the codec when Codec is CodecDefault; zero means 103.
	Version Version
	// Codec overrides the version-implied algorithm.
	Codec CompressionCodec
}

// codec resolves the concrete codec for these options.
func (o CompressionOptions) codec() bsarc.Codec {
	version := o.Version
	if version == 0 {
		version = TES4
	}

	switch o.Codec {
	case CodecZlib:
		return bsarc.ZlibCodec{}
	case CodecLZ4:
		return bsarc.LZ4FrameCodec{}
	default:
		if version >= SSE {
			return bsarc.LZ4FrameCodec{}
		}
		return bsarc.ZlibCodec{}
	}
}

// File is a generation-B payload leaf. Its bytes may be stored
// compressed; the original decompressed size travels with the compressed
// image so the wire format can be reproduced.
type File struct {
	payload bsarc.Payload
}

// NewFile wraps an existing payload.
func NewFile(payload bsarc.Payload) *File {
	return &File{payload: payload}
}

// FileFromBytes borrows data as a decompressed payload.
func FileFromBytes(data []byte) *File {
	return &File{payload: bsarc.BorrowedPayload(data)}
}

// FileFromOwned takes ownership of data as a decompressed payload.
func FileFromOwned(data []byte) *File {
	return &File{payload: bsarc.OwnedPayload(data)}
}

// FileFromCompressedBytes borrows data as a compressed payload that
// decompresses to decompressedLen bytes.
func FileFromCompressedBytes(data []byte, decompressedLen int) *File {
	return &File{payload: bsarc.BorrowedCompressedPayload(data, decompressedLen)}
}

// Bytes returns the current byte image in O(1), compressed or not.
func (f *File) Bytes() []byte {
	return f.payload.Bytes()
}

// Len returns the current byte length.
func (f *File) Len() int {
	return f.payload.Len()
}

// IsEmpty reports whether the payload holds no bytes.
func (f *File) IsEmpty() bool {
	return f.payload.IsEmpty()
}

// IsCompressed reports whether the current bytes are the compressed image.
func (f *File) IsCompressed() bool {
	return f.payload.IsCompressed()
}

// DecompressedLen returns the recorded decompressed size.
func (f *File) DecompressedLen() int {
	return f.payload.DecompressedLen()
}

// Payload exposes the underlying container for ownership transitions.
func (f *File) Payload() *bsarc.Payload {
	return &f.payload
}

// Compress replaces the payload with its compressed image. It fails when
// the payload is already compressed.
func (f *File) Compress(opts CompressionOptions) error {
	compressed, err := f.payload.Compress(opts.codec())
	if err != nil {
		return err
	}

	f.payload = compressed
	return nil
}

// Decompress replaces the payload with its decompressed image, verifying
// the recorded size. It fails when the payload is not compressed.
func (f *File) Decompress(opts CompressionOptions) error {
	decompressed, err := f.payload.Decompress(opts.codec())
	if err != nil {
		return err
	}

	f.payload = decompressed
	return nil
}

// WriteDecompressed streams the decompressed payload into w, decoding on
// the fly when the stored bytes are compressed.
func (f *File) WriteDecompressed(w io.Writer, opts CompressionOptions) error {
	if !f.IsCompressed() {
		_, err := w.Write(f.Bytes())
		return err
	}

	decompressed, err := f.payload.Decompress(opts.codec())
	if err != nil {
		return err
	}

	_, err = w.Write(decompressed.Bytes())
	return err
}
