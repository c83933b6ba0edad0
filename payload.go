// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package bsarc

import "fmt"

// Payload is the byte body of every archive leaf. The bytes are either
// borrowed from a backing mapping or owned on the heap, never both, and
// may additionally be marked as the compressed image of the entry, in
// which case the originally observed decompressed size is retained for
// round-trip verification.
type Payload struct {
	data            []byte
	decompressedLen int
	owned           bool
}

// notCompressed marks a payload whose current bytes are the plain image.
const notCompressed = -1

// CompressionResult selects whether payloads keep their on-disk form or
// are eagerly decoded during parse.
type CompressionResult byte

// Parse-time payload handling.
const (
	// AsStored keeps payloads in their on-disk compressed form.
	AsStored CompressionResult = iota
	// Decompressed eagerly decodes every compressed payload during parse.
	Decompressed
)

// BorrowedPayload wraps a span of decompressed bytes without copying.
// The span must outlive the payload.
func BorrowedPayload(data []byte) Payload {
	return Payload{data: data, decompressedLen: notCompressed}
}

// BorrowedCompressedPayload wraps a span of compressed bytes without
// copying, recording the size the bytes decompress to.
func BorrowedCompressedPayload(data []byte, decompressedLen int) Payload {
	return Payload{data: data, decompressedLen: decompressedLen}
}

// OwnedPayload takes ownership of a buffer of decompressed bytes.
func OwnedPayload(data []byte) Payload {
	return Payload{data: data, decompressedLen: notCompressed, owned: true}
}

// OwnedCompressedPayload takes ownership of a buffer of compressed
// bytes, recording the size the bytes decompress to.
func OwnedCompressedPayload(data []byte, decompressedLen int) Payload {
	return Payload{data: data, decompressedLen: decompressedLen, owned: true}
}

// Bytes returns the current byte image in O(1), compressed or not.
func (p Payload) Bytes() []byte {
	return p.data
}

// Len returns the current byte length.
func (p Payload) Len() int {
	return len(p.data)
}

// IsEmpty reports whether the payload holds no bytes.
func (p Payload) IsEmpty() bool {
	return len(p.data) == 0
}

// Owned reports whether the payload owns its buffer.
func (p Payload) Owned() bool {
	return p.owned
}

// IsCompressed reports whether the current bytes are the compressed image.
func (p Payload) IsCompressed() bool {
	return p.decompressedLen != notCompressed
}

// DecompressedLen returns the recorded decompressed size. For an
// uncompressed payload this is the plain byte length.
func (p Payload) DecompressedLen() int {
	if p.decompressedLen == notCompressed {
		return len(p.data)
	}
	return p.decompressedLen
}

// TakeOwned converts the payload to an owned buffer, cloning borrowed
// bytes, and returns it. Mutation of payload bytes always goes through
// ownership.
func (p *Payload) TakeOwned() []byte {
	if !p.owned {
		clone := make([]byte, len(p.data))
		copy(clone, p.data)
		p.data = clone
		p.owned = true
	}
	return p.data
}

// Decompress decodes the compressed image with codec and returns a new
// owned payload. It fails when the payload is not marked compressed, or
// when the codec output does not match the recorded decompressed size.
func (p Payload) Decompress(codec Codec) (Payload, error) {
	if !p.IsCompressed() {
		return Payload{}, ErrAlreadyDecompressed
	}

	out, err := codec.Decompress(p.data, p.decompressedLen)
	if err != nil {
		return Payload{}, err
	}

	return OwnedPayload(out), nil
}

// Compress encodes the plain image with codec and returns a new owned
// payload that remembers the source length. It fails when the payload is
// already compressed.
func (p Payload) Compress(codec Codec) (Payload, error) {
	if p.IsCompressed() {
		return Payload{}, ErrAlreadyCompressed
	}

	out, err := codec.Compress(p.data)
	if err != nil {
		return Payload{}, err
	}

	return OwnedCompressedPayload(out, len(p.data)), nil
}

// String describes the payload state for diagnostics.
func (p Payload) String() string {
	state := "owned"
	if !p.owned {
		state = "borrowed"
	}
	if p.IsCompressed() {
		return fmt.Sprintf("%s %d bytes (compressed, %d decompressed)", state, len(p.data), p.decompressedLen)
	}
	return fmt.Sprintf("%s %d bytes", state, len(p.data))
}
