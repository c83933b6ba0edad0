// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes3

import "github.com/aldmeris/bsarc"

// File is a generation-A payload leaf. Payloads are never compressed in
// this generation.
type File struct {
	payload bsarc.Payload
}

// NewFile wraps an existing payload.
func NewFile(payload bsarc.Payload) *File {
	return &File{payload: payload}
}

// FileFromBytes borrows data as a file payload. The span must outlive
// the file.
func FileFromBytes(data []byte) *File {
	return &File{payload: bsarc.BorrowedPayload(data)}
}

// FileFromOwned takes ownership of data as a file payload.
func FileFromOwned(data []byte) *File {
	return &File{payload: bsarc.OwnedPayload(data)}
}

// Bytes returns the payload bytes in O(1).
func (f *File) Bytes() []byte {
	return f.payload.Bytes()
}

// Len returns the payload length.
func (f *File) Len() int {
	return f.payload.Len()
}

// IsEmpty reports whether the payload holds no bytes.
func (f *File) IsEmpty() bool {
	return f.payload.IsEmpty()
}

// Payload exposes the underlying container for ownership transitions.
func (f *File) Payload() *bsarc.Payload {
	return &f.payload
}
