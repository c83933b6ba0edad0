// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package bsarc

import "errors"

// Sentinel errors for archive operations. Use errors.Is in callers.
var (
	// ErrInvalidMagic means the leading magic dword does not identify a known archive.
	ErrInvalidMagic = errors.New("invalid magic in archive header")
	// ErrUnsupportedVersion means the archive header advertises an unknown version.
	ErrUnsupportedVersion = errors.New("unsupported archive version")
	// ErrUnsupportedFormat means the archive header advertises an unknown format tag.
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	// ErrTruncated means a read ran past the end of the backing span.
	ErrTruncated = errors.New("unexpected end of archive data")
	// ErrBadOffset means a stored offset points outside the backing span.
	ErrBadOffset = errors.New("stored offset out of bounds")
	// ErrHashMismatch means a recomputed name hash differs from the stored hash.
	ErrHashMismatch = errors.New("stored hash does not match recomputed hash")
	// ErrSizeMismatch means decompressed output length differs from the recorded size.
	ErrSizeMismatch = errors.New("decompressed size mismatch")
	// ErrCompression means the underlying codec failed.
	ErrCompression = errors.New("compression codec failure")
	// ErrEncoding means an entry cannot be represented in the target format.
	ErrEncoding = errors.New("entry not representable in target format")
	// ErrDuplicateKey means two sibling entries resolve to the same key hash.
	ErrDuplicateKey = errors.New("duplicate key hash")
	// ErrAlreadyCompressed means the payload is already stored compressed.
	ErrAlreadyCompressed = errors.New("payload is already compressed")
	// ErrAlreadyDecompressed means the payload is already stored decompressed.
	ErrAlreadyDecompressed = errors.New("payload is already decompressed")
	// ErrFormatMismatch means a file or chunk does not match the archive write format.
	ErrFormatMismatch = errors.New("file does not match archive format")
	// ErrInvalidExtractPath means an archive entry path is invalid for extraction.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrExtractPathOutsideRoot means a resolved extraction path escapes the destination root.
	ErrExtractPathOutsideRoot = errors.New("extract path escapes destination root")
	// ErrClosed means the provider or resource is already closed.
	ErrClosed = errors.New("provider already closed")
)
