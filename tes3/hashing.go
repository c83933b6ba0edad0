// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes3

import (
	"math/bits"

	"github.com/aldmeris/bsarc"
)

// Hash uniquely identifies a file within a generation-A archive. It is
// derived from two interleaved 32-bit halves of the normalized path.
type Hash struct {
	Lo uint32
	Hi uint32
}

// Numeric folds the hash into the 64-bit value used for ordering and
// equality. Lo is the high half.
func (h Hash) Numeric() uint64 {
	return uint64(h.Hi) | uint64(h.Lo)<<32
}

// HashFile hashes a file path and returns the hash together with the
// normalized name that would be stored on disk.
func HashFile(path []byte) (Hash, []byte) {
	name := bsarc.NormalizePath(path)

	var h Hash
	midpoint := len(name) / 2

	// rotate between first 4 bytes
	for i := 0; i < midpoint; i++ {
		h.Lo ^= uint32(name[i]) << (uint(i%4) * 8)
	}

	// rotate between last 4 bytes
	for i := midpoint; i < len(name); i++ {
		rot := uint32(name[i]) << (uint((i-midpoint)%4) * 8)
		h.Hi = bits.RotateLeft32(h.Hi^rot, -int(rot%32))
	}

	return h, name
}
