// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package bsarc

// maxPathLen is the longest name the engine hashes; anything at or past
// this collapses to the current-directory marker, matching the games.
const maxPathLen = 260

// normalizeLUT maps '/' to '\' and ASCII upper case to lower case.
var normalizeLUT = func() (lut [256]byte) {
	for i := range lut {
		lut[i] = byte(i)
	}
	lut['/'] = '\\'
	for b := byte('A'); b <= 'Z'; b++ {
		lut[b] = b + ('a' - 'A')
	}
	return lut
}()

// NormalizePath returns the canonical hashed form of an archive path:
// backslash separators, ASCII lower case, no leading or trailing
// separators. Non-ASCII bytes pass through unchanged. Empty and
// over-long paths normalize to ".".
func NormalizePath(path []byte) []byte {
	out := make([]byte, len(path))
	for i, b := range path {
		out[i] = normalizeLUT[b]
	}

	for len(out) > 0 && out[len(out)-1] == '\\' {
		out = out[:len(out)-1]
	}
	for len(out) > 0 && out[0] == '\\' {
		out = out[1:]
	}

	if len(out) == 0 || len(out) >= maxPathLen {
		return []byte{'.'}
	}

	return out
}

// FourCC packs up to four extension bytes into a little-endian dword.
// Input beyond four bytes is ignored.
func FourCC(ext []byte) uint32 {
	var cc uint32
	for i := 0; i < len(ext) && i < 4; i++ {
		cc |= uint32(ext[i]) << (uint(i) * 8)
	}
	return cc
}
