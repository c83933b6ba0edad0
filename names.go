// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package bsarc

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DisplayName decodes raw archive name bytes into a printable Go string.
// Names in the archive formats are byte strings with no declared
// encoding; in practice anything outside ASCII is Windows-1252. Valid
// UTF-8 passes through untouched so modern tools that already write
// UTF-8 names round-trip cleanly.
func DisplayName(name []byte) string {
	if utf8.Valid(name) {
		return string(name)
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(name)
	if err != nil {
		return string(name)
	}

	return string(decoded)
}
