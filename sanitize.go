// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package bsarc

import (
	"fmt"
	"strings"
)

// SanitizeExtractPath rewrites raw archive name bytes into a
// filesystem-safe slash-separated relative path. Traversal segments and
// absolute paths are rejected; characters that are unsafe on common
// filesystems are replaced with underscores, so a drive prefix such as
// "C:" is not rejected but becomes the directory "C_".
func SanitizeExtractPath(name []byte) (string, error) {
	raw := strings.ReplaceAll(DisplayName(name), `\`, "/")
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "./")

	if raw == "" {
		return "", fmt.Errorf("%w: empty entry name", ErrInvalidExtractPath)
	}
	if strings.HasPrefix(raw, "/") {
		return "", fmt.Errorf("%w: absolute path %q", ErrInvalidExtractPath, raw)
	}

	segments := strings.Split(raw, "/")
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" || segment == "." {
			continue
		}
		if segment == ".." {
			return "", fmt.Errorf("%w: traversal in %q", ErrExtractPathOutsideRoot, raw)
		}

		out = append(out, sanitizeSegment(segment))
	}

	if len(out) == 0 {
		return "", fmt.Errorf("%w: no usable segments in %q", ErrInvalidExtractPath, raw)
	}

	return strings.Join(out, "/"), nil
}

// sanitizeSegment replaces bytes that are unsafe in file names on common
// filesystems.
func sanitizeSegment(segment string) string {
	var b strings.Builder
	b.Grow(len(segment))
	for _, r := range segment {
		switch {
		case r < 0x20, r == 0x7F:
			b.WriteByte('_')
		case r == ':', r == '*', r == '?', r == '"', r == '<', r == '>', r == '|':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}

	// Trailing dots and spaces are dropped by Windows; keep names stable
	// across platforms.
	trimmed := strings.TrimRight(b.String(), ". ")
	if trimmed == "" {
		return "_"
	}

	return trimmed
}
