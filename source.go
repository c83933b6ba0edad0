// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package bsarc

import (
	"encoding/binary"
	"fmt"
)

// Endian selects the byte order for multi-byte reads and writes.
type Endian byte

// Byte orders used by the archive formats.
const (
	// LittleEndian is the default byte order of every generation.
	LittleEndian Endian = iota
	// BigEndian is used for hashes in Xbox generation-B archives.
	BigEndian
)

// Source is a bounds-checked cursor over an immutable byte span. Every
// read validates against the end of the span; a short read surfaces
// ErrTruncated with the offending position.
type Source struct {
	data []byte
	pos  int
}

// NewSource returns a cursor positioned at the start of data.
func NewSource(data []byte) *Source {
	return &Source{data: data}
}

// Bytes returns the whole underlying span.
func (s *Source) Bytes() []byte {
	return s.data
}

// Len returns the total span length.
func (s *Source) Len() int {
	return len(s.data)
}

// Pos returns the current cursor position.
func (s *Source) Pos() int {
	return s.pos
}

// Remaining returns the number of unread bytes.
func (s *Source) Remaining() int {
	return len(s.data) - s.pos
}

// Seek moves the cursor to an absolute position within the span.
func (s *Source) Seek(pos int) error {
	if pos < 0 || pos > len(s.data) {
		return fmt.Errorf("%w: seek to %d in span of %d", ErrBadOffset, pos, len(s.data))
	}

	s.pos = pos
	return nil
}

// SaveRestore runs fn and restores the cursor position afterwards,
// regardless of how far fn moved it.
func (s *Source) SaveRestore(fn func(*Source) error) error {
	pos := s.pos
	err := fn(s)
	s.pos = pos
	return err
}

// ReadBytes lends n bytes out of the span without copying.
func (s *Source) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > len(s.data)-s.pos {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, s.pos, len(s.data)-s.pos)
	}

	out := s.data[s.pos : s.pos+n]
	s.pos += n
	return out, nil
}

// ReadBytesAt lends n bytes starting at an absolute offset without
// moving the cursor.
func (s *Source) ReadBytesAt(off, n int) ([]byte, error) {
	if off < 0 || off > len(s.data) {
		return nil, fmt.Errorf("%w: offset %d in span of %d", ErrBadOffset, off, len(s.data))
	}
	if n < 0 || n > len(s.data)-off {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, off, len(s.data)-off)
	}

	return s.data[off : off+n], nil
}

// ReadU8 reads one byte.
func (s *Source) ReadU8() (byte, error) {
	b, err := s.ReadBytes(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadU16 reads a 16-bit integer in the given byte order.
func (s *Source) ReadU16(e Endian) (uint16, error) {
	b, err := s.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	if e == BigEndian {
		return binary.BigEndian.Uint16(b), nil
	}

	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a 32-bit integer in the given byte order.
func (s *Source) ReadU32(e Endian) (uint32, error) {
	b, err := s.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	if e == BigEndian {
		return binary.BigEndian.Uint32(b), nil
	}

	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads a 64-bit integer in the given byte order.
func (s *Source) ReadU64(e Endian) (uint64, error) {
	b, err := s.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	if e == BigEndian {
		return binary.BigEndian.Uint64(b), nil
	}

	return binary.LittleEndian.Uint64(b), nil
}

// ReadZString reads a zero-terminated byte string, excluding the
// terminator.
func (s *Source) ReadZString() ([]byte, error) {
	start := s.pos
	for i := s.pos; i < len(s.data); i++ {
		if s.data[i] == 0 {
			s.pos = i + 1
			return s.data[start:i], nil
		}
	}

	return nil, fmt.Errorf("%w: unterminated string at offset %d", ErrTruncated, start)
}

// ReadBString reads a u8-length-prefixed byte string with no terminator.
func (s *Source) ReadBString() ([]byte, error) {
	n, err := s.ReadU8()
	if err != nil {
		return nil, err
	}

	return s.ReadBytes(int(n))
}

// ReadBZString reads a u8-length-prefixed byte string whose length
// includes a trailing zero terminator. The terminator is stripped.
func (s *Source) ReadBZString() ([]byte, error) {
	n, err := s.ReadU8()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	b, err := s.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	if b[len(b)-1] != 0 {
		return nil, fmt.Errorf("%w: string at offset %d missing terminator", ErrTruncated, s.pos-int(n))
	}

	return b[:len(b)-1], nil
}

// ReadWString reads a u16-length-prefixed byte string with no terminator.
func (s *Source) ReadWString(e Endian) ([]byte, error) {
	n, err := s.ReadU16(e)
	if err != nil {
		return nil, err
	}

	return s.ReadBytes(int(n))
}
