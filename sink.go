// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package bsarc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Sink is a structured writer over a growable byte sink. It mirrors the
// Source protocols, never panics on size, and surfaces I/O errors from
// the underlying writer.
type Sink struct {
	w io.Writer
}

// NewSink wraps w in a structured writer.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// WriteBytes writes raw bytes.
func (s *Sink) WriteBytes(b []byte) error {
	_, err := s.w.Write(b)
	return err
}

// WriteU8 writes one byte.
func (s *Sink) WriteU8(v byte) error {
	var buf [1]byte
	buf[0] = v
	return s.WriteBytes(buf[:])
}

// WriteU16 writes a 16-bit integer in the given byte order.
func (s *Sink) WriteU16(v uint16, e Endian) error {
	var buf [2]byte
	if e == BigEndian {
		binary.BigEndian.PutUint16(buf[:], v)
	} else {
		binary.LittleEndian.PutUint16(buf[:], v)
	}
	return s.WriteBytes(buf[:])
}

// WriteU32 writes a 32-bit integer in the given byte order.
func (s *Sink) WriteU32(v uint32, e Endian) error {
	var buf [4]byte
	if e == BigEndian {
		binary.BigEndian.PutUint32(buf[:], v)
	} else {
		binary.LittleEndian.PutUint32(buf[:], v)
	}
	return s.WriteBytes(buf[:])
}

// WriteU64 writes a 64-bit integer in the given byte order.
func (s *Sink) WriteU64(v uint64, e Endian) error {
	var buf [8]byte
	if e == BigEndian {
		binary.BigEndian.PutUint64(buf[:], v)
	} else {
		binary.LittleEndian.PutUint64(buf[:], v)
	}
	return s.WriteBytes(buf[:])
}

// WriteZString writes a byte string followed by a zero terminator.
func (s *Sink) WriteZString(b []byte) error {
	if err := s.WriteBytes(b); err != nil {
		return err
	}
	return s.WriteU8(0)
}

// WriteBString writes a u8-length-prefixed byte string with no
// terminator. Strings longer than 255 bytes are not representable.
func (s *Sink) WriteBString(b []byte) error {
	if len(b) > 0xFF {
		return fmt.Errorf("%w: name of %d bytes exceeds u8 length prefix", ErrEncoding, len(b))
	}
	if err := s.WriteU8(byte(len(b))); err != nil {
		return err
	}
	return s.WriteBytes(b)
}

// WriteBZString writes a u8-length-prefixed byte string whose length
// counts a trailing zero terminator.
func (s *Sink) WriteBZString(b []byte) error {
	if len(b)+1 > 0xFF {
		return fmt.Errorf("%w: name of %d bytes exceeds u8 length prefix", ErrEncoding, len(b))
	}
	if err := s.WriteU8(byte(len(b) + 1)); err != nil {
		return err
	}
	return s.WriteZString(b)
}

// WriteWString writes a u16-length-prefixed byte string with no
// terminator.
func (s *Sink) WriteWString(b []byte, e Endian) error {
	if len(b) > 0xFFFF {
		return fmt.Errorf("%w: name of %d bytes exceeds u16 length prefix", ErrEncoding, len(b))
	}
	if err := s.WriteU16(uint16(len(b)), e); err != nil {
		return err
	}
	return s.WriteBytes(b)
}

// Pad writes n zero bytes.
func (s *Sink) Pad(n int) error {
	if n <= 0 {
		return nil
	}
	return s.WriteBytes(make([]byte, n))
}
