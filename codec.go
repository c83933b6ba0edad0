// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package bsarc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"
)

// Codec is the uniform compression contract shared by every generation.
// Decompress must verify the produced length against expectedSize and
// fail with ErrSizeMismatch on divergence.
type Codec interface {
	// Compress encodes src into a fresh buffer.
	Compress(src []byte) ([]byte, error)
	// Decompress decodes src into a fresh buffer of exactly expectedSize bytes.
	Decompress(src []byte, expectedSize int) ([]byte, error)
	// Bound returns an upper size hint for compressing n bytes.
	Bound(n int) int
}

// checkDecompressedSize enforces the recorded-size invariant on codec output.
func checkDecompressedSize(got, expected int) error {
	if got != expected {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrSizeMismatch, expected, got)
	}
	return nil
}

// ZlibCodec is the legacy stream compressor used by generation-B versions
// 103 and 104 and by the generation-C zip compression format.
type ZlibCodec struct {
	// Level is a zlib compression level; zero selects the default.
	Level int
}

// Compress implements Codec.
func (c ZlibCodec) Compress(src []byte) ([]byte, error) {
	level := c.Level
	if level == 0 {
		level = zlib.DefaultCompression
	}

	var buf bytes.Buffer
	buf.Grow(c.Bound(len(src)))
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("%w: zlib level %d: %w", ErrCompression, level, err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("%w: zlib: %w", ErrCompression, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: zlib: %w", ErrCompression, err)
	}

	return buf.Bytes(), nil
}

// Decompress implements Codec.
func (c ZlibCodec) Decompress(src []byte, expectedSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %w", ErrCompression, err)
	}
	defer func() { _ = r.Close() }()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %w", ErrCompression, err)
	}
	if err := checkDecompressedSize(len(out), expectedSize); err != nil {
		return nil, err
	}

	return out, nil
}

// Bound implements Codec using the deflate worst-case expansion plus the
// zlib envelope.
func (c ZlibCodec) Bound(n int) int {
	return n + (n >> 12) + (n >> 14) + (n >> 25) + 13 + 6
}

// LZ4FrameCodec is the LZ4 frame compressor used by generation-B
// version 105.
type LZ4FrameCodec struct {
	// Level is the frame compression level; zero selects Level9,
	// matching the reference writer.
	Level lz4.CompressionLevel
}

// Compress implements Codec.
func (c LZ4FrameCodec) Compress(src []byte) ([]byte, error) {
	level := c.Level
	if level == 0 {
		level = lz4.Level9
	}

	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(level), lz4.ConcurrencyOption(1)); err != nil {
		return nil, fmt.Errorf("%w: lz4 frame: %w", ErrCompression, err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("%w: lz4 frame: %w", ErrCompression, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: lz4 frame: %w", ErrCompression, err)
	}

	return buf.Bytes(), nil
}

// Decompress implements Codec.
func (c LZ4FrameCodec) Decompress(src []byte, expectedSize int) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(src))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4 frame: %w", ErrCompression, err)
	}
	if err := checkDecompressedSize(len(out), expectedSize); err != nil {
		return nil, err
	}

	return out, nil
}

// Bound implements Codec using the frame worst case.
func (c LZ4FrameCodec) Bound(n int) int {
	return lz4.CompressBlockBound(n) + 15
}

// LZ4BlockCodec is the raw LZ4 block compressor used by the modern
// generation-C compression format.
type LZ4BlockCodec struct {
	// Level is the high-compression search depth; zero selects Level9.
	Level lz4.CompressionLevel
}

// Compress implements Codec.
func (c LZ4BlockCodec) Compress(src []byte) ([]byte, error) {
	level := c.Level
	if level == 0 {
		level = lz4.Level9
	}

	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	compressor := lz4.CompressorHC{Level: level}
	n, err := compressor.CompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4 block: %w", ErrCompression, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: lz4 block produced no output", ErrCompression)
	}

	return dst[:n], nil
}

// Decompress implements Codec. The destination holds one byte more than
// expectedSize, so output that is shorter or exactly one byte longer
// fails with ErrSizeMismatch; output longer than that overruns the
// destination and fails with ErrCompression.
func (c LZ4BlockCodec) Decompress(src []byte, expectedSize int) ([]byte, error) {
	out := make([]byte, expectedSize+1)
	n, err := lz4.UncompressBlock(src, out)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4 block: %w", ErrCompression, err)
	}
	if err := checkDecompressedSize(n, expectedSize); err != nil {
		return nil, err
	}

	return out[:n], nil
}

// Bound implements Codec.
func (c LZ4BlockCodec) Bound(n int) int {
	return lz4.CompressBlockBound(n)
}
