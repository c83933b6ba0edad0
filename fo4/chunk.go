// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package fo4

import (
	"io"

	"github.com/aldmeris/bsarc"
	"github.com/klauspost/compress/zlib"
)

// Mips is the streamable mip-level range a texture chunk covers.
type Mips struct {
	First uint16
	Last  uint16
}

// CompressionOptions configure chunk compression transitions.
type CompressionOptions struct {
	// Format selects the algorithm; Zip by default.
	Format CompressionFormat
	// Level selects the zip strength; ignored by LZ4.
	Level CompressionLevel
}

// codec resolves the concrete codec for these options.
func (o CompressionOptions) codec() bsarc.Codec {
	if o.Format == LZ4 {
		return bsarc.LZ4BlockCodec{}
	}

	switch o.Level {
	case LevelFO4Xbox, LevelSF:
		return bsarc.ZlibCodec{Level: zlib.BestCompression}
	default:
		return bsarc.ZlibCodec{}
	}
}

// Chunk is one contiguous sub-payload of a generation-C file. DX10 and
// GNMF chunks additionally carry the mip range they stream.
type Chunk struct {
	payload bsarc.Payload
	// Mips is nil for GNRL chunks.
	Mips *Mips
}

// NewChunk wraps an existing payload.
func NewChunk(payload bsarc.Payload) *Chunk {
	return &Chunk{payload: payload}
}

// ChunkFromBytes borrows data as a decompressed chunk payload.
func ChunkFromBytes(data []byte) *Chunk {
	return &Chunk{payload: bsarc.BorrowedPayload(data)}
}

// ChunkFromOwned takes ownership of data as a decompressed chunk payload.
func ChunkFromOwned(data []byte) *Chunk {
	return &Chunk{payload: bsarc.OwnedPayload(data)}
}

// ChunkFromCompressedBytes borrows data as a compressed chunk payload
// that decompresses to decompressedLen bytes.
func ChunkFromCompressedBytes(data []byte, decompressedLen int) *Chunk {
	return &Chunk{payload: bsarc.BorrowedCompressedPayload(data, decompressedLen)}
}

// Bytes returns the current byte image in O(1), compressed or not.
func (c *Chunk) Bytes() []byte {
	return c.payload.Bytes()
}

// Len returns the current byte length.
func (c *Chunk) Len() int {
	return c.payload.Len()
}

// IsEmpty reports whether the chunk holds no bytes.
func (c *Chunk) IsEmpty() bool {
	return c.payload.IsEmpty()
}

// IsCompressed reports whether the current bytes are the compressed image.
func (c *Chunk) IsCompressed() bool {
	return c.payload.IsCompressed()
}

// DecompressedLen returns the recorded decompressed size.
func (c *Chunk) DecompressedLen() int {
	return c.payload.DecompressedLen()
}

// Payload exposes the underlying container for ownership transitions.
func (c *Chunk) Payload() *bsarc.Payload {
	return &c.payload
}

// Compress replaces the payload with its compressed image. It fails when
// the chunk is already compressed.
func (c *Chunk) Compress(opts CompressionOptions) error {
	compressed, err := c.payload.Compress(opts.codec())
	if err != nil {
		return err
	}

	c.payload = compressed
	return nil
}

// Decompress replaces the payload with its decompressed image, verifying
// the recorded size. It fails when the chunk is not compressed.
func (c *Chunk) Decompress(opts CompressionOptions) error {
	decompressed, err := c.payload.Decompress(opts.codec())
	if err != nil {
		return err
	}

	c.payload = decompressed
	return nil
}

// WriteDecompressed streams the decompressed chunk into w, decoding on
// the fly when the stored bytes are compressed.
func (c *Chunk) WriteDecompressed(w io.Writer, opts CompressionOptions) error {
	if !c.IsCompressed() {
		_, err := w.Write(c.Bytes())
		return err
	}

	decompressed, err := c.payload.Decompress(opts.codec())
	if err != nil {
		return err
	}

	_, err = w.Write(decompressed.Bytes())
	return err
}
