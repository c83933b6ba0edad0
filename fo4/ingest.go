// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package fo4

import (
	"fmt"

	"github.com/aldmeris/bsarc"
)

// MipChunking selects how a texture ingested from loose bytes is split
// into streamable chunks.
type MipChunking byte

// Mip chunking strategies.
const (
	// MipChunkingSingle stores the whole mip chain in one chunk.
	MipChunkingSingle MipChunking = iota
)

// FileReadOptions configure building a File from loose file bytes.
type FileReadOptions struct {
	// Format selects the resulting header variant; GNRL by default.
	Format Format
	// Compress stores the ingested chunks compressed.
	Compress bool
	// CompressionFormat selects the chunk algorithm when compressing.
	CompressionFormat CompressionFormat
	// CompressionLevel selects the zip strength when compressing.
	CompressionLevel CompressionLevel
	// MipChunking selects the texture chunking strategy.
	MipChunking MipChunking
}

// DDS container constants for DX10 ingestion.
const (
	ddsMagic        = 0x20534444 // "DDS "
	ddsHeaderSize   = 124
	ddsFourCCOffset = 84 // absolute offset of the pixel format fourcc

	ddsFourCCDXT1 = 0x31545844
	ddsFourCCDXT3 = 0x33545844
	ddsFourCCDXT5 = 0x35545844
	ddsFourCCDX10 = 0x30315844

	// dxgi formats for the legacy fourccs
	dxgiBC1 = 71
	dxgiBC2 = 74
	dxgiBC3 = 77

	// defaultTileMode matches the value the engine writes for PC textures.
	defaultTileMode = 8
)

// ReadFile builds a File from loose file bytes. GNRL data becomes a
// single chunk; DX10 data must be a DDS container whose header populates
// the texture sub-header. GNMF ingestion requires the console pipeline
// and is not supported.
func ReadFile(data []byte, opts FileReadOptions) (*File, error) {
	var file *File
	switch opts.Format {
	case GNRL:
		file = NewFile(GeneralHeader())
		if err := file.Push(ChunkFromBytes(data)); err != nil {
			return nil, err
		}
	case DX10:
		var err error
		if file, err = readTextureFile(data); err != nil {
			return nil, err
		}
	case GNMF:
		return nil, fmt.Errorf("%w: GNMF ingestion", bsarc.ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%w: %d", bsarc.ErrUnsupportedFormat, opts.Format)
	}

	if opts.Compress {
		copts := CompressionOptions{Format: opts.CompressionFormat, Level: opts.CompressionLevel}
		for _, chunk := range file.chunks {
			if err := chunk.Compress(copts); err != nil {
				return nil, err
			}
		}
	}

	return file, nil
}

// readTextureFile parses a DDS container into a DX10 file holding the
// whole mip chain in one chunk.
func readTextureFile(data []byte) (*File, error) {
	src := bsarc.NewSource(data)

	magic, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	if magic != ddsMagic {
		return nil, fmt.Errorf("%w: not a DDS container (magic 0x%X)", bsarc.ErrEncoding, magic)
	}

	size, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	if size != ddsHeaderSize {
		return nil, fmt.Errorf("%w: DDS header size %d", bsarc.ErrEncoding, size)
	}

	if _, err := src.ReadU32(bsarc.LittleEndian); err != nil { // flags
		return nil, err
	}
	height, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	width, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	if _, err := src.ReadU32(bsarc.LittleEndian); err != nil { // pitch
		return nil, err
	}
	if _, err := src.ReadU32(bsarc.LittleEndian); err != nil { // depth
		return nil, err
	}
	mipCount, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	if mipCount == 0 {
		mipCount = 1
	}

	// the pixel format block sits after the reserved words
	if err := src.Seek(ddsFourCCOffset); err != nil {
		return nil, err
	}
	fourCC, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}

	payloadStart := 4 + int(ddsHeaderSize)
	var format uint8
	switch fourCC {
	case ddsFourCCDXT1:
		format = dxgiBC1
	case ddsFourCCDXT3:
		format = dxgiBC2
	case ddsFourCCDXT5:
		format = dxgiBC3
	case ddsFourCCDX10:
		if err := src.Seek(payloadStart); err != nil {
			return nil, err
		}
		dxgiFormat, err := src.ReadU32(bsarc.LittleEndian)
		if err != nil {
			return nil, err
		}
		format = uint8(dxgiFormat)
		payloadStart += 20
	default:
		return nil, fmt.Errorf("%w: unsupported DDS pixel format 0x%X", bsarc.ErrEncoding, fourCC)
	}

	payload, err := bsarc.NewSource(data).ReadBytesAt(payloadStart, len(data)-payloadStart)
	if err != nil {
		return nil, err
	}

	file := NewFile(TextureHeader(DX10Header{
		Height:   uint16(height),
		Width:    uint16(width),
		MipCount: uint8(mipCount),
		Format:   format,
		TileMode: defaultTileMode,
	}))

	chunk := ChunkFromBytes(payload)
	chunk.Mips = &Mips{First: 0, Last: uint16(mipCount - 1)}
	if err := file.Push(chunk); err != nil {
		return nil, err
	}

	return file, nil
}
