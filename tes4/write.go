// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package tes4

import (
	"fmt"
	"io"
	"math"

	"github.com/aldmeris/bsarc"
)

// layout carries the offsets computed during write validation so records
// can be emitted in a single pass without patching.
type layout struct {
	directoryNamesLen int
	fileNamesLen      int
	fileCount         int
	dataStart         int
	blockOffsets      []int // per directory, offset of its file block
	payloadSizes      []int // per file in traversal order, full block size
}

// Write serializes the archive for the given options: header, directory
// records, per-directory inline name and file records, file-name pool,
// then payload blocks in traversal order. Invariant violations are
// reported before any byte is written.
func (a *Archive) Write(w io.Writer, opts Options) error {
	opts.applyDefaults()

	lay, err := a.computeLayout(opts)
	if err != nil {
		return err
	}

	sink := bsarc.NewSink(w)
	if err := a.writeHeader(sink, opts, lay); err != nil {
		return err
	}
	if err := a.writeDirectoryRecords(sink, opts, lay); err != nil {
		return err
	}
	if err := a.writeFileBlocks(sink, opts, lay); err != nil {
		return err
	}
	if opts.Flags.FileStrings() {
		for _, dir := range a.entries {
			for _, fe := range dir.Directory.entries {
				if err := sink.WriteZString(fe.Key.name); err != nil {
					return err
				}
			}
		}
	}

	return a.writePayloads(sink, opts)
}

// payloadBlockSize returns the full on-disk size of one payload block.
func payloadBlockSize(opts Options, dirName []byte, fe FileEntry) int {
	size := fe.File.Len()
	if fe.File.IsCompressed() {
		size += 4
	}
	if opts.Flags.EmbeddedFileNames() && opts.Version >= FO3 {
		size += 1 + len(dirName) + 1 + len(fe.Key.name)
	}
	return size
}

// computeLayout validates the archive against the target options and
// precomputes every offset the records need.
func (a *Archive) computeLayout(opts Options) (*layout, error) {
	lay := &layout{}

	for _, dir := range a.entries {
		if opts.Flags.DirectoryStrings() && len(dir.Key.name)+2 > math.MaxUint8 {
			return nil, fmt.Errorf("%w: directory name %q too long for inline string", bsarc.ErrEncoding, dir.Key.name)
		}
		lay.directoryNamesLen += len(dir.Key.name) + 1

		for _, fe := range dir.Directory.entries {
			if opts.Flags.FileStrings() && len(fe.Key.name) == 0 {
				return nil, fmt.Errorf("%w: file %016X in %q has no name", bsarc.ErrEncoding, fe.Key.hash.Numeric(), dir.Key.name)
			}
			if opts.Flags.EmbeddedFileNames() && opts.Version >= FO3 {
				if embeddedLen := len(dir.Key.name) + 1 + len(fe.Key.name); embeddedLen > math.MaxUint8 {
					return nil, fmt.Errorf("%w: embedded name for %q too long", bsarc.ErrEncoding, fe.Key.name)
				}
			}
			lay.fileNamesLen += len(fe.Key.name) + 1
			lay.fileCount++
		}
	}
	if !opts.Flags.FileStrings() {
		lay.fileNamesLen = 0
	}

	offset := headerSize + directoryEntrySize(opts.Version)*len(a.entries)
	lay.blockOffsets = make([]int, 0, len(a.entries))
	lay.payloadSizes = make([]int, 0, lay.fileCount)
	for _, dir := range a.entries {
		lay.blockOffsets = append(lay.blockOffsets, offset)
		if opts.Flags.DirectoryStrings() {
			offset += 1 + len(dir.Key.name) + 1
		}
		offset += fileEntrySize * dir.Directory.Len()

		for _, fe := range dir.Directory.entries {
			lay.payloadSizes = append(lay.payloadSizes, payloadBlockSize(opts, dir.Key.name, fe))
		}
	}

	lay.dataStart = offset + lay.fileNamesLen
	return lay, nil
}

// writeHeader emits the fixed 0x24-byte header.
func (a *Archive) writeHeader(sink *bsarc.Sink, opts Options, lay *layout) error {
	words := []uint32{
		bsarc.MagicTES4,
		uint32(opts.Version),
		headerSize,
		uint32(opts.Flags),
		uint32(len(a.entries)),
		uint32(lay.fileCount),
		uint32(lay.directoryNamesLen),
		uint32(lay.fileNamesLen),
	}
	for _, word := range words {
		if err := sink.WriteU32(word, bsarc.LittleEndian); err != nil {
			return err
		}
	}
	if err := sink.WriteU16(uint16(opts.Types), bsarc.LittleEndian); err != nil {
		return err
	}
	return sink.WriteU16(0, bsarc.LittleEndian)
}

// hashEndian selects the byte order for hash records.
func hashEndian(opts Options) bsarc.Endian {
	if opts.Flags.XboxArchive() {
		return bsarc.BigEndian
	}
	return bsarc.LittleEndian
}

// writeHash emits one hash record in the archive's hash byte order.
func writeHash(sink *bsarc.Sink, h Hash, e bsarc.Endian) error {
	for _, b := range [4]byte{h.Last, h.Last2, h.Length, h.First} {
		if err := sink.WriteU8(b); err != nil {
			return err
		}
	}
	return sink.WriteU32(h.CRC, e)
}

// writeDirectoryRecords emits the directory record table. The stored
// block offset carries the historical file-name-pool bias.
func (a *Archive) writeDirectoryRecords(sink *bsarc.Sink, opts Options, lay *layout) error {
	endian := hashEndian(opts)
	for i, dir := range a.entries {
		if err := writeHash(sink, dir.Key.hash, endian); err != nil {
			return err
		}
		if err := sink.WriteU32(uint32(dir.Directory.Len()), bsarc.LittleEndian); err != nil {
			return err
		}

		biased := uint64(lay.blockOffsets[i] + lay.fileNamesLen)
		if opts.Version >= SSE {
			if err := sink.WriteU32(0, bsarc.LittleEndian); err != nil {
				return err
			}
			if err := sink.WriteU64(biased, bsarc.LittleEndian); err != nil {
				return err
			}
		} else {
			if err := sink.WriteU32(uint32(biased), bsarc.LittleEndian); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeFileBlocks emits each directory's inline name and file records.
func (a *Archive) writeFileBlocks(sink *bsarc.Sink, opts Options, lay *layout) error {
	endian := hashEndian(opts)
	dataOffset := lay.dataStart
	payload := 0
	for _, dir := range a.entries {
		if opts.Flags.DirectoryStrings() {
			if err := sink.WriteBZString(dir.Key.name); err != nil {
				return err
			}
		}

		for _, fe := range dir.Directory.entries {
			if err := writeHash(sink, fe.Key.hash, endian); err != nil {
				return err
			}

			size := uint32(lay.payloadSizes[payload])
			if fe.File.IsCompressed() != opts.Flags.Compressed() {
				size |= fileFlagFlipped
			}
			if err := sink.WriteU32(size, bsarc.LittleEndian); err != nil {
				return err
			}
			if err := sink.WriteU32(uint32(dataOffset), bsarc.LittleEndian); err != nil {
				return err
			}

			dataOffset += lay.payloadSizes[payload]
			payload++
		}
	}

	return nil
}

// writePayloads emits the payload blocks in traversal order.
func (a *Archive) writePayloads(sink *bsarc.Sink, opts Options) error {
	embedded := opts.Flags.EmbeddedFileNames() && opts.Version >= FO3
	for _, dir := range a.entries {
		for _, fe := range dir.Directory.entries {
			if embedded {
				full := make([]byte, 0, len(dir.Key.name)+1+len(fe.Key.name))
				full = append(full, dir.Key.name...)
				full = append(full, '\\')
				full = append(full, fe.Key.name...)
				if err := sink.WriteBString(full); err != nil {
					return err
				}
			}
			if fe.File.IsCompressed() {
				if err := sink.WriteU32(uint32(fe.File.DecompressedLen()), bsarc.LittleEndian); err != nil {
					return err
				}
			}
			if err := sink.WriteBytes(fe.File.Bytes()); err != nil {
				return err
			}
		}
	}

	return nil
}
