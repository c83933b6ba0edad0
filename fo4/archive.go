// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package fo4

import (
	"fmt"
	"io"
	"sort"

	"github.com/aldmeris/bsarc"
)

// On-disk layout constants, all little-endian.
const (
	headerSizeV1 = 0x18
	headerSizeV2 = 0x20
	headerSizeV3 = 0x24

	fileHeaderSizeGNRL = 0x10
	fileHeaderSizeDX10 = 0x18
	fileHeaderSizeGNMF = 0x30

	chunkRecordSizeGNRL = 0x14
	chunkRecordSizeDX10 = 0x18
	chunkRecordSizeGNMF = 0x18

	chunkSentinel = 0xBAADF00D
)

// Options mirrors the archive header metadata. Read returns the observed
// options; Write consumes them verbatim.
type Options struct {
	// Version selects the on-disk revision; zero means 1.
	Version Version
	// Format selects the file header variant.
	Format Format
	// CompressionFormat records the chunk algorithm; meaningful on disk
	// only for version 3.
	CompressionFormat CompressionFormat
	// Strings controls whether the trailing name table is present.
	Strings bool
}

// applyDefaults fills zero-valued options.
func (o *Options) applyDefaults() {
	if o.Version == 0 {
		o.Version = V1
	}
}

// ReadOptions configures parse behavior.
type ReadOptions struct {
	// CompressionResult selects whether payloads keep their on-disk
	// compressed form or are eagerly decoded.
	CompressionResult bsarc.CompressionResult
	// Level selects the zip strength for eager decoding.
	Level CompressionLevel
}

// Key identifies one file: the stored name bytes plus the file hash.
type Key struct {
	name []byte
	hash Hash
}

// NewKey normalizes and hashes a user-supplied path into a key.
func NewKey(name []byte) Key {
	hash, normalized := HashFile(name)
	return Key{name: normalized, hash: hash}
}

// Hash returns the key hash.
func (k Key) Hash() Hash {
	return k.hash
}

// Name returns the raw name bytes.
func (k Key) Name() []byte {
	return k.name
}

// Entry pairs a key with its file.
type Entry struct {
	File *File
	Key  Key
}

// Archive is an ordered, duplicate-free mapping from key to file.
// Iteration is strictly hash-ascending.
type Archive struct {
	entries  []Entry
	provider *bsarc.Provider
}

// NewArchive returns an empty archive.
func NewArchive() *Archive {
	return &Archive{}
}

// Len returns the number of files.
func (a *Archive) Len() int {
	return len(a.entries)
}

// IsEmpty reports whether the archive holds no files.
func (a *Archive) IsEmpty() bool {
	return len(a.entries) == 0
}

// Entries returns a copy of the entry list in hash order.
func (a *Archive) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// search locates the insert position for a hash.
func (a *Archive) search(h Hash) (int, bool) {
	idx := sort.Search(len(a.entries), func(i int) bool {
		return !a.entries[i].Key.hash.Less(h)
	})
	return idx, idx < len(a.entries) && a.entries[idx].Key.hash == h
}

// Insert adds a file under key, keeping hash order. Inserting a second
// entry with the same hash fails with ErrDuplicateKey.
func (a *Archive) Insert(key Key, file *File) error {
	idx, found := a.search(key.hash)
	if found {
		return fmt.Errorf("%w: %q", bsarc.ErrDuplicateKey, key.name)
	}

	a.entries = append(a.entries, Entry{})
	copy(a.entries[idx+1:], a.entries[idx:])
	a.entries[idx] = Entry{Key: key, File: file}
	return nil
}

// Get returns the file stored under hash, or nil.
func (a *Archive) Get(h Hash) *File {
	idx, found := a.search(h)
	if !found {
		return nil
	}
	return a.entries[idx].File
}

// GetName returns the file stored under the hash of name, or nil.
func (a *Archive) GetName(name []byte) *File {
	h, _ := HashFile(name)
	return a.Get(h)
}

// Remove deletes and returns the file stored under hash, or nil.
func (a *Archive) Remove(h Hash) *File {
	idx, found := a.search(h)
	if !found {
		return nil
	}

	file := a.entries[idx].File
	a.entries = append(a.entries[:idx], a.entries[idx+1:]...)
	return file
}

// Close releases the backing mapping when the archive owns one.
func (a *Archive) Close() error {
	if a.provider == nil {
		return nil
	}

	p := a.provider
	a.provider = nil
	return p.Close()
}

// Open maps the archive at path read-only and parses it. The returned
// archive owns the mapping.
func Open(path string, opts ReadOptions) (*Archive, Options, error) {
	provider, err := bsarc.OpenProvider(path)
	if err != nil {
		return nil, Options{}, err
	}

	archive, meta, err := Decode(provider.Bytes(), opts)
	if err != nil {
		_ = provider.Close()
		return nil, Options{}, err
	}

	archive.provider = provider
	return archive, meta, nil
}

// header carries the decoded archive header.
type header struct {
	version           Version
	format            Format
	fileCount         uint32
	stringTableOffset uint64
	compressionFormat CompressionFormat
}

// headerSize returns the fixed header size for a version.
func headerSize(v Version) int {
	switch v {
	case V2:
		return headerSizeV2
	case V3:
		return headerSizeV3
	default:
		return headerSizeV1
	}
}

// recordSizes returns the file header and chunk record sizes for a format.
func recordSizes(f Format) (int, uint16) {
	switch f {
	case DX10:
		return fileHeaderSizeDX10, chunkRecordSizeDX10
	case GNMF:
		return fileHeaderSizeGNMF, chunkRecordSizeGNMF
	default:
		return fileHeaderSizeGNRL, chunkRecordSizeGNRL
	}
}

// Decode parses an archive from a byte span. Payloads borrow from the
// span, which must outlive the archive.
func Decode(data []byte, opts ReadOptions) (*Archive, Options, error) {
	src := bsarc.NewSource(data)

	hdr, err := readHeader(src)
	if err != nil {
		return nil, Options{}, err
	}

	archive := NewArchive()
	strings := int(hdr.stringTableOffset)
	for i := uint32(0); i < hdr.fileCount; i++ {
		key, file, err := readFile(src, hdr, &strings)
		if err != nil {
			return nil, Options{}, err
		}
		if err := archive.Insert(key, file); err != nil {
			return nil, Options{}, err
		}
	}

	meta := Options{
		Version:           hdr.version,
		Format:            hdr.format,
		CompressionFormat: hdr.compressionFormat,
		Strings:           hdr.stringTableOffset != 0,
	}

	if opts.CompressionResult == bsarc.Decompressed {
		copts := CompressionOptions{Format: hdr.compressionFormat, Level: opts.Level}
		for _, entry := range archive.entries {
			for _, chunk := range entry.File.chunks {
				if !chunk.IsCompressed() {
					continue
				}
				if err := chunk.Decompress(copts); err != nil {
					return nil, Options{}, fmt.Errorf("file %q: %w", entry.Key.name, err)
				}
			}
		}
	}

	return archive, meta, nil
}

// readHeader decodes and validates the archive header.
func readHeader(src *bsarc.Source) (*header, error) {
	magic, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	if magic != bsarc.MagicFO4 {
		return nil, fmt.Errorf("%w: 0x%X", bsarc.ErrInvalidMagic, magic)
	}

	rawVersion, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	version := Version(rawVersion)
	if !version.valid() {
		return nil, fmt.Errorf("%w: %d", bsarc.ErrUnsupportedVersion, rawVersion)
	}

	tag, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	format, ok := formatFromTag(tag)
	if !ok {
		return nil, fmt.Errorf("%w: tag 0x%X", bsarc.ErrUnsupportedFormat, tag)
	}

	fileCount, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	stringTableOffset, err := src.ReadU64(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}

	if version == V2 || version == V3 {
		if _, err := src.ReadU64(bsarc.LittleEndian); err != nil {
			return nil, err
		}
	}

	compressionFormat := Zip
	if version == V3 {
		raw, err := src.ReadU32(bsarc.LittleEndian)
		if err != nil {
			return nil, err
		}
		if raw == compressionFormatLZ4 {
			compressionFormat = LZ4
		}
	}

	return &header{
		version:           version,
		format:            format,
		fileCount:         fileCount,
		stringTableOffset: stringTableOffset,
		compressionFormat: compressionFormat,
	}, nil
}

// formatFromTag resolves an on-disk fourcc into a format.
func formatFromTag(tag uint32) (Format, bool) {
	for format, known := range formatTags {
		if known == tag {
			return format, true
		}
	}
	return GNRL, false
}

// readFile decodes one file record, its chunk records, and its name.
func readFile(src *bsarc.Source, hdr *header, strings *int) (Key, *File, error) {
	var name []byte
	if *strings != 0 {
		err := src.SaveRestore(func(src *bsarc.Source) error {
			if err := src.Seek(*strings); err != nil {
				return err
			}
			var err error
			if name, err = src.ReadWString(bsarc.LittleEndian); err != nil {
				return err
			}
			*strings = src.Pos()
			return nil
		})
		if err != nil {
			return Key{}, nil, err
		}
	}

	var hash Hash
	var err error
	if hash.File, err = src.ReadU32(bsarc.LittleEndian); err != nil {
		return Key{}, nil, err
	}
	if hash.Extension, err = src.ReadU32(bsarc.LittleEndian); err != nil {
		return Key{}, nil, err
	}
	if hash.Directory, err = src.ReadU32(bsarc.LittleEndian); err != nil {
		return Key{}, nil, err
	}

	if _, err := src.ReadU8(); err != nil {
		return Key{}, nil, err
	}
	chunkCount, err := src.ReadU8()
	if err != nil {
		return Key{}, nil, err
	}
	chunkSize, err := src.ReadU16(bsarc.LittleEndian)
	if err != nil {
		return Key{}, nil, err
	}
	if _, want := recordSizes(hdr.format); chunkSize != want {
		return Key{}, nil, fmt.Errorf("%w: chunk record size %#x for %s file %q",
			bsarc.ErrUnsupportedFormat, chunkSize, hdr.format, name)
	}

	fileHeader, err := readFileHeader(src, hdr.format)
	if err != nil {
		return Key{}, nil, err
	}

	file := &File{Header: fileHeader}
	for i := byte(0); i < chunkCount; i++ {
		chunk, err := readChunk(src, hdr.format)
		if err != nil {
			return Key{}, nil, fmt.Errorf("file %q chunk %d: %w", name, i, err)
		}
		file.chunks = append(file.chunks, chunk)
	}

	return Key{name: name, hash: hash}, file, nil
}

// readFileHeader decodes the variant sub-header.
func readFileHeader(src *bsarc.Source, format Format) (FileHeader, error) {
	switch format {
	case DX10:
		var h DX10Header
		var err error
		if h.Height, err = src.ReadU16(bsarc.LittleEndian); err != nil {
			return FileHeader{}, err
		}
		if h.Width, err = src.ReadU16(bsarc.LittleEndian); err != nil {
			return FileHeader{}, err
		}
		for _, field := range []*uint8{&h.MipCount, &h.Format, &h.Flags, &h.TileMode} {
			if *field, err = src.ReadU8(); err != nil {
				return FileHeader{}, err
			}
		}
		return TextureHeader(h), nil
	case GNMF:
		var h GNMFHeader
		raw, err := src.ReadBytes(len(h.Metadata))
		if err != nil {
			return FileHeader{}, err
		}
		copy(h.Metadata[:], raw)
		return ConsoleTextureHeader(h), nil
	default:
		return GeneralHeader(), nil
	}
}

// readChunk decodes one chunk record and slices its payload.
func readChunk(src *bsarc.Source, format Format) (*Chunk, error) {
	dataOffset, err := src.ReadU64(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	compressedSize, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	decompressedSize, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}

	var mips *Mips
	if format == DX10 || format == GNMF {
		first, err := src.ReadU16(bsarc.LittleEndian)
		if err != nil {
			return nil, err
		}
		last, err := src.ReadU16(bsarc.LittleEndian)
		if err != nil {
			return nil, err
		}
		mips = &Mips{First: first, Last: last}
	}

	sentinel, err := src.ReadU32(bsarc.LittleEndian)
	if err != nil {
		return nil, err
	}
	if sentinel != chunkSentinel {
		return nil, fmt.Errorf("%w: chunk sentinel 0x%X", bsarc.ErrUnsupportedFormat, sentinel)
	}

	length := int(decompressedSize)
	if compressedSize != 0 {
		length = int(compressedSize)
	}
	data, err := src.ReadBytesAt(int(dataOffset), length)
	if err != nil {
		return nil, err
	}

	var chunk *Chunk
	if compressedSize != 0 {
		chunk = ChunkFromCompressedBytes(data, int(decompressedSize))
	} else {
		chunk = ChunkFromBytes(data)
	}
	chunk.Mips = mips
	return chunk, nil
}

// Write serializes the archive for the given options: header, file and
// chunk records with precomputed offsets, payloads in traversal order,
// then the optional name table. Invariant violations are reported before
// any byte is written.
func (a *Archive) Write(w io.Writer, opts Options) error {
	opts.applyDefaults()
	if !opts.Version.valid() {
		return fmt.Errorf("%w: %d", bsarc.ErrUnsupportedVersion, opts.Version)
	}

	if err := a.validateFormat(opts); err != nil {
		return err
	}

	fileHeaderSize, chunkRecordSize := recordSizes(opts.Format)
	dataOffset := headerSize(opts.Version)
	for _, entry := range a.entries {
		dataOffset += fileHeaderSize + int(chunkRecordSize)*entry.File.Len()
	}

	stringTableOffset := dataOffset
	for _, entry := range a.entries {
		for _, chunk := range entry.File.chunks {
			stringTableOffset += chunk.Len()
		}
	}

	sink := bsarc.NewSink(w)
	if err := writeArchiveHeader(sink, opts, uint32(len(a.entries)), uint64(stringTableOffset)); err != nil {
		return err
	}

	offset := uint64(dataOffset)
	for _, entry := range a.entries {
		if err := writeFileRecord(sink, opts, entry, chunkRecordSize, &offset); err != nil {
			return err
		}
	}

	for _, entry := range a.entries {
		for _, chunk := range entry.File.chunks {
			if err := sink.WriteBytes(chunk.Bytes()); err != nil {
				return err
			}
		}
	}

	if opts.Strings {
		for _, entry := range a.entries {
			if err := sink.WriteWString(entry.Key.name, bsarc.LittleEndian); err != nil {
				return err
			}
		}
	}

	return nil
}

// validateFormat checks every file and chunk against the write format.
func (a *Archive) validateFormat(opts Options) error {
	for _, entry := range a.entries {
		if entry.File.Header.Kind != opts.Format {
			return fmt.Errorf("%w: file %q is %s, archive is %s",
				bsarc.ErrFormatMismatch, entry.Key.name, entry.File.Header.Kind, opts.Format)
		}
		if (opts.Format == DX10 && entry.File.Header.DX10 == nil) ||
			(opts.Format == GNMF && entry.File.Header.GNMF == nil) {
			return fmt.Errorf("%w: file %q is missing its %s sub-header",
				bsarc.ErrFormatMismatch, entry.Key.name, opts.Format)
		}
		for i, chunk := range entry.File.chunks {
			hasMips := chunk.Mips != nil
			wantMips := opts.Format != GNRL
			if hasMips != wantMips {
				return fmt.Errorf("%w: file %q chunk %d mip range does not match %s",
					bsarc.ErrFormatMismatch, entry.Key.name, i, opts.Format)
			}
		}
	}
	return nil
}

// writeArchiveHeader emits the fixed header for a version.
func writeArchiveHeader(sink *bsarc.Sink, opts Options, fileCount uint32, stringTableOffset uint64) error {
	if err := sink.WriteU32(bsarc.MagicFO4, bsarc.LittleEndian); err != nil {
		return err
	}
	if err := sink.WriteU32(uint32(opts.Version), bsarc.LittleEndian); err != nil {
		return err
	}
	if err := sink.WriteU32(formatTags[opts.Format], bsarc.LittleEndian); err != nil {
		return err
	}
	if err := sink.WriteU32(fileCount, bsarc.LittleEndian); err != nil {
		return err
	}

	if !opts.Strings {
		stringTableOffset = 0
	}
	if err := sink.WriteU64(stringTableOffset, bsarc.LittleEndian); err != nil {
		return err
	}

	if opts.Version == V2 || opts.Version == V3 {
		if err := sink.WriteU64(1, bsarc.LittleEndian); err != nil {
			return err
		}
	}
	if opts.Version == V3 {
		raw := uint32(0)
		if opts.CompressionFormat == LZ4 {
			raw = compressionFormatLZ4
		}
		if err := sink.WriteU32(raw, bsarc.LittleEndian); err != nil {
			return err
		}
	}

	return nil
}

// writeFileRecord emits one file record with its chunk records,
// advancing the running payload offset.
func writeFileRecord(sink *bsarc.Sink, opts Options, entry Entry, chunkRecordSize uint16, offset *uint64) error {
	for _, word := range [3]uint32{entry.Key.hash.File, entry.Key.hash.Extension, entry.Key.hash.Directory} {
		if err := sink.WriteU32(word, bsarc.LittleEndian); err != nil {
			return err
		}
	}

	if err := sink.WriteU8(0); err != nil {
		return err
	}
	if err := sink.WriteU8(uint8(entry.File.Len())); err != nil {
		return err
	}
	if err := sink.WriteU16(chunkRecordSize, bsarc.LittleEndian); err != nil {
		return err
	}

	switch opts.Format {
	case DX10:
		h := entry.File.Header.DX10
		if err := sink.WriteU16(h.Height, bsarc.LittleEndian); err != nil {
			return err
		}
		if err := sink.WriteU16(h.Width, bsarc.LittleEndian); err != nil {
			return err
		}
		for _, b := range [4]uint8{h.MipCount, h.Format, h.Flags, h.TileMode} {
			if err := sink.WriteU8(b); err != nil {
				return err
			}
		}
	case GNMF:
		if err := sink.WriteBytes(entry.File.Header.GNMF.Metadata[:]); err != nil {
			return err
		}
	case GNRL:
	}

	for _, chunk := range entry.File.chunks {
		if err := writeChunkRecord(sink, opts, chunk, offset); err != nil {
			return err
		}
	}

	return nil
}

// writeChunkRecord emits one chunk record, advancing the running payload
// offset.
func writeChunkRecord(sink *bsarc.Sink, opts Options, chunk *Chunk, offset *uint64) error {
	if err := sink.WriteU64(*offset, bsarc.LittleEndian); err != nil {
		return err
	}
	*offset += uint64(chunk.Len())

	compressedSize, decompressedSize := uint32(0), uint32(chunk.Len())
	if chunk.IsCompressed() {
		compressedSize = uint32(chunk.Len())
		decompressedSize = uint32(chunk.DecompressedLen())
	}
	if err := sink.WriteU32(compressedSize, bsarc.LittleEndian); err != nil {
		return err
	}
	if err := sink.WriteU32(decompressedSize, bsarc.LittleEndian); err != nil {
		return err
	}

	if opts.Format != GNRL {
		if err := sink.WriteU16(chunk.Mips.First, bsarc.LittleEndian); err != nil {
			return err
		}
		if err := sink.WriteU16(chunk.Mips.Last, bsarc.LittleEndian); err != nil {
			return err
		}
	}

	return sink.WriteU32(chunkSentinel, bsarc.LittleEndian)
}
