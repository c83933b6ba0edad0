package fo4

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/aldmeris/bsarc"
	"github.com/woozymasta/pathrules"
)

func TestArchiveDefaultState(t *testing.T) {
	t.Parallel()

	archive := NewArchive()
	if !archive.IsEmpty() || archive.Len() != 0 {
		t.Fatal("new archive should be empty")
	}
}

// buildGeneralArchive builds a GNRL archive with one single-chunk file.
func buildGeneralArchive(t *testing.T, name string, data []byte) *Archive {
	t.Helper()

	file := NewFile(GeneralHeader())
	if err := file.Push(ChunkFromBytes(data)); err != nil {
		t.Fatal(err)
	}

	archive := NewArchive()
	if err := archive.Insert(NewKey([]byte(name)), file); err != nil {
		t.Fatal(err)
	}
	return archive
}

func TestGeneralRoundTrip(t *testing.T) {
	t.Parallel()

	data := []byte("Hello world!\n")
	archive := buildGeneralArchive(t, "hello.txt", data)

	var buf bytes.Buffer
	if err := archive.Write(&buf, Options{Version: V1, Strings: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.Bytes()

	// chunk record: a GNRL file record is hash(12) + counts(4), then
	// dataOffset(8) + compressedSize(4) + decompressedSize(4) + sentinel
	record := headerSizeV1 + fileHeaderSizeGNRL
	if got := binary.LittleEndian.Uint32(out[record+8 : record+12]); got != 0 {
		t.Fatalf("compressed size = %d for an uncompressed chunk", got)
	}
	if got := binary.LittleEndian.Uint32(out[record+12 : record+16]); got != uint32(len(data)) {
		t.Fatalf("decompressed size = %d, want %d", got, len(data))
	}
	if got := binary.LittleEndian.Uint32(out[record+16 : record+20]); got != chunkSentinel {
		t.Fatalf("sentinel = %#x", got)
	}

	decoded, meta, err := Decode(out, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if meta.Version != V1 || meta.Format != GNRL || !meta.Strings {
		t.Fatalf("meta = %+v", meta)
	}

	file := decoded.GetName([]byte("hello.txt"))
	if file == nil || file.Len() != 1 {
		t.Fatal("file lost in round trip")
	}
	chunk := file.Chunk(0)
	if chunk.IsCompressed() || chunk.Mips != nil {
		t.Fatal("GNRL chunk must be uncompressed with no mip range")
	}
	if !bytes.Equal(chunk.Bytes(), data) {
		t.Fatal("payload diverged")
	}

	entries := decoded.Entries()
	if string(entries[0].Key.Name()) != "hello.txt" {
		t.Fatalf("name table entry = %q", entries[0].Key.Name())
	}

	var again bytes.Buffer
	if err := decoded.Write(&again, meta); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.Bytes(), out) {
		t.Fatal("encode(decode(bytes)) diverged")
	}
}

func TestHeaderSizesPerVersion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		version Version
		want    int
	}{
		{version: V1, want: headerSizeV1},
		{version: V2, want: headerSizeV2},
		{version: V3, want: headerSizeV3},
		{version: V7, want: headerSizeV1},
		{version: V8, want: headerSizeV1},
	}

	for _, tc := range cases {
		archive := NewArchive() // empty: header then nothing
		var buf bytes.Buffer
		if err := archive.Write(&buf, Options{Version: tc.version}); err != nil {
			t.Fatal(err)
		}
		if buf.Len() != tc.want {
			t.Fatalf("version %d header = %d bytes, want %d", tc.version, buf.Len(), tc.want)
		}

		decoded, meta, err := Decode(buf.Bytes(), ReadOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if decoded.Len() != 0 || meta.Version != tc.version {
			t.Fatalf("version %d round trip meta = %+v", tc.version, meta)
		}
	}
}

func TestTextureRoundTripPreservesChunks(t *testing.T) {
	t.Parallel()

	file := NewFile(TextureHeader(DX10Header{
		Height:   512,
		Width:    512,
		MipCount: 11,
		Format:   99,
		TileMode: 8,
	}))

	first := ChunkFromBytes(bytes.Repeat([]byte("mip0"), 256))
	first.Mips = &Mips{First: 0, Last: 3}
	second := ChunkFromBytes(bytes.Repeat([]byte("tail"), 64))
	second.Mips = &Mips{First: 4, Last: 10}
	if err := file.Push(first); err != nil {
		t.Fatal(err)
	}
	if err := file.Push(second); err != nil {
		t.Fatal(err)
	}

	archive := NewArchive()
	if err := archive.Insert(NewKey([]byte(`textures\stone\wall01.dds`)), file); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	opts := Options{Version: V2, Format: DX10, Strings: true}
	if err := archive.Write(&buf, opts); err != nil {
		t.Fatal(err)
	}

	decoded, meta, err := Decode(buf.Bytes(), ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if meta.Format != DX10 || meta.Version != V2 {
		t.Fatalf("meta = %+v", meta)
	}

	got := decoded.GetName([]byte(`textures\stone\wall01.dds`))
	if got == nil || got.Len() != 2 {
		t.Fatal("texture lost in round trip")
	}
	header := got.Header
	if header.Kind != DX10 || header.DX10 == nil || header.DX10.Height != 512 || header.DX10.MipCount != 11 {
		t.Fatalf("texture header = %+v", header)
	}
	if *got.Chunk(0).Mips != (Mips{First: 0, Last: 3}) || *got.Chunk(1).Mips != (Mips{First: 4, Last: 10}) {
		t.Fatal("mip ranges lost in round trip")
	}
	if !bytes.Equal(got.Chunk(0).Bytes(), first.Bytes()) || !bytes.Equal(got.Chunk(1).Bytes(), second.Bytes()) {
		t.Fatal("chunk order or payloads diverged")
	}
}

func TestConsoleTextureRoundTrip(t *testing.T) {
	t.Parallel()

	var meta GNMFHeader
	for i := range meta.Metadata {
		meta.Metadata[i] = byte(i * 3)
	}

	file := NewFile(ConsoleTextureHeader(meta))
	chunk := ChunkFromBytes([]byte("gnm texture bytes"))
	chunk.Mips = &Mips{First: 0, Last: 0}
	if err := file.Push(chunk); err != nil {
		t.Fatal(err)
	}

	archive := NewArchive()
	if err := archive.Insert(NewKey([]byte(`textures\ps.gnf`)), file); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := archive.Write(&buf, Options{Version: V1, Format: GNMF, Strings: true}); err != nil {
		t.Fatal(err)
	}

	decoded, readMeta, err := Decode(buf.Bytes(), ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if readMeta.Format != GNMF {
		t.Fatalf("format = %v", readMeta.Format)
	}

	got := decoded.GetName([]byte(`textures\ps.gnf`))
	if got == nil || got.Header.GNMF == nil {
		t.Fatal("console texture lost in round trip")
	}
	if got.Header.GNMF.Metadata != meta.Metadata {
		t.Fatal("metadata blob diverged")
	}
}

func TestCompressedChunksPerFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		opts CompressionOptions
	}{
		{name: "zip fo4", opts: CompressionOptions{Format: Zip, Level: LevelFO4}},
		{name: "zip sf", opts: CompressionOptions{Format: Zip, Level: LevelSF}},
		{name: "lz4 block", opts: CompressionOptions{Format: LZ4}},
	}

	data := bytes.Repeat([]byte("chunk payload rows "), 128)
	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			chunk := ChunkFromBytes(data)
			if err := chunk.Compress(tc.opts); err != nil {
				t.Fatal(err)
			}
			if !chunk.IsCompressed() || chunk.DecompressedLen() != len(data) {
				t.Fatal("compression state wrong")
			}

			if err := chunk.Decompress(tc.opts); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(chunk.Bytes(), data) {
				t.Fatal("round trip diverged")
			}
		})
	}
}

func TestV3CompressionFormatField(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("starfield "), 200)
	archive := buildGeneralArchive(t, "data.bin", data)
	file := archive.GetName([]byte("data.bin"))
	if err := file.Chunk(0).Compress(CompressionOptions{Format: LZ4}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	opts := Options{Version: V3, CompressionFormat: LZ4, Strings: true}
	if err := archive.Write(&buf, opts); err != nil {
		t.Fatal(err)
	}

	// the compression-format word trails the v3 header
	if got := binary.LittleEndian.Uint32(buf.Bytes()[headerSizeV3-4 : headerSizeV3]); got != compressionFormatLZ4 {
		t.Fatalf("compression format word = %d", got)
	}

	decoded, meta, err := Decode(buf.Bytes(), ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if meta.CompressionFormat != LZ4 {
		t.Fatal("compression format lost")
	}

	chunk := decoded.GetName([]byte("data.bin")).Chunk(0)
	if !chunk.IsCompressed() || chunk.DecompressedLen() != len(data) {
		t.Fatal("compressed chunk state lost")
	}
	if err := chunk.Decompress(CompressionOptions{Format: meta.CompressionFormat}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(chunk.Bytes(), data) {
		t.Fatal("payload diverged")
	}
}

func TestEagerDecompression(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("texture rows "), 64)
	archive := buildGeneralArchive(t, "t.bin", data)
	if err := archive.GetName([]byte("t.bin")).Chunk(0).Compress(CompressionOptions{}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := archive.Write(&buf, Options{Version: V1, Strings: true}); err != nil {
		t.Fatal(err)
	}

	decoded, _, err := Decode(buf.Bytes(), ReadOptions{CompressionResult: bsarc.Decompressed})
	if err != nil {
		t.Fatal(err)
	}
	chunk := decoded.GetName([]byte("t.bin")).Chunk(0)
	if chunk.IsCompressed() || !bytes.Equal(chunk.Bytes(), data) {
		t.Fatal("eager decode failed")
	}
}

func TestWriteFormatMismatch(t *testing.T) {
	t.Parallel()

	archive := buildGeneralArchive(t, "a.bin", []byte("x"))

	var buf bytes.Buffer
	err := archive.Write(&buf, Options{Version: V1, Format: DX10})
	if !errors.Is(err, bsarc.ErrFormatMismatch) {
		t.Fatalf("expected ErrFormatMismatch, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("%d bytes written despite the mismatch", buf.Len())
	}
}

func TestChunkCapacity(t *testing.T) {
	t.Parallel()

	file := NewFile(GeneralHeader())
	for i := 0; i < maxChunks; i++ {
		if err := file.Push(ChunkFromBytes([]byte{byte(i)})); err != nil {
			t.Fatal(err)
		}
	}
	if err := file.Push(ChunkFromBytes([]byte("overflow"))); !errors.Is(err, ErrTooManyChunks) {
		t.Fatalf("expected ErrTooManyChunks, got %v", err)
	}
}

func TestDecodeBadSentinel(t *testing.T) {
	t.Parallel()

	archive := buildGeneralArchive(t, "a.bin", []byte("payload"))
	var buf bytes.Buffer
	if err := archive.Write(&buf, Options{Version: V1}); err != nil {
		t.Fatal(err)
	}

	out := buf.Bytes()
	record := headerSizeV1 + fileHeaderSizeGNRL
	binary.LittleEndian.PutUint32(out[record+16:record+20], 0xDEADBEEF)

	if _, _, err := Decode(out, ReadOptions{}); !errors.Is(err, bsarc.ErrUnsupportedFormat) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}

func TestDecodeUnknownVersionAndFormat(t *testing.T) {
	t.Parallel()

	data := make([]byte, headerSizeV1)
	copy(data, "BTDX")
	binary.LittleEndian.PutUint32(data[4:8], 9)
	copy(data[8:12], "GNRL")
	if _, _, err := Decode(data, ReadOptions{}); !errors.Is(err, bsarc.ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}

	binary.LittleEndian.PutUint32(data[4:8], 1)
	copy(data[8:12], "WXYZ")
	if _, _, err := Decode(data, ReadOptions{}); !errors.Is(err, bsarc.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestCompressFilesWithRules(t *testing.T) {
	t.Parallel()

	big := NewFile(GeneralHeader())
	if err := big.Push(ChunkFromBytes(bytes.Repeat([]byte("z"), 4096))); err != nil {
		t.Fatal(err)
	}
	small := NewFile(GeneralHeader())
	if err := small.Push(ChunkFromBytes([]byte("tiny"))); err != nil {
		t.Fatal(err)
	}

	archive := NewArchive()
	if err := archive.Insert(NewKey([]byte(`sound\big.xwm`)), big); err != nil {
		t.Fatal(err)
	}
	if err := archive.Insert(NewKey([]byte(`sound\small.xwm`)), small); err != nil {
		t.Fatal(err)
	}

	rules, err := bsarc.NewCompressRules(bsarc.CompressRulesOptions{
		Rules:   []pathrules.Rule{{Action: pathrules.ActionInclude, Pattern: "*.xwm"}},
		MinSize: 1024,
	})
	if err != nil {
		t.Fatal(err)
	}

	transitioned, err := archive.CompressFiles(rules, CompressionOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if transitioned != 1 {
		t.Fatalf("transitioned %d chunks, want 1", transitioned)
	}
	if !archive.GetName([]byte(`sound\big.xwm`)).Chunk(0).IsCompressed() {
		t.Fatal("big file should be compressed")
	}
	if archive.GetName([]byte(`sound\small.xwm`)).Chunk(0).IsCompressed() {
		t.Fatal("size gate ignored")
	}
}
