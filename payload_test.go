package bsarc

import (
	"bytes"
	"errors"
	"testing"
)

func TestPayloadDefaultStates(t *testing.T) {
	t.Parallel()

	data := []byte("hello")

	borrowed := BorrowedPayload(data)
	if borrowed.Owned() || borrowed.IsCompressed() {
		t.Fatal("borrowed payload should be unowned and decompressed")
	}
	if borrowed.DecompressedLen() != len(data) {
		t.Fatalf("DecompressedLen = %d", borrowed.DecompressedLen())
	}
	if &borrowed.Bytes()[0] != &data[0] {
		t.Fatal("borrowed payload should alias the source span")
	}

	owned := OwnedPayload(append([]byte(nil), data...))
	if !owned.Owned() {
		t.Fatal("owned payload should report ownership")
	}

	compressed := BorrowedCompressedPayload(data, 128)
	if !compressed.IsCompressed() || compressed.DecompressedLen() != 128 {
		t.Fatalf("compressed payload state: %v", compressed)
	}
}

func TestPayloadTakeOwnedClones(t *testing.T) {
	t.Parallel()

	data := []byte("hello")
	p := BorrowedPayload(data)

	owned := p.TakeOwned()
	if &owned[0] == &data[0] {
		t.Fatal("TakeOwned should clone borrowed bytes")
	}
	if !p.Owned() {
		t.Fatal("payload should own its buffer after TakeOwned")
	}

	// a second call must not clone again
	if again := p.TakeOwned(); &again[0] != &owned[0] {
		t.Fatal("TakeOwned cloned an already owned buffer")
	}
}

func TestPayloadCompressRoundTrip(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("the quick brown fox "), 64)
	p := BorrowedPayload(data)

	compressed, err := p.Compress(ZlibCodec{})
	if err != nil {
		t.Fatal(err)
	}
	if !compressed.IsCompressed() {
		t.Fatal("compressed payload not marked compressed")
	}
	if compressed.DecompressedLen() != len(data) {
		t.Fatalf("DecompressedLen = %d, want %d", compressed.DecompressedLen(), len(data))
	}

	if _, err := compressed.Compress(ZlibCodec{}); !errors.Is(err, ErrAlreadyCompressed) {
		t.Fatalf("expected ErrAlreadyCompressed, got %v", err)
	}

	decompressed, err := compressed.Decompress(ZlibCodec{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed.Bytes(), data) {
		t.Fatal("round trip diverged")
	}

	if _, err := decompressed.Decompress(ZlibCodec{}); !errors.Is(err, ErrAlreadyDecompressed) {
		t.Fatalf("expected ErrAlreadyDecompressed, got %v", err)
	}
}

func TestPayloadDecompressVerifiesSize(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("abcd"), 100)
	compressed, err := BorrowedPayload(data).Compress(ZlibCodec{})
	if err != nil {
		t.Fatal(err)
	}

	lying := BorrowedCompressedPayload(compressed.Bytes(), len(data)+1)
	if _, err := lying.Decompress(ZlibCodec{}); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}
