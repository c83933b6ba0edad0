package bsarc

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

// codecPayload builds a compressible pseudo-random buffer.
func codecPayload(n int) []byte {
	rng := rand.New(rand.NewSource(42))
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(rng.Intn(16)) // low entropy keeps every codec effective
	}
	return out
}

func TestCodecRoundTrips(t *testing.T) {
	t.Parallel()

	codecs := []struct {
		name  string
		codec Codec
	}{
		{name: "zlib default", codec: ZlibCodec{}},
		{name: "zlib best", codec: ZlibCodec{Level: 9}},
		{name: "lz4 frame", codec: LZ4FrameCodec{}},
		{name: "lz4 block", codec: LZ4BlockCodec{}},
	}

	payload := codecPayload(64 * 1024)
	for _, tc := range codecs {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			compressed, err := tc.codec.Compress(payload)
			if err != nil {
				t.Fatalf("compress: %v", err)
			}
			if len(compressed) >= len(payload) {
				t.Fatalf("payload did not shrink: %d -> %d", len(payload), len(compressed))
			}
			if len(compressed) > tc.codec.Bound(len(payload)) {
				t.Fatalf("output %d exceeds bound %d", len(compressed), tc.codec.Bound(len(payload)))
			}

			out, err := tc.codec.Decompress(compressed, len(payload))
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if !bytes.Equal(out, payload) {
				t.Fatal("round trip diverged")
			}

			if _, err := tc.codec.Decompress(compressed, len(payload)-1); !errors.Is(err, ErrSizeMismatch) {
				t.Fatalf("expected ErrSizeMismatch for short expectation, got %v", err)
			}
		})
	}
}

func TestCodecGarbageInput(t *testing.T) {
	t.Parallel()

	garbage := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}
	codecs := []Codec{ZlibCodec{}, LZ4FrameCodec{}, LZ4BlockCodec{}}
	for _, codec := range codecs {
		if _, err := codec.Decompress(garbage, 1024); err == nil {
			t.Fatalf("%T accepted garbage input", codec)
		}
	}
}
