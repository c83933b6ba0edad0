package bsarc

import (
	"bytes"
	"errors"
	"testing"
)

func TestGuessFormatBytes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data []byte
		want Format
	}{
		{name: "morrowind", data: []byte{0x00, 0x01, 0x00, 0x00}, want: FormatTES3},
		{name: "oblivion", data: []byte("BSA\x00rest"), want: FormatTES4},
		{name: "fallout4", data: []byte("BTDXrest"), want: FormatFO4},
		{name: "unknown", data: []byte("GGPK"), want: FormatUnknown},
		{name: "short", data: []byte{0x42}, want: FormatUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := GuessFormatBytes(tc.data); got != tc.want {
				t.Fatalf("GuessFormatBytes = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGuessFormatReader(t *testing.T) {
	t.Parallel()

	format, err := GuessFormat(bytes.NewReader([]byte("BTDX")))
	if err != nil || format != FormatFO4 {
		t.Fatalf("GuessFormat = %v, %v", format, err)
	}

	if _, err := GuessFormat(bytes.NewReader([]byte{1, 2})); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
