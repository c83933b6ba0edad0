package bsarc

import (
	"bytes"
	"testing"
)

func TestNormalizePathMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase", in: "FOO/BAR/BAZ", want: `foo\bar\baz`},
		{name: "forward slashes", in: "foo/bar", want: `foo\bar`},
		{name: "backslashes kept", in: `foo\bar`, want: `foo\bar`},
		{name: "leading separator trimmed", in: `\foo`, want: "foo"},
		{name: "trailing separator trimmed", in: `foo\`, want: "foo"},
		{name: "empty collapses", in: "", want: "."},
		{name: "separators only collapse", in: `\\`, want: "."},
		{name: "dot preserved", in: ".", want: "."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizePath([]byte(tc.in))
			if !bytes.Equal(got, []byte(tc.want)) {
				t.Fatalf("NormalizePath(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizePathNonASCIIPassthrough(t *testing.T) {
	t.Parallel()

	in := []byte{'a', 0xED, 0xFF, 'Z'}
	got := NormalizePath(in)
	want := []byte{'a', 0xED, 0xFF, 'z'}
	if !bytes.Equal(got, want) {
		t.Fatalf("NormalizePath(%v) = %v, want %v", in, got, want)
	}
}

func TestNormalizePathLongPathsCollapse(t *testing.T) {
	t.Parallel()

	long := make([]byte, 260)
	for i := range long {
		long[i] = 'a'
	}
	if got := NormalizePath(long); !bytes.Equal(got, []byte(".")) {
		t.Fatalf("expected 260-byte path to collapse to %q, got %q", ".", got)
	}

	ok := long[:259]
	if got := NormalizePath(ok); len(got) != 259 {
		t.Fatalf("expected 259-byte path to survive, got %d bytes", len(got))
	}
}

func TestFourCC(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want uint32
	}{
		{in: "", want: 0x00000000},
		{in: "A", want: 0x00000041},
		{in: "AB", want: 0x00004241},
		{in: "ABC", want: 0x00434241},
		{in: "ABCD", want: 0x44434241},
		{in: "ABCDE", want: 0x44434241},
	}

	for _, tc := range cases {
		if got := FourCC([]byte(tc.in)); got != tc.want {
			t.Errorf("FourCC(%q) = 0x%08X, want 0x%08X", tc.in, got, tc.want)
		}
	}
}
