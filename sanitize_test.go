package bsarc

import (
	"errors"
	"testing"
)

func TestSanitizeExtractPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "plain", in: `meshes\chair.nif`, want: "meshes/chair.nif"},
		{name: "mixed separators", in: `meshes/clutter\cup.nif`, want: "meshes/clutter/cup.nif"},
		{name: "unsafe chars", in: `a:b\c?d.nif`, want: "a_b/c_d.nif"},
		{name: "empty segments dropped", in: `a\\b`, want: "a/b"},
		{name: "traversal", in: `..\secrets.txt`, wantErr: ErrExtractPathOutsideRoot},
		{name: "absolute", in: `/etc/passwd`, wantErr: ErrInvalidExtractPath},
		{name: "empty", in: "", wantErr: ErrInvalidExtractPath},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := SanitizeExtractPath([]byte(tc.in))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("SanitizeExtractPath(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
