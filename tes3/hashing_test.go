package tes3

import "testing"

func TestHashFileVectors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want uint64
	}{
		{path: "meshes/c/artifact_bloodring_01.nif", want: 0x1C3C1149920D5F0C},
		{path: "meshes/x/ex_stronghold_pylon00.nif", want: 0x20250749ACCCD202},
		{path: "meshes/r/xsteam_centurions.kf", want: 0x6E5C0F3125072EA6},
		{path: "textures/tx_rock_cave_mu_01.dds", want: 0x58060C2FA3D8F759},
		{path: "meshes/f/furn_ashl_chime_02.nif", want: 0x7C3B2F3ABFFC8611},
		{path: "textures/tx_rope_woven.dds", want: 0x5865632F0C052C64},
		{path: "icons/a/tx_templar_skirt.dds", want: 0x46512A0B60EDA673},
		{path: "icons/m/misc_prongs00.dds", want: 0x51715677BBA837D3},
		{path: "meshes/i/in_c_stair_plain_tall_02.nif", want: 0x2A324956BF89B1C9},
		{path: "meshes/r/xkwama worker.nif", want: 0x6D446E352C3F5A1E},
	}

	for _, tc := range cases {
		hash, _ := HashFile([]byte(tc.path))
		if got := hash.Numeric(); got != tc.want {
			t.Errorf("HashFile(%q) = %016X, want %016X", tc.path, got, tc.want)
		}
	}
}

func TestHashFileSeparatorsAndCase(t *testing.T) {
	t.Parallel()

	forward, _ := HashFile([]byte("foo/bar/baz"))
	backward, _ := HashFile([]byte(`foo\bar\baz`))
	if forward != backward {
		t.Fatal("separator style must not change the hash")
	}

	upper, _ := HashFile([]byte("FOO/BAR/BAZ"))
	if upper != forward {
		t.Fatal("hashing must be case-insensitive")
	}
}

func TestHashSortOrder(t *testing.T) {
	t.Parallel()

	lhs := Hash{Lo: 0, Hi: 1}
	rhs := Hash{Lo: 1, Hi: 0}
	if lhs.Numeric() >= rhs.Numeric() {
		t.Fatal("Lo must be the high half of the numeric value")
	}
}

func TestHashEmptyState(t *testing.T) {
	t.Parallel()

	var h Hash
	if h.Lo != 0 || h.Hi != 0 || h.Numeric() != 0 {
		t.Fatal("zero hash must be numerically zero")
	}
}
