package tes4

import "testing"

func TestHashDirectoryVectors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want uint64
	}{
		{path: "textures/armor/amuletsandrings/elder council", want: 0x04BC422C742C696C},
		{path: "sound/voice/skyrim.esm/maleuniquedbguardian", want: 0x594085AC732B616E},
		{path: "textures/architecture/windhelm", want: 0xC1D97EBE741E6C6D},
	}

	for _, tc := range cases {
		hash, _ := HashDirectory([]byte(tc.path))
		if got := hash.Numeric(); got != tc.want {
			t.Errorf("HashDirectory(%q) = %016X, want %016X", tc.path, got, tc.want)
		}
	}
}

func TestHashFileVectors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want uint64
	}{
		{path: "darkbrotherhood__0007469a_1.fuz", want: 0x011F11B0641B5F31},
		{path: "elder_council_amulet_n.dds", want: 0xDC531E2F6516DFEE},
		{path: "testtoddquest_testtoddhappy_00027fa2_1.mp3", want: 0xDE0301EE74265F31},
		{path: "Mar\xEDa_F.fuz", want: 0x690E07826D075F66},
	}

	for _, tc := range cases {
		hash, _ := HashFile([]byte(tc.path))
		if got := hash.Numeric(); got != tc.want {
			t.Errorf("HashFile(%q) = %016X, want %016X", tc.path, got, tc.want)
		}
	}
}

func TestHashEmptyPathEqualsCurrentPath(t *testing.T) {
	t.Parallel()

	empty, _ := HashDirectory(nil)
	current, _ := HashDirectory([]byte("."))
	if empty != current {
		t.Fatal("empty path must hash like the current directory")
	}
}

func TestHashExtensionDetection(t *testing.T) {
	t.Parallel()

	// names that are all extension collapse to the zero hash
	gitignore, _ := HashFile([]byte(".gitignore"))
	gitmodules, _ := HashFile([]byte(".gitmodules"))
	if gitignore != gitmodules || gitignore.Numeric() != 0 {
		t.Fatal("dotfiles must collapse to the zero hash")
	}
}

func TestHashLengthLimits(t *testing.T) {
	t.Parallel()

	long := make([]byte, 260)
	good, _ := HashFile(long[:259])
	bad, _ := HashFile(long)
	if good.Numeric() == 0 {
		t.Fatal("259-byte name must hash")
	}
	if bad.Numeric() != 0 {
		t.Fatal("260-byte name must collapse to zero")
	}

	okExt, _ := HashFile([]byte("test.123456789ABCDE"))
	badExt, _ := HashFile([]byte("test.123456789ABCDEF"))
	if okExt.Numeric() == 0 || badExt.Numeric() != 0 {
		t.Fatal("extension length limit is 14 characters")
	}
}

func TestHashParentDirectoriesStripped(t *testing.T) {
	t.Parallel()

	withDir, _ := HashFile([]byte("users/john/test.txt"))
	without, _ := HashFile([]byte("test.txt"))
	if withDir != without {
		t.Fatal("parent directories must not contribute to file hashes")
	}
}

func TestHashRootPathsDiffer(t *testing.T) {
	t.Parallel()

	h1, _ := HashDirectory([]byte(`C:\foo\bar\baz`))
	h2, _ := HashDirectory([]byte(`foo\bar\baz`))
	if h1 == h2 {
		t.Fatal("root prefixes must contribute to directory hashes")
	}
}
