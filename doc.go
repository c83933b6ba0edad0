// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

/*
Package bsarc provides read, query, mutate, and write operations for the
family of Creation Engine archive containers. Three generations are
supported, each in its own subpackage:

  - tes3: the flat Morrowind .bsa archive;
  - tes4: the hierarchical Oblivion through Skyrim .bsa archive with
    optional per-file compression;
  - fo4: the chunked Fallout 4 through Starfield .ba2 archive with
    general, DirectX texture, and console texture file variants.

The root package carries the shared plumbing: the memory-mapped byte-range
provider, the bounds-checked structured cursor and sink, the tri-state
payload container, the compression codecs, and key normalization. Archives
parse into a fully materialized in-memory tree whose payload bytes stay
borrowed from the backing mapping until a caller takes ownership or a
compression transition forces a copy.

# Reading

Detect the generation, then parse with the matching subpackage:

	f, err := os.Open("Morrowind.bsa")
	if err != nil {
	    return err
	}
	format, err := bsarc.GuessFormat(f)
	_ = f.Close()
	if err != nil || format != bsarc.FormatTES3 {
	    return err
	}
	archive, err := tes3.Open("Morrowind.bsa")
	if err != nil {
	    return err
	}
	defer archive.Close()

Borrowed payloads alias the archive mapping: take ownership of anything
that must outlive the archive, or close the archive last.

# Writing

Archives write through any io.Writer. The produced bytes are bit-exact for
a byte-identical tree and options:

	var buf bytes.Buffer
	if err := archive.Write(&buf); err != nil {
	    return err
	}

Payload compression state is explicit: writing never changes a payload;
use the per-format Compress/Decompress operations, or the rule-driven
CompressFiles helpers, before writing.
*/
package bsarc
