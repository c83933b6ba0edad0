// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

/*
Package tes4 reads and writes the hierarchical .bsa archive used from
Oblivion (version 103) through Skyrim Special Edition (version 105).
Archives map directory keys to directories and directory keys to files;
files optionally store their payload compressed with zlib (103/104) or
an LZ4 frame (105).

Open an archive and fetch a file:

	archive, meta, err := tes4.Open("Oblivion - Voices2.bsa", tes4.ReadOptions{})
	if err != nil {
	    return err
	}
	defer archive.Close()

	dir := archive.GetName([]byte("sound/voice/oblivion.esm/imperial/m"))
	if dir == nil {
	    return nil
	}
	file := dir.GetName([]byte("testtoddquest_testtoddhappy_00027fa2_1.mp3"))
	if file != nil {
	    err = file.WriteDecompressed(dst, tes4.CompressionOptions{Version: meta.Version})
	}

Build and write an archive:

	archive := tes4.NewArchive()
	dir := tes4.NewDirectory()
	_ = dir.Insert(tes4.NewDirectoryKey([]byte("t.dds")), tes4.FileFromBytes(data))
	_ = archive.Insert(tes4.NewArchiveKey([]byte(`textures`)), dir)
	err := archive.Write(&buf, tes4.Options{
	    Version: tes4.SSE,
	    Flags:   tes4.DirectoryStrings | tes4.FileStrings,
	})

Setting a flag mutates metadata only; payload compression state changes
only through the explicit Compress/Decompress operations or the
rule-driven CompressFiles helper.
*/
package tes4
