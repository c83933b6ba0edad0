// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

/*
Package fo4 reads and writes the chunked .ba2 archive used from
Fallout 4 (version 1, plus the 7/8 revisions of the next-gen update)
through Starfield (versions 2 and 3). Files are sequences of chunks; a
per-archive format tag selects the file header variant: GNRL for general
data, DX10 for DirectX textures with streamable mip ranges, and GNMF for
console textures carrying an opaque metadata blob.

Open an archive and pull a file:

	archive, meta, err := fo4.Open("Fallout4 - Interface.ba2", fo4.ReadOptions{})
	if err != nil {
	    return err
	}
	defer archive.Close()

	file := archive.GetName([]byte("Interface/HUDMenu.swf"))
	if file != nil {
	    err = file.WriteDecompressed(dst, fo4.CompressionOptions{Format: meta.CompressionFormat})
	}

Build and write an archive:

	file := fo4.NewFile(fo4.GeneralHeader())
	_ = file.Push(fo4.ChunkFromBytes([]byte("Hello world!\n")))
	archive := fo4.NewArchive()
	_ = archive.Insert(fo4.NewKey([]byte("hello.txt")), file)
	err := archive.Write(&buf, fo4.Options{Version: fo4.V1, Strings: true})

Chunks are compressed independently; the zip format takes a selectable
level while the modern variant uses LZ4 blocks.
*/
package fo4
