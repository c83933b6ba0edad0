// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

/*
Package tes3 reads and writes the flat Morrowind .bsa archive. It is the
simplest generation: a header, parallel size/offset, name-offset, name,
and hash tables, then raw payloads with no compression.

Open an archive and look up a file by path:

	archive, err := tes3.Open("Morrowind.bsa")
	if err != nil {
	    return err
	}
	defer archive.Close()

	file := archive.GetName([]byte("icons/gold.dds"))
	if file != nil {
	    data := file.Bytes()
	    // use data
	}

Build and write an archive:

	archive := tes3.NewArchive()
	if err := archive.Insert(tes3.NewKey([]byte(`meshes\a.nif`)), tes3.FileFromBytes(data)); err != nil {
	    return err
	}
	var buf bytes.Buffer
	if err := archive.Write(&buf); err != nil {
	    return err
	}

Files iterate in hash order, which is also the on-disk order.
*/
package tes3
