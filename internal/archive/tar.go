// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"compress/bzip2"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// tarEnumerator streams a tar stream, optionally unwrapped from gzip, bzip2
// or xz compression. Compression is chosen by file suffix, matching
// DetectKind's suffix table.
type tarEnumerator struct {
	file   *os.File
	gz     io.Closer
	reader *tar.Reader
}

func openTar(p string) (Enumerator, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}

	var r io.Reader = f
	var gz io.Closer
	lower := strings.ToLower(p)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		r, gz = zr, zr
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		r = bzip2.NewReader(f)
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		r = xr
	}

	return &tarEnumerator{file: f, gz: gz, reader: tar.NewReader(r)}, nil
}

func (e *tarEnumerator) Next() (Member, error) {
	for {
		hdr, err := e.reader.Next()
		if err != nil {
			return Member{}, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := path.Clean(hdr.Name)
		if name == "." || name == "/" {
			continue
		}
		return Member{
			Name:    strings.TrimPrefix(name, "/"),
			Size:    hdr.Size,
			ModTime: hdr.ModTime,
		}, nil
	}
}

func (e *tarEnumerator) Close() error {
	if e.gz != nil {
		_ = e.gz.Close()
	}
	return e.file.Close()
}
