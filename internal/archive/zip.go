// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"io"
	"path"
)

// zipEnumerator walks a zip central directory. The file table is read up
// front by archive/zip; enumeration itself decompresses nothing.
type zipEnumerator struct {
	rc  *zip.ReadCloser
	idx int
}

func openZip(p string) (Enumerator, error) {
	rc, err := zip.OpenReader(p)
	if err != nil {
		return nil, err
	}
	return &zipEnumerator{rc: rc}, nil
}

func (e *zipEnumerator) Next() (Member, error) {
	for e.idx < len(e.rc.File) {
		f := e.rc.File[e.idx]
		e.idx++
		if f.FileInfo().IsDir() {
			continue
		}
		return Member{
			Name:    path.Clean(f.Name),
			Size:    int64(f.UncompressedSize64),
			ModTime: f.Modified,
		}, nil
	}
	return Member{}, io.EOF
}

func (e *zipEnumerator) Close() error { return e.rc.Close() }
