// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"io"
	"path"

	"github.com/bodgit/sevenzip"
)

// sevenZipEnumerator walks a 7z file table.
type sevenZipEnumerator struct {
	rc  *sevenzip.ReadCloser
	idx int
}

func openSevenZip(p string) (Enumerator, error) {
	rc, err := sevenzip.OpenReader(p)
	if err != nil {
		return nil, err
	}
	return &sevenZipEnumerator{rc: rc}, nil
}

func (e *sevenZipEnumerator) Next() (Member, error) {
	for e.idx < len(e.rc.File) {
		f := e.rc.File[e.idx]
		e.idx++
		if f.FileInfo().IsDir() {
			continue
		}
		return Member{
			Name:    path.Clean(f.Name),
			Size:    int64(f.UncompressedSize),
			ModTime: f.Modified,
		}, nil
	}
	return Member{}, io.EOF
}

func (e *sevenZipEnumerator) Close() error { return e.rc.Close() }
