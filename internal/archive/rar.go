// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"path"
	"strings"

	"github.com/nwaples/rardecode"
)

// rarEnumerator streams rar headers. Member names created on Windows may
// carry backslashes, so they are normalized to forward slashes.
type rarEnumerator struct {
	rc *rardecode.ReadCloser
}

func openRar(p string) (Enumerator, error) {
	rc, err := rardecode.OpenReader(p, "")
	if err != nil {
		return nil, err
	}
	return &rarEnumerator{rc: rc}, nil
}

func (e *rarEnumerator) Next() (Member, error) {
	for {
		hdr, err := e.rc.Next()
		if err != nil {
			return Member{}, err
		}
		if hdr.IsDir {
			continue
		}
		return Member{
			Name:    path.Clean(strings.ReplaceAll(hdr.Name, `\`, "/")),
			Size:    hdr.UnPackedSize,
			ModTime: hdr.ModificationTime,
		}, nil
	}
}

func (e *rarEnumerator) Close() error { return e.rc.Close() }
