// SPDX-License-Identifier: MPL-2.0

// Package archive sanity-checks the files produced by pack200.
package archive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/pgzip"
)

var (
	// ErrNotPack200 is returned when a file does not start with the pack200 magic number.
	ErrNotPack200 = errors.New("not a pack200 archive")

	gzipMagic    = []byte{0x1f, 0x8b}
	pack200Magic = []byte{0xCA, 0xFE, 0xD0, 0x0D}
)

// Info describes an inspected archive.
type Info struct {
	Path    string
	Size    int64
	Gzipped bool
}

// Inspect checks that path holds a pack200 archive, either raw or gzipped.
// Only the magic number is read; the archive is not decoded.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("stat archive: %w", err)
	}
	info := Info{Path: path, Size: st.Size()}

	br := bufio.NewReader(f)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return info, fmt.Errorf("read archive: %w", err)
	}

	var payload io.Reader = br
	if bytes.Equal(head, gzipMagic) {
		gz, err := pgzip.NewReader(br)
		if err != nil {
			return info, fmt.Errorf("open gzip stream: %w", err)
		}
		defer gz.Close()
		payload = gz
		info.Gzipped = true
	}

	magic := make([]byte, len(pack200Magic))
	if _, err := io.ReadFull(payload, magic); err != nil {
		return info, fmt.Errorf("%w: %s: %v", ErrNotPack200, path, err)
	}
	if !bytes.Equal(magic, pack200Magic) {
		return info, fmt.Errorf("%w: %s: magic % X", ErrNotPack200, path, magic)
	}
	return info, nil
}
