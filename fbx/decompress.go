package fbx

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/pkg/errors"
)

// Decompressor expands a DEFLATE-encoded array property into exactly
// wantLen bytes. The core never implements DEFLATE itself (spec.md §1
// treats it as an injected external capability); this interface is the
// injection point. zlibDecompressor is the default, backed by the
// standard library, the same way every other binary-format parser in
// this codebase's lineage reaches for compress/zlib rather than a
// third-party inflate implementation.
type Decompressor interface {
	Inflate(in []byte, wantLen int) ([]byte, error)
}

type zlibDecompressor struct{}

func (zlibDecompressor) Inflate(in []byte, wantLen int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, errors.Wrap(err, "zlib: bad stream header")
	}
	defer r.Close()

	out := make([]byte, wantLen)
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, errors.Wrap(err, "zlib: inflate failed")
	}
	if n != wantLen {
		return nil, errors.Errorf("zlib: decompressed %d bytes, want %d", n, wantLen)
	}
	// A well-formed array property's compressed stream ends exactly at
	// wantLen; trailing garbage after that point is a format violation.
	var extra [1]byte
	if m, _ := r.Read(extra[:]); m > 0 {
		return nil, errors.New("zlib: trailing data after expected length")
	}
	return out, nil
}

var defaultDecompressor Decompressor = zlibDecompressor{}
