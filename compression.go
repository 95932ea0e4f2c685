package geckoclean

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type TableEncoding byte

const (
	TableEncodingInvalid TableEncoding = iota
	TableEncodingPlain
	TableEncodingGzip
	TableEncodingZip
	TableEncodingXZ
	TableEncodingZ
	TableEncodingBZip2
)

var encodingSigs = map[TableEncoding][]byte{
	TableEncodingGzip:  {0x1f, 0x8b, 0x08},
	TableEncodingZip:   {0x50, 0x4b, 0x03, 0x04},
	TableEncodingXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	TableEncodingZ:     {0x1f, 0x9d},
	TableEncodingBZip2: {0x42, 0x5a, 0x68},
}

// DetectTableEncoding sniffs the compression applied to a count-table export
// by checking the stream's magic bytes against known signatures.
func DetectTableEncoding(r io.Reader) (TableEncoding, error) {
	buff := make([]byte, 6)
	if _, err := r.Read(buff); err != nil {
		return TableEncodingInvalid, err
	}

Outer:
	for enc, sig := range encodingSigs {
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return enc, nil
	}

	return TableEncodingPlain, nil
}

// MaybeDecompress wraps f in the appropriate decompressor if the file is a
// compressed count-table export, or returns f itself if it is plain text. The
// sequencing cores deliver .gz and occasionally .zip exports.
func MaybeDecompress(f *os.File) (io.ReadCloser, error) {
	enc, err := DetectTableEncoding(f)
	if err != nil {
		return nil, err
	}

	// Rewind past the sniffed magic bytes before any decompressor reads its
	// header.
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	switch enc {
	case TableEncodingGzip:
		return gzip.NewReader(f)
	case TableEncodingZip:
		return &readCloserFaker{zipstream.NewReader(f)}, nil
	case TableEncodingBZip2:
		return &readCloserFaker{bzip2.NewReader(f)}, nil
	case TableEncodingXZ:
		reader, err := xz.NewReader(f, 0)
		if err != nil {
			return nil, err
		}
		return &readCloserFaker{reader}, nil
	case TableEncodingZ:
		// compress(1) LZW streams share their magic with nothing we can
		// decode; refuse them up front rather than hand back garbage.
		return nil, fmt.Errorf("count-table export uses compress(1) LZW encoding, which is not supported; re-export as gzip")
	}

	return f, nil
}

// OpenTable opens a (possibly compressed) table file for reading, expanding ~
// in the path.
func OpenTable(path string) (io.ReadCloser, error) {
	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, err
	}

	return MaybeDecompress(f)
}

// readCloserFaker "upgrades" readers that don't need to be closed
type readCloserFaker struct {
	io.Reader
}

func (c *readCloserFaker) Close() error {
	return nil
}
