package core

// streaming.go provides the readers that turn uploaded CSV bytes into
// UTF-8 text for encoding/csv:
//
//   - BOMSkippingReader: drops the UTF-8 BOM (0xEF 0xBB 0xBF) that Excel on
//     Windows prepends to "CSV UTF-8" exports
//   - NewTextReader: picks UTF-8 when the bytes are valid, otherwise decodes
//     them as ISO-8859-1 (Latin-1), which maps every byte to a code point
//     and therefore cannot fail

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding names the decoding that was applied to an upload.
type Encoding string

const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingLatin1 Encoding = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	reader  io.Reader
	checked bool
	pending []byte
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader. The first call peeks at up to three bytes.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		var head [3]byte
		n, err := io.ReadFull(r.reader, head[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if n == 3 && bytes.Equal(head[:], utf8BOM) {
			n = 0
		}
		r.pending = append(r.pending, head[:n]...)

		if err == io.EOF && len(r.pending) == 0 {
			return 0, io.EOF
		}
	}

	if len(r.pending) > 0 {
		n := copy(p, r.pending)
		r.pending = r.pending[n:]
		return n, nil
	}

	return r.reader.Read(p)
}

// DetectEncoding reports whether data (ignoring a BOM) is UTF-8 or must be
// read as Latin-1.
func DetectEncoding(data []byte) Encoding {
	if utf8.Valid(bytes.TrimPrefix(data, utf8BOM)) {
		return EncodingUTF8
	}
	return EncodingLatin1
}

// NewTextReader returns a reader yielding UTF-8 text for data, with any BOM
// removed, and reports which decoding it chose.
func NewTextReader(data []byte) (io.Reader, Encoding) {
	if enc := DetectEncoding(data); enc == EncodingUTF8 {
		return NewBOMSkippingReader(bytes.NewReader(data)), enc
	}
	body := bytes.TrimPrefix(data, utf8BOM)
	return transform.NewReader(bytes.NewReader(body), charmap.ISO8859_1.NewDecoder()), EncodingLatin1
}
