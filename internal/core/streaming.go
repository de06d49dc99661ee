package core

// streaming.go provides reader wrappers applied to uploads before CSV parsing.
//
//   - BOMSkippingReader: Removes the UTF-8 BOM (0xEF 0xBB 0xBF) Excel adds on Windows
//   - UTF8Sanitizer: Replaces invalid UTF-8 bytes with '?'
//   - SizeLimitReader: Fails with ErrFileTooLarge once a byte budget is exceeded
//
// Use WrapForParsing to apply all of them in the correct order.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips a leading UTF-8 BOM if present.
type BOMSkippingReader struct {
	r       *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{r: bufio.NewReader(r)}
}

// Read implements io.Reader. The first call discards the BOM.
func (b *BOMSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head, err := b.r.Peek(len(utf8BOM))
		if err == nil && bytes.Equal(head, utf8BOM) {
			_, _ = b.r.Discard(len(utf8BOM))
		}
	}
	return b.r.Read(p)
}

// UTF8Sanitizer replaces invalid UTF-8 bytes with '?' as data streams through.
// Multi-byte sequences split across reads are carried to the next call.
type UTF8Sanitizer struct {
	r       io.Reader
	pending []byte
	out     []byte
	err     error
}

// NewUTF8Sanitizer creates a new streaming UTF-8 sanitizer.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{r: r}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		buf := make([]byte, max(len(p), 512))
		n, err := s.r.Read(buf)
		s.err = err
		data := append(s.pending, buf[:n]...)
		s.pending = nil
		s.out = s.sanitize(data, err != nil)
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// sanitize returns the clean prefix of data. Unless final is set, an
// incomplete trailing rune is kept in pending for the next read.
func (s *UTF8Sanitizer) sanitize(data []byte, final bool) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			if !final && !utf8.FullRune(data[i:]) {
				s.pending = append(s.pending, data[i:]...)
				break
			}
			out = append(out, '?')
			i++
			continue
		}
		out = append(out, data[i:i+size]...)
		i += size
	}
	return out
}

// SizeLimitReader fails with ErrFileTooLarge after limit bytes have been read.
// A limit of zero or less disables the check.
type SizeLimitReader struct {
	r     io.Reader
	limit int64
	count int64
}

// NewSizeLimitReader wraps r with a byte budget.
func NewSizeLimitReader(r io.Reader, limit int64) *SizeLimitReader {
	return &SizeLimitReader{r: r, limit: limit}
}

// Read implements io.Reader.
func (l *SizeLimitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.count += int64(n)
	if l.limit > 0 && l.count > l.limit {
		return n, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, l.limit)
	}
	return n, err
}

// BytesRead returns the number of bytes read so far.
func (l *SizeLimitReader) BytesRead() int64 {
	return l.count
}

// WrapForParsing applies, in order: the size budget on raw bytes, BOM removal,
// then UTF-8 sanitization.
func WrapForParsing(r io.Reader, limit int64) io.Reader {
	return NewUTF8Sanitizer(NewBOMSkippingReader(NewSizeLimitReader(r, limit)))
}
