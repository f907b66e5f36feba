package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// RawRecord is one row of an export, keyed by column name.
type RawRecord struct {
	Fields   map[string]string
	Filename string
	Index    int // zero-based, header excluded
}

// Dialect describes how an institution writes its CSV exports.
type Dialect struct {
	Comma rune
	// Quotes lists every character the export uses as a quote; each is read as '"'.
	Quotes string
	// FieldNames names the columns of exports without a header row.
	FieldNames []string
	// Encoding is "utf-8" (default), "windows-1252", "iso-8859-1" or "iso-8859-15".
	Encoding string
}

func (d Dialect) decoder() (transform.Transformer, error) {
	switch strings.ToLower(d.Encoding) {
	case "", "utf-8", "utf8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", d.Encoding)
	}
}

func (d Dialect) open(r io.Reader) (*csv.Reader, error) {
	dec, err := d.decoder()
	if err != nil {
		return nil, err
	}
	comma := ','
	if d.Comma != 0 {
		comma = d.Comma
	}
	chain := []transform.Transformer{dec}
	if q := strings.ReplaceAll(d.Quotes, `"`, ""); q != "" {
		chain = append(chain, &quoteFolder{comma: comma, quotes: q, boundary: true})
	}

	cr := csv.NewReader(transform.NewReader(r, transform.Chain(chain...)))
	cr.Comma = comma
	if len(d.FieldNames) > 0 {
		cr.FieldsPerRecord = len(d.FieldNames)
	}
	return cr, nil
}

// ReadRecords streams the records of r in file order, calling fn for each one.
// It stops at the first error returned by fn.
func ReadRecords(r io.Reader, filename string, d Dialect, fn func(RawRecord) error) error {
	cr, err := d.open(r)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filename, err)
	}

	names := d.FieldNames
	if len(names) == 0 {
		header, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s header: %w", filename, err)
		}
		names = make([]string, len(header))
		for i, h := range header {
			names[i] = strings.TrimSpace(h)
		}
	}

	for index := 0; ; index++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", filename, err)
		}

		fields := make(map[string]string, len(names))
		for i, name := range names {
			if i < len(rec) {
				fields[name] = rec[i]
			}
		}
		if err := fn(RawRecord{Fields: fields, Filename: filename, Index: index}); err != nil {
			return err
		}
	}
}

// quoteFolder rewrites alternative quote characters to '"' where they open or
// close a field: right after a line start or delimiter, or right before a
// delimiter or line end. Quote characters inside a field are left alone.
type quoteFolder struct {
	comma    rune
	quotes   string
	boundary bool // previous rune ended a field or line
}

func (q *quoteFolder) Reset() { q.boundary = true }

func (q *quoteFolder) endsField(r rune) bool {
	return r == q.comma || r == '\n' || r == '\r'
}

func (q *quoteFolder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		r, size := utf8.DecodeRune(src[nSrc:])

		fold := false
		if strings.ContainsRune(q.quotes, r) {
			if q.boundary {
				fold = true
			} else if next := src[nSrc+size:]; len(next) == 0 {
				if !atEOF {
					return nDst, nSrc, transform.ErrShortSrc
				}
				fold = true
			} else {
				if !atEOF && !utf8.FullRune(next) {
					return nDst, nSrc, transform.ErrShortSrc
				}
				nr, _ := utf8.DecodeRune(next)
				fold = q.endsField(nr)
			}
		}

		out := src[nSrc : nSrc+size]
		if fold {
			out = []byte{'"'}
		}
		if nDst+len(out) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], out)
		nSrc += size
		q.boundary = q.endsField(r)
	}
	return nDst, nSrc, nil
}
