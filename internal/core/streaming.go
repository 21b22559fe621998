package core

// streaming.go turns an uploaded byte stream into rows without buffering
// the file: bytes are counted against the size limit, decoded to UTF-8
// (BOM stripped, invalid sequences replaced) and split by encoding/csv.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/csvimport/internal/textenc"
)

// ErrFileTooLarge is returned once a source yields more bytes than allowed.
var ErrFileTooLarge = errors.New("file too large")

// ErrInvalidCSV wraps csv parse failures.
var ErrInvalidCSV = errors.New("invalid csv")

// CountingReader tracks bytes read and fails when Limit is exceeded.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
	Total     int64 // expected size if known, 0 otherwise
	Limit     int64 // 0 means unlimited
}

// NewCountingReader wraps r. total is only used for Progress.
func NewCountingReader(r io.Reader, total, limit int64) *CountingReader {
	return &CountingReader{reader: r, Total: total, Limit: limit}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Limit > 0 && r.BytesRead > r.Limit {
		return n, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, r.Limit)
	}
	return n, err
}

// Progress returns the read progress as a percentage (0-100), or 0 when the
// total is unknown.
func (r *CountingReader) Progress() int {
	if r.Total <= 0 {
		return 0
	}
	pct := int(r.BytesRead * 100 / r.Total)
	if pct > 100 {
		return 100
	}
	return pct
}

// rowReader yields non-blank records from a delimited stream.
type rowReader struct {
	counter *CountingReader
	csv     *csv.Reader
	rows    int
}

func newRowReader(src io.Reader, opts importOptions, size, limit int64) (*rowReader, error) {
	counter := NewCountingReader(src, size, limit)
	decoded, err := textenc.NewReader(counter, opts.encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}

	r := csv.NewReader(decoded)
	r.Comma = opts.comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	return &rowReader{counter: counter, csv: r}, nil
}

// next returns the next record, skipping rows whose cells are all blank.
// It returns io.EOF at the end of input.
func (r *rowReader) next() ([]string, error) {
	for {
		rec, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidCSV, perr.Line, perr.Err)
			}
			return nil, err
		}
		if isEmptyRow(rec) {
			continue
		}
		r.rows++
		return rec, nil
	}
}

// sample reads up to k records.
func (r *rowReader) sample(k int) ([][]string, error) {
	out := make([][]string, 0, k)
	for len(out) < k {
		rec, err := r.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
