package header

import "fmt"

// Disposition is the outcome of resolution: whether row 0 is a header.
type Disposition int

const (
	// HeaderAbsent means row 0 is data and is counted as a row.
	HeaderAbsent Disposition = iota
	// HeaderPresent means row 0 holds column labels and is not counted.
	HeaderPresent
)

// String returns "header_absent" or "header_present".
func (d Disposition) String() string {
	if d == HeaderPresent {
		return "header_present"
	}
	return "header_absent"
}

// MarshalText encodes the disposition by name.
func (d Disposition) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// HasHeader reports whether row 0 should be consumed as column names.
func (d Disposition) HasHeader() bool {
	return d == HeaderPresent
}

// Sample is a prefix of a file's rows, already split into fields.
type Sample [][]string

// Resolve decides whether row 0 of sample is a header under mode.
//
// ModeForceHeader and ModeForceNoHeader ignore the sample entirely.
// ModeAutoDetect and ModeUnspecified inspect it: an empty sample fails with
// ErrEmptySource, and anything the heuristic cannot distinguish resolves to
// HeaderAbsent. The sample is only read.
func Resolve(mode Mode, sample Sample) (Disposition, error) {
	switch mode {
	case ModeForceHeader:
		return HeaderPresent, nil
	case ModeForceNoHeader:
		return HeaderAbsent, nil
	case ModeAutoDetect, ModeUnspecified:
		return detect(sample)
	default:
		return HeaderAbsent, fmt.Errorf("%w: mode %d", ErrInvalidArgument, int(mode))
	}
}

// detect applies the auto-detection heuristic described in the package docs.
func detect(sample Sample) (Disposition, error) {
	if len(sample) == 0 {
		return HeaderAbsent, ErrEmptySource
	}
	if len(sample) < 2 {
		return HeaderAbsent, nil
	}

	first := sample[0]
	width := len(first)
	if width == 0 {
		return HeaderAbsent, nil
	}
	for _, row := range sample[1:] {
		if len(row) != width {
			return HeaderAbsent, nil
		}
	}

	for _, token := range first {
		if IsNumeric(token) {
			return HeaderAbsent, nil
		}
	}

	for col := 0; col < width; col++ {
		if cleanToken(first[col]) == "" {
			continue
		}
		if numericColumn(sample[1:], col) {
			return HeaderPresent, nil
		}
	}

	return HeaderAbsent, nil
}

// numericColumn reports whether every non-empty token of column col looks
// numeric, with at least one non-empty token present.
func numericColumn(rows Sample, col int) bool {
	seen := false
	for _, row := range rows {
		token := row[col]
		if cleanToken(token) == "" {
			continue
		}
		if !IsNumeric(token) {
			return false
		}
		seen = true
	}
	return seen
}
