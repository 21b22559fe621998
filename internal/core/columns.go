package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/csvimport/internal/header"
)

// ErrColumnCount is returned when caller-supplied column names do not cover
// every column.
var ErrColumnCount = errors.New("column name count mismatch")

// CleanCell strips whitespace, an Excel ="..." wrapper or leading '=' and
// surrounding quotes from a header label.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// defaultColumnName is the generated name for the 0-based column i: C1, C2, ...
func defaultColumnName(i int) string {
	return "C" + strconv.Itoa(i+1)
}

// sampleWidth is the widest row in the sample.
func sampleWidth(sample [][]string) int {
	width := 0
	for _, row := range sample {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// nameColumns derives the column names for an import. With a header row the
// row-0 labels are used; blank labels and headerless files get C1..Cn.
// override, when non-empty, replaces the derived names and must have exactly
// one entry per column.
func nameColumns(disp header.Disposition, sample [][]string, override []string) ([]string, error) {
	ncol := sampleWidth(sample)

	if len(override) > 0 {
		if len(override) != ncol {
			return nil, fmt.Errorf("%w: got %d names for %d columns", ErrColumnCount, len(override), ncol)
		}
		return uniqueNames(override), nil
	}

	names := make([]string, ncol)
	if disp.HasHeader() && len(sample) > 0 {
		copy(names, sample[0])
	}
	return uniqueNames(names), nil
}

// uniqueNames cleans each name, fills blanks with the generated name and
// suffixes case-insensitive duplicates with _2, _3, ...
func uniqueNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]bool, len(names))

	for i, name := range names {
		name = CleanCell(name)
		if name == "" {
			name = defaultColumnName(i)
		}

		candidate := name
		for n := 2; seen[strings.ToLower(candidate)]; n++ {
			candidate = name + "_" + strconv.Itoa(n)
		}
		seen[strings.ToLower(candidate)] = true
		out[i] = candidate
	}
	return out
}
