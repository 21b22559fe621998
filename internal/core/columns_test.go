package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csvimport/internal/header"
)

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello", "hello"},
		{"", ""},
		{"  hello  ", "hello"},
		{`="hello"`, "hello"},
		{"=hello", "hello"},
		{`"quoted"`, "quoted"},
		{`'single'`, "single"},
		{`  " padded "  `, "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCell(tt.input))
		})
	}
}

func TestNameColumns(t *testing.T) {
	tests := []struct {
		name     string
		disp     header.Disposition
		sample   [][]string
		override []string
		want     []string
	}{
		{
			name:   "header labels",
			disp:   header.HeaderPresent,
			sample: [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
			want:   []string{"a", "b", "c"},
		},
		{
			name:   "no header generates names",
			disp:   header.HeaderAbsent,
			sample: [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
			want:   []string{"C1", "C2", "C3"},
		},
		{
			name:   "blank label filled",
			disp:   header.HeaderPresent,
			sample: [][]string{{"id", " ", "amount"}, {"1", "2", "3"}},
			want:   []string{"id", "C2", "amount"},
		},
		{
			name:   "duplicates suffixed case-insensitively",
			disp:   header.HeaderPresent,
			sample: [][]string{{"x", "X", "x", "x_2"}},
			want:   []string{"x", "X_2", "x_3", "x_2_2"},
		},
		{
			name:   "short header row padded to widest row",
			disp:   header.HeaderPresent,
			sample: [][]string{{"a"}, {"1", "2"}},
			want:   []string{"a", "C2"},
		},
		{
			name:     "override replaces labels",
			disp:     header.HeaderPresent,
			sample:   [][]string{{"a", "b"}, {"1", "2"}},
			override: []string{"left", "right"},
			want:     []string{"left", "right"},
		},
		{
			name:     "override cleaned",
			disp:     header.HeaderAbsent,
			sample:   [][]string{{"1", "2"}},
			override: []string{` "p" `, ""},
			want:     []string{"p", "C2"},
		},
		{
			name:   "empty sample",
			disp:   header.HeaderPresent,
			sample: nil,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nameColumns(tt.disp, tt.sample, tt.override)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNameColumns_OverrideCountMismatch(t *testing.T) {
	_, err := nameColumns(header.HeaderAbsent, [][]string{{"1", "2", "3"}}, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrColumnCount)
}
