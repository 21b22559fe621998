package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOpts() importOptions {
	return importOptions{comma: ',', encoding: "utf-8", sampleRows: 10}
}

func readAllRows(t *testing.T, r *rowReader) [][]string {
	t.Helper()
	var out [][]string
	for {
		rec, err := r.next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestCountingReader(t *testing.T) {
	data := strings.Repeat("x", 1000)
	r := NewCountingReader(strings.NewReader(data), 2000, 0)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Len(t, got, 1000)
	assert.Equal(t, int64(1000), r.BytesRead)
	assert.Equal(t, 50, r.Progress())

	assert.Zero(t, NewCountingReader(strings.NewReader(""), 0, 0).Progress())
}

func TestCountingReader_Limit(t *testing.T) {
	r := NewCountingReader(strings.NewReader(strings.Repeat("x", 100)), 0, 10)
	_, err := io.ReadAll(r)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	r = NewCountingReader(strings.NewReader("0123456789"), 0, 10)
	_, err = io.ReadAll(r)
	assert.NoError(t, err)
}

func TestRowReader(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		opts  importOptions
		want  [][]string
	}{
		{
			name:  "bom and crlf",
			input: []byte("\xef\xbb\xbfa,b\r\n1,2\r\n"),
			opts:  defaultOpts(),
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "blank rows skipped",
			input: []byte("a,b\n\n , \n1,2\n"),
			opts:  defaultOpts(),
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "ragged rows kept",
			input: []byte("a,b,c\n1,2\n"),
			opts:  defaultOpts(),
			want:  [][]string{{"a", "b", "c"}, {"1", "2"}},
		},
		{
			name:  "semicolon delimiter",
			input: []byte("a;b\n1,5;2\n"),
			opts:  importOptions{comma: ';', encoding: "utf-8"},
			want:  [][]string{{"a", "b"}, {"1,5", "2"}},
		},
		{
			name:  "latin1",
			input: []byte("caf\xe9\n1\n"),
			opts:  importOptions{comma: ',', encoding: "latin1"},
			want:  [][]string{{"café"}, {"1"}},
		},
		{
			name:  "lazy quotes",
			input: []byte("a \"quoted\" word,b\n"),
			opts:  defaultOpts(),
			want:  [][]string{{"a \"quoted\" word", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := newRowReader(bytes.NewReader(tt.input), tt.opts, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, readAllRows(t, r))
			assert.Equal(t, len(tt.want), r.rows)
		})
	}
}

func TestRowReader_Sample(t *testing.T) {
	r, err := newRowReader(strings.NewReader("h\n1\n2\n3\n4\n"), defaultOpts(), 0, 0)
	require.NoError(t, err)

	sample, err := r.sample(3)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"h"}, {"1"}, {"2"}}, sample)

	rest := readAllRows(t, r)
	assert.Equal(t, [][]string{{"3"}, {"4"}}, rest)

	r, err = newRowReader(strings.NewReader(""), defaultOpts(), 0, 0)
	require.NoError(t, err)
	sample, err = r.sample(3)
	require.NoError(t, err)
	assert.Empty(t, sample)
}

func TestRowReader_Errors(t *testing.T) {
	_, err := newRowReader(strings.NewReader("a"), importOptions{comma: ',', encoding: "ebcdic"}, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidOption)

	r, err := newRowReader(strings.NewReader(strings.Repeat("1,2\n", 10000)), defaultOpts(), 0, 64)
	require.NoError(t, err)
	_, err = r.sample(10000)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestIsEmptyRow(t *testing.T) {
	assert.True(t, isEmptyRow(nil))
	assert.True(t, isEmptyRow([]string{"", "  ", "\t"}))
	assert.False(t, isEmptyRow([]string{"", "x"}))
}
