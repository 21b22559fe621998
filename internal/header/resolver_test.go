package header

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	labelledSample = Sample{
		{"a", "b", "c"},
		{"1", "2", "3"},
		{"4", "5", "6"},
		{"7", "8", "9"},
	}
	numericSample = Sample{
		{"1", "2", "3"},
		{"4", "5", "6"},
		{"7", "8", "9"},
	}
	textSample = Sample{
		{"alice", "paris", "red"},
		{"bob", "rome", "blue"},
		{"carol", "oslo", "green"},
	}
)

func TestResolve_ForceHeaderIgnoresSample(t *testing.T) {
	for name, sample := range map[string]Sample{
		"nil":      nil,
		"empty":    {},
		"numeric":  numericSample,
		"ragged":   {{"1"}, {"2", "3"}},
		"labelled": labelledSample,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := Resolve(ModeForceHeader, sample)
			require.NoError(t, err)
			assert.Equal(t, HeaderPresent, got)
		})
	}
}

func TestResolve_ForceNoHeaderIgnoresSample(t *testing.T) {
	for name, sample := range map[string]Sample{
		"nil":      nil,
		"empty":    {},
		"labelled": labelledSample,
		"text":     textSample,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := Resolve(ModeForceNoHeader, sample)
			require.NoError(t, err)
			assert.Equal(t, HeaderAbsent, got)
		})
	}
}

func TestResolve_AutoDetect(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		want   Disposition
	}{
		{name: "labels over numbers", sample: labelledSample, want: HeaderPresent},
		{name: "all numeric", sample: numericSample, want: HeaderAbsent},
		{name: "all text", sample: textSample, want: HeaderAbsent},
		{name: "single row", sample: Sample{{"a", "b", "c"}}, want: HeaderAbsent},
		{
			name:   "one numeric column is enough",
			sample: Sample{{"name", "age"}, {"alice", "31"}, {"bob", "27"}},
			want:   HeaderPresent,
		},
		{
			name:   "currency and thousands separators",
			sample: Sample{{"item", "price"}, {"pen", "$1,200.50"}, {"cup", "(3.00)"}},
			want:   HeaderPresent,
		},
		{
			name:   "numeric token in row 0 means data",
			sample: Sample{{"a", "2", "c"}, {"1", "2", "3"}, {"4", "5", "6"}},
			want:   HeaderAbsent,
		},
		{
			name:   "ragged rows are not guessed",
			sample: Sample{{"a", "b", "c"}, {"1", "2"}, {"4", "5", "6"}},
			want:   HeaderAbsent,
		},
		{
			name:   "empty data cells are skipped",
			sample: Sample{{"id", "note"}, {"1", ""}, {"", "x"}, {"3", ""}},
			want:   HeaderPresent,
		},
		{
			name:   "column of only empty data cells",
			sample: Sample{{"a", "b"}, {"", "x"}, {"", "y"}},
			want:   HeaderAbsent,
		},
		{
			name:   "blank header token does not count",
			sample: Sample{{"", "b"}, {"1", "x"}, {"2", "y"}},
			want:   HeaderAbsent,
		},
		{
			name:   "NaN is a label, not a number",
			sample: Sample{{"NaN", "b"}, {"1", "2"}},
			want:   HeaderPresent,
		},
		{
			name:   "empty first row",
			sample: Sample{{}, {}},
			want:   HeaderAbsent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(ModeAutoDetect, tt.sample)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Unset behaves exactly like auto-detect.
			unset, err := Resolve(ModeUnspecified, tt.sample)
			require.NoError(t, err)
			assert.Equal(t, got, unset)
		})
	}
}

func TestResolve_AutoDetectEmptySource(t *testing.T) {
	for _, mode := range []Mode{ModeAutoDetect, ModeUnspecified} {
		_, err := Resolve(mode, Sample{})
		assert.ErrorIs(t, err, ErrEmptySource)

		_, err = Resolve(mode, nil)
		assert.ErrorIs(t, err, ErrEmptySource)
	}
}

func TestResolve_UndeclaredMode(t *testing.T) {
	_, err := Resolve(Mode(-3), labelledSample)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestResolve_IsIdempotentAndLeavesSampleUntouched(t *testing.T) {
	sample := Sample{{" a ", "b"}, {"1", "2"}}
	before := [][]string{{" a ", "b"}, {"1", "2"}}

	first, err := Resolve(ModeAutoDetect, sample)
	require.NoError(t, err)
	second, err := Resolve(ModeAutoDetect, sample)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, [][]string(sample))
}

func TestResolve_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]Disposition, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Resolve(ModeAutoDetect, labelledSample)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, HeaderPresent, got)
	}
}

func TestValidateThenResolve_EndToEnd(t *testing.T) {
	resolved := make(map[int]Disposition)
	for _, raw := range []int{1, 0, -1} {
		mode, err := Validate(raw)
		require.NoError(t, err)
		resolved[raw], err = Resolve(mode, labelledSample)
		require.NoError(t, err)
	}

	assert.Equal(t, HeaderPresent, resolved[1])
	assert.Equal(t, HeaderPresent, resolved[0])
	assert.Equal(t, HeaderAbsent, resolved[-1])

	// Row 0 is only counted when the header is absent.
	rows := func(d Disposition) int {
		if d.HasHeader() {
			return len(labelledSample) - 1
		}
		return len(labelledSample)
	}
	assert.Equal(t, rows(resolved[1])+1, rows(resolved[-1]))
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"42", true},
		{"-3.5", true},
		{"1e6", true},
		{" 7 ", true},
		{`="0012"`, true},
		{`"12"`, true},
		{"$1,000", true},
		{"€ 12.50", true},
		{"(45.00)", true},
		{"", false},
		{"   ", false},
		{"abc", false},
		{"12abc", false},
		{"NaN", false},
		{"Infinity", false},
		{"-", false},
		{"()", false},
		{"1.2.3", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNumeric(tt.token))
		})
	}
}

func TestDisposition_String(t *testing.T) {
	assert.Equal(t, "header_present", HeaderPresent.String())
	assert.Equal(t, "header_absent", HeaderAbsent.String())
	assert.True(t, HeaderPresent.HasHeader())
	assert.False(t, HeaderAbsent.HasHeader())
}
