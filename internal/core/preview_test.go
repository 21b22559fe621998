package core

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csvimport/internal/header"
	"github.com/JonMunkholm/csvimport/internal/store"
)

func TestPreview(t *testing.T) {
	svc, mem := newTestService(t, testConfig())

	p, err := svc.Preview(context.Background(), ImportRequest{
		FileName:   "sales.csv",
		Source:     strings.NewReader(salesCSV),
		SampleRows: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, header.ModeUnspecified, p.Mode)
	assert.Equal(t, header.HeaderPresent, p.Disposition)
	assert.Equal(t, []string{"a", "b", "c"}, p.Columns)
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", "6"}}, p.Rows)
	assert.Equal(t, 3, p.SampleRows)

	list, err := mem.ListImports(context.Background(), store.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPreview_ForcedNoHeader(t *testing.T) {
	svc, _ := newTestService(t, testConfig())

	p, err := svc.Preview(context.Background(), ImportRequest{
		Source: strings.NewReader(salesCSV),
		Header: "-1",
	})
	require.NoError(t, err)
	assert.Equal(t, header.HeaderAbsent, p.Disposition)
	assert.Equal(t, []string{"C1", "C2", "C3"}, p.Columns)
	assert.Len(t, p.Rows, 4)
}

func TestPreview_Errors(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()

	_, err := svc.Preview(ctx, ImportRequest{})
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = svc.Preview(ctx, ImportRequest{Source: strings.NewReader(salesCSV), Header: 7})
	assert.ErrorIs(t, err, header.ErrInvalidArgument)

	_, err = svc.Preview(ctx, ImportRequest{Source: strings.NewReader("")})
	assert.ErrorIs(t, err, header.ErrEmptySource)
}

func TestResolveSample(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	rows := [][]string{{"a", "b", "c"}, {"1", "2", "3"}}

	tests := []struct {
		name string
		raw  any
		rows [][]string
		want header.Disposition
		mode header.Mode
	}{
		{"force header", 1, rows, header.HeaderPresent, header.ModeForceHeader},
		{"force no header", -1, rows, header.HeaderAbsent, header.ModeForceNoHeader},
		{"auto", 0, rows, header.HeaderPresent, header.ModeAutoDetect},
		{"unset", nil, rows, header.HeaderPresent, header.ModeUnspecified},
		{"forced header with no rows", 1, nil, header.HeaderPresent, header.ModeForceHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.ResolveSample(tt.raw, tt.rows)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Disposition)
			assert.Equal(t, tt.mode, res.Mode)
		})
	}

	_, err := svc.ResolveSample(nil, nil)
	assert.ErrorIs(t, err, header.ErrEmptySource)
	_, err = svc.ResolveSample("2", rows)
	assert.ErrorIs(t, err, header.ErrInvalidArgument)
}
