package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csvimport/internal/header"
)

func record(name string, created time.Time) ImportRecord {
	return ImportRecord{
		ID:          uuid.New(),
		FileName:    name,
		Mode:        header.ModeAutoDetect,
		Disposition: header.HeaderPresent,
		Columns:     []string{"a", "b"},
		NRow:        3,
		NCol:        2,
		Delimiter:   ",",
		Encoding:    "utf-8",
		CreatedAt:   created,
	}
}

func TestMemory_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	rec := record("sales.csv", time.Now())

	require.NoError(t, m.SaveImport(ctx, rec))

	got, err := m.GetImport(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// mutating the caller's slice must not leak into the store
	rec.Columns[0] = "changed"
	got, err = m.GetImport(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Columns[0])
}

func TestMemory_GetMissing(t *testing.T) {
	_, err := NewMemory().GetImport(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ListNewestFirstWithFilterAndLimit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, m.SaveImport(ctx, record("a.csv", base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, m.SaveImport(ctx, record("B.csv", base.Add(time.Hour))))

	all, err := m.ListImports(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "B.csv", all[0].FileName)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}

	filtered, err := m.ListImports(ctx, ListFilter{FileName: "b.CSV"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	limited, err := m.ListImports(ctx, ListFilter{FileName: "a.csv", Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, base.Add(4*time.Minute), limited[0].CreatedAt)
}

func TestMemory_AppendAndCountRows(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id := uuid.New()

	batch := [][]string{{"1", "2"}, {"3", "4"}}
	require.NoError(t, m.AppendRows(ctx, id, 1, batch))
	batch[0][0] = "reused"
	require.NoError(t, m.AppendRows(ctx, id, 3, [][]string{{"5", "6"}}))

	n, err := m.CountRows(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}, {"5", "6"}}, m.Rows(id))

	n, err = m.CountRows(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemory_DeleteRows(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id := uuid.New()
	require.NoError(t, m.AppendRows(ctx, id, 1, [][]string{{"1"}, {"2"}}))

	n, err := m.DeleteRows(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := m.CountRows(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory()
	assert.ErrorIs(t, m.SaveImport(ctx, record("x.csv", time.Now())), context.Canceled)
	assert.ErrorIs(t, m.AppendRows(ctx, uuid.New(), 1, nil), context.Canceled)
	_, err := m.ListImports(ctx, ListFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemory_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.AppendRows(ctx, id, i+1, [][]string{{fmt.Sprint(i)}})
		}(i)
	}
	wg.Wait()

	n, err := m.CountRows(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(20), n)
}

func TestListFilter_Limit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, ListFilter{}.limit())
	assert.Equal(t, 7, ListFilter{Limit: 7}.limit())
	assert.Equal(t, MaxListLimit, ListFilter{Limit: MaxListLimit + 1}.limit())
}
