package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store. Rows are copied on write so callers may
// reuse their buffers.
type Memory struct {
	mu      sync.RWMutex
	imports map[uuid.UUID]ImportRecord
	rows    map[uuid.UUID][][]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		imports: make(map[uuid.UUID]ImportRecord),
		rows:    make(map[uuid.UUID][][]string),
	}
}

func (m *Memory) SaveImport(ctx context.Context, rec ImportRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec.Columns = append([]string(nil), rec.Columns...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.imports[rec.ID] = rec
	return nil
}

func (m *Memory) AppendRows(ctx context.Context, importID uuid.UUID, firstRow int, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[importID] = append(m.rows[importID], copied...)
	return nil
}

func (m *Memory) GetImport(ctx context.Context, id uuid.UUID) (ImportRecord, error) {
	if err := ctx.Err(); err != nil {
		return ImportRecord{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.imports[id]
	if !ok {
		return ImportRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) ListImports(ctx context.Context, filter ListFilter) ([]ImportRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	out := make([]ImportRecord, 0, len(m.imports))
	for _, rec := range m.imports {
		if filter.FileName != "" && !strings.EqualFold(rec.FileName, filter.FileName) {
			continue
		}
		out = append(out, rec)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if n := filter.limit(); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *Memory) CountRows(ctx context.Context, importID uuid.UUID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.rows[importID])), nil
}

func (m *Memory) DeleteRows(ctx context.Context, importID uuid.UUID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.rows[importID]))
	delete(m.rows, importID)
	return n, nil
}

// Rows returns a copy of the stored data rows for an import.
func (m *Memory) Rows(importID uuid.UUID) [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.rows[importID]
	out := make([][]string, len(src))
	for i, row := range src {
		out[i] = append([]string(nil), row...)
	}
	return out
}

var _ Store = (*Memory)(nil)
