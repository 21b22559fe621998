// Package store persists import records and the data rows materialized from
// each imported file. Memory backs tests and the CLI; Postgres backs the server.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/csvimport/internal/header"
)

// ErrNotFound is returned when an import id has no record.
var ErrNotFound = errors.New("import not found")

// DefaultListLimit caps ListImports when the filter leaves Limit unset.
const DefaultListLimit = 50

// MaxListLimit is the largest page ListImports returns.
const MaxListLimit = 500

// ImportRecord summarizes one completed import.
type ImportRecord struct {
	ID          uuid.UUID          `json:"id"`
	FileName    string             `json:"fileName"`
	Mode        header.Mode        `json:"mode"`
	Disposition header.Disposition `json:"disposition"`
	Columns     []string           `json:"columns"`
	NRow        int                `json:"nrow"`
	NCol        int                `json:"ncol"`
	Delimiter   string             `json:"delimiter"`
	Encoding    string             `json:"encoding"`
	ClientIP    string             `json:"clientIp,omitempty"`
	UserAgent   string             `json:"userAgent,omitempty"`
	DurationMs  int64              `json:"durationMs"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// ListFilter narrows ListImports. Zero values mean no restriction.
type ListFilter struct {
	FileName string
	Limit    int
}

// limit returns the effective page size.
func (f ListFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

// Store is implemented by Memory and Postgres.
type Store interface {
	// SaveImport inserts the record for a finished import.
	SaveImport(ctx context.Context, rec ImportRecord) error

	// AppendRows stores a batch of data rows. firstRow is the 1-based index
	// of rows[0] among the import's data rows.
	AppendRows(ctx context.Context, importID uuid.UUID, firstRow int, rows [][]string) error

	// GetImport returns the record for id or ErrNotFound.
	GetImport(ctx context.Context, id uuid.UUID) (ImportRecord, error)

	// ListImports returns records newest first.
	ListImports(ctx context.Context, filter ListFilter) ([]ImportRecord, error)

	// CountRows returns how many data rows are stored for an import.
	CountRows(ctx context.Context, importID uuid.UUID) (int64, error)

	// DeleteRows removes the data rows of an import that did not complete.
	DeleteRows(ctx context.Context, importID uuid.UUID) (int64, error)
}
