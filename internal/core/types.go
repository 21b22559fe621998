package core

import (
	"io"

	"github.com/JonMunkholm/csvimport/internal/header"
	"github.com/JonMunkholm/csvimport/internal/store"
)

// ContextCheckInterval is how many rows are read between context checks.
var ContextCheckInterval = 100

// MaxSampleRows bounds the per-request sample size.
const MaxSampleRows = 10000

// ImportRequest describes one file to import. Zero-valued options fall back
// to the service configuration.
type ImportRequest struct {
	FileName string
	Source   io.Reader
	Size     int64 // bytes, 0 if unknown

	// Header is the raw header option: 1, 0, -1, a symbolic alias, or nil
	// for unset. See header.Validate.
	Header any

	Delimiter   string
	Encoding    string
	SampleRows  int
	ColumnNames []string
}

// ImportResult is returned by Service.Import.
type ImportResult struct {
	store.ImportRecord
	RowsPersisted int64 `json:"rowsPersisted"`
}

// Preview is the outcome of inspecting a file's leading rows.
type Preview struct {
	FileName    string             `json:"fileName"`
	Mode        header.Mode        `json:"mode"`
	Disposition header.Disposition `json:"disposition"`
	Columns     []string           `json:"columns"`
	Rows        [][]string         `json:"rows"`
	SampleRows  int                `json:"sampleRows"`
}

// Resolution is the outcome of resolving a mode against an in-memory sample.
type Resolution struct {
	Mode        header.Mode        `json:"mode"`
	Disposition header.Disposition `json:"disposition"`
	Columns     []string           `json:"columns"`
}
