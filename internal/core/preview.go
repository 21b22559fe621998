package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/csvimport/internal/header"
)

// Preview reads only the leading rows of a file and reports how it would be
// imported. Nothing is persisted and no import slot is taken.
func (s *Service) Preview(ctx context.Context, req ImportRequest) (*Preview, error) {
	if req.Source == nil {
		return nil, ErrNoFile
	}
	opts, err := s.resolveOptions(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := newRowReader(req.Source, opts, req.Size, s.cfg.MaxFileSize)
	if err != nil {
		return nil, err
	}
	sample, err := rows.sample(opts.sampleRows)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", req.FileName, err)
	}
	if len(sample) == 0 {
		return nil, fmt.Errorf("preview %s: %w", req.FileName, header.ErrEmptySource)
	}

	disp, err := header.Resolve(opts.mode, sample)
	if err != nil {
		return nil, err
	}
	columns, err := nameColumns(disp, sample, req.ColumnNames)
	if err != nil {
		return nil, err
	}

	data := sample
	if disp.HasHeader() {
		data = sample[1:]
	}

	return &Preview{
		FileName:    req.FileName,
		Mode:        opts.mode,
		Disposition: disp,
		Columns:     columns,
		Rows:        data,
		SampleRows:  len(sample),
	}, nil
}

// ResolveSample resolves a raw header option against rows already in memory.
// Unlike Import, an empty sample under a forced mode is not an error.
func (s *Service) ResolveSample(raw any, rows [][]string) (Resolution, error) {
	mode, err := s.resolveMode(raw)
	if err != nil {
		return Resolution{}, err
	}
	disp, err := header.Resolve(mode, rows)
	if err != nil {
		return Resolution{Mode: mode}, err
	}
	columns, err := nameColumns(disp, rows, nil)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Mode: mode, Disposition: disp, Columns: columns}, nil
}
