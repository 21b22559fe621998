package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/csvimport/internal/header"
	"github.com/JonMunkholm/csvimport/internal/logging"
	"github.com/JonMunkholm/csvimport/internal/store"
)

// Import streams one file into the store and records the outcome.
//
// The header option is validated before any byte is read, so an invalid
// option fails without side effects. A file with no non-blank rows fails with
// header.ErrEmptySource whatever the mode. Rows already persisted by an import
// that fails are deleted.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	start := time.Now()

	if req.Source == nil {
		return nil, ErrNoFile
	}
	opts, err := s.resolveOptions(req)
	if err != nil {
		return nil, err
	}
	if s.cfg.MaxFileSize > 0 && req.Size > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, req.Size, s.cfg.MaxFileSize)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	id := uuid.New()
	logger := logging.WithFields(ctx, "import_id", id, "file", req.FileName)
	logger.Info("import started",
		"mode", opts.mode,
		"delimiter", opts.delimiter,
		"encoding", opts.encoding,
		"size", req.Size,
	)

	sink := &rowSink{
		store:   s.store,
		id:      id,
		size:    s.cfg.BatchSize,
		persist: s.cfg.PersistRows,
	}

	rec, err := s.runImport(ctx, req, opts, sink, logger)
	if err != nil {
		s.discard(ctx, sink, logger)
		logger.Warn("import failed", "error", err, "rows_read", sink.count)
		return nil, fmt.Errorf("import %s: %w", req.FileName, err)
	}

	rec.ID = id
	rec.CreatedAt = start.UTC()
	rec.DurationMs = time.Since(start).Milliseconds()
	rec.ClientIP, rec.UserAgent = ClientFromContext(ctx)

	if err := s.store.SaveImport(ctx, rec); err != nil {
		s.discard(ctx, sink, logger)
		return nil, fmt.Errorf("import %s: %w", req.FileName, err)
	}

	logger.Info("import completed",
		"disposition", rec.Disposition,
		"nrow", rec.NRow,
		"ncol", rec.NCol,
		"persisted", sink.persisted,
		"duration", time.Since(start),
	)

	return &ImportResult{ImportRecord: rec, RowsPersisted: sink.persisted}, nil
}

// runImport reads the source, resolves the header and feeds data rows to sink.
func (s *Service) runImport(ctx context.Context, req ImportRequest, opts importOptions, sink *rowSink, logger *slog.Logger) (store.ImportRecord, error) {
	rows, err := newRowReader(req.Source, opts, req.Size, s.cfg.MaxFileSize)
	if err != nil {
		return store.ImportRecord{}, err
	}

	sample, err := rows.sample(opts.sampleRows)
	if err != nil {
		return store.ImportRecord{}, err
	}
	if len(sample) == 0 {
		return store.ImportRecord{}, header.ErrEmptySource
	}

	disp, err := header.Resolve(opts.mode, sample)
	if err != nil {
		return store.ImportRecord{}, err
	}
	columns, err := nameColumns(disp, sample, req.ColumnNames)
	if err != nil {
		return store.ImportRecord{}, err
	}
	logger.Debug("header resolved", "disposition", disp, "sample_rows", len(sample), "columns", len(columns))

	data := sample
	if disp.HasHeader() {
		data = sample[1:]
	}
	for _, row := range data {
		if err := sink.add(ctx, row); err != nil {
			return store.ImportRecord{}, err
		}
	}

	for {
		row, err := rows.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return store.ImportRecord{}, err
		}
		if rows.rows%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return store.ImportRecord{}, err
			}
		}
		if err := sink.add(ctx, row); err != nil {
			return store.ImportRecord{}, err
		}
	}
	if err := sink.flush(ctx); err != nil {
		return store.ImportRecord{}, err
	}

	return store.ImportRecord{
		FileName:    req.FileName,
		Mode:        opts.mode,
		Disposition: disp,
		Columns:     columns,
		NRow:        sink.count,
		NCol:        len(columns),
		Delimiter:   opts.delimiter,
		Encoding:    opts.encoding,
	}, nil
}

// discard deletes rows persisted by a failed import. It runs even when ctx
// is already cancelled.
func (s *Service) discard(ctx context.Context, sink *rowSink, logger *slog.Logger) {
	if sink.persisted == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	n, err := s.store.DeleteRows(ctx, sink.id)
	if err != nil {
		logger.Error("failed to discard rows", "error", err)
		return
	}
	logger.Info("discarded rows", "count", n)
}

// rowSink counts data rows and persists them in batches.
type rowSink struct {
	store     store.Store
	id        uuid.UUID
	size      int
	persist   bool
	batch     [][]string
	count     int
	persisted int64
}

func (w *rowSink) add(ctx context.Context, row []string) error {
	w.count++
	if !w.persist {
		return nil
	}
	w.batch = append(w.batch, row)
	if len(w.batch) >= w.size {
		return w.flush(ctx)
	}
	return nil
}

func (w *rowSink) flush(ctx context.Context) error {
	if len(w.batch) == 0 {
		return nil
	}
	first := w.count - len(w.batch) + 1
	if err := w.store.AppendRows(ctx, w.id, first, w.batch); err != nil {
		return err
	}
	w.persisted += int64(len(w.batch))
	w.batch = w.batch[:0]
	return nil
}
