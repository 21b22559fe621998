package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JonMunkholm/csvimport/internal/config"
	"github.com/JonMunkholm/csvimport/internal/header"
	"github.com/JonMunkholm/csvimport/internal/store"
	"github.com/JonMunkholm/csvimport/internal/textenc"
)

var (
	// ErrNoFile is returned when a request carries no source.
	ErrNoFile = errors.New("no file provided")

	// ErrInvalidOption is returned for a bad delimiter, encoding or sample size.
	ErrInvalidOption = errors.New("invalid import option")
)

// Service provides import operations over a store.
type Service struct {
	store   store.Store
	cfg     config.ImportConfig
	limiter *ImportLimiter
}

// NewService creates a Service. cfg is expected to have passed
// config.Validate.
func NewService(st store.Store, cfg config.ImportConfig) (*Service, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if cfg.SampleRows <= 0 {
		return nil, fmt.Errorf("%w: sample rows must be positive", ErrInvalidOption)
	}
	return &Service{
		store:   st,
		cfg:     cfg,
		limiter: NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
	}, nil
}

// Config returns the import settings the service runs with.
func (s *Service) Config() config.ImportConfig {
	return s.cfg
}

// importOptions are the effective settings for one request.
type importOptions struct {
	mode       header.Mode
	comma      rune
	delimiter  string
	encoding   string
	sampleRows int
}

// resolveMode validates a raw header option, applying the configured default
// when the option is unset.
func (s *Service) resolveMode(raw any) (header.Mode, error) {
	mode, err := header.Validate(raw)
	if err != nil {
		return mode, err
	}
	if mode == header.ModeUnspecified && s.cfg.DefaultHeader != "" {
		return header.Validate(s.cfg.DefaultHeader)
	}
	return mode, nil
}

func (s *Service) resolveOptions(req ImportRequest) (importOptions, error) {
	mode, err := s.resolveMode(req.Header)
	if err != nil {
		return importOptions{}, err
	}

	delim := req.Delimiter
	if delim == "" {
		delim = s.cfg.Delimiter
	}
	comma, err := ParseDelimiter(delim)
	if err != nil {
		return importOptions{}, err
	}

	enc := strings.TrimSpace(req.Encoding)
	if enc == "" {
		enc = s.cfg.Encoding
	}
	if enc == "" {
		enc = textenc.Default
	}
	if !textenc.Supported(enc) {
		return importOptions{}, fmt.Errorf("%w: unsupported encoding %q", ErrInvalidOption, enc)
	}

	k := req.SampleRows
	if k == 0 {
		k = s.cfg.SampleRows
	}
	if k < 1 || k > MaxSampleRows {
		return importOptions{}, fmt.Errorf("%w: sample rows %d outside 1..%d", ErrInvalidOption, k, MaxSampleRows)
	}

	return importOptions{
		mode:       mode,
		comma:      comma,
		delimiter:  string(comma),
		encoding:   strings.ToLower(enc),
		sampleRows: k,
	}, nil
}

// ParseDelimiter converts a separator option to a rune. "\t" and "tab"
// (either spelling) mean a tab; anything else must be a single rune that is
// not a quote or line break.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "\t", "tab":
		return '\t', nil
	case "":
		return ',', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("%w: delimiter %q", ErrInvalidOption, s)
	}
	return r, nil
}

// GetImport returns a stored import by id.
func (s *Service) GetImport(ctx context.Context, id string) (store.ImportRecord, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return store.ImportRecord{}, fmt.Errorf("%w: %q", store.ErrNotFound, id)
	}
	return s.store.GetImport(ctx, parsed)
}

// ListImports returns stored imports, newest first.
func (s *Service) ListImports(ctx context.Context, filter store.ListFilter) ([]store.ImportRecord, error) {
	return s.store.ListImports(ctx, filter)
}

// LimiterStatus reports the import slots in use.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until in-flight imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
