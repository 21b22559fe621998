package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/csvimport/internal/header"
	"github.com/JonMunkholm/csvimport/internal/store"
)

func TestMapError(t *testing.T) {
	_, invalidMode := header.Validate(2)
	_, emptySource := header.Resolve(header.ModeAutoDetect, nil)

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"invalid header mode", invalidMode, "HDR001"},
		{"wrapped invalid header mode", fmt.Errorf("import a.csv: %w", invalidMode), "HDR001"},
		{"empty source", emptySource, "HDR002"},
		{"file too large", fmt.Errorf("%w: exceeds 10 bytes", ErrFileTooLarge), "FILE001"},
		{"invalid csv", fmt.Errorf("%w: line 3", ErrInvalidCSV), "FILE002"},
		{"encoding text", errors.New("encoding error: unsupported encoding \"x\""), "FILE003"},
		{"no file", ErrNoFile, "FILE004"},
		{"column count", fmt.Errorf("%w: got 2 want 3", ErrColumnCount), "IMP001"},
		{"invalid option", ErrInvalidOption, "IMP002"},
		{"too many imports", ErrTooManyImports, "IMP003"},
		{"not found", store.ErrNotFound, "IMP004"},
		{"cancelled", context.Canceled, "IMP005"},
		{"deadline", fmt.Errorf("copy rows: %w", context.DeadlineExceeded), "IMP006"},
		{"connection refused", errors.New("dial tcp: connection refused"), "DB001"},
		{"case insensitive", errors.New("DEADLOCK detected"), "DB003"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"unknown", errors.New("some random internal error"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, MapError(tt.err).Code)
		})
	}
}

func TestFormatUserError(t *testing.T) {
	assert.Equal(t,
		"No file was provided (Code: FILE004). Attach a delimited text file in the \"file\" field",
		FormatUserError(ErrNoFile))
	assert.Empty(t, FormatUserError(nil))
}

func TestIsUserFacing(t *testing.T) {
	assert.True(t, IsUserFacing(header.ErrEmptySource))
	assert.False(t, IsUserFacing(errors.New("boom")))
	assert.False(t, IsUserFacing(nil))
}

func TestNewUserError(t *testing.T) {
	assert.Nil(t, NewUserError(nil))

	tech := fmt.Errorf("import: %w", header.ErrInvalidArgument)
	ue := NewUserError(tech)
	assert.Equal(t, "HDR001", ue.User.Code)
	assert.Equal(t, ue.User.Message, ue.Error())
	assert.ErrorIs(t, ue, header.ErrInvalidArgument)

	// an existing UserError keeps its message
	assert.Equal(t, ue.User, MapError(fmt.Errorf("outer: %w", ue)))
}
