package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference.
//
// Codes by category:
//
//	HDR001  Header option outside 1, 0, -1 or unset
//	HDR002  No rows to inspect for header detection
//	FILE001 File exceeds the size limit
//	FILE002 File is not valid delimited text
//	FILE003 File encoding could not be decoded
//	FILE004 No file in the request
//	IMP001  Column name override does not match the column count
//	IMP002  Invalid import option (delimiter, encoding, sample size)
//	IMP003  Too many imports in progress
//	IMP004  Import record not found
//	IMP005  Request cancelled
//	IMP006  Request timed out
//	DB001   Database unreachable
//	DB002   Database connection interrupted
//	DB003   Database deadlock
//	RATE001 Rate limited
//	ERR000  Anything else; check the logs for the technical error
//
// Sentinel errors are matched with errors.Is first. Other errors fall back to
// a case-insensitive substring table where the first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/csvimport/internal/header"
	"github.com/JonMunkholm/csvimport/internal/store"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgInvalidMode = UserMessage{
		Message: "The header option must be 1, 0 or -1",
		Action:  "Use 1 when the first row holds column names, -1 when it is data, or 0 to detect automatically",
		Code:    "HDR001",
	}
	msgEmptySource = UserMessage{
		Message: "The file has no rows to inspect",
		Action:  "Upload a file with at least one non-blank row",
		Code:    "HDR002",
	}
	msgFileTooLarge = UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not valid delimited text",
		Action:  "Check the separator and quoting, then try again",
		Code:    "FILE002",
	}
	msgEncoding = UserMessage{
		Message: "File contains characters that could not be decoded",
		Action:  "Save the file as UTF-8 or name its encoding",
		Code:    "FILE003",
	}
	msgNoFile = UserMessage{
		Message: "No file was provided",
		Action:  "Attach a delimited text file in the \"file\" field",
		Code:    "FILE004",
	}
	msgColumnCount = UserMessage{
		Message: "Column names do not match the number of columns",
		Action:  "Provide exactly one name per column",
		Code:    "IMP001",
	}
	msgInvalidOption = UserMessage{
		Message: "An import option is invalid",
		Action:  "Check the separator, encoding and sample size",
		Code:    "IMP002",
	}
	msgTooManyImports = UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "IMP003",
	}
	msgNotFound = UserMessage{
		Message: "Import not found",
		Action:  "Check the import id",
		Code:    "IMP004",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "IMP005",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "IMP006",
	}
)

// sentinelMessages is checked in order with errors.Is.
var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{header.ErrInvalidArgument, msgInvalidMode},
	{header.ErrEmptySource, msgEmptySource},
	{ErrFileTooLarge, msgFileTooLarge},
	{ErrInvalidCSV, msgInvalidCSV},
	{ErrNoFile, msgNoFile},
	{ErrColumnCount, msgColumnCount},
	{ErrInvalidOption, msgInvalidOption},
	{ErrTooManyImports, msgTooManyImports},
	{store.ErrNotFound, msgNotFound},
	{context.Canceled, msgCancelled},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns covers errors that arrive as text from drivers and the
// network. Specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{"encoding error", msgEncoding},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB001",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB002",
	}},
	{"deadlock", UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB003",
	}},
	{"timeout", msgTimeout},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. A nil
// error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.User
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.target) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error, kept for logging, with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. It returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
