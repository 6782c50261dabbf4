package core

// error_messages.go maps technical errors to messages an operator can act on.
//
// Every message carries a code that support staff can look up here:
//
//	FILE001  file too large          split the export or raise UPLOAD_MAX_FILE_SIZE
//	FILE002  invalid csv             re-save as comma-separated text
//	FILE005  empty file              upload a file with a header row
//	FILE006  unsupported format      only .csv, .xlsx and .xls are read
//	FILE007  unreadable file         the file is corrupt or password protected
//	BAT001   nothing to merge        every file in the batch failed to read
//	BAT002   no columns              the merged table has no columns
//	BAT003   unknown column          the filter column is not in the merged table
//	BAT004   too many files          a category exceeded its file limit
//	SES001   session expired         the batch was swept or deleted
//	UPL001   request cancelled
//	UPL002   server busy             all batch slots stayed busy
//	UPL003   request timeout
//	UPL004   malformed upload form
//	RATE001  rate limited
//	ERR000   anything else; check the server log
//
// Sentinel errors are matched with errors.Is first. Errors that only exist
// as text (from third-party parsers) fall back to case-insensitive substring
// patterns, first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

var (
	msgFileTooLarge = UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file or ask an administrator to raise the limit",
		Code:    "FILE001",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Re-save the file as comma-separated text",
		Code:    "FILE002",
	}
	msgEmptyFile = UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Upload a file with a header row",
		Code:    "FILE005",
	}
	msgUnsupportedFormat = UserMessage{
		Message: "File type is not supported",
		Action:  "Upload .csv, .xlsx or .xls files",
		Code:    "FILE006",
	}
	msgUnreadable = UserMessage{
		Message: "File could not be read",
		Action:  "Open the file in a spreadsheet program and save it again",
		Code:    "FILE007",
	}
	msgNothingToMerge = UserMessage{
		Message: "None of the uploaded files could be read",
		Action:  "Check the skipped files listed below and upload again",
		Code:    "BAT001",
	}
	msgNoColumns = UserMessage{
		Message: "The merged data has no columns",
		Action:  "Make sure the files have a header row",
		Code:    "BAT002",
	}
	msgUnknownColumn = UserMessage{
		Message: "Filter column does not exist in the merged data",
		Action:  "Pick a column from the list",
		Code:    "BAT003",
	}
	msgTooManyFiles = UserMessage{
		Message: "Too many files in one category",
		Action:  "Upload fewer files per batch",
		Code:    "BAT004",
	}
	msgSessionExpired = UserMessage{
		Message: "This batch is no longer available",
		Action:  "Upload the files again",
		Code:    "SES001",
	}
	msgInvalidForm = UserMessage{
		Message: "The upload could not be understood",
		Action:  "Choose the files again and resubmit the form",
		Code:    "UPL004",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL001",
	}
	msgBusy = UserMessage{
		Message: "Server is busy processing other batches",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller batch or check your connection",
		Code:    "UPL003",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// errorSentinels are checked in order with errors.Is.
var errorSentinels = []struct {
	target error
	msg    UserMessage
}{
	{ErrFileTooLarge, msgFileTooLarge},
	{ErrUnsupportedFormat, msgUnsupportedFormat},
	{ErrEmptyInput, msgNothingToMerge},
	{ErrEmptyColumnSet, msgNoColumns},
	{ErrUnknownColumn, msgUnknownColumn},
	{ErrTooManyFiles, msgTooManyFiles},
	{ErrSessionNotFound, msgSessionExpired},
	{ErrTooManyBatches, msgBusy},
	{context.Canceled, msgCancelled},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPatterns match error text case-insensitively. More specific
// patterns come first.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"file too large", msgFileTooLarge},
	{"request body too large", msgFileTooLarge},
	{"invalid upload form", msgInvalidForm},
	{"empty file", msgEmptyFile},
	{"invalid csv", msgInvalidCSV},
	{"unsupported file format", msgUnsupportedFormat},
	{"rate limit", msgRateLimited},
	{"too many requests", msgRateLimited},
	{"timeout", msgTimeout},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	msg := MapError(fmt.Errorf("filter: %w", ErrUnknownColumn))
//	// msg.Code == "BAT003"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range errorSentinels {
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

	// Parser failures not covered above are still the file's fault.
	var re *ReadError
	if errors.As(err, &re) {
		return msgUnreadable
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

// IsUserFacing reports whether err maps to a specific catalogue entry
// rather than the ERR000 fallback.
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

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
