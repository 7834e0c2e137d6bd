package core

// # Error Codes Reference
//
// Every error shown to a user carries a short code that can be quoted back
// to support. Typed errors are matched first; anything else falls back to
// case-insensitive substring patterns.
//
// # Load Errors (LOAD001-LOAD099)
//
//	LOAD001 - Parse: The file could not be read as a table
//	          Action: Check that the file is a valid CSV or spreadsheet
//	LOAD002 - Missing capability: Spreadsheet support is not available
//	          Action: Save the sheet as CSV and upload that instead
//	LOAD003 - Empty table: The file has no data rows
//	          Action: Upload a file with a header row and at least one data row
//	LOAD004 - Unsupported: The file type is not supported
//	          Action: Upload a .csv, .xlsx or .xls file
//	LOAD005 - Too large: The file exceeds the upload size limit
//	          Action: Remove unused columns or split the file
//
// # Column Errors (COL001-COL099)
//
//	COL001 - Unresolved: A required column could not be guessed
//	         Action: Pick the Name and Distance columns from the dropdowns
//	COL002 - Unknown column: The chosen column is not in the file
//	         Action: Pick a column from the list
//
// # Selection and Result (SEL001, RES001)
//
//	SEL001 - Empty selection: No properties were selected
//	RES001 - No results: None of the selected rows has a numeric distance
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session expired: The session is unknown or timed out
//	SES002 - Nothing yet: The action needs an upload or a sort first
//
// # Throttling (UPL002, RATE001)
//
//	UPL002 - System busy: Too many uploads in progress
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
//	ERR000 - Anything not recognised. Check logs for the technical error.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage is the user-facing rendition of an error.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

var (
	msgLoadParse = UserMessage{
		Message: "The file could not be read as a table",
		Action:  "Check that the file is a valid CSV or spreadsheet",
		Code:    "LOAD001",
	}
	msgLoadCapability = UserMessage{
		Message: MissingCapabilityMessage,
		Action:  "Save the sheet as CSV and upload that instead",
		Code:    "LOAD002",
	}
	msgLoadEmpty = UserMessage{
		Message: "The uploaded file has no data rows",
		Action:  "Upload a file with a header row and at least one data row",
		Code:    "LOAD003",
	}
	msgLoadUnsupported = UserMessage{
		Message: "This file type is not supported",
		Action:  "Upload a .csv, .xlsx or .xls file",
		Code:    "LOAD004",
	}
	msgLoadTooLarge = UserMessage{
		Message: "File exceeds the upload size limit",
		Action:  "Remove unused columns or split the file",
		Code:    "LOAD005",
	}
	msgUnresolved = UserMessage{
		Message: "Could not tell which columns hold the name and distance",
		Action:  "Pick the Name and Distance columns from the dropdowns",
		Code:    "COL001",
	}
	msgUnknownColumn = UserMessage{
		Message: "That column is not in the uploaded file",
		Action:  "Pick a column from the list",
		Code:    "COL002",
	}
	msgFeatureDisabled = UserMessage{
		Message: "That option is turned off",
		Action:  "Enable the feature in the configuration and try again",
		Code:    "COL003",
	}
	msgEmptySelection = UserMessage{
		Message: "Please select at least one property",
		Action:  "Pick one or more properties from the list, then sort",
		Code:    "SEL001",
	}
	msgNoMatchingRows = UserMessage{
		Message: "No matching rows with a numeric distance",
		Action:  "Check the Distance column for numbers such as 1.5",
		Code:    "RES001",
	}
	msgSessionNotFound = UserMessage{
		Message: "Your session has expired",
		Action:  "Reload the page and upload the file again",
		Code:    "SES001",
	}
	msgNothingYet = UserMessage{
		Message: "There is nothing to work on yet",
		Action:  "Upload a file and run a sort first",
		Code:    "SES002",
	}
	msgBusy = UserMessage{
		Message: "Too many uploads in progress",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// errorPattern maps a lowercase substring to a message for untyped errors.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{pattern: "invalid csv", msg: msgLoadParse},
	{pattern: "unsupported file type", msg: msgLoadUnsupported},
	{pattern: "file too large", msg: msgLoadTooLarge},
	{pattern: "request body too large", msg: msgLoadTooLarge},
	{pattern: "no file provided", msg: msgLoadEmpty},
	{pattern: "too many uploads", msg: msgBusy},
	{pattern: "rate limit", msg: msgRateLimited},
	{pattern: "session not found", msg: msgSessionNotFound},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message. Typed errors are
// checked with errors.Is/As first, then the pattern list is searched.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if msg, ok := mapTyped(err); ok {
		return msg
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func mapTyped(err error) (UserMessage, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		switch le.Kind {
		case LoadParse:
			return msgLoadParse, true
		case LoadMissingCapability:
			return msgLoadCapability, true
		case LoadEmptyTable:
			return msgLoadEmpty, true
		case LoadUnsupported:
			return msgLoadUnsupported, true
		case LoadTooLarge:
			return msgLoadTooLarge, true
		}
	}

	var re *ResolutionError
	if errors.As(err, &re) {
		return msgUnresolved, true
	}

	switch {
	case errors.Is(err, ErrUnknownColumn):
		return msgUnknownColumn, true
	case errors.Is(err, ErrFeatureDisabled):
		return msgFeatureDisabled, true
	case errors.Is(err, ErrEmptySelection):
		return msgEmptySelection, true
	case errors.Is(err, ErrNoMatchingRows):
		return msgNoMatchingRows, true
	case errors.Is(err, ErrSessionNotFound):
		return msgSessionNotFound, true
	case errors.Is(err, ErrNoTable), errors.Is(err, ErrNoResult):
		return msgNothingYet, true
	case errors.Is(err, ErrTooManyUploads):
		return msgBusy, true
	case errors.Is(err, context.DeadlineExceeded):
		return msgBusy, true
	}
	return UserMessage{}, false
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
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

// IsWarning reports whether err is an expected outcome of user input, shown
// as a warning rather than an error.
func IsWarning(err error) bool {
	return errors.Is(err, ErrEmptySelection) || errors.Is(err, ErrNoMatchingRows)
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
