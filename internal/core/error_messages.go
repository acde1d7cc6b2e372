package core

// error_messages.go maps technical errors to user-friendly messages with codes
// for support reference. Users can quote the code when reporting a problem.
//
// # Data Source Errors (SRC001-SRC099)
//
//	SRC001 - Dataset missing: The dataset file could not be found
//	         Patterns: "no such file", "cannot find"
//
//	SRC002 - Dataset unreadable: The dataset could not be parsed
//	         Patterns: "decode dataset", "parse dataset"
//
//	SRC003 - Unsupported source: The configured data source is not supported
//	         Patterns: "unsupported data source"
//
//	SRC004 - Database unavailable: The dataset database could not be reached
//	         Patterns: "connection refused"
//
//	SRC005 - Table missing: The dataset table does not exist
//	         Patterns: "no such table", "does not exist"
//
// # Record and Session Errors
//
//	REC001 - Record not found: The selected program does not exist
//	         Patterns: "record not found"
//
//	SES001 - Session expired: The search session has expired
//	         Patterns: "session not found"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded", "timeout"
//
//	REQ003 - Invalid parameter
//	         Patterns: "invalid parameter"
//
// # Rate Limiting
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the application log for the
// original error, which is always logged alongside the request id.
//
// Patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so specific patterns come first.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRecordNotFound is returned when a record ID is not in the table.
var ErrRecordNotFound = errors.New("record not found")

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Data source
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The dataset file could not be found",
			Action:  "Check DATA_PATH points to an existing file",
			Code:    "SRC001",
		},
	},
	{
		pattern: "cannot find",
		msg: UserMessage{
			Message: "The dataset file could not be found",
			Action:  "Check DATA_PATH points to an existing file",
			Code:    "SRC001",
		},
	},
	{
		pattern: "decode dataset",
		msg: UserMessage{
			Message: "The dataset could not be read",
			Action:  "Verify the file format matches DATA_SOURCE",
			Code:    "SRC002",
		},
	},
	{
		pattern: "parse dataset",
		msg: UserMessage{
			Message: "The dataset could not be read",
			Action:  "Verify the file format matches DATA_SOURCE",
			Code:    "SRC002",
		},
	},
	{
		pattern: "unsupported data source",
		msg: UserMessage{
			Message: "The configured data source is not supported",
			Action:  "Use one of: sqlite, postgres, csv, json, yaml, xlsx, s3",
			Code:    "SRC003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "The dataset database could not be reached",
			Action:  "Please try again in a few moments",
			Code:    "SRC004",
		},
	},
	{
		pattern: "no such table",
		msg: UserMessage{
			Message: "The dataset table does not exist",
			Action:  "Check DATA_TABLE names an existing table",
			Code:    "SRC005",
		},
	},
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "The dataset table does not exist",
			Action:  "Check DATA_TABLE names an existing table",
			Code:    "SRC005",
		},
	},

	// Records and sessions
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "The selected program does not exist",
			Action:  "Return to the results and pick another program",
			Code:    "REC001",
		},
	},
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Your search session has expired",
			Action:  "Reload the page to start a new search",
			Code:    "SES001",
		},
	},

	// Requests
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid parameter",
		msg: UserMessage{
			Message: "A request parameter is invalid",
			Action:  "Check the value and try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	errStr := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(errStr, p.pattern) {
			return p.msg
		}
	}
	return defaultMessage
}

// FormatUserError returns a formatted user message string.
// Returns an empty string for a nil error.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-friendly message.
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

// InvalidParam returns an error for a malformed request parameter.
func InvalidParam(name, value string) error {
	return fmt.Errorf("invalid parameter %s=%q", name, value)
}
