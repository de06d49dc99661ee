package core

// error_messages.go maps technical errors to messages a workbench user can act on.
//
// Each message carries a code that users can quote when reporting a problem.
// Codes are grouped by the area that produced the error:
//
//	FILE001-FILE099  upload parsing (size, format, empty input, batch limits)
//	SES001-SES099    session state (unknown file, cell edits, advancing)
//	RULE001-RULE099  rule store
//	WGT001-WGT099    priority weights
//	EXP001-EXP099    export
//	SRCH001-SRCH099  row search
//	UPL001-UPL099    request lifecycle and upload slots
//	RATE001, AUTH001 request throttling and API keys
//	ERR000           fallback; check the logs for the technical error
//
// Patterns are matched case-insensitively with strings.Contains against the
// error text. The first match wins, so specific patterns come first.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with a header row",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid spreadsheet",
		msg: UserMessage{
			Message: "Spreadsheet could not be read",
			Action:  "Re-save the workbook as .xlsx or export it as CSV",
			Code:    "FILE003",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Upload a .csv or .xlsx file",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a file with a header row and data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The file has a header but no data rows",
			Action:  "Add at least one data row below the header",
			Code:    "FILE006",
		},
	},
	{
		pattern: "unknown category",
		msg: UserMessage{
			Message: "Entity type is not recognized",
			Action:  "Use one of: clients, workers, tasks",
			Code:    "FILE007",
		},
	},
	{
		pattern: "too many files",
		msg: UserMessage{
			Message: "Too many files in one upload",
			Action:  "Upload fewer files at a time",
			Code:    "FILE008",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Select one or more CSV or XLSX files to upload",
			Code:    "FILE009",
		},
	},

	// Session errors
	{
		pattern: "file not found",
		msg: UserMessage{
			Message: "File is not part of this session",
			Action:  "Refresh the file list and try again",
			Code:    "SES001",
		},
	},
	{
		pattern: "cell out of range",
		msg: UserMessage{
			Message: "Cell position is outside the data grid",
			Action:  "Check the row and column you are editing",
			Code:    "SES002",
		},
	},
	{
		pattern: "blocking validation errors",
		msg: UserMessage{
			Message: "Validation errors must be fixed before continuing",
			Action:  "Resolve every error-severity issue and revalidate",
			Code:    "SES003",
		},
	},

	// Rule errors
	{
		pattern: "rule not found",
		msg: UserMessage{
			Message: "Rule does not exist",
			Action:  "Refresh the rule list and try again",
			Code:    "RULE001",
		},
	},
	{
		pattern: "invalid rule",
		msg: UserMessage{
			Message: "Rule definition is invalid",
			Action:  "Give the rule a name, a known type and a priority from 1 to 10",
			Code:    "RULE002",
		},
	},
	{
		pattern: "rule id already exists",
		msg: UserMessage{
			Message: "A rule with this ID already exists",
			Action:  "Update the existing rule or choose another ID",
			Code:    "RULE003",
		},
	},

	// Weight errors
	{
		pattern: "unknown weight",
		msg: UserMessage{
			Message: "Priority dimension is not recognized",
			Action:  "Use one of the listed priority dimensions",
			Code:    "WGT001",
		},
	},
	{
		pattern: "invalid weight value",
		msg: UserMessage{
			Message: "Weight must be a number between 0 and 1",
			Action:  "Enter a non-negative decimal value",
			Code:    "WGT002",
		},
	},
	{
		pattern: "unknown priority template",
		msg: UserMessage{
			Message: "Priority template does not exist",
			Action:  "Choose one of the listed templates",
			Code:    "WGT003",
		},
	},
	{
		pattern: "weights unbalanced",
		msg: UserMessage{
			Message: "Priority weights do not sum to 1",
			Action:  "Adjust a weight or apply a template",
			Code:    "WGT004",
		},
	},

	// Export errors
	{
		pattern: "unsupported export format",
		msg: UserMessage{
			Message: "Export format is not supported",
			Action:  "Export data as csv, json or xlsx and rules as json or yaml",
			Code:    "EXP001",
		},
	},

	// Search errors
	{
		pattern: "search cancelled",
		msg: UserMessage{
			Message: "Search was cancelled",
			Action:  "Run the search again",
			Code:    "SRCH001",
		},
	},

	// Request lifecycle errors
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "Request could not be read",
			Action:  "Check the request body and try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "too many uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},

	// Throttling and access
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "api key",
		msg: UserMessage{
			Message: "Missing or invalid API key",
			Action:  "Send a valid key in the X-API-Key header",
			Code:    "AUTH001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Unmatched errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
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

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
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
