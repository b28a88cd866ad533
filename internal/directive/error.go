package directive

import "fmt"

// ParseError represents a malformed directive line. The caller is expected
// to print the usage text and abort submission; it never reaches the
// scheduler.
type ParseError struct {
	Token  string // offending token ("" when the whole line failed to split)
	Reason string // reason for the failure
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("directive parse error at %q: %s", e.Token, e.Reason)
	}
	return fmt.Sprintf("directive parse error: %s", e.Reason)
}

// NewParseError creates a new ParseError
func NewParseError(token, reason string) *ParseError {
	return &ParseError{Token: token, Reason: reason}
}
