package client

import "fmt"

// maxBody is how much of an unexpected body is kept in errors.
const maxBody = 200

// TransportError reports a network failure or a non-2xx response.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FormatError reports a body that is not the expected JSON.
type FormatError struct {
	URL         string
	ContentType string
	Body        string
	Err         error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: unexpected %q response: %v: %s", e.URL, e.ContentType, e.Err, e.Body)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// RunError is a launch the test runner refused, e.g. because it is busy.
type RunError struct {
	Label   string
	Message string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %q: %s", e.Label, e.Message)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxBody {
		return s
	}
	return string(r[:maxBody]) + "..."
}
