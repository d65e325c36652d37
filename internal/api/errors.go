package api

import "fmt"

// ErrUnavailable indicates the backend is down or unreachable.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend unavailable: %v", e.Err)
	}
	return "backend unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrStatus indicates the backend returned a non-2xx response.
type ErrStatus struct {
	Code int
	Body string
}

func (e *ErrStatus) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}

// Retryable reports whether the status is worth retrying. Client errors
// reflect the request itself and repeat identically.
func (e *ErrStatus) Retryable() bool {
	return e.Code == 429 || e.Code >= 500
}

// ErrDecode indicates the backend responded 2xx but the body did not
// parse into the expected shape.
type ErrDecode struct {
	Err error
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("decode backend response: %v", e.Err)
}

func (e *ErrDecode) Unwrap() error { return e.Err }
