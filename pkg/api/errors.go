package api

import (
	"errors"
	"fmt"
)

// RemoteError is returned when the store answers with a non-2xx status
// that the operation does not treat as not found.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRemoteError reports whether err carries a RemoteError.
func IsRemoteError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not a
// RemoteError.
func StatusCode(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
