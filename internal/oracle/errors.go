package oracle

import "fmt"

// ValidationError reports a malformed or missing request field. It is raised
// before any network call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: field %q %s", e.Field, e.Reason)
}

// ConfigurationError reports a missing or malformed setting. Raised at
// startup so a dead API key is caught before the first request.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Setting, e.Reason)
}

// InferenceError reports a failed call to the external model: network error,
// non-2xx upstream status, or an empty candidate list. StatusCode is 0 when
// the failure happened before an HTTP status was available.
type InferenceError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *InferenceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("inference failed (upstream status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("inference failed: %s", e.Message)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// PersistenceError reports a failed datastore write after a successful
// inference. Kept distinct from InferenceError so callers can offer a
// retry-save without re-running the model.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
