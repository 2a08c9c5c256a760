package gateway

import "errors"

// ErrOperationFailed matches every *Failure via errors.Is.
var ErrOperationFailed = errors.New("operation failed")

// errSchema marks a strict-mode schema violation.
var errSchema = errors.New("response violates schema")

type FailureClass string

const (
	// ClassTransport covers provider, network and empty-completion failures.
	ClassTransport FailureClass = "transport"
	// ClassShape covers completions that do not parse into the expected shape.
	ClassShape FailureClass = "shape"
)

// Failure is what callers receive when a gateway operation fails. Error
// returns only the generic message for the task kind; the underlying cause
// stays available through Cause for diagnostics and is logged under ID.
type Failure struct {
	Kind  Kind
	Class FailureClass
	ID    string
	cause error
}

func (f *Failure) Error() string {
	p, err := profileFor(f.Kind)
	if err != nil {
		return ErrOperationFailed.Error()
	}
	return p.failure
}

func (f *Failure) Is(target error) bool {
	return target == ErrOperationFailed
}

// Cause returns the original error. It must not be shown to end users.
func (f *Failure) Cause() error {
	return f.cause
}
