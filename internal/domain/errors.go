package domain

import "errors"

var (
	// ErrNotFound indicates that the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a storage-level uniqueness violation.
	ErrConflict = errors.New("record already exists")
)

// BusinessError is a business-rule violation: unknown product code,
// out-of-bound term/interest/principal, duplicate client identity.
// The message is intended for the end caller, not for operators.
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

func NewBusinessError(message string) *BusinessError {
	return &BusinessError{Message: message}
}

// AsBusinessError unwraps err into a BusinessError if it is one.
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
