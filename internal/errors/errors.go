package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrTaskNotFound is returned when a task is absent or owned by
	// another user. The two cases are deliberately indistinguishable.
	ErrTaskNotFound = errors.New("Task not found")
	// ErrNoFieldsToUpdate is returned when a partial update carries no fields.
	ErrNoFieldsToUpdate = errors.New("No fields to update")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("User with this email already exists")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid,
	// expired, or revoked.
	ErrInvalidRefreshToken = errors.New("Invalid or expired refresh token")
)

// InternalMessage is the only detail callers see for unexpected failures.
const InternalMessage = "Internal server error"

// StatusFor maps a domain error to its HTTP status code. Unknown errors
// map to 500; their detail must be logged, never returned.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoFieldsToUpdate):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRefreshToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// MessageFor returns the client-facing message for a domain error.
func MessageFor(err error) string {
	if StatusFor(err) == http.StatusInternalServerError {
		return InternalMessage
	}
	return err.Error()
}
