// Package apperr defines the sentinel errors shared by all services and the
// mapping from those errors to HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

// Validation errors: invalid or missing input, operation aborted.
var (
	ErrPhoneRequired      = errors.New("phone number is required")
	ErrNameRequired       = errors.New("name is required")
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrLineNotFound       = errors.New("line not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrWorkerNotEligible  = errors.New("assignee must be an active worker")
	ErrBackupNotFound     = errors.New("backup file not found")
	ErrAssignmentNotFound = errors.New("assignment log not found")
	ErrInvalidQRPayload   = errors.New("invalid QR payload format")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Capacity errors: the target group is full; retry against another group.
var (
	ErrGroupFull = errors.New("group has reached its maximum lines count")
)

// Conflict errors: uniqueness violations.
var (
	ErrDuplicatePhone    = errors.New("phone number already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Invalid-state errors: the transition is not legal from the current state.
var (
	ErrLineNotAvailable     = errors.New("line is not available for assignment")
	ErrLineNotReturned      = errors.New("line is not in returned status")
	ErrAssignmentNotPending = errors.New("assignment is not pending")
	ErrNoCashWallet         = errors.New("group has no cash-wallet validity to renew")
	ErrUserInactive         = errors.New("user account is inactive")
)

// Delete guards: restrict-on-delete relationships.
var (
	ErrOperatorHasGroups        = errors.New("operator still owns groups and cannot be deleted")
	ErrGroupHasLines            = errors.New("group still contains lines and cannot be deleted")
	ErrLineHasPendingAssignment = errors.New("line has a pending assignment and cannot be deleted")
)

// Status maps a service error to an HTTP status code. Unknown errors are
// treated as internal.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrOperatorNotFound),
		errors.Is(err, ErrGroupNotFound),
		errors.Is(err, ErrLineNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrAssignmentNotFound),
		errors.Is(err, ErrBackupNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicatePhone),
		errors.Is(err, ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, ErrGroupFull),
		errors.Is(err, ErrLineNotAvailable),
		errors.Is(err, ErrLineNotReturned),
		errors.Is(err, ErrAssignmentNotPending),
		errors.Is(err, ErrNoCashWallet),
		errors.Is(err, ErrUserInactive),
		errors.Is(err, ErrOperatorHasGroups),
		errors.Is(err, ErrGroupHasLines),
		errors.Is(err, ErrLineHasPendingAssignment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPhoneRequired),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrWorkerNotEligible),
		errors.Is(err, ErrInvalidQRPayload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
