package progress

import "errors"

var (
	// ErrPersistenceUnavailable wraps any network or server failure of the store
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrDuplicateEnrollment is returned when the user is already enrolled in the roadmap
	ErrDuplicateEnrollment = errors.New("already enrolled in this roadmap")

	// ErrEnrollmentFailed wraps any other failure while enrolling. Store
	// failures also wrap ErrPersistenceUnavailable.
	ErrEnrollmentFailed = errors.New("failed to enroll in roadmap")

	// ErrInvalidUpdate is returned for out-of-range percentages or negative minutes
	ErrInvalidUpdate = errors.New("invalid progress update")

	// ErrNotAuthenticated is returned by mutations without a user
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUniqueViolation is returned by Store implementations when the
	// collaborator reports a uniqueness conflict
	ErrUniqueViolation = errors.New("unique constraint violation")
)
