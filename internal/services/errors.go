package services

import (
	"errors"
	"fmt"
)

// Not-found errors
var (
	ErrClassroomNotFound  = errors.New("classroom not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrExamNotFound       = errors.New("exam not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrSessionNotFound    = errors.New("attendance session not found")
	ErrInstituteNotFound  = errors.New("institute not found")
	ErrUserNotFound       = errors.New("user not found")
)

// Conflict errors
var (
	ErrAlreadyEnrolled   = errors.New("already enrolled in this classroom")
	ErrOwnerCannotJoin   = errors.New("already the instructor of this classroom")
	ErrAlreadyCheckedIn  = errors.New("already checked in to this session")
	ErrAlreadyMember     = errors.New("already a member of this institute")
	ErrCannotRemoveOwner = errors.New("the institute owner cannot be removed")
)

// State errors
var (
	ErrExamNotPublished  = errors.New("exam is not published")
	ErrClassroomArchived = errors.New("classroom is archived")
	ErrSessionClosed     = errors.New("attendance session is closed")
)

// Unsupported enrollment paths; recognized but intentionally unimplemented.
var (
	ErrEnrollmentNotSupported = errors.New("enrollment type not supported yet")
)

// Validation errors raised by services beyond DTO tag validation.
var (
	ErrInvalidEnrollmentType = errors.New("invalid enrollment type")
	ErrAccessCodeRequired    = errors.New("access code is required")
	ErrInvalidGrade          = errors.New("grade must be between 0 and the assignment max score")
)

// PermissionError is returned when an authenticated user lacks the required
// role for an operation.
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// IsPermissionError reports whether err is a PermissionError.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrClassroomNotFound, ErrMemberNotFound, ErrLessonNotFound,
		ErrAssignmentNotFound, ErrSubmissionNotFound, ErrExamNotFound,
		ErrQuestionNotFound, ErrSessionNotFound, ErrInstituteNotFound,
		ErrUserNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err belongs to the conflict family.
func IsConflict(err error) bool {
	for _, target := range []error{
		ErrAlreadyEnrolled, ErrOwnerCannotJoin, ErrAlreadyCheckedIn,
		ErrAlreadyMember, ErrCannotRemoveOwner,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsForbiddenState reports whether err means the entity exists but is not in
// a state that permits the operation.
func IsForbiddenState(err error) bool {
	for _, target := range []error{ErrExamNotPublished, ErrClassroomArchived} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsWindowClosed reports whether err is a closed check-in window.
func IsWindowClosed(err error) bool {
	return errors.Is(err, ErrSessionClosed)
}

// IsUnsupported reports whether err is an intentionally unimplemented path.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrEnrollmentNotSupported)
}

// IsValidation reports whether err is a service-level validation failure.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidEnrollmentType, ErrAccessCodeRequired, ErrInvalidGrade,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
