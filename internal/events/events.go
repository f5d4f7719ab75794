package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for every message published by this service.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Event types published by the classroom service.
const (
	EventExamPublished           = "exam.published"
	EventExamAttemptSubmitted    = "exam.attempt_submitted"
	EventAttendanceSessionOpened = "attendance.session_opened"
	EventSubmissionGraded        = "assignment.submission_graded"
	EventMemberJoined            = "classroom.member_joined"
)

// ExamPublishedEvent notifies downstream consumers that an exam went live.
type ExamPublishedEvent struct {
	ExamID      string `json:"exam_id"`
	ClassroomID string `json:"classroom_id"`
	Title       string `json:"title"`
	PublishedBy string `json:"published_by"`
}

// ExamAttemptSubmittedEvent carries a graded attempt result.
type ExamAttemptSubmittedEvent struct {
	AttemptID   string  `json:"attempt_id"`
	ExamID      string  `json:"exam_id"`
	ClassroomID string  `json:"classroom_id"`
	StudentID   string  `json:"student_id"`
	Score       float64 `json:"score"`
	MaxScore    float64 `json:"max_score"`
}

// AttendanceSessionOpenedEvent announces a new check-in window.
type AttendanceSessionOpenedEvent struct {
	SessionID   string    `json:"session_id"`
	ClassroomID string    `json:"classroom_id"`
	OpenAt      time.Time `json:"open_at"`
	CloseAt     time.Time `json:"close_at"`
}

// SubmissionGradedEvent notifies a student that feedback is available.
type SubmissionGradedEvent struct {
	SubmissionID string  `json:"submission_id"`
	AssignmentID string  `json:"assignment_id"`
	ClassroomID  string  `json:"classroom_id"`
	StudentID    string  `json:"student_id"`
	Grade        float64 `json:"grade"`
}

// MemberJoinedEvent announces a new active classroom member.
type MemberJoinedEvent struct {
	ClassroomID string `json:"classroom_id"`
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
}

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
	Close() error
}

// NewEvent wraps a payload in the service event envelope.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "classroom-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
