package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
)

type Assignment struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ClassroomID uuid.UUID  `json:"classroom_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"not null;size:200"`
	Description *string    `json:"description" gorm:"type:text"`
	DueDate     *time.Time `json:"due_date"`
	MaxScore    int        `json:"max_score" gorm:"not null;default:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Submissions []AssignmentSubmission `json:"submissions,omitempty" gorm:"foreignKey:AssignmentID"`

	// Computed (not stored)
	SubmissionCount int64 `json:"submission_count" gorm:"-"`
}

// AssignmentSubmission is one versioned attempt in the per-(assignment,student)
// history. Invariants: attempt numbers are contiguous from 1 in creation order,
// and exactly one row per stream has IsLatest=true.
type AssignmentSubmission struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AssignmentID uuid.UUID `json:"assignment_id" gorm:"type:uuid;not null;uniqueIndex:idx_submission_attempt"`
	StudentID    string    `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_submission_attempt;index"`

	Content  *string        `json:"content" gorm:"type:text"`
	FileURLs datatypes.JSON `json:"file_urls" gorm:"type:jsonb"`

	AttemptNumber int              `json:"attempt_number" gorm:"not null;uniqueIndex:idx_submission_attempt"`
	IsLatest      bool             `json:"is_latest" gorm:"not null;default:true;index"`
	Status        SubmissionStatus `json:"status" gorm:"not null;default:submitted;size:32"`

	Grade    *float64 `json:"grade"`
	Feedback *string  `json:"feedback" gorm:"type:text"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Assignment *Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`

	// Resolved profile (not stored)
	Profile *User `json:"profile,omitempty" gorm:"-"`
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (s *AssignmentSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now().UTC()
	}
	return nil
}

func (Assignment) TableName() string {
	return "assignments"
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
