package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
)

type Exam struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ClassroomID uuid.UUID `json:"classroom_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"not null;size:200"`
	Description *string   `json:"description" gorm:"type:text"`

	DurationMinutes int `json:"duration_minutes" gorm:"not null"`
	PassingScore    int `json:"passing_score" gorm:"not null"`

	// Draft until explicitly published; the transition is one-way.
	IsPublished bool `json:"is_published" gorm:"not null;default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []ExamQuestion `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
}

// QuestionOption is one labeled choice inside a question's option list.
type QuestionOption struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type ExamQuestion struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ExamID  uuid.UUID `json:"exam_id" gorm:"type:uuid;not null;index"`
	Content string    `json:"content" gorm:"type:text;not null"`

	// Ordered list of {key, text} pairs, opaque to scoring except for key match.
	Options       datatypes.JSON `json:"options" gorm:"type:jsonb;not null"`
	CorrectOption string         `json:"correct_option" gorm:"not null;size:16"`
	Points        *int           `json:"points"`

	Type QuestionType `json:"type" gorm:"not null;default:multiple_choice;size:32"`

	// 1-based, assigned as current-count+1 at creation, append-only.
	SortOrder int `json:"sort_order" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExamAttempt stores the outcome of one scored submission together with the
// verbatim answers snapshot kept for audit and dispute handling.
type ExamAttempt struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ExamID    uuid.UUID `json:"exam_id" gorm:"type:uuid;not null;index"`
	StudentID string    `json:"student_id" gorm:"not null;size:255;index"`

	Score    float64 `json:"score" gorm:"not null"`
	MaxScore float64 `json:"max_score" gorm:"not null"`

	AnswersSnapshot datatypes.JSON `json:"answers_snapshot" gorm:"type:jsonb"`

	StartedAt  time.Time  `json:"started_at" gorm:"not null"`
	FinishedAt *time.Time `json:"finished_at"`

	// Relations
	Exam *Exam `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
}

func (e *Exam) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (q *ExamQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (a *ExamAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.StartedAt.IsZero() {
		a.StartedAt = time.Now().UTC()
	}
	return nil
}

func (Exam) TableName() string {
	return "exams"
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}
