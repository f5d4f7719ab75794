package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ClassroomID uuid.UUID `json:"classroom_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"not null;size:200"`
	Content     *string   `json:"content" gorm:"type:text"`
	VideoURL    *string   `json:"video_url" gorm:"size:500"`

	// Append-only ordering, assigned as current-count+1 at creation.
	SortOrder   int  `json:"sort_order" gorm:"not null"`
	IsPublished bool `json:"is_published" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (Lesson) TableName() string {
	return "lessons"
}
