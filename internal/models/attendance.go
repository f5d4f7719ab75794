package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// AttendanceSession is a time-boxed check-in window. Openness is derived from
// wall-clock comparison against CloseAt; there is no stored status field.
type AttendanceSession struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ClassroomID uuid.UUID `json:"classroom_id" gorm:"type:uuid;not null;index"`

	OpenAt  time.Time `json:"open_at" gorm:"not null"`
	CloseAt time.Time `json:"close_at" gorm:"not null"`

	LateThresholdMinutes int `json:"late_threshold_minutes" gorm:"not null;default:15"`

	// Consumed by an external scheduled sweep, never by this service.
	AutoMarkAbsent bool `json:"auto_mark_absent" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`

	// Computed (not stored)
	RecordCount int64 `json:"record_count" gorm:"-"`
}

type AttendanceRecord struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID `json:"session_id" gorm:"type:uuid;not null;uniqueIndex:idx_session_student"`
	StudentID string    `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_session_student;index"`

	CheckedInAt time.Time        `json:"checked_in_at" gorm:"not null"`
	Status      AttendanceStatus `json:"status" gorm:"not null;size:16"`

	// Opaque geo payload for anti-fraud heuristics, not validated here.
	LocationData datatypes.JSON `json:"location_data" gorm:"type:jsonb"`

	// Resolved profile (not stored)
	Profile *User `json:"profile,omitempty" gorm:"-"`
}

func (s *AttendanceSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (r *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
