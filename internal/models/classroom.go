package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassroomRole string

const (
	RoleOwner      ClassroomRole = "owner"
	RoleInstructor ClassroomRole = "instructor"
	RoleStudent    ClassroomRole = "student"
)

type EnrollmentType string

const (
	EnrollmentPublic        EnrollmentType = "public"
	EnrollmentPassword      EnrollmentType = "password"
	EnrollmentRequest       EnrollmentType = "request"
	EnrollmentPaid          EnrollmentType = "paid"
	EnrollmentInstituteOnly EnrollmentType = "institute_only"
)

type Classroom struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID     string    `json:"owner_id" gorm:"not null;index;size:255"`
	Title       string    `json:"title" gorm:"not null;size:200;index"`
	Description *string   `json:"description" gorm:"type:text"`

	EnrollmentType EnrollmentType `json:"enrollment_type" gorm:"not null;default:public;size:32"`
	AccessCode     *string        `json:"-" gorm:"size:100"`
	Price          *float64       `json:"price"`
	InstituteID    *uuid.UUID     `json:"institute_id" gorm:"type:uuid;index"`

	IsArchived bool `json:"is_archived" gorm:"not null;default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Members []ClassroomMember `json:"members,omitempty" gorm:"foreignKey:ClassroomID"`

	// Computed (not stored)
	MemberCount int64 `json:"member_count" gorm:"-"`
}

// ClassroomMember carries the per-classroom role. The composite unique index
// is the last line of defense against two concurrent joins for the same user.
type ClassroomMember struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	ClassroomID uuid.UUID     `json:"classroom_id" gorm:"type:uuid;not null;uniqueIndex:idx_classroom_user"`
	UserID      string        `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_classroom_user;index"`
	Role        ClassroomRole `json:"role" gorm:"not null;size:32"`
	JoinedAt    time.Time     `json:"joined_at" gorm:"not null"`

	// Resolved profile (not stored)
	Profile *User `json:"profile,omitempty" gorm:"-"`
}

func (c *Classroom) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (m *ClassroomMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	return nil
}

func (Classroom) TableName() string {
	return "classrooms"
}

func (ClassroomMember) TableName() string {
	return "classroom_members"
}
