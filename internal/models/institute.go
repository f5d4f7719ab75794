package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InstituteRole string

const (
	InstituteRoleOwner   InstituteRole = "owner"
	InstituteRoleAdmin   InstituteRole = "admin"
	InstituteRoleTeacher InstituteRole = "teacher"
	InstituteRoleStudent InstituteRole = "student"
)

type Institute struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID     string    `json:"owner_id" gorm:"not null;index;size:255"`
	Name        string    `json:"name" gorm:"not null;size:200"`
	Description *string   `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InstituteMember mirrors ClassroomMember at institute scope. The root owner
// may act without a member row; authority checks special-case that.
type InstituteMember struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	InstituteID uuid.UUID     `json:"institute_id" gorm:"type:uuid;not null;uniqueIndex:idx_institute_user"`
	UserID      string        `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_institute_user;index"`
	Role        InstituteRole `json:"role" gorm:"not null;size:32"`

	StudentIDCode *string `json:"student_id_code" gorm:"size:64"`

	IsVerifiedByInstitute bool      `json:"is_verified_by_institute" gorm:"not null;default:false"`
	JoinedAt              time.Time `json:"joined_at" gorm:"not null"`

	// Resolved profile (not stored)
	Profile *User `json:"profile,omitempty" gorm:"-"`
}

func (i *Institute) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (m *InstituteMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	return nil
}

func (Institute) TableName() string {
	return "institutes"
}

func (InstituteMember) TableName() string {
	return "institute_members"
}
