package models

import "time"

type AppRole string

const (
	AppRoleUser  AppRole = "normal_user"
	AppRoleAdmin AppRole = "admin"
)

// User is the read-only profile projection served by the identity provider.
// The service never writes this entity; classroom-scoped authority is always
// derived from membership rows, not from the identity provider's role claim.
type User struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Bio      *string `json:"bio,omitempty"`
	AppRole  AppRole `json:"app_role"`

	AvatarURL *string `json:"avatar_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
