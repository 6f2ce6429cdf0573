package domain

import "time"

// User represents a staff member who signs in to the back office.
type User struct {
	UserID                 string     `json:"userID"`
	Username               string     `json:"username"`
	Name                   string     `json:"name"`
	PasswordHash           string     `json:"-"`
	IsSuperAdmin           bool       `json:"isSuperAdmin"`
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
