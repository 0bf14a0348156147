package models

import "time"

// PortalUser is a registered customer account
type PortalUser struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsBanned     bool
	BanReason    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DefaultBanReason is applied when an admin bans a user without typing a reason
const DefaultBanReason = "Banned by admin"
