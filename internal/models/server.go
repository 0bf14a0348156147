package models

import "time"

// UserServer status constants
const (
	ServerStatusActive          = "active"
	ServerStatusSuspended       = "suspended"
	ServerStatusRenewalRequired = "renewal_required"
)

// Canned suspension reasons used by the admin actions
const (
	SuspendReasonDefault = "Server suspended by admin"
	SuspendReasonRenewal = "1 month passed, needs renewal"
)

// UserServer is the provisioned instance created when an order is approved.
// Plan and user fields are copied verbatim from the source order.
type UserServer struct {
	ID       string
	ServerID string // short display code, e.g. SRV-7B31D0
	OrderID  string
	UserID   string
	Name     string
	Email    string

	// Plan snapshot
	PlanName  string
	PlanPrice int64
	PlanRAM   string
	Location  string
	Processor string

	// Panel credentials
	PanelLink     string
	PanelPassword string
	PanelGmail    string

	Status           string
	SuspensionReason *string
	ExpiresAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
