package models

import "time"

// Order status constants. Transitions are one-way: pending -> approved or
// pending -> rejected, admin only.
const (
	OrderStatusPending  = "pending"
	OrderStatusApproved = "approved"
	OrderStatusRejected = "rejected"
)

// Order represents a customer purchase request awaiting manual payment
// verification. Plan fields are snapshotted at submission time so later plan
// edits do not rewrite history.
type Order struct {
	ID      string
	OrderID string // short display code, e.g. ORD-4F2A9C
	UserID  string
	Name    string
	Email   string

	// Plan snapshot
	PlanName  string
	PlanPrice int64
	PlanRAM   string
	Location  string
	Processor string

	PaymentMethod string
	TransactionID *string
	ScreenshotURL *string

	// Panel credentials, written on approval
	PanelLink     *string
	PanelPassword *string
	PanelGmail    *string

	Status       string
	RejectReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
