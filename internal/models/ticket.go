package models

import "time"

// Ticket status constants. Admin may set any status; customers may only close
// their own tickets.
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// Ticket priority constants
const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
)

// Message sender constants
const (
	SenderCustomer = "customer"
	SenderAdmin    = "admin"
)

// SupportTicket is a customer support conversation thread
type SupportTicket struct {
	ID        string
	TicketID  string // display code DH-NNNNN, unique
	UserID    string
	Name      string
	Email     string
	Subject   string
	Status    string
	Priority  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TicketMessage is one append-only entry in a ticket thread. At least one of
// Message and ImageURL is set.
type TicketMessage struct {
	ID         string
	TicketID   string
	SenderType string
	SenderName string
	Message    *string
	ImageURL   *string
	CreatedAt  time.Time
}

// ValidTicketStatus reports whether s is one of the four ticket states
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}
