package models

import "time"

// PaymentMethod is a manual payment destination (bank account, wallet)
// shown during checkout.
type PaymentMethod struct {
	ID            string
	Name          string
	Icon          string
	AccountNumber string
	AccountTitle  string
	QRCodeURL     *string
	SortOrder     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
