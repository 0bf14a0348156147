package models

import "time"

// AuditLog records an admin mutation against an entity
type AuditLog struct {
	ID         string
	EntityType string // order, server, user, plan, location, payment_method, ticket
	EntityID   string
	Action     string
	Status     string
	Message    string
	Metadata   map[string]interface{}
	CreatedAt  time.Time
}
