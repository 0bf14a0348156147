package models

import "time"

// Location represents a datacenter location shown in the catalog carousel
type Location struct {
	ID        string
	Name      string
	Code      string
	Flag      string
	Active    bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}
