package models

import "time"

// Processor family constants
const (
	ProcessorIntel = "intel"
	ProcessorAMD   = "amd"
)

// Plan availability constants
const (
	AvailabilityInStock    = "in_stock"
	AvailabilityOutOfStock = "out_of_stock"
	AvailabilityComingSoon = "coming_soon"
)

// HostingPlan represents a sellable hosting tier. Standard (intel) plans live
// in hosting_plans, EPYC (amd) plans in epyc_plans; both share this shape.
type HostingPlan struct {
	ID           string
	Name         string
	Icon         string
	RAM          string
	Performance  string
	LocationCode string
	Price        int64 // stored in PKR, minor-unit-free
	Currency     string
	ColorFrom    string
	ColorTo      string
	Features     []string
	Popular      bool
	SortOrder    int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
