package models

// availabilityKey identifies one (location, processor) cell in the static
// stock matrix
type availabilityKey struct {
	Location  string
	Processor string
}

// Stock is configured by hand per launch, not derived from inventory counts.
// UAE EPYC is pre-order only; Singapore EPYC capacity is sold out.
var availabilityRules = map[availabilityKey]string{
	{"india", ProcessorIntel}:     AvailabilityInStock,
	{"india", ProcessorAMD}:       AvailabilityInStock,
	{"singapore", ProcessorIntel}: AvailabilityInStock,
	{"singapore", ProcessorAMD}:   AvailabilityOutOfStock,
	{"uae", ProcessorIntel}:       AvailabilityInStock,
	{"uae", ProcessorAMD}:         AvailabilityComingSoon,
}

// PlanAvailability returns the stock state for a (location, processor) pair.
// Pairs outside the matrix report coming-soon.
func PlanAvailability(locationCode, processor string) string {
	if state, ok := availabilityRules[availabilityKey{locationCode, processor}]; ok {
		return state
	}
	return AvailabilityComingSoon
}

// IsPlanAvailable reports whether the pair can be ordered right now
func IsPlanAvailable(locationCode, processor string) bool {
	return PlanAvailability(locationCode, processor) == AvailabilityInStock
}
