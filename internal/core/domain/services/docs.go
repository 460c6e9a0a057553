// Package services contains domain services: business logic that spans an
// aggregate and an external input and therefore does not belong to any single
// entity. ReturnPolicy decides time-based return eligibility with the clock
// supplied by callers, keeping timers out of the domain core.
package services
