package subscription

import "time"

// Cycle is the recurrence unit of a subscription's charge.
type Cycle string

const (
	CycleWeekly    Cycle = "weekly"
	CycleMonthly   Cycle = "monthly"
	CycleQuarterly Cycle = "quarterly"
	CycleYearly    Cycle = "yearly"
)

// Valid reports whether c is one of the known billing cycles.
func (c Cycle) Valid() bool {
	switch c {
	case CycleWeekly, CycleMonthly, CycleQuarterly, CycleYearly:
		return true
	}
	return false
}

// Subscription represents a single recurring payment tracked for the user.
type Subscription struct {
	ID          string
	Name        string
	Price       float64 // per billing cycle, never negative
	Cycle       Cycle
	NextPayment string // calendar date in YYYY-MM-DD; see dates.go
	Color       string // opaque presentation attribute
	Icon        string // opaque presentation attribute
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
