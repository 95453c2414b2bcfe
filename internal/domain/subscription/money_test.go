package subscription

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestMonthlyEquivalent(t *testing.T) {
	tests := []struct {
		name     string
		sub      *Subscription
		expected float64
	}{
		{"monthly unchanged", &Subscription{Price: 12, Cycle: CycleMonthly}, 12},
		{"yearly divided by twelve", &Subscription{Price: 120, Cycle: CycleYearly}, 10},
		{"weekly times average weeks per month", &Subscription{Price: 10, Cycle: CycleWeekly}, 43.3},
		{"quarterly divided by three", &Subscription{Price: 30, Cycle: CycleQuarterly}, 10},
		{"zero price", &Subscription{Price: 0, Cycle: CycleYearly}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthlyEquivalent(tt.sub); !almostEqual(got, tt.expected) {
				t.Errorf("MonthlyEquivalent = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestAnnualEquivalent(t *testing.T) {
	tests := []struct {
		name     string
		sub      *Subscription
		expected float64
	}{
		{"monthly times twelve", &Subscription{Price: 12, Cycle: CycleMonthly}, 144},
		{"yearly unchanged", &Subscription{Price: 120, Cycle: CycleYearly}, 120},
		{"weekly times fifty-two", &Subscription{Price: 10, Cycle: CycleWeekly}, 520},
		{"quarterly times four", &Subscription{Price: 30, Cycle: CycleQuarterly}, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnnualEquivalent(tt.sub); !almostEqual(got, tt.expected) {
				t.Errorf("AnnualEquivalent = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestPortfolioTotals(t *testing.T) {
	subs := []*Subscription{
		{Price: 12, Cycle: CycleMonthly},
		{Price: 120, Cycle: CycleYearly},
	}

	if got := PortfolioMonthlyTotal(subs); !almostEqual(got, 22.0) {
		t.Errorf("PortfolioMonthlyTotal = %v, expected 22.0", got)
	}
	if got := PortfolioAnnualTotal(subs); !almostEqual(got, 264.0) {
		t.Errorf("PortfolioAnnualTotal = %v, expected 264.0", got)
	}
}

func TestPortfolioTotalsEmpty(t *testing.T) {
	if got := PortfolioMonthlyTotal(nil); got != 0 {
		t.Errorf("PortfolioMonthlyTotal(nil) = %v, expected 0", got)
	}
	if got := PortfolioAnnualTotal([]*Subscription{}); got != 0 {
		t.Errorf("PortfolioAnnualTotal(empty) = %v, expected 0", got)
	}
}
