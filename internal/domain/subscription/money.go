package subscription

// weeksPerMonth approximates the average number of weeks in a month.
const weeksPerMonth = 4.33

// MonthlyEquivalent normalizes a subscription's price to a monthly figure.
func MonthlyEquivalent(sub *Subscription) float64 {
	switch sub.Cycle {
	case CycleYearly:
		return sub.Price / 12
	case CycleWeekly:
		return sub.Price * weeksPerMonth
	case CycleQuarterly:
		return sub.Price / 3
	default:
		return sub.Price
	}
}

// AnnualEquivalent normalizes a subscription's price to a yearly figure.
func AnnualEquivalent(sub *Subscription) float64 {
	switch sub.Cycle {
	case CycleMonthly:
		return sub.Price * 12
	case CycleWeekly:
		return sub.Price * 52
	case CycleQuarterly:
		return sub.Price * 4
	default:
		return sub.Price
	}
}

// PortfolioMonthlyTotal sums the monthly equivalents of all subscriptions.
func PortfolioMonthlyTotal(subs []*Subscription) float64 {
	var total float64
	for _, sub := range subs {
		total += MonthlyEquivalent(sub)
	}
	return total
}

// PortfolioAnnualTotal sums the annual equivalents of all subscriptions.
func PortfolioAnnualTotal(subs []*Subscription) float64 {
	var total float64
	for _, sub := range subs {
		total += AnnualEquivalent(sub)
	}
	return total
}
