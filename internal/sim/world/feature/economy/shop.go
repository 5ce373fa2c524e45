package economy

// DefaultGrowthPermille grows the upgrade price by half each purchase.
const DefaultGrowthPermille = 1500

// Shop holds the upgrader power track.
type Shop struct {
	Power          int
	Cost           int
	GrowthPermille int
}

// NextCost floors cost*growth/1000. A cost of 1 stays at 1 under the default
// growth.
func NextCost(cost, growthPermille int) int {
	if growthPermille <= 0 {
		growthPermille = DefaultGrowthPermille
	}
	return cost * growthPermille / 1000
}

// Buy debits score by the current cost and raises power by one. It reports
// false, changing nothing, when score is short.
func (s *Shop) Buy(score *int) bool {
	if *score < s.Cost {
		return false
	}
	*score -= s.Cost
	s.Power++
	s.Cost = NextCost(s.Cost, s.GrowthPermille)
	return true
}
