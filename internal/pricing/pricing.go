package pricing

import "latexorder-bot/internal/catalog"

// PremiumThreshold is the total above which the price is highlighted.
const PremiumThreshold = 100

// ComputeActualTotal sums the selected tier and add-on prices. A custom-quote
// tier contributes nothing and ids missing from the catalog are skipped.
func ComputeActualTotal(c *catalog.Catalog, s *Selection) int {
	total := 0

	if id, ok := s.Tier(); ok {
		if tier, found := c.Tier(id); found && tier.Price > 0 {
			total += tier.Price
		}
	}

	for id := range s.addOns {
		if addOn, found := c.AddOn(id); found {
			total += addOn.Price
		}
	}

	return total
}

func IsPremium(total int) bool {
	return total > PremiumThreshold
}

// CanProceed reports whether a priced tier is selected.
func CanProceed(s *Selection) bool {
	id, ok := s.Tier()
	return ok && id != catalog.TierCustom
}
