package pricing

import (
	"sort"

	"latexorder-bot/internal/catalog"
)

// Selection holds the tier choice and add-on set of one pricing screen.
// Ids unknown to the catalog are never stored.
type Selection struct {
	catalog *catalog.Catalog
	tier    catalog.TierID
	hasTier bool
	addOns  map[string]struct{}
}

func NewSelection(c *catalog.Catalog) *Selection {
	return &Selection{
		catalog: c,
		addOns:  make(map[string]struct{}),
	}
}

// SelectTier replaces the current tier. It reports false for unknown tiers.
func (s *Selection) SelectTier(id catalog.TierID) bool {
	if _, ok := s.catalog.Tier(id); !ok {
		return false
	}
	s.tier = id
	s.hasTier = true
	return true
}

// ToggleAddOn inserts the add-on if absent and removes it if present.
func (s *Selection) ToggleAddOn(id string) bool {
	if _, ok := s.catalog.AddOn(id); !ok {
		return false
	}
	if _, selected := s.addOns[id]; selected {
		delete(s.addOns, id)
	} else {
		s.addOns[id] = struct{}{}
	}
	return true
}

func (s *Selection) Tier() (catalog.TierID, bool) {
	return s.tier, s.hasTier
}

func (s *Selection) HasAddOn(id string) bool {
	_, ok := s.addOns[id]
	return ok
}

// AddOns returns the selected add-on ids in lexical order.
func (s *Selection) AddOns() []string {
	ids := make([]string, 0, len(s.addOns))
	for id := range s.addOns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Restore rebuilds the selection from a snapshot, dropping unknown ids.
func (s *Selection) Restore(tier catalog.TierID, addOns []string) {
	s.tier, s.hasTier = "", false
	s.addOns = make(map[string]struct{}, len(addOns))
	if tier != "" {
		s.SelectTier(tier)
	}
	for _, id := range addOns {
		if _, ok := s.catalog.AddOn(id); ok {
			s.addOns[id] = struct{}{}
		}
	}
}
