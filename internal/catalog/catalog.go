package catalog

import (
	"errors"
	"fmt"
)

var ErrInvalidCatalog = errors.New("catalog: invalid definition")

type TierID string

const (
	TierStarter      TierID = "starter"
	TierStandard     TierID = "standard"
	TierProfessional TierID = "professional"
	TierCustom       TierID = "custom"
)

func (id TierID) Known() bool {
	switch id {
	case TierStarter, TierStandard, TierProfessional, TierCustom:
		return true
	}
	return false
}

// Tier is a page-count bracket. A zero price marks a custom quote.
type Tier struct {
	ID    TierID
	Label string
	Price int
}

func (t Tier) CustomQuote() bool {
	return t.Price == 0
}

type AddOn struct {
	ID          string
	Name        string
	Price       int
	Description string
}

// Catalog is the read-only set of tiers and add-ons offered for a session.
type Catalog struct {
	tiers  []Tier
	addOns []AddOn
}

func New(tiers []Tier, addOns []AddOn) (*Catalog, error) {
	seenTiers := make(map[TierID]bool, len(tiers))
	for _, t := range tiers {
		if !t.ID.Known() {
			return nil, fmt.Errorf("%w: unknown tier %q", ErrInvalidCatalog, t.ID)
		}
		if seenTiers[t.ID] {
			return nil, fmt.Errorf("%w: duplicate tier %q", ErrInvalidCatalog, t.ID)
		}
		if t.Price < 0 {
			return nil, fmt.Errorf("%w: tier %q has negative price %d", ErrInvalidCatalog, t.ID, t.Price)
		}
		seenTiers[t.ID] = true
	}

	seenAddOns := make(map[string]bool, len(addOns))
	for _, a := range addOns {
		if a.ID == "" {
			return nil, fmt.Errorf("%w: add-on without id", ErrInvalidCatalog)
		}
		if seenAddOns[a.ID] {
			return nil, fmt.Errorf("%w: duplicate add-on %q", ErrInvalidCatalog, a.ID)
		}
		if a.Price <= 0 {
			return nil, fmt.Errorf("%w: add-on %q must have a positive price", ErrInvalidCatalog, a.ID)
		}
		seenAddOns[a.ID] = true
	}

	return &Catalog{
		tiers:  append([]Tier(nil), tiers...),
		addOns: append([]AddOn(nil), addOns...),
	}, nil
}

// Default returns the catalog the bot sells from.
func Default() *Catalog {
	c, err := New(defaultTiers, defaultAddOns)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultTiers = []Tier{
	{ID: TierStarter, Label: "≤15 pages", Price: 30},
	{ID: TierStandard, Label: "16–30 pages", Price: 70},
	{ID: TierProfessional, Label: "31–60 pages", Price: 120},
	{ID: TierCustom, Label: "60+", Price: 0},
}

var defaultAddOns = []AddOn{
	{ID: "tikz", Name: "TikZ Diagrams", Price: 20, Description: "Professional diagram recreation"},
	{ID: "beamer", Name: "Beamer Slides", Price: 30, Description: "Presentation-ready LaTeX slides"},
	{ID: "bibtex", Name: "BibTeX Integration", Price: 15, Description: "Bibliography setup and formatting"},
	{ID: "styling", Name: "Custom Styling", Price: 10, Description: "Personalized document formatting"},
	{ID: "scikit", Name: "SciKit-Plots Pro", Price: 35, Description: "Hand-drawn ML sketches → Python plots in LaTeX"},
	{ID: "rush", Name: "Rush (24h for ≤30 pages)", Price: 30, Description: "Priority processing"},
}

func (c *Catalog) Tiers() []Tier {
	return append([]Tier(nil), c.tiers...)
}

func (c *Catalog) AddOns() []AddOn {
	return append([]AddOn(nil), c.addOns...)
}

func (c *Catalog) Tier(id TierID) (Tier, bool) {
	for _, t := range c.tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

func (c *Catalog) AddOn(id string) (AddOn, bool) {
	for _, a := range c.addOns {
		if a.ID == id {
			return a, true
		}
	}
	return AddOn{}, false
}
