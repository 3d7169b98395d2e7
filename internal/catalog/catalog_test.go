package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	tiers := c.Tiers()
	require.Len(t, tiers, 4)
	require.Equal(t, TierStarter, tiers[0].ID)
	require.Equal(t, TierCustom, tiers[3].ID)

	standard, ok := c.Tier(TierStandard)
	require.True(t, ok)
	require.Equal(t, 70, standard.Price)

	custom, ok := c.Tier(TierCustom)
	require.True(t, ok)
	require.True(t, custom.CustomQuote())

	rush, ok := c.AddOn("rush")
	require.True(t, ok)
	require.Equal(t, 30, rush.Price)

	_, ok = c.AddOn("gold-foil")
	require.False(t, ok)
}

func TestCatalogCopiesAreIsolated(t *testing.T) {
	c := Default()

	addOns := c.AddOns()
	addOns[0].Price = 9999

	tikz, _ := c.AddOn("tikz")
	require.Equal(t, 20, tikz.Price)
}

func TestNewRejectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name   string
		tiers  []Tier
		addOns []AddOn
	}{
		{
			name:  "unknown tier",
			tiers: []Tier{{ID: "enterprise", Price: 10}},
		},
		{
			name:  "duplicate tier",
			tiers: []Tier{{ID: TierStarter, Price: 10}, {ID: TierStarter, Price: 20}},
		},
		{
			name:  "negative tier price",
			tiers: []Tier{{ID: TierStarter, Price: -1}},
		},
		{
			name:   "zero add-on price",
			addOns: []AddOn{{ID: "tikz", Price: 0}},
		},
		{
			name:   "duplicate add-on",
			addOns: []AddOn{{ID: "tikz", Price: 1}, {ID: "tikz", Price: 2}},
		},
		{
			name:   "empty add-on id",
			addOns: []AddOn{{Price: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.tiers, tt.addOns)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidCatalog))
		})
	}
}
