package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryIDs(cats []FeatureCategory) []string {
	ids := make([]string, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	return ids
}

func featureIDs(features []Feature) []string {
	ids := make([]string, 0, len(features))
	for _, f := range features {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestVisibleCategories(t *testing.T) {
	c := DefaultCatalog()

	assert.Empty(t, VisibleCategories(c, ""))
	assert.Equal(t,
		[]string{"appearance", "marketing", "communication", "branding"},
		categoryIDs(VisibleCategories(c, TypeOnePage)))
	assert.Equal(t,
		[]string{"appearance", "marketing", "communication", "branding", "usermgmt", "security", "integrations", "advanced"},
		categoryIDs(VisibleCategories(c, TypeWebApp)))
}

func TestVisibleFeatures(t *testing.T) {
	c := DefaultCatalog()

	assert.Empty(t, VisibleFeatures(c, "", "appearance"))
	assert.Equal(t,
		[]string{"responsive-design", "custom-animations", "multilang"},
		featureIDs(VisibleFeatures(c, TypeWebApp, "appearance")))
	assert.Equal(t,
		[]string{"realtime-notifs", "search-engine", "file-upload"},
		featureIDs(VisibleFeatures(c, TypeWebApp, "advanced")))
	assert.Empty(t, VisibleFeatures(c, TypeOnePage, "store"))
}

func TestIncludedCounts(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, 0, IncludedCount(c, ""))
	assert.Equal(t, 3, IncludedCount(c, TypeOnePage))
	assert.Equal(t, 6, IncludedCount(c, TypeMultiPage))
	assert.Equal(t, 4, IncludedCount(c, TypeWebApp))

	assert.Equal(t, 1, ExtraSelectedCount(c, TypeMultiPage, []string{"cms", "blog"}))
	assert.Equal(t, 0, ExtraSelectedCount(c, "", []string{"blog"}))
	assert.Equal(t, 1, ExtraSelectedCount(c, TypeOnePage, []string{"blog", "blog"}))
	assert.Equal(t, 0, ExtraSelectedCount(c, TypeOnePage, []string{"social-login"}))

	selected, included := CategoryCounts(c, TypeMultiPage, "appearance", []string{"blog", "gallery"})
	assert.Equal(t, 2, selected)
	assert.Equal(t, 2, included)
}

func TestPriceEstimateScenarios(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		name     string
		typeID   string
		features []string
		support  string
		want     Estimate
	}{
		{name: "nothing selected", want: Estimate{}},
		{name: "support only", support: "basic", want: Estimate{Monthly: 80}},
		{name: "included feature is free", typeID: TypeMultiPage, features: []string{"cms"}, want: Estimate{Base: 1500, Total: 1500}},
		{name: "range counts at minimum", typeID: TypeOnePage, features: []string{"blog"}, want: Estimate{Base: 700, FeaturesCost: 200, Total: 900}},
		{name: "recurring excluded", typeID: TypeEshopLarge, features: []string{"chat", "backup"}, support: "premium", want: Estimate{Base: 4000, FeaturesCost: 200, Total: 4200, Monthly: 200}},
		{name: "repeated id priced once", typeID: TypeOnePage, features: []string{"blog", "blog"}, want: Estimate{Base: 700, FeaturesCost: 200, Total: 900}},
		{name: "feature not offered for type", typeID: TypeOnePage, features: []string{"social-login"}, want: Estimate{Base: 700, Total: 700}},
		{name: "unknown ids ignored", typeID: TypeWebApp, features: []string{"ghost"}, support: "ghost", want: Estimate{Base: 5000, Total: 5000}},
		{name: "web app full flow", typeID: TypeWebApp, support: "none", want: Estimate{Base: 5000, Total: 5000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriceEstimate(c, tt.typeID, tt.features, tt.support))
		})
	}
}

func TestIncludedFeaturesNeverCost(t *testing.T) {
	c := DefaultCatalog()

	for _, typ := range c.Types() {
		for _, f := range c.Features() {
			if !IsIncluded(f, typ.ID) {
				continue
			}
			assert.Equal(t, 0, PriceEstimate(c, typ.ID, []string{f.ID}, "").FeaturesCost, "%s under %s", f.ID, typ.ID)

			st, err := Reduce(c, InitialState(), SelectType{TypeID: typ.ID})
			require.NoError(t, err)
			next, err := Reduce(c, st, ToggleFeature{FeatureID: f.ID})
			require.NoError(t, err)
			assert.True(t, st.Equal(next), "toggling included %s under %s changed state", f.ID, typ.ID)
		}
	}
}

func TestRecurringFeaturesDoNotChangeFeaturesCost(t *testing.T) {
	c := DefaultCatalog()

	for _, typ := range c.Types() {
		for _, f := range c.Features() {
			if !f.Pricing.IsRecurring() {
				continue
			}
			base := PriceEstimate(c, typ.ID, []string{"chat"}, "")
			with := PriceEstimate(c, typ.ID, []string{"chat", f.ID}, "")
			assert.Equal(t, base.FeaturesCost, with.FeaturesCost, "%s under %s", f.ID, typ.ID)
		}
	}
}

func TestPriceEstimateIsMonotonic(t *testing.T) {
	c := DefaultCatalog()

	for _, typ := range c.Types() {
		var chosen []string
		prev := PriceEstimate(c, typ.ID, nil, "").Total
		for _, f := range c.Features() {
			if !f.OfferedFor(typ.ID) || IsIncluded(f, typ.ID) || f.Pricing.IsRecurring() {
				continue
			}
			chosen = append(chosen, f.ID)
			total := PriceEstimate(c, typ.ID, chosen, "").Total
			assert.GreaterOrEqual(t, total, prev, "adding %s under %s", f.ID, typ.ID)
			prev = total
		}
	}
}
