package estimator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsConsistent(t *testing.T) {
	c := DefaultCatalog()

	assert.Len(t, c.Types(), 5)
	assert.Len(t, c.Categories(), 11)
	assert.Len(t, c.Features(), 47)
	assert.Len(t, c.SupportPlans(), 3)

	multipage, err := c.Type(TypeMultiPage)
	require.NoError(t, err)
	assert.Equal(t, 1500, multipage.BasePrice)
	assert.True(t, multipage.Popular)

	basic, err := c.SupportPlan("basic")
	require.NoError(t, err)
	assert.Equal(t, 80, basic.MonthlyPrice)
	assert.True(t, basic.Recommended)
}

func TestCatalogLookupErrors(t *testing.T) {
	c := DefaultCatalog()

	_, err := c.Type("spaceship")
	assert.ErrorIs(t, err, ErrUnknownType)
	_, err = c.Category("nope")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	_, err = c.Feature("nope")
	assert.ErrorIs(t, err, ErrUnknownFeature)
	_, err = c.SupportPlan("gold")
	assert.ErrorIs(t, err, ErrUnknownSupportPlan)

	assert.Panics(t, func() { c.MustType("spaceship") })
	assert.NotPanics(t, func() { c.MustType(TypeWebApp) })
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	c := DefaultCatalog()

	types := c.Types()
	types[0].BasePrice = 1
	assert.Equal(t, 700, c.MustType(TypeOnePage).BasePrice)
}

func TestNewCatalogRejectsInvalidData(t *testing.T) {
	types := []WebsiteType{{ID: "a", BasePrice: 100}, {ID: "b", BasePrice: 200}}
	cats := []FeatureCategory{{ID: "x", ShowFor: []string{"a", "b"}}}
	plans := []SupportPlan{{ID: "none"}, {ID: "paid", MonthlyPrice: 10}}
	valid := []Feature{{ID: "f", Category: "x", Pricing: OneTimePrice(10), ShowFor: []string{"a"}, IncludedIn: []string{"a"}}}

	_, err := NewCatalog(types, cats, valid, plans)
	require.NoError(t, err)

	tests := []struct {
		name     string
		types    []WebsiteType
		cats     []FeatureCategory
		features []Feature
		plans    []SupportPlan
		want     error
	}{
		{
			name:     "duplicate type",
			types:    append(types, WebsiteType{ID: "a"}),
			cats:     cats,
			features: valid,
			plans:    plans,
		},
		{
			name:     "negative base price",
			types:    []WebsiteType{{ID: "a", BasePrice: -1}, {ID: "b"}},
			cats:     cats,
			features: valid,
			plans:    plans,
		},
		{
			name:     "feature in unknown category",
			types:    types,
			cats:     cats,
			features: []Feature{{ID: "f", Category: "missing", Pricing: OneTimePrice(1), ShowFor: []string{"a"}}},
			plans:    plans,
			want:     ErrUnknownCategory,
		},
		{
			name:     "included but not shown",
			types:    types,
			cats:     cats,
			features: []Feature{{ID: "f", Category: "x", Pricing: OneTimePrice(1), ShowFor: []string{"a"}, IncludedIn: []string{"b"}}},
			plans:    plans,
		},
		{
			name:     "shown for unknown type",
			types:    types,
			cats:     cats,
			features: []Feature{{ID: "f", Category: "x", Pricing: OneTimePrice(1), ShowFor: []string{"zzz"}}},
			plans:    plans,
			want:     ErrUnknownType,
		},
		{
			name:     "dead category",
			types:    types,
			cats:     []FeatureCategory{{ID: "x", ShowFor: []string{"a"}}, {ID: "y"}},
			features: valid,
			plans:    plans,
		},
		{
			name:     "inverted range",
			types:    types,
			cats:     cats,
			features: []Feature{{ID: "f", Category: "x", Pricing: RangePrice(300, 100), ShowFor: []string{"a"}}},
			plans:    plans,
		},
		{
			name:     "recurring without period",
			types:    types,
			cats:     cats,
			features: []Feature{{ID: "f", Category: "x", Pricing: Pricing{Kind: Recurring, Amount: 5}, ShowFor: []string{"a"}}},
			plans:    plans,
		},
		{
			name:     "no free support plan",
			types:    types,
			cats:     cats,
			features: valid,
			plans:    []SupportPlan{{ID: "paid", MonthlyPrice: 10}},
		},
		{
			name:     "two free support plans",
			types:    types,
			cats:     cats,
			features: valid,
			plans:    []SupportPlan{{ID: "none"}, {ID: "also-none"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog(tt.types, tt.cats, tt.features, tt.plans)
			require.Error(t, err)
			assert.Nil(t, c)
			if tt.want != nil {
				assert.True(t, errors.Is(err, tt.want), "expected %v in %v", tt.want, err)
			}
		})
	}
}

func TestPricingLabels(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, "€200–€400", mustFeature(t, c, "blog").Pricing.Label())
	assert.Equal(t, "+€100", mustFeature(t, c, "cod").Pricing.Label())
	assert.Equal(t, "+€100/year", mustFeature(t, c, "backup").Pricing.Label())
	assert.Equal(t, 200, mustFeature(t, c, "blog").Pricing.Minimum())
	assert.True(t, mustFeature(t, c, "backup").Pricing.IsRecurring())
}

func mustFeature(t *testing.T, c *Catalog, id string) Feature {
	t.Helper()
	f, err := c.Feature(id)
	require.NoError(t, err)
	return f
}
