package estimator

import "slices"

// Estimate is a live price estimate. All amounts are whole currency units.
type Estimate struct {
	Base         int `json:"base"`
	FeaturesCost int `json:"featuresCost"`
	Total        int `json:"total"`
	Monthly      int `json:"monthly"`
}

// VisibleCategories returns the categories relevant to the website type, in
// catalog order. It is empty when typeID is empty.
func VisibleCategories(c *Catalog, typeID string) []FeatureCategory {
	if typeID == "" {
		return nil
	}
	var out []FeatureCategory
	for _, cat := range c.categories {
		if slices.Contains(cat.ShowFor, typeID) {
			out = append(out, cat)
		}
	}
	return out
}

// VisibleFeatures returns the features of a category that may be offered for
// the website type, in catalog order.
func VisibleFeatures(c *Catalog, typeID, categoryID string) []Feature {
	if typeID == "" {
		return nil
	}
	var out []Feature
	for _, f := range c.features {
		if f.Category == categoryID && f.OfferedFor(typeID) {
			out = append(out, f)
		}
	}
	return out
}

// IsIncluded reports whether the feature is bundled into the base price of
// the website type.
func IsIncluded(f Feature, typeID string) bool {
	return typeID != "" && slices.Contains(f.IncludedIn, typeID)
}

// PriceEstimate computes the estimate for a selection. Unknown ids, repeated
// ids and features not offered for the type contribute nothing. Recurring features and features bundled with the type are left
// out of the one-time total, and a range counts at its minimum. Monthly is
// the support plan's fee only.
func PriceEstimate(c *Catalog, typeID string, featureIDs []string, supportID string) Estimate {
	var est Estimate
	if t, err := c.Type(typeID); err == nil {
		est.Base = t.BasePrice
		for _, f := range offeredSelection(c, typeID, featureIDs) {
			if f.Pricing.IsRecurring() || IsIncluded(f, typeID) {
				continue
			}
			est.FeaturesCost += f.Pricing.Minimum()
		}
	}
	est.Total = est.Base + est.FeaturesCost
	if p, err := c.SupportPlan(supportID); err == nil {
		est.Monthly = p.MonthlyPrice
	}
	return est
}

// IncludedCount is the number of features bundled with the website type.
func IncludedCount(c *Catalog, typeID string) int {
	if typeID == "" {
		return 0
	}
	n := 0
	for _, f := range c.features {
		if f.OfferedFor(typeID) && IsIncluded(f, typeID) {
			n++
		}
	}
	return n
}

// ExtraSelectedCount is the number of chosen features not bundled with the
// website type.
func ExtraSelectedCount(c *Catalog, typeID string, featureIDs []string) int {
	if typeID == "" {
		return 0
	}
	n := 0
	for _, f := range offeredSelection(c, typeID, featureIDs) {
		if !IsIncluded(f, typeID) {
			n++
		}
	}
	return n
}

// offeredSelection resolves featureIDs to the distinct catalog features
// offered for the type, in first-seen order.
func offeredSelection(c *Catalog, typeID string, featureIDs []string) []Feature {
	seen := make(map[string]bool, len(featureIDs))
	var out []Feature
	for _, id := range featureIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if f, err := c.Feature(id); err == nil && f.OfferedFor(typeID) {
			out = append(out, f)
		}
	}
	return out
}

// CategoryCounts returns, for one category tab, how many of its visible
// features the user picked and how many come bundled.
func CategoryCounts(c *Catalog, typeID, categoryID string, featureIDs []string) (selected, included int) {
	for _, f := range VisibleFeatures(c, typeID, categoryID) {
		switch {
		case IsIncluded(f, typeID):
			included++
		case slices.Contains(featureIDs, f.ID):
			selected++
		}
	}
	return selected, included
}

// PriceLabel is the display string of a feature's price.
func PriceLabel(f Feature) string {
	return f.Pricing.Label()
}
