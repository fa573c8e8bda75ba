// Package estimator implements the cost estimator wizard: a static catalog of
// website types, optional features and support plans, pure derivation of
// visible options and price estimates, and a reducer-driven selection state
// with step gating.
package estimator

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownType is returned when a website type id is not in the catalog.
	ErrUnknownType = errors.New("unknown website type")
	// ErrUnknownCategory is returned when a feature category id is not in the catalog.
	ErrUnknownCategory = errors.New("unknown feature category")
	// ErrUnknownFeature is returned when a feature id is not in the catalog.
	ErrUnknownFeature = errors.New("unknown feature")
	// ErrUnknownSupportPlan is returned when a support plan id is not in the catalog.
	ErrUnknownSupportPlan = errors.New("unknown support plan")
)

// IncludedItem is a display-only entry bundled with a website type.
type IncludedItem struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// WebsiteType is a purchasable product tier.
type WebsiteType struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"desc"`
	BasePrice        int            `json:"basePrice"`
	TimeEstimate     string         `json:"timeEstimate"`
	IdealFor         string         `json:"idealFor"`
	Icon             string         `json:"icon"`
	Popular          bool           `json:"popular"`
	IncludedFeatures []IncludedItem `json:"includedFeatures"`
}

// FeatureCategory groups optional features.
type FeatureCategory struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	ShowFor     []string `json:"showFor"`
}

// Feature is an optional add-on.
type Feature struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Name        string   `json:"name"`
	Description string   `json:"desc"`
	Icon        string   `json:"icon"`
	Pricing     Pricing  `json:"pricing"`
	ShowFor     []string `json:"showFor"`
	IncludedIn  []string `json:"includedIn,omitempty"`
}

// OfferedFor reports whether the feature may be offered for the website type.
func (f Feature) OfferedFor(typeID string) bool {
	return slices.Contains(f.ShowFor, typeID)
}

// SupportPlan is a recurring maintenance tier.
type SupportPlan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"desc"`
	MonthlyPrice int      `json:"monthlyPrice"`
	Icon         string   `json:"icon"`
	Features     []string `json:"features"`
	Recommended  bool     `json:"recommended"`
}

// Catalog is the read-only set of offerable entities. Collections keep their
// declaration order; lookups go through id-keyed maps.
type Catalog struct {
	types      []WebsiteType
	categories []FeatureCategory
	features   []Feature
	plans      []SupportPlan

	typeByID     map[string]int
	categoryByID map[string]int
	featureByID  map[string]int
	planByID     map[string]int
}

// NewCatalog validates the given collections and builds a Catalog. All
// violations are reported together.
func NewCatalog(types []WebsiteType, categories []FeatureCategory, features []Feature, plans []SupportPlan) (*Catalog, error) {
	c := &Catalog{
		types:        slices.Clone(types),
		categories:   slices.Clone(categories),
		features:     slices.Clone(features),
		plans:        slices.Clone(plans),
		typeByID:     make(map[string]int, len(types)),
		categoryByID: make(map[string]int, len(categories)),
		featureByID:  make(map[string]int, len(features)),
		planByID:     make(map[string]int, len(plans)),
	}

	var errs []error
	for i, t := range c.types {
		if _, dup := c.typeByID[t.ID]; dup {
			errs = append(errs, fmt.Errorf("website type %q: duplicate id", t.ID))
			continue
		}
		if t.BasePrice < 0 {
			errs = append(errs, fmt.Errorf("website type %q: negative base price %d", t.ID, t.BasePrice))
		}
		c.typeByID[t.ID] = i
	}

	for i, cat := range c.categories {
		if _, dup := c.categoryByID[cat.ID]; dup {
			errs = append(errs, fmt.Errorf("category %q: duplicate id", cat.ID))
			continue
		}
		c.categoryByID[cat.ID] = i
		errs = append(errs, c.checkTypeRefs("category "+cat.ID+" showFor", cat.ShowFor)...)
		if !slices.ContainsFunc(cat.ShowFor, c.hasType) {
			errs = append(errs, fmt.Errorf("category %q: not shown for any website type", cat.ID))
		}
	}

	for i, f := range c.features {
		if _, dup := c.featureByID[f.ID]; dup {
			errs = append(errs, fmt.Errorf("feature %q: duplicate id", f.ID))
			continue
		}
		c.featureByID[f.ID] = i
		if _, ok := c.categoryByID[f.Category]; !ok {
			errs = append(errs, fmt.Errorf("feature %q: %w %q", f.ID, ErrUnknownCategory, f.Category))
		}
		if err := f.Pricing.validate(); err != nil {
			errs = append(errs, fmt.Errorf("feature %q: %w", f.ID, err))
		}
		errs = append(errs, c.checkTypeRefs("feature "+f.ID+" showFor", f.ShowFor)...)
		for _, id := range f.IncludedIn {
			if !slices.Contains(f.ShowFor, id) {
				errs = append(errs, fmt.Errorf("feature %q: included in %q but not shown for it", f.ID, id))
			}
		}
	}

	free := 0
	for i, p := range c.plans {
		if _, dup := c.planByID[p.ID]; dup {
			errs = append(errs, fmt.Errorf("support plan %q: duplicate id", p.ID))
			continue
		}
		if p.MonthlyPrice < 0 {
			errs = append(errs, fmt.Errorf("support plan %q: negative monthly price %d", p.ID, p.MonthlyPrice))
		}
		if p.MonthlyPrice == 0 {
			free++
		}
		c.planByID[p.ID] = i
	}
	if free != 1 {
		errs = append(errs, fmt.Errorf("support plans: expected exactly one free plan, found %d", free))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("estimator: invalid catalog: %w", err)
	}
	return c, nil
}

func (c *Catalog) hasType(id string) bool {
	_, ok := c.typeByID[id]
	return ok
}

func (c *Catalog) checkTypeRefs(owner string, ids []string) []error {
	var errs []error
	for _, id := range ids {
		if !c.hasType(id) {
			errs = append(errs, fmt.Errorf("%s: %w %q", owner, ErrUnknownType, id))
		}
	}
	return errs
}

// Types returns the website types in declaration order.
func (c *Catalog) Types() []WebsiteType { return slices.Clone(c.types) }

// Categories returns the feature categories in declaration order.
func (c *Catalog) Categories() []FeatureCategory { return slices.Clone(c.categories) }

// Features returns all features in declaration order.
func (c *Catalog) Features() []Feature { return slices.Clone(c.features) }

// SupportPlans returns the support plans in declaration order.
func (c *Catalog) SupportPlans() []SupportPlan { return slices.Clone(c.plans) }

// Type looks up a website type by id.
func (c *Catalog) Type(id string) (WebsiteType, error) {
	i, ok := c.typeByID[id]
	if !ok {
		return WebsiteType{}, fmt.Errorf("%w %q", ErrUnknownType, id)
	}
	return c.types[i], nil
}

// Category looks up a feature category by id.
func (c *Catalog) Category(id string) (FeatureCategory, error) {
	i, ok := c.categoryByID[id]
	if !ok {
		return FeatureCategory{}, fmt.Errorf("%w %q", ErrUnknownCategory, id)
	}
	return c.categories[i], nil
}

// Feature looks up a feature by id.
func (c *Catalog) Feature(id string) (Feature, error) {
	i, ok := c.featureByID[id]
	if !ok {
		return Feature{}, fmt.Errorf("%w %q", ErrUnknownFeature, id)
	}
	return c.features[i], nil
}

// SupportPlan looks up a support plan by id.
func (c *Catalog) SupportPlan(id string) (SupportPlan, error) {
	i, ok := c.planByID[id]
	if !ok {
		return SupportPlan{}, fmt.Errorf("%w %q", ErrUnknownSupportPlan, id)
	}
	return c.plans[i], nil
}

// MustType is like Type but panics on a missing id.
func (c *Catalog) MustType(id string) WebsiteType {
	t, err := c.Type(id)
	if err != nil {
		panic(err)
	}
	return t
}
