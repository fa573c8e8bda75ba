package estimator

// CategoryView is a features-step tab with its badge counts.
type CategoryView struct {
	FeatureCategory
	Active        bool `json:"active"`
	SelectedCount int  `json:"selectedCount"`
	IncludedCount int  `json:"includedCount"`
}

// FeatureView is a feature as rendered for the current type.
type FeatureView struct {
	Feature
	PriceLabel string `json:"priceLabel"`
	Included   bool   `json:"included"`
	Selected   bool   `json:"selected"`
}

// StepView is a step indicator entry.
type StepView struct {
	StepInfo
	Active    bool `json:"active"`
	Completed bool `json:"completed"`
	Navigable bool `json:"navigable"`
}

// View is a read-only snapshot of a session with everything derived from
// it.
type View struct {
	State              State          `json:"state"`
	Steps              []StepView     `json:"steps"`
	CanProceed         bool           `json:"canProceed"`
	Estimate           Estimate       `json:"estimate"`
	SelectedType       *WebsiteType   `json:"selectedTypeDetail,omitempty"`
	SelectedSupport    *SupportPlan   `json:"selectedSupportDetail,omitempty"`
	Categories         []CategoryView `json:"categories"`
	Features           []FeatureView  `json:"features"`
	IncludedCount      int            `json:"includedCount"`
	ExtraSelectedCount int            `json:"extraSelectedCount"`
}

// View derives the snapshot for the current state.
func (s *Session) View() View {
	c, st := s.catalog, s.State()
	v := View{
		State:              st,
		CanProceed:         CanProceed(st),
		Estimate:           s.Estimate(),
		IncludedCount:      IncludedCount(c, st.SelectedType),
		ExtraSelectedCount: ExtraSelectedCount(c, st.SelectedType, st.SelectedFeatures),
		Categories:         []CategoryView{},
		Features:           []FeatureView{},
	}

	for _, info := range Steps() {
		v.Steps = append(v.Steps, StepView{
			StepInfo:  info,
			Active:    info.Step == st.Step,
			Completed: info.Step < st.Step,
			Navigable: CanNavigateTo(st, info.Step),
		})
	}

	if st.SelectedType != "" {
		// Reduce only stores ids it has looked up.
		t := c.MustType(st.SelectedType)
		v.SelectedType = &t
	}
	if p, err := c.SupportPlan(st.SelectedSupport); err == nil {
		v.SelectedSupport = &p
	}

	for _, cat := range VisibleCategories(c, st.SelectedType) {
		selected, included := CategoryCounts(c, st.SelectedType, cat.ID, st.SelectedFeatures)
		v.Categories = append(v.Categories, CategoryView{
			FeatureCategory: cat,
			Active:          cat.ID == st.ActiveCategory,
			SelectedCount:   selected,
			IncludedCount:   included,
		})
	}
	for _, f := range VisibleFeatures(c, st.SelectedType, st.ActiveCategory) {
		included := IsIncluded(f, st.SelectedType)
		v.Features = append(v.Features, FeatureView{
			Feature:    f,
			PriceLabel: PriceLabel(f),
			Included:   included,
			Selected:   included || st.HasFeature(f.ID),
		})
	}
	return v
}
