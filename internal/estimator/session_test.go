package estimator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	quotes []Quote
	id     string
	err    error
}

func (r *recordingSubmitter) SubmitQuote(_ context.Context, q Quote) (string, error) {
	r.quotes = append(r.quotes, q)
	if r.err != nil {
		return "", r.err
	}
	return r.id, nil
}

func dispatchAll(t *testing.T, s *Session, actions ...Action) {
	t.Helper()
	for _, a := range actions {
		require.NoError(t, s.Dispatch(a), "action %T", a)
	}
}

func webAppSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(DefaultCatalog())
	dispatchAll(t, s,
		SelectType{TypeID: TypeWebApp},
		GoNext{},
		GoNext{},
		SelectSupport{PlanID: "none"},
		GoNext{},
		UpdateContactField{Field: "name", Value: "Jane"},
		UpdateContactField{Field: "email", Value: "jane@example.com"},
	)
	return s
}

func TestSessionSubmitSuccess(t *testing.T) {
	s := webAppSession(t)
	sub := &recordingSubmitter{id: "quote-42"}

	id, err := s.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "quote-42", id)

	st := s.State()
	assert.Equal(t, PhaseSubmitted, st.Phase)
	assert.Equal(t, "quote-42", st.QuoteID)

	require.Len(t, sub.quotes, 1)
	q := sub.quotes[0]
	assert.Equal(t, Selections{TypeID: TypeWebApp, FeatureIDs: []string{}, SupportID: "none"}, q.Selections)
	assert.Equal(t, Estimate{Base: 5000, Total: 5000}, q.Computed)
	assert.Equal(t, "Jane", q.Contact.Name)
	assert.Equal(t, "jane@example.com", q.Contact.Email)

	_, err = s.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Len(t, sub.quotes, 1)
}

func TestSessionSubmitFailureKeepsData(t *testing.T) {
	s := webAppSession(t)
	dispatchAll(t, s, UpdateContactField{Field: "notes", Value: "launch in spring"})
	boom := errors.New("connection refused")

	_, err := s.Submit(context.Background(), &recordingSubmitter{err: boom})
	var serr *SubmissionError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, serr.Message, "connection refused")

	st := s.State()
	assert.Equal(t, PhaseEditing, st.Phase)
	assert.Equal(t, StepSummary, st.Step)
	assert.Equal(t, serr.Message, st.LastError)
	assert.Equal(t, "launch in spring", st.Contact.Notes)
	assert.Equal(t, TypeWebApp, st.SelectedType)

	id, err := s.Submit(context.Background(), &recordingSubmitter{id: "retry-1"})
	require.NoError(t, err)
	assert.Equal(t, "retry-1", id)
	assert.Empty(t, s.State().LastError)
}

func TestSessionSubmitNotReady(t *testing.T) {
	s := NewSession(DefaultCatalog())
	sub := &recordingSubmitter{id: "x"}

	_, err := s.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, ErrNotReady)

	s = webAppSession(t)
	dispatchAll(t, s, UpdateContactField{Field: "email", Value: "jane@"})
	_, err = s.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, sub.quotes)
	assert.Equal(t, PhaseEditing, s.State().Phase)
}

func TestSessionSubmitInFlight(t *testing.T) {
	s := webAppSession(t)

	q, err := s.BeginSubmit()
	require.NoError(t, err)
	assert.Equal(t, TypeWebApp, q.Selections.TypeID)

	_, err = s.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	require.NoError(t, s.Dispatch(GoBack{}))
	assert.Equal(t, StepSummary, s.State().Step)

	require.NoError(t, s.CompleteSubmit("q-7", nil))
	assert.Equal(t, PhaseSubmitted, s.State().Phase)
}

func TestSessionStateIsACopy(t *testing.T) {
	s := NewSession(DefaultCatalog())
	dispatchAll(t, s, SelectType{TypeID: TypeOnePage}, ToggleFeature{FeatureID: "blog"})

	st := s.State()
	st.SelectedFeatures[0] = "mutated"
	assert.Equal(t, []string{"blog"}, s.State().SelectedFeatures)
}

func TestSessionView(t *testing.T) {
	s := NewSession(DefaultCatalog())

	v := s.View()
	assert.Len(t, v.Steps, 4)
	assert.True(t, v.Steps[0].Active)
	assert.False(t, v.CanProceed)
	assert.Nil(t, v.SelectedType)
	assert.Empty(t, v.Categories)
	assert.Empty(t, v.Features)

	dispatchAll(t, s,
		SelectType{TypeID: TypeMultiPage},
		GoNext{},
		ToggleFeature{FeatureID: "blog"},
		ToggleFeature{FeatureID: "gallery"},
		SelectSupport{PlanID: "basic"},
	)
	v = s.View()

	require.NotNil(t, v.SelectedType)
	assert.Equal(t, 1500, v.SelectedType.BasePrice)
	require.NotNil(t, v.SelectedSupport)
	assert.Equal(t, "basic", v.SelectedSupport.ID)
	assert.Equal(t, Estimate{Base: 1500, FeaturesCost: 350, Total: 1850, Monthly: 80}, v.Estimate)
	assert.Equal(t, 6, v.IncludedCount)
	assert.Equal(t, 2, v.ExtraSelectedCount)

	assert.True(t, v.Steps[0].Completed)
	assert.True(t, v.Steps[0].Navigable)
	assert.True(t, v.Steps[1].Active)
	assert.False(t, v.Steps[2].Navigable)

	require.NotEmpty(t, v.Categories)
	appearance := v.Categories[0]
	assert.Equal(t, "appearance", appearance.ID)
	assert.True(t, appearance.Active)
	assert.Equal(t, 2, appearance.SelectedCount)
	assert.Equal(t, 2, appearance.IncludedCount)

	byID := map[string]FeatureView{}
	for _, f := range v.Features {
		byID[f.ID] = f
	}
	assert.True(t, byID["cms"].Included)
	assert.True(t, byID["cms"].Selected)
	assert.True(t, byID["blog"].Selected)
	assert.False(t, byID["blog"].Included)
	assert.Equal(t, "€200–€400", byID["blog"].PriceLabel)
	assert.False(t, byID["copywriting"].Selected)
}

func TestSubmitterFunc(t *testing.T) {
	var got Quote
	sub := SubmitterFunc(func(_ context.Context, q Quote) (string, error) {
		got = q
		return "fn-1", nil
	})

	id, err := webAppSession(t).Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "fn-1", id)
	assert.Equal(t, "Jane", got.Contact.Name)
}
