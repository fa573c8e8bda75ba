package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/PortNumber53/agency-site/backend/internal/estimator"
	"github.com/PortNumber53/agency-site/backend/internal/models"
)

// QuoteSubmitter persists submitted estimator quotes and queues the agency
// notification for each one.
type QuoteSubmitter struct {
	store *Store
}

// NewQuoteSubmitter returns an estimator.Submitter backed by s.
func NewQuoteSubmitter(s *Store) *QuoteSubmitter {
	return &QuoteSubmitter{store: s}
}

// SubmitQuote stores q and returns the new quote id.
func (qs *QuoteSubmitter) SubmitQuote(ctx context.Context, q estimator.Quote) (string, error) {
	rec := models.NewQuoteRecord(q)
	rec.ID = uuid.NewString()

	job, err := models.NewNotificationJob(models.JobTypeQuoteNotification, rec)
	if err != nil {
		return "", err
	}
	if err := qs.store.SaveQuote(ctx, &rec, job); err != nil {
		return "", err
	}
	return rec.ID, nil
}
