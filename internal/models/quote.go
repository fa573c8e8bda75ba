package models

import (
	"time"

	"github.com/PortNumber53/agency-site/backend/internal/estimator"
)

// QuoteRecord is a submitted estimate as stored in the quotes table.
type QuoteRecord struct {
	ID           string    `json:"id"`
	TypeID       string    `json:"type_id"`
	FeatureIDs   []string  `json:"feature_ids"`
	SupportID    string    `json:"support_id"`
	Base         int       `json:"base"`
	FeaturesCost int       `json:"features_cost"`
	Total        int       `json:"total"`
	Monthly      int       `json:"monthly"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Company      string    `json:"company,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewQuoteRecord flattens a submitted quote. ID and CreatedAt are left for
// the caller.
func NewQuoteRecord(q estimator.Quote) QuoteRecord {
	features := q.Selections.FeatureIDs
	if features == nil {
		features = []string{}
	}
	return QuoteRecord{
		TypeID:       q.Selections.TypeID,
		FeatureIDs:   features,
		SupportID:    q.Selections.SupportID,
		Base:         q.Computed.Base,
		FeaturesCost: q.Computed.FeaturesCost,
		Total:        q.Computed.Total,
		Monthly:      q.Computed.Monthly,
		Name:         q.Contact.Name,
		Email:        q.Contact.Email,
		Phone:        q.Contact.Phone,
		Company:      q.Contact.Company,
		Notes:        q.Contact.Notes,
	}
}
