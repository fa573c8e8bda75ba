package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/PortNumber53/agency-site/backend/internal/models"
)

// QuoteLister lists submitted quotes.
type QuoteLister interface {
	ListQuotes(ctx context.Context, limit int) ([]models.QuoteRecord, error)
}

// ListQuotes returns recent submitted quotes, newest first.
func ListQuotes(store QuoteLister, logger *zap.Logger) http.HandlerFunc {
	logger = nopIfNil(logger)
	return func(w http.ResponseWriter, r *http.Request) {
		quotes, err := store.ListQuotes(r.Context(), queryLimit(r, 100, 1000))
		if err != nil {
			logger.Error("quotes: list", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to retrieve quotes")
			return
		}
		if quotes == nil {
			quotes = []models.QuoteRecord{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"quotes": quotes,
			"count":  len(quotes),
		})
	}
}
