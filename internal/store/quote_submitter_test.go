package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/PortNumber53/agency-site/backend/internal/estimator"
	"github.com/PortNumber53/agency-site/backend/internal/models"
)

func webAppQuote() estimator.Quote {
	return estimator.Quote{
		Selections: estimator.Selections{TypeID: "webapp", FeatureIDs: []string{"api"}, SupportID: "basic"},
		Computed:   estimator.Estimate{Base: 5000, FeaturesCost: 500, Total: 5500, Monthly: 80},
		Contact:    estimator.Contact{Name: "Jane", Email: "jane@example.com"},
	}
}

func TestQuoteSubmitterPersistsQuoteAndJob(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quotes")).
		WithArgs(sqlmock.AnyArg(), "webapp", sqlmock.AnyArg(), "basic", 5000, 500, 5500, 80, "Jane", "jane@example.com", "", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO jobs")).
		WithArgs(models.JobTypeQuoteNotification, sqlmock.AnyArg(), models.JobStatusPending, models.JobPriorityNormal, models.DefaultJobAttempts, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(3), created, created))
	mock.ExpectCommit()

	id, err := NewQuoteSubmitter(s).SubmitQuote(context.Background(), webAppQuote())
	if err != nil {
		t.Fatalf("SubmitQuote returned error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a quote id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestQuoteSubmitterReturnsStorageError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quotes")).WillReturnError(errors.New("connection refused"))
	mock.ExpectRollback()

	id, err := NewQuoteSubmitter(s).SubmitQuote(context.Background(), webAppQuote())
	if err == nil {
		t.Fatal("expected error")
	}
	if id != "" {
		t.Fatalf("expected empty id on failure, got %q", id)
	}
}
