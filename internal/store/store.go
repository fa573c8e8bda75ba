package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/PortNumber53/agency-site/backend/internal/models"
)

const defaultPageSize = 200

// Store provides database-backed accessors for contact messages and quotes.
type Store struct {
	db *sql.DB
}

// New creates a Store using the provided sql.DB connection.
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	return &Store{db: db}, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateContact inserts a contact message and, when notify is non-nil, its
// notification job in the same transaction. ID and CreatedAt are filled in.
func (s *Store) CreateContact(ctx context.Context, msg *models.ContactMessage, notify *models.Job) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
INSERT INTO contacts (id, name, email, phone, message, budget)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at
`, msg.ID, msg.Name, msg.Email, msg.Phone, msg.Message, msg.Budget).Scan(&msg.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert contact: %w", err)
		}
		if notify != nil {
			return insertJob(ctx, tx, notify)
		}
		return nil
	})
}

// ListContacts returns up to limit contact messages, newest first.
func (s *Store) ListContacts(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id::text, name, email, phone, message, budget, read, created_at
FROM contacts
ORDER BY created_at DESC
LIMIT $1
`, pageSize(limit))
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.ContactMessage{}
	for rows.Next() {
		var c models.ContactMessage
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.Budget, &c.Read, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contacts: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

// SaveQuote inserts a submitted quote and, when notify is non-nil, its
// notification job in the same transaction. ID and CreatedAt are filled in.
func (s *Store) SaveQuote(ctx context.Context, q *models.QuoteRecord, notify *models.Job) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
INSERT INTO quotes (id, type_id, feature_ids, support_id, base, features_cost, total, monthly,
                    name, email, phone, company, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING created_at
`,
			q.ID, q.TypeID, pq.Array(q.FeatureIDs), q.SupportID,
			q.Base, q.FeaturesCost, q.Total, q.Monthly,
			q.Name, q.Email, q.Phone, q.Company, q.Notes,
		).Scan(&q.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert quote: %w", err)
		}
		if notify != nil {
			return insertJob(ctx, tx, notify)
		}
		return nil
	})
}

// ListQuotes returns up to limit submitted quotes, newest first.
func (s *Store) ListQuotes(ctx context.Context, limit int) ([]models.QuoteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id::text, type_id, feature_ids, support_id, base, features_cost, total, monthly,
       name, email, phone, company, notes, created_at
FROM quotes
ORDER BY created_at DESC
LIMIT $1
`, pageSize(limit))
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := []models.QuoteRecord{}
	for rows.Next() {
		var (
			q        models.QuoteRecord
			features pq.StringArray
		)
		if err := rows.Scan(
			&q.ID, &q.TypeID, &features, &q.SupportID,
			&q.Base, &q.FeaturesCost, &q.Total, &q.Monthly,
			&q.Name, &q.Email, &q.Phone, &q.Company, &q.Notes, &q.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quotes: %w", err)
		}
		q.FeatureIDs = []string(features)
		if q.FeatureIDs == nil {
			q.FeatureIDs = []string{}
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return quotes, nil
}

// Ping checks database connectivity within the given timeout.
func (s *Store) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func pageSize(limit int) int {
	if limit <= 0 || limit > defaultPageSize {
		return defaultPageSize
	}
	return limit
}
