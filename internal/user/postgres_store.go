package user

import (
	"context"
	"database/sql"
	"errors"

	"social-login/internal/db"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByOAuthID(ctx context.Context, provider, oauthID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, provider, oauth_id, name, created_at
		FROM users
		WHERE provider = $1
		  AND oauth_id = $2
	`,
		provider,
		oauthID,
	)

	return scanRecord(row, "find by oauth id")
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, provider, oauth_id, name, created_at
		FROM users
		WHERE id = $1
	`, id)

	return scanRecord(row, "find by id")
}

func (s *PostgresStore) Create(ctx context.Context, r Record) (*Record, error) {
	r.ID = uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, provider, oauth_id, name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		r.ID,
		r.Provider,
		r.OAuthID,
		r.Name,
		r.Created,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrConflict
		}
		return nil, storageErr("create", err)
	}

	return &r, nil
}

func scanRecord(row *sql.Row, op string) (*Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.Provider, &r.OAuthID, &r.Name, &r.Created)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr(op, err)
	}

	return &r, nil
}
