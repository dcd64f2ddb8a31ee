package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ouvidoria/internal/response"
	id "ouvidoria/pkg/domain"
)

// PostgresStore persists the response ledger in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed response store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, r response.Response) error {
	query := `
		INSERT INTO respostas (id, manifestacao_id, orgao, texto, lida, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID.String(), r.ManifestacaoID.String(), r.Orgao, r.Texto, r.Lida, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append response: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByManifestation(ctx context.Context, mid id.ManifestationID) ([]response.Response, error) {
	query := `
		SELECT id, manifestacao_id, orgao, texto, lida, created_at
		FROM respostas
		WHERE manifestacao_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, mid.String())
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var out []response.Response
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, rid id.ResponseID) (response.Response, error) {
	query := `
		SELECT id, manifestacao_id, orgao, texto, lida, created_at
		FROM respostas
		WHERE id = $1
	`
	r, err := scanResponse(s.db.QueryRowContext(ctx, query, rid.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return response.Response{}, ErrNotFound
		}
		return response.Response{}, fmt.Errorf("find response: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) MarkRead(ctx context.Context, rid id.ResponseID) error {
	// lida = true is terminal, so re-marking is harmless and the statement
	// stays idempotent by construction.
	res, err := s.db.ExecContext(ctx,
		`UPDATE respostas SET lida = TRUE WHERE id = $1`,
		rid.String(),
	)
	if err != nil {
		return fmt.Errorf("mark response read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark response read: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResponse(row rowScanner) (response.Response, error) {
	var (
		r       response.Response
		rawID   string
		rawMID  string
	)
	if err := row.Scan(&rawID, &rawMID, &r.Orgao, &r.Texto, &r.Lida, &r.CreatedAt); err != nil {
		return response.Response{}, err
	}
	var err error
	if r.ID, err = id.ParseResponseID(rawID); err != nil {
		return response.Response{}, fmt.Errorf("stored id invalid: %w", err)
	}
	if r.ManifestacaoID, err = id.ParseManifestationID(rawMID); err != nil {
		return response.Response{}, fmt.Errorf("stored manifestacao_id invalid: %w", err)
	}
	return r, nil
}
