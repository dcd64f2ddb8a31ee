package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"ouvidoria/internal/manifestation"
	id "ouvidoria/pkg/domain"
)

// uniqueViolation is the PostgreSQL error code raised by the protocolo
// constraint.
const uniqueViolation = "23505"

// PostgresStore persists manifestations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed manifestation store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, m manifestation.Manifestation) error {
	anexos, err := json.Marshal(m.Anexos)
	if err != nil {
		return fmt.Errorf("marshal anexos: %w", err)
	}
	query := `
		INSERT INTO manifestacoes (id, protocolo, texto, assunto, anonima, status, anexos, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		m.ID.String(), m.Protocolo.String(), m.Texto, m.Assunto,
		m.Anonima, string(m.Status), anexos, m.Owner.String(), m.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("create manifestation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, mid id.ManifestationID) (manifestation.Manifestation, error) {
	query := `
		SELECT id, protocolo, texto, assunto, anonima, status, anexos, owner_id, created_at
		FROM manifestacoes
		WHERE id = $1
	`
	m, err := scanManifestation(s.db.QueryRowContext(ctx, query, mid.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return manifestation.Manifestation{}, ErrNotFound
		}
		return manifestation.Manifestation{}, fmt.Errorf("find manifestation: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, owner id.UserID) ([]manifestation.Manifestation, error) {
	query := `
		SELECT id, protocolo, texto, assunto, anonima, status, anexos, owner_id, created_at
		FROM manifestacoes
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, owner.String())
	if err != nil {
		return nil, fmt.Errorf("list manifestations: %w", err)
	}
	defer rows.Close()

	var out []manifestation.Manifestation
	for rows.Next() {
		m, err := scanManifestation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manifestation: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list manifestations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, mid id.ManifestationID, status manifestation.Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE manifestacoes SET status = $2 WHERE id = $1`,
		mid.String(), string(status),
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanManifestation(row rowScanner) (manifestation.Manifestation, error) {
	var (
		m         manifestation.Manifestation
		rawID     string
		rawProto  string
		rawStatus string
		rawOwner  string
		anexos    []byte
	)
	err := row.Scan(&rawID, &rawProto, &m.Texto, &m.Assunto, &m.Anonima, &rawStatus, &anexos, &rawOwner, &m.CreatedAt)
	if err != nil {
		return manifestation.Manifestation{}, err
	}

	if m.ID, err = id.ParseManifestationID(rawID); err != nil {
		return manifestation.Manifestation{}, fmt.Errorf("stored id invalid: %w", err)
	}
	if m.Owner, err = id.ParseUserID(rawOwner); err != nil {
		return manifestation.Manifestation{}, fmt.Errorf("stored owner invalid: %w", err)
	}
	if m.Protocolo, err = id.ParseProtocol(rawProto); err != nil {
		return manifestation.Manifestation{}, fmt.Errorf("stored protocolo invalid: %w", err)
	}
	// Unknown stored statuses degrade to pendente for display rather than
	// failing the read.
	m.Status = manifestation.ParseStatus(rawStatus)

	if len(anexos) > 0 {
		if err := json.Unmarshal(anexos, &m.Anexos); err != nil {
			return manifestation.Manifestation{}, fmt.Errorf("unmarshal anexos: %w", err)
		}
	}
	return m, nil
}
