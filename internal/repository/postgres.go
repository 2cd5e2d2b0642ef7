package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"utms/dashboard/internal/models"
)

// PostgresStore keeps session records in a dashboard_sessions table.
// Expired rows are swept by the scheduler.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, ttl: ttl}
}

func (s *PostgresStore) Get(ctx context.Context, sid string) (Record, bool, error) {
	const query = `
		SELECT sid, credential, user_record, created_at, last_seen_at, expires_at
		FROM dashboard_sessions
		WHERE sid = $1 AND expires_at > NOW()
	`

	row := s.pool.QueryRow(ctx, query, sid)
	var (
		rec      Record
		userJSON []byte
	)
	if err := row.Scan(
		&rec.SID,
		&rec.Credential,
		&userJSON,
		&rec.CreatedAt,
		&rec.LastSeenAt,
		&rec.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("select session: %w", err)
	}

	if len(userJSON) > 0 {
		var user models.User
		if err := json.Unmarshal(userJSON, &user); err != nil {
			return Record{}, false, fmt.Errorf("decode session user: %w", err)
		}
		rec.User = &user
	}
	return rec, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, rec Record) error {
	const query = `
		INSERT INTO dashboard_sessions (
			sid, credential, user_record, created_at, last_seen_at, expires_at
		) VALUES (
			$1, $2, $3, NOW(), NOW(), $4
		)
		ON CONFLICT (sid)
		DO UPDATE SET
			credential = EXCLUDED.credential,
			user_record = EXCLUDED.user_record,
			last_seen_at = NOW(),
			expires_at = EXCLUDED.expires_at
	`

	var userJSON []byte
	if rec.User != nil {
		var err error
		userJSON, err = json.Marshal(rec.User)
		if err != nil {
			return fmt.Errorf("encode session user: %w", err)
		}
	}

	expiresAt := rec.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(s.ttl)
	}

	_, err := s.pool.Exec(ctx, query, rec.SID, rec.Credential, userJSON, expiresAt)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, sid string) error {
	const query = `DELETE FROM dashboard_sessions WHERE sid = $1`
	if _, err := s.pool.Exec(ctx, query, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context) (int, error) {
	const query = `DELETE FROM dashboard_sessions WHERE expires_at <= NOW()`
	cmd, err := s.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
