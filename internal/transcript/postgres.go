package transcript

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists transcripts in PostgreSQL so sessions survive
// process restarts. Message order is pinned by an explicit per-session
// sequence number rather than insertion timestamps.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS interview_messages (
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_interview_messages_session ON interview_messages (session_id);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, id string, system Message) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM interview_messages WHERE session_id=$1`, id); err != nil {
		return fmt.Errorf("reset transcript: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO interview_messages (session_id, seq, role, content) VALUES ($1, 0, $2, $3)`,
		id, string(system.Role), system.Content,
	); err != nil {
		return fmt.Errorf("insert system message: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, id string, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback(ctx)

	// MAX(seq) is NULL for an absent session; the -1 sentinel turns that
	// into the NotFound contract instead of an auto-create. Turn-level
	// serialization per session id happens above the store, so two appends
	// for the same id never race on seq.
	var next int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(seq)+1, -1) FROM interview_messages WHERE session_id=$1`,
		id,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("resolve next seq: %w", err)
	}
	if next < 0 {
		return ErrNotFound
	}

	for i, m := range msgs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO interview_messages (session_id, seq, role, content) VALUES ($1, $2, $3, $4)`,
			id, next+i, string(m.Role), m.Content,
		); err != nil {
			return fmt.Errorf("append message: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) ([]Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT role, content FROM interview_messages WHERE session_id=$1 ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		msgs = append(msgs, Message{Role: Role(role), Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	if len(msgs) == 0 {
		return nil, ErrNotFound
	}
	return msgs, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM interview_messages WHERE session_id=$1`, id); err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
