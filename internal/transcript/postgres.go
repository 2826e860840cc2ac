package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(databaseURL string) (*PostgresRepository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, line Line) error {
	if line.GameID == "" {
		return ErrEmptyLine
	}
	q := `INSERT INTO chat_lines (id, game_id, room, username, body, created_at)
      VALUES ($1,$2,$3,$4,$5,$6)
      ON CONFLICT (id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, q, line.ID, line.GameID, line.Room, line.Username, line.Text, line.At)
	if err != nil {
		return fmt.Errorf("insert chat line: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByGame(ctx context.Context, gameID string, limit int) ([]Line, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, game_id, room, username, body, created_at FROM (
        SELECT id, game_id, room, username, body, created_at
          FROM chat_lines
         WHERE game_id = $1
         ORDER BY created_at DESC
         LIMIT $2
      ) recent ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("query chat lines: %w", err)
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.GameID, &l.Room, &l.Username, &l.Text, &l.At); err != nil {
			return nil, fmt.Errorf("scan chat line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
