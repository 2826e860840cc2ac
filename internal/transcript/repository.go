// Package transcript keeps a record of the chat lines seen in each game.
package transcript

import (
	"context"
	"errors"
	"time"
)

var ErrEmptyLine = errors.New("transcript line without game id")

// Line is one recorded chat message.
type Line struct {
	ID       string
	GameID   string
	Room     string
	Username string
	Text     string
	At       time.Time
}

type Repository interface {
	Insert(ctx context.Context, line Line) error
	// ListByGame returns the most recent lines of a game, oldest first.
	ListByGame(ctx context.Context, gameID string, limit int) ([]Line, error)
	Close() error
}
