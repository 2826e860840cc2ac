package transcript

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder stores chat lines without ever failing the caller.
type Recorder struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewRecorder(repo Repository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, gameID, room, username, text string) {
	line := Line{
		ID:       uuid.NewString(),
		GameID:   gameID,
		Room:     room,
		Username: username,
		Text:     text,
		At:       r.now().UTC(),
	}
	if err := r.repo.Insert(ctx, line); err != nil {
		r.logger.Warn("transcript_insert_failed",
			zap.String("game_id", gameID),
			zap.String("room", room),
			zap.Error(err),
		)
	}
}

// Recent returns up to limit lines of a game, oldest first.
func (r *Recorder) Recent(ctx context.Context, gameID string, limit int) ([]Line, error) {
	return r.repo.ListByGame(ctx, gameID, limit)
}

// Forget releases what the repository holds in memory for a finished game.
// Durable repositories keep their rows.
func (r *Recorder) Forget(gameID string) {
	if f, ok := r.repo.(interface{ Forget(string) }); ok {
		f.Forget(gameID)
	}
}
