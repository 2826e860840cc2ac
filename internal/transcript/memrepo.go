package transcript

import (
	"context"
	"sync"
)

// DefaultMemoryLines is the number of lines kept per game by a
// MemoryRepository built with a non-positive capacity.
const DefaultMemoryLines = 200

// MemoryRepository keeps the newest lines of each game in process memory.
// It is used when no database is configured. Finished games are dropped with
// Forget.
type MemoryRepository struct {
	mu      sync.RWMutex
	perGame int
	byGame  map[string]*ring
}

// ring holds at most cap(lines) lines; start is the oldest once full.
// 가득 차면 가장 오래된 줄부터 덮어씀.
type ring struct {
	lines []Line
	start int
}

func (r *ring) push(line Line) {
	if len(r.lines) < cap(r.lines) {
		r.lines = append(r.lines, line)
		return
	}
	r.lines[r.start] = line
	r.start = (r.start + 1) % len(r.lines)
}

func (r *ring) has(id string) bool {
	for i := range r.lines {
		if r.lines[i].ID == id {
			return true
		}
	}
	return false
}

// ordered returns the lines oldest first.
func (r *ring) ordered() []Line {
	out := make([]Line, 0, len(r.lines))
	out = append(out, r.lines[r.start:]...)
	return append(out, r.lines[:r.start]...)
}

func NewMemoryRepository(perGame int) *MemoryRepository {
	if perGame <= 0 {
		perGame = DefaultMemoryLines
	}
	return &MemoryRepository{
		perGame: perGame,
		byGame:  make(map[string]*ring),
	}
}

// Insert stores a line. Duplicate IDs among the kept lines are ignored.
func (m *MemoryRepository) Insert(_ context.Context, line Line) error {
	if line.GameID == "" {
		return ErrEmptyLine
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byGame[line.GameID]
	if !ok {
		r = &ring{lines: make([]Line, 0, m.perGame)}
		m.byGame[line.GameID] = r
	}
	if line.ID != "" && r.has(line.ID) {
		return nil
	}
	r.push(line)
	return nil
}

func (m *MemoryRepository) ListByGame(_ context.Context, gameID string, limit int) ([]Line, error) {
	if limit <= 0 {
		limit = 50
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byGame[gameID]
	if !ok {
		return []Line{}, nil
	}
	lines := r.ordered()
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines, nil
}

// Forget drops every line of a game.
func (m *MemoryRepository) Forget(gameID string) {
	m.mu.Lock()
	delete(m.byGame, gameID)
	m.mu.Unlock()
}

// Games reports how many games currently have lines in memory.
func (m *MemoryRepository) Games() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byGame)
}

func (m *MemoryRepository) Close() error { return nil }
