// Package games runs one chat session per game and feeds it the events of
// that game in order.
package games

import (
	"context"
	"sync"

	"github.com/park285/chess-chatter/internal/botapi"
	"github.com/park285/chess-chatter/internal/chatter"
	"github.com/park285/chess-chatter/internal/chess/openings"
	"github.com/park285/chess-chatter/internal/metrics"
	"go.uber.org/zap"
)

type Manager struct {
	ctx      context.Context
	settings chatter.Settings
	deps     chatter.Deps
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

func NewManager(ctx context.Context, settings chatter.Settings, deps chatter.Deps, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	deps.Logger = logger
	return &Manager{
		ctx:      ctx,
		settings: settings,
		deps:     deps,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Dispatch routes a feed event to its game. gameStart opens the session;
// events for unknown games are dropped. Events of one game are handled in
// arrival order.
func (m *Manager) Dispatch(ev *botapi.Event) {
	if ev == nil || ev.GameID == "" {
		return
	}
	m.mu.Lock()
	s, ok := m.sessions[ev.GameID]
	if ev.Type == botapi.EventGameStart {
		if !ok {
			m.start(ev)
		}
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	if !ok {
		m.logger.Debug("game_event_unknown_game", zap.String("game_id", ev.GameID), zap.String("type", ev.Type))
		return
	}
	// 게임별 순서 보장: 같은 게임의 이벤트는 해당 세션 mailbox 하나로만 전달
	select {
	case s.mailbox <- ev:
	case <-s.done:
	case <-m.ctx.Done():
	}
}

// start must be called with m.mu held.
// 중복 gameStart는 Dispatch에서 걸러짐: 게임당 세션 하나.
func (m *Manager) start(ev *botapi.Event) {
	if ev.Game == nil {
		m.logger.Warn("game_start_without_game", zap.String("game_id", ev.GameID))
		return
	}
	s, err := newSession(ev.GameID, ev.Game, m.settings, m.deps, m.logger)
	if err != nil {
		m.logger.Warn("game_start_failed", zap.String("game_id", ev.GameID), zap.Error(err))
		return
	}
	m.sessions[ev.GameID] = s
	metrics.ActiveGames.Inc()
	m.logger.Info("game_started", zap.String("game_id", ev.GameID), zap.Bool("white", s.white))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		s.run(m.ctx, func() { m.remove(ev.GameID, s) })
	}()
}

func (m *Manager) remove(id string, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[id] == s {
		delete(m.sessions, id)
		metrics.ActiveGames.Dec()
	}
}

// SetOpenings replaces the corpus handed to games started from now on.
// Running games keep the corpus they started with.
func (m *Manager) SetOpenings(c *openings.Corpus) {
	if c == nil {
		return
	}
	m.mu.Lock()
	m.deps.Openings = c
	m.mu.Unlock()
}

// Active returns the number of running sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close lets every session drain its queued events and waits for them to
// stop.
func (m *Manager) Close() {
	m.mu.Lock()
	for id, s := range m.sessions {
		close(s.stop)
		delete(m.sessions, id)
		metrics.ActiveGames.Dec()
	}
	m.mu.Unlock()
	m.wg.Wait()
}
