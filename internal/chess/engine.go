package chess

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/park285/chess-chatter/internal/chess/uci"
	"go.uber.org/zap"
)

var ErrEngineUnavailable = errors.New("engine unavailable")

type EngineConfig struct {
	BinaryPath string
	// Name overrides the engine's self-reported "id name".
	Name     string
	Threads  int
	HashMB   int
	Capacity int
	Limits   uci.Limits
	Options  map[string]string
}

// HintResult is the engine's recommendation for the side to move.
type HintResult struct {
	Move  string // UCI
	Score *Score
	PV    []string
}

// Engine answers hint requests from a pool of UCI processes.
type Engine struct {
	pool   *uci.Pool
	name   string
	opts   uci.Options
	limits uci.Limits
	logger *zap.Logger
}

func NewEngine(cfg EngineConfig, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.BinaryPath) == "" {
		return nil, fmt.Errorf("engine path is required")
	}
	pool, err := uci.NewPool(uci.PoolConfig{BinaryPath: cfg.BinaryPath, Capacity: cfg.Capacity, Logger: logger})
	if err != nil {
		return nil, err
	}
	hash := cfg.HashMB
	if hash <= 0 {
		hash = 64
	}
	limits := cfg.Limits
	if limits.Depth <= 0 && limits.MoveTimeMillis <= 0 && limits.NodeCap <= 0 {
		limits.MoveTimeMillis = 1000
	}
	return &Engine{
		pool:   pool,
		name:   strings.TrimSpace(cfg.Name),
		opts:   uci.Options{Threads: cfg.Threads, HashMB: hash, MultiPV: 1, Extra: cfg.Options},
		limits: limits,
		logger: logger,
	}, nil
}

// Name is the configured engine name, or the one the engine reported.
func (e *Engine) Name() string {
	if e == nil {
		return ""
	}
	if e.name != "" {
		return e.name
	}
	if n := e.pool.EngineName(); n != "" {
		return n
	}
	return "Stockfish"
}

// Warmup starts one session so Name reflects the real engine.
func (e *Engine) Warmup(ctx context.Context) error {
	session, err := e.pool.Acquire(ctx, e.opts)
	if err != nil {
		return err
	}
	e.pool.Release(session, nil)
	return nil
}

// Hint searches the position on board and returns the best move.
func (e *Engine) Hint(ctx context.Context, board *Board) (HintResult, error) {
	if e == nil || e.pool == nil {
		return HintResult{}, ErrEngineUnavailable
	}
	if board == nil {
		return HintResult{}, fmt.Errorf("hint: nil board")
	}
	start := time.Now()
	session, err := e.pool.Acquire(ctx, e.opts)
	if err != nil {
		return HintResult{}, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	var releaseErr error
	defer func() { e.pool.Release(session, releaseErr) }()

	if err := session.NewGame(ctx); err != nil {
		releaseErr = err
		return HintResult{}, err
	}
	resp, err := session.Search(ctx, uci.SearchRequest{
		FEN:    board.StartFEN(),
		Moves:  board.MovesUCI(),
		Limits: e.limits,
	})
	if err != nil {
		releaseErr = err
		return HintResult{}, err
	}

	res := HintResult{Move: resp.BestMove}
	if len(resp.Candidates) > 0 {
		top := resp.Candidates[0]
		if res.Move == "" || res.Move == "(none)" {
			res.Move = top.Move
		}
		res.PV = top.Principal
		if top.HasScore {
			s := CP(top.CP)
			if top.IsMate {
				s = MateIn(top.Mate)
			}
			res.Score = &s
		}
	}
	if res.Move == "" || res.Move == "(none)" {
		return HintResult{}, fmt.Errorf("engine returned no move")
	}
	e.logger.Debug("engine_hint",
		zap.String("move", res.Move),
		zap.Int("ply", board.Ply()),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

func (e *Engine) Close() error {
	if e == nil || e.pool == nil {
		return nil
	}
	return e.pool.Close()
}
