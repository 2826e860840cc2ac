// Package chatbuilder assembles the process-wide dependencies of the chat
// assistant from configuration.
package chatbuilder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/park285/chess-chatter/internal/chatter"
	corechess "github.com/park285/chess-chatter/internal/chess"
	"github.com/park285/chess-chatter/internal/chess/openingbook"
	"github.com/park285/chess-chatter/internal/chess/openings"
	"github.com/park285/chess-chatter/internal/chess/uci"
	"github.com/park285/chess-chatter/internal/config"
	"github.com/park285/chess-chatter/internal/metrics"
	"github.com/park285/chess-chatter/internal/msgcat"
	"github.com/park285/chess-chatter/internal/ratelimit"
	"github.com/park285/chess-chatter/internal/sysinfo"
	"github.com/park285/chess-chatter/internal/transcript"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps are shared by every game. Sender and Account in Chat are left for the
// caller to fill in.
type Deps struct {
	Settings chatter.Settings
	Chat     chatter.Deps

	Engine     *corechess.Engine
	Books      *openingbook.Set
	Corpus     *openings.Corpus
	Redis      *redis.Client
	Transcript transcript.Repository
}

// HostFacts supplies the CPU and RAM strings. Tests replace it.
var HostFacts = func() (cpu, ram string) { return sysinfo.CPU(), sysinfo.RAM() }

func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Deps{}

	catalog, err := msgcat.New(cfg.Chat.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	// 엔진 (선택: 없으면 힌트는 "Hint unavailable.")
	if strings.TrimSpace(cfg.Engine.Path) != "" {
		engine, err := corechess.NewEngine(corechess.EngineConfig{
			BinaryPath: cfg.Engine.Path,
			Name:       cfg.Engine.Name,
			Threads:    cfg.Engine.Threads,
			HashMB:     cfg.Engine.HashMB,
			Capacity:   cfg.Engine.Capacity,
			Limits:     uci.Limits{Depth: cfg.Engine.Depth, MoveTimeMillis: cfg.Engine.MoveTime, NodeCap: cfg.Engine.Nodes},
			Options:    cfg.Engine.Options,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init engine: %w", err)
		}
		wctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := engine.Warmup(wctx); err != nil {
			logger.Warn("engine_warmup_failed", zap.Error(err))
		}
		cancel()
		d.Engine = engine
		d.Chat.Engine = engine
	} else {
		logger.Warn("engine_not_configured")
	}

	d.Corpus = openings.Load(cfg.Openings.File, logger)
	metrics.OpeningEntries.Set(float64(d.Corpus.Len()))
	d.Books = openingbook.Load(cfg.Books, logger)

	// 명령 제한 (Redis 선택)
	if strings.TrimSpace(cfg.RedisURL) != "" {
		rdb, err := ratelimit.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		d.Redis = rdb
		d.Chat.Limiter = ratelimit.NewCommandGuard(ratelimit.NewLimiter(rdb, logger), ratelimit.RuleCommand)
	}

	// 트랜스크립트: DATABASE_URL 있으면 Postgres, 없으면 게임당 상한 있는 메모리
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		if err := transcript.Migrate(cfg.DatabaseURL, logger); err != nil {
			d.Close()
			return nil, err
		}
		repo, err := transcript.NewPostgresRepository(cfg.DatabaseURL)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		d.Transcript = repo
	} else {
		d.Transcript = transcript.NewMemoryRepository(transcript.DefaultMemoryLines)
	}
	d.Chat.Transcript = transcript.NewRecorder(d.Transcript, logger)

	d.Chat.Openings = d.Corpus
	d.Chat.Catalog = catalog
	d.Chat.Logger = logger
	d.Settings = settingsFrom(cfg, d.Books.Names())
	return d, nil
}

func settingsFrom(cfg *config.AppConfig, books []string) chatter.Settings {
	cpu, ram := HostFacts()
	var tables []chatter.Tablebase
	for _, tb := range cfg.Tablebases {
		if tb.Enabled {
			tables = append(tables, chatter.Tablebase{Name: tb.Name, MaxPieces: tb.MaxPieces})
		}
	}
	return chatter.Settings{
		Username:        cfg.Username,
		Version:         cfg.Version,
		CommandsEnabled: cfg.Chat.Commands,
		Draw: chatter.DrawPolicy{
			Enabled:          cfg.Draw.Enabled,
			Score:            cfg.Draw.Score,
			MinGameLength:    cfg.Draw.MinGameLength,
			ConsecutiveMoves: cfg.Draw.ConsecutiveMoves,
		},
		Messages: chatter.Messages{
			Greeting:           cfg.Chat.Greeting,
			Goodbye:            cfg.Chat.Goodbye,
			GreetingSpectators: cfg.Chat.GreetingSpectators,
			GoodbyeSpectators:  cfg.Chat.GoodbyeSpectators,
		},
		Books:      books,
		Tablebases: tables,
		CPU:        cpu,
		RAM:        ram,
	}
}

// Close releases the engine pool and connections. Safe on partial Deps.
func (d *Deps) Close() {
	if d == nil {
		return
	}
	if d.Engine != nil {
		_ = d.Engine.Close()
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.Transcript != nil {
		_ = d.Transcript.Close()
	}
}
