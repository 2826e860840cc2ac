// Package ratelimit throttles chat commands per user with Redis counters
// (INCR + EXPIRE fixed window).
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Rule is a throttling policy: key prefix, allowed count and window length.
type Rule struct {
	Key    string
	Limit  int
	Window time.Duration
}

// RuleCommand allows 6 commands per 30 seconds per game and user.
var RuleCommand = Rule{Key: "rl:chat:", Limit: 6, Window: 30 * time.Second}

type Limiter struct {
	client *redis.Client
	logger *zap.Logger
}

func NewLimiter(client *redis.Client, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{client: client, logger: logger}
}

// Allow counts one request for identifier under rule. Redis failures let the
// request through and are returned alongside true.
// Redis 장애 시 fail-open: 채팅 명령은 제한 없이 통과.
func (l *Limiter) Allow(ctx context.Context, identifier string, rule Rule) (bool, error) {
	key := rule.Key + identifier

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("ratelimit_incr_failed", zap.String("key", key), zap.Error(err))
		return true, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, rule.Window).Err(); err != nil {
			l.logger.Warn("ratelimit_expire_failed", zap.String("key", key), zap.Error(err))
			// TTL 없는 키가 남으면 해당 사용자가 영구 차단됨 → 삭제
			l.client.Del(ctx, key)
			return true, err
		}
	}
	return int(count) <= rule.Limit, nil
}

// Remaining reports how many requests identifier has left in the window.
func (l *Limiter) Remaining(ctx context.Context, identifier string, rule Rule) (int, error) {
	count, err := l.client.Get(ctx, rule.Key+identifier).Int()
	if errors.Is(err, redis.Nil) {
		return rule.Limit, nil
	}
	if err != nil {
		return rule.Limit, err
	}
	return max(rule.Limit-count, 0), nil
}

// CommandGuard binds a Limiter to one rule for the chat router.
type CommandGuard struct {
	limiter *Limiter
	rule    Rule
}

func NewCommandGuard(l *Limiter, rule Rule) *CommandGuard {
	return &CommandGuard{limiter: l, rule: rule}
}

// Allow reports whether identity may run another command.
func (g *CommandGuard) Allow(ctx context.Context, identity string) bool {
	ok, _ := g.limiter.Allow(ctx, identity, g.rule)
	return ok
}

// NewClient dials the Redis server named by a redis:// or rediss:// URL and
// checks it answers.
func NewClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("redis url required")
	}
	opts, err := parseRedisURL(rawURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redis db %q", p)
		}
		db = n
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
