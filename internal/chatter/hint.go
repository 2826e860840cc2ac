package chatter

import (
	"context"
	"strings"

	"github.com/park285/chess-chatter/internal/chess"
	"github.com/park285/chess-chatter/internal/metrics"
	"go.uber.org/zap"
)

// MaxHints is how many hints one game can hand out.
const MaxHints = 7

var hintKeywords = map[string]int{
	"firsthint":   1,
	"secondhint":  2,
	"thirdhint":   3,
	"fourthhint":  4,
	"fifthhint":   5,
	"sixthhint":   6,
	"seventhhint": 7,
}

// HintIndex maps a hint keyword (any case) to its position 1..7.
func HintIndex(text string) (int, bool) {
	n, ok := hintKeywords[strings.ToLower(text)]
	return n, ok
}

// HintSession counts delivered hints. The counter only moves forward, one
// step at a time, and stops at MaxHints.
type HintSession struct {
	counter int
}

func (h *HintSession) Counter() int { return h.counter }

// Next is the only index the session will accept.
func (h *HintSession) Next() int { return h.counter + 1 }

func (h *HintSession) Exhausted() bool { return h.counter >= MaxHints }

// Advance records delivery of hint index. Any index other than Next is
// ignored.
func (h *HintSession) Advance(index int) bool {
	if h.Exhausted() || index != h.Next() {
		return false
	}
	h.counter = index
	return true
}

// hintGate runs the eligibility checks shared by !hint and the hint keywords.
// It returns the catalog key of the refusal, or "" when hints are allowed.
func (c *Chatter) hintGate(room Room) string {
	switch {
	case c.info.Rated:
		return "chat.hint.rated"
	case c.info.bothBots():
		return "chat.hint.bots"
	case room != RoomPlayer && room != RoomSpectator:
		return "chat.hint.room"
	case c.game.IsOurTurn():
		return "chat.hint.own_turn"
	}
	return ""
}

// requestHint 처리 순서: 자격 검사 → 소진/순서 검사 → 엔진 조회 → 전송.
// 카운터는 전송까지 성공한 경우에만 증가.
func (c *Chatter) requestHint(ctx context.Context, ev ChatEvent, index int) {
	if key := c.hintGate(ev.Room); key != "" {
		metrics.Hints.WithLabelValues("refused").Inc()
		c.reply(ctx, ev.Room, key, nil)
		return
	}

	// 순서 어긋남/중복 요청은 다음 번호만 안내
	if c.hints.Exhausted() || index != c.hints.Next() {
		metrics.Hints.WithLabelValues("refused").Inc()
		if c.hints.Exhausted() || c.hints.Next() > MaxHints {
			c.reply(ctx, ev.Room, "chat.hint.exhausted", map[string]any{"Max": MaxHints})
			return
		}
		c.reply(ctx, ev.Room, "chat.hint.order", map[string]any{"Next": c.hints.Next()})
		return
	}

	msg, err := c.composeHint(ctx, index)
	if err == nil {
		err = c.send(ctx, ev.Room, msg)
	}
	// 엔진/표기 변환/전송 실패: 카운터 유지
	if err != nil {
		metrics.Hints.WithLabelValues("failed").Inc()
		c.logger.Warn("hint_failed", zap.Int("index", index), zap.Error(err))
		c.reply(ctx, ev.Room, "chat.hint.unavailable", nil)
		return
	}
	c.hints.Advance(index)
	metrics.Hints.WithLabelValues("delivered").Inc()
	c.logger.Info("hint_delivered", zap.Int("index", index), zap.String("user", ev.Username))
}

func (c *Chatter) composeHint(ctx context.Context, index int) (string, error) {
	if c.deps.Engine == nil {
		return "", chess.ErrEngineUnavailable
	}
	board := c.game.Board()
	res, err := c.deps.Engine.Hint(ctx, board)
	if err != nil {
		return "", err
	}
	san, err := board.SAN(res.Move)
	if err != nil {
		return "", err
	}
	data := map[string]any{"Index": index, "Move": san}
	if res.Score != nil {
		if s, ferr := chess.FormatScore(*res.Score); ferr == nil {
			data["Score"] = s
			return c.render("chat.hint.move_eval", data)
		}
	}
	return c.render("chat.hint.move", data)
}

func (c *Chatter) render(key string, data map[string]any) (string, error) {
	return c.deps.Catalog.Render(key, data)
}
