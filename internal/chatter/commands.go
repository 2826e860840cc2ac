package chatter

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/park285/chess-chatter/internal/chess"
	"github.com/park285/chess-chatter/internal/metrics"
	"github.com/park285/chess-chatter/internal/util"
	"go.uber.org/zap"
)

// knownCommands lists every name handleCommand answers to.
var knownCommands = map[string]bool{
	"cpu": true, "ram": true, "draw": true, "eval": true, "motor": true,
	"name": true, "opening": true, "printeval": true, "quiet": true, "pv": true,
	"book": true, "egtb": true, "stats": true, "help": true, "commands": true,
	"hint": true, "game": true, "ping": true,
}

func (c *Chatter) handleCommand(ctx context.Context, ev ChatEvent, cmd string) {
	room := ev.Room
	switch cmd {
	case "cpu":
		c.send(ctx, room, c.settings.CPU)
	case "ram":
		c.send(ctx, room, c.settings.RAM)
	case "draw":
		c.send(ctx, room, c.drawMessage())
	case "eval":
		c.sendLastMessage(ctx, room)
	case "motor":
		c.send(ctx, room, c.engineName())
	case "name":
		c.reply(ctx, room, "chat.name", map[string]any{
			"Username": c.settings.Username,
			"Engine":   c.engineName(),
			"Version":  c.settings.Version,
		})
	case "opening":
		c.openingCommand(ctx, room)
	case "printeval":
		c.printEvalCommand(ctx, room)
	case "quiet":
		c.evalRooms.Remove(room)
	case "pv":
		if room == RoomPlayer {
			return
		}
		if pv := c.renderPV(""); pv != "" {
			c.send(ctx, room, pv)
		} else {
			c.reply(ctx, room, "chat.pv.unavailable", nil)
		}
	case "book":
		c.send(ctx, room, c.bookMessage())
	case "egtb":
		c.send(ctx, room, c.tablebaseMessage())
	case "stats":
		c.send(ctx, room, c.statsMessage())
	case "help", "commands":
		c.helpCommand(ctx, room)
	case "hint":
		if key := c.hintGate(room); key != "" {
			c.reply(ctx, room, key, nil)
			return
		}
		c.reply(ctx, room, "chat.hint.instructions", nil)
	case "game":
		c.send(ctx, room, c.gameMessage())
	case "ping":
		c.pingCommand(ctx, room)
	default:
		return
	}
	metrics.Commands.WithLabelValues(cmd).Inc()
	c.logger.Debug("chat_command", zap.String("command", cmd), zap.String("room", string(room)), zap.String("user", ev.Username))
}

func (c *Chatter) drawMessage() string {
	d := c.settings.Draw
	if !d.Enabled {
		return c.text("chat.draw.disabled", nil)
	}
	return c.text("chat.draw.policy", map[string]any{
		"MinGameLength":    d.MinGameLength,
		"Score":            fmt.Sprintf("%.2f", float64(d.Score)/100),
		"ConsecutiveMoves": d.ConsecutiveMoves,
	})
}

func (c *Chatter) openingCommand(ctx context.Context, room Room) {
	if !strings.EqualFold(c.info.Variant, VariantStandard) {
		c.reply(ctx, room, "chat.opening.unsupported_variant", nil)
		return
	}
	board := c.game.Board()
	var moves []string
	if board != nil {
		moves = board.SANMoves()
		if code, title := board.ECO(); code != "" {
			c.logger.Debug("opening_eco", zap.String("eco", code), zap.String("title", title))
		}
	}
	name, line := c.deps.Openings.Resolve(moves)
	c.reply(ctx, room, "chat.opening.current", map[string]any{"Name": name, "Line": line})
}

func (c *Chatter) bookMessage() string {
	if len(c.settings.Books) == 0 {
		return c.text("chat.book.none", nil)
	}
	return c.text("chat.book.using", map[string]any{"Names": strings.Join(c.settings.Books, ", ")})
}

func (c *Chatter) tablebaseMessage() string {
	var tables []string
	for _, tb := range c.settings.Tablebases {
		key := "chat.egtb." + strings.ToLower(tb.Name)
		if s := c.text(key, map[string]any{"Pieces": tb.MaxPieces}); s != "" {
			tables = append(tables, s)
		}
	}
	if len(tables) == 0 {
		return c.text("chat.egtb.none", nil)
	}
	return c.text("chat.egtb.using", map[string]any{"Tables": strings.Join(tables, ", ")})
}

func (c *Chatter) statsMessage() string {
	board := c.game.Board()
	if board == nil {
		return ""
	}
	m := board.Material()
	phase := "Endgame"
	switch {
	case m.Pieces > 20:
		phase = "Opening"
	case m.Pieces > 10:
		phase = "Middlegame"
	}
	turn := "Black"
	if board.WhiteToMove() {
		turn = "White"
	}
	return c.text("chat.stats", map[string]any{
		"Score":   m.Score,
		"Pawns":   m.Pawns,
		"Knights": m.Knights,
		"Bishops": m.Bishops,
		"Rooks":   m.Rooks,
		"Queens":  m.Queens,
		"Phase":   phase,
		"Turn":    turn,
		"Move":    board.FullmoveNumber(),
	})
}

func (c *Chatter) helpCommand(ctx context.Context, room Room) {
	key := "chat.help.spectator"
	if room == RoomPlayer {
		key = "chat.help.player"
	}
	msg := util.TruncateEllipsis(c.text(key, nil), util.ChatLimit)
	if err := c.send(ctx, room, msg); err != nil {
		c.reply(ctx, room, "chat.help.fallback", nil)
	}
}

func (c *Chatter) gameMessage() string {
	msg, err := c.describePosition()
	if err != nil {
		c.logger.Warn("game_summary_failed", zap.Error(err))
		return c.text("chat.game.unavailable", nil)
	}
	return msg
}

func (c *Chatter) describePosition() (string, error) {
	scores := c.game.Scores()
	if len(scores) == 0 {
		return c.render("chat.game.analyzing", nil)
	}
	s := scores[len(scores)-1]
	switch s.Kind {
	case chess.ScoreMate:
		switch {
		case s.Value > 0:
			return c.render("chat.game.mate_win", map[string]any{"Moves": s.Value})
		case s.Value < 0:
			return c.render("chat.game.mate_loss", map[string]any{"Moves": -s.Value})
		default:
			return c.render("chat.game.mate_draw", nil)
		}
	case chess.ScoreCentipawns:
		pawns := s.Pawns()
		switch {
		case pawns > 0.5:
			return c.render("chat.game.winning", map[string]any{"Pawns": fmt.Sprintf("%.1f", pawns)})
		case pawns < -0.5:
			return c.render("chat.game.losing", map[string]any{"Pawns": fmt.Sprintf("%.1f", math.Abs(pawns))})
		default:
			return c.render("chat.game.even", nil)
		}
	}
	return "", chess.ErrScoreUnavailable
}

func (c *Chatter) pingCommand(ctx context.Context, room Room) {
	if c.deps.Account == nil {
		c.reply(ctx, room, "chat.ping.failed", nil)
		return
	}
	start := time.Now()
	if err := c.deps.Account.Ping(ctx); err != nil {
		c.logger.Warn("ping_failed", zap.Error(err))
		c.reply(ctx, room, "chat.ping.failed", nil)
		return
	}
	took := time.Since(start)
	metrics.PingLatency.Observe(took.Seconds())
	ms := int64(math.Round(float64(took) / float64(time.Millisecond)))
	c.reply(ctx, room, "chat.ping.ok", map[string]any{"Millis": ms})
}
