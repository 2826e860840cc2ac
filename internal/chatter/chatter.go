package chatter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/park285/chess-chatter/internal/chess/openings"
	"github.com/park285/chess-chatter/internal/metrics"
	"github.com/park285/chess-chatter/internal/msgcat"
	"github.com/park285/chess-chatter/internal/util"
	"go.uber.org/zap"
)

// Chatter answers chat for a single game. Its methods are called from the
// game's event loop only and are not safe for concurrent use.
type Chatter struct {
	settings Settings
	info     GameInfo
	game     GameState
	deps     Deps
	logger   *zap.Logger

	hints     HintSession
	evalRooms EvalRooms
}

func New(settings Settings, info GameInfo, game GameState, deps Deps) *Chatter {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Catalog == nil {
		deps.Catalog = msgcat.Default()
	}
	if deps.Openings == nil {
		deps.Openings = openings.Builtin()
	}
	if deps.Console == nil {
		deps.Console = io.Discard
	}
	return &Chatter{
		settings: settings,
		info:     info,
		game:     game,
		deps:     deps,
		logger:   logger.With(zap.String("game_id", info.ID)),
	}
}

// HintsGiven reports how many hints were delivered in this game.
func (c *Chatter) HintsGiven() int { return c.hints.Counter() }

// EvalRooms lists rooms subscribed to evaluation echoes.
func (c *Chatter) EvalRooms() []Room { return c.evalRooms.Rooms() }

// HandleChatMessage classifies one inbound line and sends whatever replies it
// calls for. Failures are logged, never returned.
func (c *Chatter) HandleChatMessage(ctx context.Context, ev ChatEvent) {
	metrics.ChatLines.WithLabelValues(roomLabel(ev.Room)).Inc()
	if c.deps.Transcript != nil {
		c.deps.Transcript.Record(ctx, c.info.ID, string(ev.Room), ev.Username, ev.Text)
	}

	// 시스템 메시지는 파싱하지 않음. 플레이어 방만 콘솔 출력
	if ev.Username == SystemUsername {
		if ev.Room == RoomPlayer {
			c.echo(ev.Text)
		}
		return
	}

	if ev.Username != c.settings.Username {
		prefix := fmt.Sprintf("%s (%s): ", ev.Username, ev.Room)
		c.echo(util.WrapEcho(prefix+ev.Text, util.EchoWidth, util.CharLen(prefix)))
	}

	command, isCommand := strings.CutPrefix(ev.Text, "!")
	hintIndex, isHint := HintIndex(ev.Text)

	// 명령 비활성화: 명령/힌트 형태일 때만 안내 1회
	if !c.settings.CommandsEnabled {
		if isCommand || isHint {
			c.reply(ctx, ev.Room, "chat.commands_disabled", nil)
		}
		return
	}
	// 제한 대상은 등록된 명령과 힌트 키워드뿐. 알 수 없는 !명령은 쿼터를 쓰지 않음
	command = strings.ToLower(command)
	if isCommand && !knownCommands[command] {
		return
	}
	if !isCommand && !isHint {
		return
	}
	if !c.allowed(ctx, ev) {
		return
	}

	if isCommand {
		c.handleCommand(ctx, ev, command)
		return
	}
	c.requestHint(ctx, ev, hintIndex)
}

func (c *Chatter) allowed(ctx context.Context, ev ChatEvent) bool {
	if c.deps.Limiter == nil {
		return true
	}
	if c.deps.Limiter.Allow(ctx, c.info.ID+":"+ev.Username) {
		return true
	}
	metrics.RateLimited.Inc()
	c.logger.Info("chat_rate_limited", zap.String("user", ev.Username), zap.String("room", string(ev.Room)))
	return false
}

func (c *Chatter) echo(line string) {
	if _, err := fmt.Fprintln(c.deps.Console, line); err != nil {
		c.logger.Debug("chat_echo_failed", zap.Error(err))
	}
}

// send posts text to room. Empty text is not sent.
func (c *Chatter) send(ctx context.Context, room Room, text string) error {
	if text == "" {
		return nil
	}
	if c.deps.Sender == nil {
		return fmt.Errorf("no sender configured")
	}
	err := c.deps.Sender.SendChat(ctx, c.info.ID, room, text)
	if err != nil {
		metrics.MessagesSent.WithLabelValues(roomLabel(room), "error").Inc()
		c.logger.Warn("chat_send_failed", zap.String("room", string(room)), zap.Error(err))
		return err
	}
	metrics.MessagesSent.WithLabelValues(roomLabel(room), "ok").Inc()
	return nil
}

// text renders a catalog entry; a broken template is logged and yields "".
func (c *Chatter) text(key string, data map[string]any) string {
	s, err := c.deps.Catalog.Render(key, data)
	if err != nil {
		c.logger.Error("chat_template_error", zap.String("key", key), zap.Error(err))
		return ""
	}
	return s
}

func (c *Chatter) reply(ctx context.Context, room Room, key string, data map[string]any) error {
	return c.send(ctx, room, c.text(key, data))
}

func (c *Chatter) engineName() string {
	if c.deps.Engine == nil {
		return ""
	}
	return c.deps.Engine.Name()
}

func roomLabel(r Room) string {
	if r == RoomPlayer {
		return string(RoomPlayer)
	}
	return string(RoomSpectator)
}
