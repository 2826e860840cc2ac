package botapi

import (
	"context"
	"errors"

	"github.com/park285/chess-chatter/internal/chatter"
	"go.uber.org/zap"
)

// Egress sends chat lines over HTTP or the WebSocket.
type Egress interface {
	SendChat(ctx context.Context, gameID string, room chatter.Room, text string) error
}

type transportMode string

const (
	transportHTTP transportMode = "http"
	transportWS   transportMode = "ws"
	transportAuto transportMode = "auto"
)

// NewEgress picks a transport by mode. In auto mode the WebSocket is tried
// first when connected, with a single HTTP fallback. Unknown modes use HTTP.
// With dryrun set, nothing leaves the process.
// auto 모드 폴백은 1회만: HTTP까지 실패하면 에러 반환.
func NewEgress(mode string, dryrun bool, c *Client, ws *WebSocket, logger *zap.Logger) Egress {
	if logger == nil {
		logger = zap.NewNop()
	}
	var out Egress
	switch transportMode(mode) {
	case transportWS:
		out = &wsEgress{ws: ws}
	case transportAuto:
		out = &autoEgress{ws: &wsEgress{ws: ws}, http: &httpEgress{c: c}, logger: logger}
	default:
		out = &httpEgress{c: c}
	}
	if dryrun {
		return &dryrunEgress{logger: logger}
	}
	return out
}

type httpEgress struct{ c *Client }

func (h *httpEgress) SendChat(ctx context.Context, gameID string, room chatter.Room, text string) error {
	if h == nil || h.c == nil {
		return errors.New("http egress not available")
	}
	return h.c.SendChat(ctx, gameID, room, text)
}

type wsEgress struct{ ws *WebSocket }

func (w *wsEgress) connected() bool {
	return w != nil && w.ws != nil && w.ws.State() == WSStateConnected
}

func (w *wsEgress) SendChat(ctx context.Context, gameID string, room chatter.Room, text string) error {
	if w == nil || w.ws == nil {
		return errors.New("ws egress not available")
	}
	return w.ws.WriteJSON(ctx, &ChatRequest{Type: "chat", GameID: gameID, Room: string(room), Text: text})
}

type autoEgress struct {
	ws     *wsEgress
	http   *httpEgress
	logger *zap.Logger
}

func (a *autoEgress) SendChat(ctx context.Context, gameID string, room chatter.Room, text string) error {
	if a.ws.connected() {
		err := a.ws.SendChat(ctx, gameID, room, text)
		if err == nil {
			return nil
		}
		a.logger.Warn("egress_fallback",
			zap.String("game_id", gameID),
			zap.String("room", string(room)),
			zap.Bool("timeout", isTimeout(err)),
			zap.Error(err),
		)
	}
	return a.http.SendChat(ctx, gameID, room, text)
}

type dryrunEgress struct{ logger *zap.Logger }

func (d *dryrunEgress) SendChat(_ context.Context, gameID string, room chatter.Room, text string) error {
	d.logger.Info("egress_dryrun", zap.String("game_id", gameID), zap.String("room", string(room)), zap.String("text", text))
	return nil
}
