package games

import (
	"context"
	"strings"
	"time"

	"github.com/park285/chess-chatter/internal/botapi"
	"github.com/park285/chess-chatter/internal/chatter"
	"github.com/park285/chess-chatter/internal/chess"
	"go.uber.org/zap"
)

const mailboxSize = 64

// Session is the live state of one game. All fields are owned by the
// session goroutine.
type Session struct {
	id         string
	white      bool
	initialFEN string
	board      *chess.Board
	wtimeMS    int64
	btimeMS    int64

	lastPV      []string
	lastMessage string
	scores      []chess.Score

	chatter    *chatter.Chatter
	transcript chatter.Transcript
	logger     *zap.Logger

	mailbox chan *botapi.Event
	stop    chan struct{}
	done    chan struct{}
}

func newSession(id string, full *botapi.GameFull, settings chatter.Settings, deps chatter.Deps, logger *zap.Logger) (*Session, error) {
	board, err := chess.NewBoard(full.InitialFEN, nil)
	if err != nil {
		return nil, err
	}
	s := &Session{
		id:         id,
		white:      strings.EqualFold(full.White.Name, settings.Username),
		initialFEN: full.InitialFEN,
		board:      board,
		transcript: deps.Transcript,
		wtimeMS:    full.Clock.InitialMS,
		btimeMS:    full.Clock.InitialMS,
		logger:     logger.With(zap.String("game_id", id)),
		mailbox:    make(chan *botapi.Event, mailboxSize),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	if full.State != nil {
		s.applyState(full.State)
	}
	info := chatter.GameInfo{
		ID:            id,
		Variant:       full.Variant,
		Rated:         full.Rated,
		WhiteName:     full.White.Name,
		BlackName:     full.Black.Name,
		WhiteTitle:    full.White.Title,
		BlackTitle:    full.Black.Title,
		InitialTimeMS: full.Clock.InitialMS,
		IncrementMS:   full.Clock.IncrementMS,
	}
	s.chatter = chatter.New(settings, info, s, deps)
	return s, nil
}

// run handles events until the game finishes or stop is closed. Events
// already queued at stop are still handled. onFinish is called once the game
// is over.
func (s *Session) run(ctx context.Context, onFinish func()) {
	defer close(s.done)
	s.chatter.SendGreetings(ctx)
	for {
		select {
		case ev := <-s.mailbox:
			if s.handle(ctx, ev) {
				onFinish()
				return
			}
		case <-s.stop:
			// 종료 요청 시점에 이미 큐에 쌓인 이벤트까지 처리 후 종료
			for {
				select {
				case ev := <-s.mailbox:
					if s.handle(ctx, ev) {
						onFinish()
						return
					}
				default:
					return
				}
			}
		}
	}
}

func (s *Session) handle(ctx context.Context, ev *botapi.Event) (finished bool) {
	switch ev.Type {
	case botapi.EventGameState:
		if ev.State == nil {
			return false
		}
		s.applyState(ev.State)
		s.chatter.PrintEval(ctx)
	case botapi.EventAnalysis:
		if ev.Analysis != nil {
			s.applyAnalysis(ev.Analysis)
		}
	case botapi.EventChatLine:
		if ev.Chat == nil {
			return false
		}
		s.chatter.HandleChatMessage(ctx, chatter.ChatEvent{
			Room:     chatter.Room(ev.Chat.Room),
			Username: ev.Chat.Username,
			Text:     ev.Chat.Text,
		})
	case botapi.EventGameFinish:
		if strings.EqualFold(ev.Status, "aborted") {
			s.chatter.SendAbortionMessage(ctx)
		} else {
			s.chatter.SendGoodbyes(ctx)
		}
		// 종료된 대국의 메모리 트랜스크립트 해제 (DB 저장분은 유지)
		if s.transcript != nil {
			s.transcript.Forget(s.id)
		}
		s.logger.Info("game_finished", zap.String("status", ev.Status), zap.Int("hints", s.chatter.HintsGiven()))
		return true
	default:
		s.logger.Debug("game_event_ignored", zap.String("type", ev.Type))
	}
	return false
}

func (s *Session) applyState(st *botapi.GameState) {
	board, err := chess.NewBoard(s.initialFEN, strings.Fields(st.Moves))
	if err != nil {
		s.logger.Warn("game_state_rejected", zap.Error(err))
		return
	}
	s.board = board
	s.wtimeMS, s.btimeMS = st.WTime, st.BTime
}

func (s *Session) applyAnalysis(a *botapi.Analysis) {
	s.lastPV = append([]string(nil), a.PV...)
	s.lastMessage = a.Message
	if a.Score == nil {
		return
	}
	switch {
	case a.Score.Mate != nil:
		s.scores = append(s.scores, chess.MateIn(*a.Score.Mate))
	case a.Score.CP != nil:
		s.scores = append(s.scores, chess.CP(*a.Score.CP))
	}
}

func (s *Session) Board() *chess.Board { return s.board }
func (s *Session) IsWhite() bool { return s.white }

func (s *Session) IsOurTurn() bool { return s.board.WhiteToMove() == s.white }

// IsAbortable is true until both sides have moved.
func (s *Session) IsAbortable() bool { return s.board.Ply() < 2 }

func (s *Session) OwnTime() time.Duration {
	ms := s.btimeMS
	if s.white {
		ms = s.wtimeMS
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *Session) LastPV() []string { return s.lastPV }
func (s *Session) LastMessage() string { return s.lastMessage }
func (s *Session) Scores() []chess.Score { return s.scores }
