package chatter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/park285/chess-chatter/internal/chess"
)

type sentMsg struct {
	room Room
	text string
}

type fakeSender struct {
	msgs       []sentMsg
	failPrefix string
}

func (f *fakeSender) SendChat(_ context.Context, _ string, room Room, text string) error {
	if f.failPrefix != "" && strings.HasPrefix(text, f.failPrefix) {
		return errors.New("send failed")
	}
	f.msgs = append(f.msgs, sentMsg{room: room, text: text})
	return nil
}

func (f *fakeSender) texts() []string {
	out := make([]string, 0, len(f.msgs))
	for _, m := range f.msgs {
		out = append(out, m.text)
	}
	return out
}

func (f *fakeSender) reset() { f.msgs = nil }

type fakeEngine struct {
	name  string
	res   chess.HintResult
	err   error
	calls int
}

func (e *fakeEngine) Name() string { return e.name }

func (e *fakeEngine) Hint(_ context.Context, _ *chess.Board) (chess.HintResult, error) {
	e.calls++
	return e.res, e.err
}

type fakeAccount struct{ err error }

func (a fakeAccount) Ping(context.Context) error { return a.err }

type fakeGame struct {
	board     *chess.Board
	white     bool
	ourTurn   bool
	abortable bool
	ownTime   time.Duration
	pv        []string
	last      string
	scores    []chess.Score
}

func (g *fakeGame) Board() *chess.Board { return g.board }
func (g *fakeGame) IsWhite() bool { return g.white }
func (g *fakeGame) IsOurTurn() bool { return g.ourTurn }
func (g *fakeGame) IsAbortable() bool { return g.abortable }
func (g *fakeGame) OwnTime() time.Duration { return g.ownTime }
func (g *fakeGame) LastPV() []string { return g.pv }
func (g *fakeGame) LastMessage() string { return g.last }
func (g *fakeGame) Scores() []chess.Score { return g.scores }

type denyAll struct{ calls int }

func (d *denyAll) Allow(context.Context, string) bool {
	d.calls++
	return false
}

type countingLimiter struct {
	max   int
	calls int
}

func (l *countingLimiter) Allow(context.Context, string) bool {
	l.calls++
	return l.calls <= l.max
}

type fixture struct {
	chatter *Chatter
	sender  *fakeSender
	engine  *fakeEngine
	game    *fakeGame
	console *bytes.Buffer
}

func mustBoard(t *testing.T, moves ...string) *chess.Board {
	t.Helper()
	b, err := chess.NewBoard("", moves)
	if err != nil {
		t.Fatalf("NewBoard(%v): %v", moves, err)
	}
	return b
}

// newFixture builds a chatter for a casual 5+0 game in which the bot plays
// white and has just played 1.e4.
func newFixture(t *testing.T, mutate func(*Settings, *GameInfo, *fakeGame, *Deps)) *fixture {
	t.Helper()
	score := chess.CP(35)
	f := &fixture{
		sender:  &fakeSender{},
		engine:  &fakeEngine{name: "Stockfish 17", res: chess.HintResult{Move: "e7e5", Score: &score}},
		console: &bytes.Buffer{},
		game: &fakeGame{
			board:   mustBoard(t, "e2e4"),
			white:   true,
			ownTime: 5 * time.Minute,
			last:    "Engine: +0.35",
		},
	}
	settings := Settings{
		Username:        "chatbot",
		Version:         "1.4.0",
		CommandsEnabled: true,
		CPU:             "AMD Ryzen 9 5950X 16-Core Processor",
		RAM:             "62.7 GiB",
	}
	info := GameInfo{
		ID:            "abcd1234",
		Variant:       VariantStandard,
		WhiteName:     "chatbot",
		BlackName:     "alice",
		WhiteTitle:    "BOT",
		InitialTimeMS: 300_000,
	}
	deps := Deps{
		Sender:  f.sender,
		Account: fakeAccount{},
		Engine:  f.engine,
		Console: f.console,
	}
	if mutate != nil {
		mutate(&settings, &info, f.game, &deps)
	}
	f.chatter = New(settings, info, f.game, deps)
	return f
}

func (f *fixture) say(room Room, user, text string) {
	f.chatter.HandleChatMessage(context.Background(), ChatEvent{Room: room, Username: user, Text: text})
}

func (f *fixture) expect(t *testing.T, want ...string) {
	t.Helper()
	got := f.sender.texts()
	if len(got) != len(want) {
		t.Fatalf("expected %d messages %q, got %d %q", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("message %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func chessHint(move string, score *chess.Score) chess.HintResult {
	return chess.HintResult{Move: move, Score: score}
}
