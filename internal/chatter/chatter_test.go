package chatter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/park285/chess-chatter/internal/chess"
)

func TestSystemMessagesAreOnlyEchoed(t *testing.T) {
	f := newFixture(t, nil)
	f.say(RoomPlayer, SystemUsername, "Takeback sent")
	f.say(RoomSpectator, SystemUsername, "spectator notice")
	f.expect(t)
	if got := f.console.String(); got != "Takeback sent\n" {
		t.Fatalf("console %q", got)
	}
}

func TestOtherUsersAreEchoedWithWrap(t *testing.T) {
	f := newFixture(t, nil)
	f.say(RoomSpectator, "bob", strings.Repeat("y", 130))
	lines := strings.Split(strings.TrimSuffix(f.console.String(), "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "bob (spectator): ") || len(lines[0]) != 128 {
		t.Fatalf("unexpected echo %q", f.console.String())
	}
	if !strings.HasPrefix(lines[1], strings.Repeat(" ", len("bob (spectator): "))+"y") {
		t.Fatalf("continuation not aligned: %q", lines[1])
	}
	f.console.Reset()
	f.say(RoomPlayer, "chatbot", "hello")
	if f.console.Len() != 0 {
		t.Fatalf("own lines must not be echoed")
	}
}

func TestCommandsDisabled(t *testing.T) {
	f := newFixture(t, func(s *Settings, _ *GameInfo, _ *fakeGame, _ *Deps) { s.CommandsEnabled = false })
	f.say(RoomPlayer, "alice", "!eval")
	f.say(RoomSpectator, "bob", "FirstHint")
	f.say(RoomPlayer, "alice", "good game")
	msg := "Commands are not currently supported at this time."
	f.expect(t, msg, msg)
	if f.engine.calls != 0 || f.chatter.HintsGiven() != 0 {
		t.Fatalf("disabled commands had side effects")
	}
}

func TestUnknownCommandAndPlainTextAreIgnored(t *testing.T) {
	f := newFixture(t, nil)
	f.say(RoomPlayer, "alice", "!dance")
	f.say(RoomPlayer, "alice", "nice move")
	f.say(RoomPlayer, "alice", "!CPU ")
	f.expect(t)
}

func TestStaticCommands(t *testing.T) {
	f := newFixture(t, func(s *Settings, _ *GameInfo, _ *fakeGame, _ *Deps) {
		s.Books = []string{"Perfect2023", "Titans"}
		s.Tablebases = []Tablebase{{Name: "Syzygy", MaxPieces: 6}, {Name: "Gaviota", MaxPieces: 5}}
	})
	for _, cmd := range []string{"!CPU", "!ram", "!motor", "!name", "!book", "!egtb"} {
		f.say(RoomPlayer, "alice", cmd)
	}
	f.expect(t,
		"AMD Ryzen 9 5950X 16-Core Processor",
		"62.7 GiB",
		"Stockfish 17",
		"chatbot running Stockfish 17 (BotLi 1.4.0)",
		"Using opening books: Perfect2023, Titans",
		"Using endgame tablebases: Syzygy (up to 6 pieces), Gaviota (up to 5 pieces)",
	)
}

func TestBookAndTablebaseNone(t *testing.T) {
	f := newFixture(t, nil)
	f.say(RoomPlayer, "alice", "!book")
	f.say(RoomPlayer, "alice", "!egtb")
	f.expect(t, "Not using any opening books.", "Not using any endgame tablebases.")
}

func TestDrawMessage(t *testing.T) {
	f := newFixture(t, nil)
	f.say(RoomPlayer, "alice", "!draw")
	f.expect(t, "This bot will neither accept nor offer draws.")

	f = newFixture(t, func(s *Settings, _ *GameInfo, _ *fakeGame, _ *Deps) {
		s.Draw = DrawPolicy{Enabled: true, Score: 15, MinGameLength: 35, ConsecutiveMoves: 6}
	})
	f.say(RoomPlayer, "alice", "!draw")
	f.expect(t, "The bot offers draw at move 35 or later if the eval is within +0.15 to -0.15 for the last 6 moves.")
}

func TestEvalCommand(t *testing.T) {
	f := newFixture(t, func(_ *Settings, _ *GameInfo, g *fakeGame, _ *Deps) {
		g.last = "Engine:   +0.35  depth 20\tnodes 1M"
		g.pv = []string{"e2e4", "e7e5", "g1f3"}
	})
	f.say(RoomPlayer, "alice", "!eval")
	f.say(RoomSpectator, "bob", "!eval")
	f.expect(t,
		"Evaluation: +0.35 depth 20 nodes 1M",
		"Evaluation: +0.35 depth 20 nodes 1M PV: 1... e5 2. Nf3",
	)
}

func TestPVCommand(t *testing.T) {
	f := newFixture(t, nil)
	f.say(RoomPlayer, "alice", "!pv")
	f.expect(t)
	f.say(RoomSpectator, "bob", "!pv")
	f.expect(t, "No PV available.")

	f.sender.reset()
	f.game.pv = []string{"e2e4", "e7e5", "g1f3", "b8c6"}
	f.say(RoomSpectator, "bob", "!pv")
	f.expect(t, "PV: 1... e5 2. Nf3 Nc6")
}

func TestHelpIsTruncatedPerRoom(t *testing.T) {
	f := newFixture(t, nil)
	f.say(RoomPlayer, "alice", "!help")
	f.say(RoomSpectator, "bob", "!commands")
	got := f.sender.texts()
	if len(got) != 2 {
		t.Fatalf("expected two replies, got %q", got)
	}
	for _, msg := range got {
		if len(msg) != 140 || !strings.HasSuffix(msg, "...") || !strings.HasPrefix(msg, "Supported commands: !cpu") {
			t.Fatalf("unexpected help %q", msg)
		}
	}
	if strings.Contains(got[0], "!pv") {
		t.Fatalf("player help lists !pv: %q", got[0])
	}
	if !strings.Contains(got[1], "!pv") {
		t.Fatalf("spectator help misses !pv: %q", got[1])
	}
}

func TestHelpFallsBackWhenSendFails(t *testing.T) {
	f := newFixture(t, nil)
	f.sender.failPrefix = "Supported commands: !cpu"
	f.say(RoomPlayer, "alice", "!help")
	f.expect(t, "Supported commands: !help, !game, !opening, !eval, !name, !motor, !cpu, !ram, !draw")
}

func TestOpeningCommand(t *testing.T) {
	f := newFixture(t, func(_ *Settings, _ *GameInfo, g *fakeGame, _ *Deps) {
		g.board = mustBoard(t, "e2e4", "c7c5", "g1f3")
	})
	f.say(RoomPlayer, "alice", "!opening")
	f.expect(t, "Current opening: Sicilian Defense (1.e4 c5)")

	f = newFixture(t, func(_ *Settings, _ *GameInfo, g *fakeGame, _ *Deps) { g.board = mustBoard(t) })
	f.say(RoomPlayer, "alice", "!opening")
	f.expect(t, "Current opening: Starting Position ()")

	f = newFixture(t, func(_ *Settings, i *GameInfo, _ *fakeGame, _ *Deps) { i.Variant = "chess960" })
	f.say(RoomPlayer, "alice", "!opening")
	f.expect(t, "Opening names are only available for standard chess.")
}

func TestStatsCommand(t *testing.T) {
	f := newFixture(t, func(_ *Settings, _ *GameInfo, g *fakeGame, _ *Deps) {
		g.board = mustBoard(t, "e2e4", "d7d5", "e4d5")
	})
	f.say(RoomSpectator, "bob", "!stats")
	f.expect(t, "Position stats: Material advantage: 1 (P:1 N:0 B:0 R:0 Q:0), Phase: Opening, Turn: Black (move 2)")
}

func TestGameCommand(t *testing.T) {
	cases := []struct {
		name   string
		scores []chess.Score
		want   string
	}{
		{"none", nil, "I'm currently analyzing the position."},
		{"mate win", []chess.Score{chess.CP(10), chess.MateIn(3)}, "I'm winning and have a forced mate in 3 moves!"},
		{"mate loss", []chess.Score{chess.MateIn(-2)}, "I'm losing and facing mate in 2 moves."},
		{"mate zero", []chess.Score{chess.MateIn(0)}, "The game is drawn by mate."},
		{"winning", []chess.Score{chess.CP(123)}, "I'm winning by 1.2 pawns."},
		{"losing", []chess.Score{chess.CP(-250)}, "I'm losing by 2.5 pawns."},
		{"even", []chess.Score{chess.CP(50)}, "The game is evenly balanced."},
		{"unknown", []chess.Score{{}}, "Analysis unavailable."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, func(_ *Settings, _ *GameInfo, g *fakeGame, _ *Deps) { g.scores = tc.scores })
			f.say(RoomPlayer, "alice", "!game")
			f.expect(t, tc.want)
		})
	}
}

func TestPingCommand(t *testing.T) {
	f := newFixture(t, nil)
	f.say(RoomPlayer, "alice", "!ping")
	got := f.sender.texts()
	if len(got) != 1 || !strings.HasPrefix(got[0], "Ping to Lichess: ") || !strings.HasSuffix(got[0], "ms") {
		t.Fatalf("unexpected ping reply %q", got)
	}

	f = newFixture(t, func(_ *Settings, _ *GameInfo, _ *fakeGame, d *Deps) {
		d.Account = fakeAccount{err: errors.New("timeout")}
	})
	f.say(RoomPlayer, "alice", "!ping")
	f.expect(t, "Could not measure ping to Lichess.")
}

func TestRateLimitedCommandsAreDropped(t *testing.T) {
	limiter := &denyAll{}
	f := newFixture(t, func(_ *Settings, _ *GameInfo, _ *fakeGame, d *Deps) { d.Limiter = limiter })
	f.say(RoomPlayer, "alice", "!cpu")
	f.say(RoomPlayer, "alice", "firsthint")
	f.say(RoomPlayer, "alice", "hello")
	f.say(RoomPlayer, "alice", "!foo")
	f.say(RoomSpectator, "bob", "!")
	f.expect(t)
	if limiter.calls != 2 {
		t.Fatalf("limiter consulted %d times", limiter.calls)
	}
}

func TestGreetingsAndGoodbyes(t *testing.T) {
	f := newFixture(t, func(s *Settings, _ *GameInfo, g *fakeGame, _ *Deps) {
		s.Messages = Messages{
			Greeting:          "Hi {opponent}, I'm {me} on {engine}.",
			GoodbyeSpectators: "Thanks for watching {nobody}!",
		}
		g.abortable = true
	})
	f.chatter.SendGreetings(context.Background())
	f.chatter.SendGoodbyes(context.Background())
	f.expect(t, "Hi alice, I'm chatbot on Stockfish 17.")
	if f.sender.msgs[0].room != RoomPlayer {
		t.Fatalf("greeting sent to %s", f.sender.msgs[0].room)
	}

	f.sender.reset()
	f.game.abortable = false
	f.chatter.SendGoodbyes(context.Background())
	f.expect(t, "Thanks for watching !")
	if f.sender.msgs[0].room != RoomSpectator {
		t.Fatalf("goodbye sent to %s", f.sender.msgs[0].room)
	}
}

func TestAbortionMessage(t *testing.T) {
	f := newFixture(t, nil)
	f.chatter.SendAbortionMessage(context.Background())
	f.expect(t, "Too bad you weren't there. Feel free to challenge me again, I will accept the challenge if possible.")
	if f.sender.msgs[0].room != RoomPlayer {
		t.Fatalf("sent to %s", f.sender.msgs[0].room)
	}
}

func TestRenderTemplate(t *testing.T) {
	v := TemplateValues{Opponent: "alice", Me: "bot", Engine: "SF", CPU: "cpu", RAM: "8 GiB"}
	cases := map[string]string{
		"":                         "",
		"{me} vs {opponent}":       "bot vs alice",
		"{engine} on {cpu}, {ram}": "SF on cpu, 8 GiB",
		"{unknown}x":               "x",
		"{{literal}} {me}":         "{literal} bot",
		"open {brace":              "open {brace",
	}
	for tpl, want := range cases {
		if got := RenderTemplate(tpl, v); got != want {
			t.Fatalf("RenderTemplate(%q)=%q want %q", tpl, got, want)
		}
	}
}

func TestUnknownCommandsDoNotSpendQuota(t *testing.T) {
	limiter := &countingLimiter{max: 1}
	f := newFixture(t, func(_ *Settings, _ *GameInfo, _ *fakeGame, d *Deps) { d.Limiter = limiter })
	for i := 0; i < 5; i++ {
		f.say(RoomPlayer, "alice", "!dance")
	}
	f.say(RoomPlayer, "alice", "!cpu")
	f.expect(t, "AMD Ryzen 9 5950X 16-Core Processor")
	if limiter.calls != 1 {
		t.Fatalf("limiter consulted %d times", limiter.calls)
	}
}
