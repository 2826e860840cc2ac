package chatter

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRenderPV(t *testing.T) {
	cases := []struct {
		name    string
		played  []string
		ourTurn bool
		pv      []string
		initial string
		want    string
	}{
		{"black to move", []string{"e2e4"}, false, []string{"e2e4", "e7e5", "g1f3", "b8c6"}, "", "PV: 1... e5 2. Nf3 Nc6"},
		{"our turn rewinds", []string{"e2e4", "e7e5"}, true, []string{"e2e4", "e7e5", "g1f3"}, "", "PV: 1... e5 2. Nf3"},
		{"white to move", []string{"e2e4", "e7e5"}, false, []string{"e7e5", "g1f3", "b8c6"}, "", "PV: 2. Nf3 Nc6"},
		{"with prefix", []string{"e2e4"}, false, []string{"e2e4", "e7e5"}, "Evaluation: +0.35", "Evaluation: +0.35 PV: 1... e5"},
		{"too short", []string{"e2e4"}, false, []string{"e2e4"}, "x", "x"},
		{"illegal first move", []string{"e2e4"}, false, []string{"e2e4", "e2e4"}, "x", "x"},
		{"stops at illegal move", []string{"e2e4"}, false, []string{"e2e4", "e7e5", "a1a8"}, "", "PV: 1... e5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RenderPV(tc.pv, mustBoard(t, tc.played...), tc.ourTurn, tc.initial)
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestRenderPVRespectsChatLimit(t *testing.T) {
	board := mustBoard(t, "e2e4")
	pv := []string{"e2e4", "e7e5", "g1f3", "b8c6"}

	initial := strings.Repeat("x", 125)
	got := RenderPV(pv, board, false, initial)
	if got != initial+" PV: 1... e5" || len(got) != 137 {
		t.Fatalf("got %q (%d)", got, len(got))
	}

	initial = strings.Repeat("x", 135)
	if got := RenderPV(pv, board, false, initial); got != initial {
		t.Fatalf("nothing fits, expected initial back, got %q", got)
	}

	long := []string{"e2e4"}
	for i := 0; i < 20; i++ {
		long = append(long, "g8f6", "g1f3", "f6g8", "f3g1")
	}
	if got := RenderPV(long, board, false, ""); len(got) > 140 {
		t.Fatalf("rendered %d characters", len(got))
	}
}

func TestRenderPVLeavesBoardUntouched(t *testing.T) {
	board := mustBoard(t, "e2e4")
	RenderPV([]string{"e2e4", "e7e5", "g1f3"}, board, false, "")
	RenderPV([]string{"e2e4", "e7e5", "g1f3"}, board, true, "")
	if board.Ply() != 1 {
		t.Fatalf("board mutated, ply=%d", board.Ply())
	}
}

func TestEvalRoomsSet(t *testing.T) {
	var e EvalRooms
	if !e.Add(RoomSpectator) || !e.Add(RoomPlayer) || e.Add(RoomPlayer) {
		t.Fatalf("unexpected Add results")
	}
	if got := e.Rooms(); len(got) != 2 || got[0] != RoomPlayer || got[1] != RoomSpectator {
		t.Fatalf("rooms %v", got)
	}
	e.Remove(RoomPlayer)
	e.Remove(Room("nobody"))
	if e.Has(RoomPlayer) || !e.Has(RoomSpectator) {
		t.Fatalf("remove failed")
	}
}

func TestPrintEvalSubscription(t *testing.T) {
	f := newFixture(t, nil)
	f.say(RoomPlayer, "alice", "!printeval")
	f.expect(t, "Type !quiet to stop eval printing.", "Evaluation: +0.35")

	f.sender.reset()
	f.say(RoomPlayer, "alice", "!printeval")
	f.expect(t)

	f.say(RoomSpectator, "bob", "!printeval")
	f.sender.reset()
	f.game.last = "Engine: -0.10"
	f.chatter.PrintEval(context.Background())
	f.expect(t, "Evaluation: -0.10", "Evaluation: -0.10")
	if f.sender.msgs[0].room != RoomPlayer || f.sender.msgs[1].room != RoomSpectator {
		t.Fatalf("rooms out of order: %+v", f.sender.msgs)
	}

	f.sender.reset()
	f.say(RoomPlayer, "alice", "!quiet")
	f.chatter.PrintEval(context.Background())
	f.expect(t, "Evaluation: -0.10")
	if got := f.chatter.EvalRooms(); len(got) != 1 || got[0] != RoomSpectator {
		t.Fatalf("eval rooms %v", got)
	}
}

func TestPrintEvalShortTimeControl(t *testing.T) {
	f := newFixture(t, func(_ *Settings, i *GameInfo, _ *fakeGame, _ *Deps) { i.InitialTimeMS = 60_000 })
	f.say(RoomPlayer, "alice", "!printeval")
	f.expect(t, "Evaluation: +0.35")
	if len(f.chatter.EvalRooms()) != 0 {
		t.Fatalf("bullet game subscribed")
	}

	f = newFixture(t, func(_ *Settings, i *GameInfo, _ *fakeGame, _ *Deps) {
		i.InitialTimeMS = 60_000
		i.IncrementMS = 1_000
	})
	f.say(RoomPlayer, "alice", "!printeval")
	f.expect(t, "Type !quiet to stop eval printing.", "Evaluation: +0.35")
}

func TestPrintEvalSilentWhenLowOnTime(t *testing.T) {
	f := newFixture(t, nil)
	f.say(RoomPlayer, "alice", "!printeval")
	f.sender.reset()
	f.game.ownTime = 20 * time.Second
	f.chatter.PrintEval(context.Background())
	f.expect(t)

	f = newFixture(t, func(_ *Settings, i *GameInfo, g *fakeGame, _ *Deps) {
		i.IncrementMS = 2_000
		g.ownTime = 5 * time.Second
	})
	f.say(RoomPlayer, "alice", "!printeval")
	f.sender.reset()
	f.chatter.PrintEval(context.Background())
	f.expect(t, "Evaluation: +0.35")
}
