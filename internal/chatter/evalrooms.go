package chatter

import (
	"context"
	"sort"
	"strings"

	"github.com/park285/chess-chatter/internal/util"
)

// EvalRooms is the set of rooms that asked for evaluation echoes.
// 방 단위 구독 집합: 같은 방의 중복 구독은 무시.
type EvalRooms struct {
	rooms map[Room]struct{}
}

// Add subscribes room and reports whether it was new.
func (e *EvalRooms) Add(room Room) bool {
	if e.rooms == nil {
		e.rooms = make(map[Room]struct{})
	}
	if _, ok := e.rooms[room]; ok {
		return false
	}
	e.rooms[room] = struct{}{}
	return true
}

func (e *EvalRooms) Remove(room Room) { delete(e.rooms, room) }

func (e *EvalRooms) Has(room Room) bool {
	_, ok := e.rooms[room]
	return ok
}

// Rooms returns subscribers in name order.
func (e *EvalRooms) Rooms() []Room {
	out := make([]Room, 0, len(e.rooms))
	for r := range e.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

const (
	// Without increment, !printeval subscribes only from 3+0 upwards.
	printEvalMinInitialMS = 180_000
	// Below this clock we stop echoing in games without increment.
	printEvalMinClockSec = 30
)

// PrintEval sends the latest evaluation to every subscribed room. It stays
// silent when the bot is short on time in a game without increment.
func (c *Chatter) PrintEval(ctx context.Context) {
	if c.info.IncrementMS == 0 && c.game.OwnTime().Seconds() < printEvalMinClockSec {
		return
	}
	for _, room := range c.evalRooms.Rooms() {
		c.sendLastMessage(ctx, room)
	}
}

func (c *Chatter) printEvalCommand(ctx context.Context, room Room) {
	// 증가 없는 3분 미만 대국: 구독 없이 1회만 출력
	if c.info.IncrementMS == 0 && c.info.InitialTimeMS < printEvalMinInitialMS {
		c.sendLastMessage(ctx, room)
		return
	}
	if !c.evalRooms.Add(room) {
		return
	}
	c.reply(ctx, room, "chat.eval.quiet_hint", nil)
	c.sendLastMessage(ctx, room)
}

func (c *Chatter) sendLastMessage(ctx context.Context, room Room) error {
	msg := util.CollapseSpaces(strings.ReplaceAll(c.game.LastMessage(), "Engine", "Evaluation"))
	if room == RoomSpectator {
		msg = c.renderPV(msg)
	}
	return c.send(ctx, room, msg)
}
