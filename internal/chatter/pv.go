package chatter

import (
	"fmt"
	"strings"

	"github.com/park285/chess-chatter/internal/chess"
	"github.com/park285/chess-chatter/internal/util"
)

// RenderPV appends as much of the principal variation as fits in one chat
// message to initial. pv[0] is the move the engine was searching for and is
// skipped. When it is our turn, the PV was computed before our last move, so
// rendering starts one ply back. If no move fits, initial comes back as is.
func RenderPV(pv []string, current *chess.Board, ourTurn bool, initial string) string {
	if len(pv) < 2 || current == nil {
		return initial
	}

	var board *chess.Board
	if ourTurn {
		prev, err := current.WithoutLastMove()
		if err != nil {
			return initial
		}
		board = prev
	} else {
		board = current.Clone()
	}

	var sb strings.Builder
	sb.WriteString(initial)
	if initial != "" {
		sb.WriteByte(' ')
	}
	if board.WhiteToMove() {
		sb.WriteString("PV:")
	} else {
		fmt.Fprintf(&sb, "PV: %d...", board.FullmoveNumber())
	}

	line := sb.String()
	rendered := 0
	for _, mv := range pv[1:] {
		next := line
		if board.WhiteToMove() {
			next += fmt.Sprintf(" %d.", board.FullmoveNumber())
		}
		san, err := board.SAN(mv)
		if err != nil {
			break
		}
		next += " " + san
		if util.CharLen(next) > util.ChatLimit {
			break
		}
		if err := board.Push(mv); err != nil {
			break
		}
		line = next
		rendered++
	}
	if rendered == 0 {
		return initial
	}
	return line
}

func (c *Chatter) renderPV(initial string) string {
	return RenderPV(c.game.LastPV(), c.game.Board(), c.game.IsOurTurn(), initial)
}
