package chess

import (
	"errors"
	"fmt"
)

var ErrScoreUnavailable = errors.New("score unavailable")

type ScoreKind int

const (
	ScoreUnknown ScoreKind = iota
	ScoreCentipawns
	ScoreMate
)

// Score is an engine evaluation from the bot's point of view. For mate
// scores Value is the signed number of moves to mate.
type Score struct {
	Kind  ScoreKind
	Value int
}

func CP(v int) Score { return Score{Kind: ScoreCentipawns, Value: v} }

func MateIn(n int) Score { return Score{Kind: ScoreMate, Value: n} }

func (s Score) IsMate() bool { return s.Kind == ScoreMate }

func (s Score) Known() bool { return s.Kind == ScoreCentipawns || s.Kind == ScoreMate }

// Pawns converts a centipawn score to pawns.
func (s Score) Pawns() float64 { return float64(s.Value) / 100 }

// FormatScore renders "+0.35" for centipawns and "#3" / "#-2" for mates.
func FormatScore(s Score) (string, error) {
	switch s.Kind {
	case ScoreCentipawns:
		return fmt.Sprintf("%+.2f", s.Pawns()), nil
	case ScoreMate:
		return fmt.Sprintf("#%d", s.Value), nil
	default:
		return "", ErrScoreUnavailable
	}
}
