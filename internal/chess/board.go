package chess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
)

var ErrNoMoves = errors.New("board has no moves to take back")

// Board is a position reached from a start FEN by a list of UCI moves.
type Board struct {
	startFEN string
	moves    []string
	game     *nchess.Game
}

// NewBoard replays moves (UCI) from fen. An empty fen or "startpos" means the
// standard initial position.
func NewBoard(fen string, moves []string) (*Board, error) {
	game, err := newGame(fen)
	if err != nil {
		return nil, err
	}
	b := &Board{startFEN: strings.TrimSpace(fen), game: game}
	for _, mv := range moves {
		if err := b.Push(mv); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func newGame(fen string) (*nchess.Game, error) {
	fen = strings.TrimSpace(fen)
	if fen == "" || fen == "startpos" {
		return nchess.NewGame(), nil
	}
	option, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return nchess.NewGame(option), nil
}

func (b *Board) StartFEN() string { return b.startFEN }

// MovesUCI returns a copy of the move history.
func (b *Board) MovesUCI() []string { return append([]string(nil), b.moves...) }

func (b *Board) Ply() int { return len(b.moves) }

func (b *Board) FEN() string { return b.game.FEN() }

func (b *Board) Turn() nchess.Color { return b.game.Position().Turn() }

func (b *Board) WhiteToMove() bool { return b.Turn() == nchess.White }

// FullmoveNumber reads the move counter field of the current FEN.
func (b *Board) FullmoveNumber() int {
	fields := strings.Fields(b.game.FEN())
	if len(fields) < 6 {
		return len(b.moves)/2 + 1
	}
	n, err := strconv.Atoi(fields[5])
	if err != nil || n < 1 {
		return len(b.moves)/2 + 1
	}
	return n
}

// SAN renders a UCI move in standard algebraic notation for the current
// position without playing it.
func (b *Board) SAN(uci string) (string, error) {
	uci = strings.ToLower(strings.TrimSpace(uci))
	pos := b.game.Position()
	mv, err := nchess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return "", fmt.Errorf("decode %q: %w", uci, err)
	}
	// Decode does not check legality; a trial push on a copy does.
	if err := b.game.Clone().PushNotationMove(uci, nchess.UCINotation{}, nil); err != nil {
		return "", fmt.Errorf("illegal move %q: %w", uci, err)
	}
	return nchess.AlgebraicNotation{}.Encode(pos, mv), nil
}

// Push plays a UCI move.
func (b *Board) Push(uci string) error {
	uci = strings.ToLower(strings.TrimSpace(uci))
	if err := b.game.PushNotationMove(uci, nchess.UCINotation{}, nil); err != nil {
		return fmt.Errorf("apply move %q: %w", uci, err)
	}
	b.moves = append(b.moves, uci)
	return nil
}

func (b *Board) Clone() *Board {
	return &Board{
		startFEN: b.startFEN,
		moves:    append([]string(nil), b.moves...),
		game:     b.game.Clone(),
	}
}

// WithoutLastMove returns a copy of the board one ply earlier.
func (b *Board) WithoutLastMove() (*Board, error) {
	if len(b.moves) == 0 {
		return nil, ErrNoMoves
	}
	return NewBoard(b.startFEN, b.moves[:len(b.moves)-1])
}

// SANMoves returns the whole history in SAN.
func (b *Board) SANMoves() []string {
	positions := b.game.Positions()
	moves := b.game.Moves()
	out := make([]string, 0, len(moves))
	notation := nchess.AlgebraicNotation{}
	for i, mv := range moves {
		if i >= len(positions) {
			break
		}
		out = append(out, notation.Encode(positions[i], mv))
	}
	return out
}

// ECO looks up the ECO classification of the played moves.
func (b *Board) ECO() (string, string) {
	book := opening.NewBookECO()
	if book == nil {
		return "", ""
	}
	if eco := book.Find(b.game.Moves()); eco != nil {
		return eco.Code(), eco.Title()
	}
	return "", ""
}

var boardFiles = []nchess.File{nchess.FileA, nchess.FileB, nchess.FileC, nchess.FileD, nchess.FileE, nchess.FileF, nchess.FileG, nchess.FileH}
var boardRanks = []nchess.Rank{nchess.Rank1, nchess.Rank2, nchess.Rank3, nchess.Rank4, nchess.Rank5, nchess.Rank6, nchess.Rank7, nchess.Rank8}

// PieceCounts counts pieces on the board per color and type, kings included.
func (b *Board) PieceCounts() map[nchess.Color]map[nchess.PieceType]int {
	out := map[nchess.Color]map[nchess.PieceType]int{
		nchess.White: {},
		nchess.Black: {},
	}
	board := b.game.Position().Board()
	for _, rank := range boardRanks {
		for _, file := range boardFiles {
			piece := board.Piece(nchess.NewSquare(file, rank))
			if piece == nchess.NoPiece {
				continue
			}
			out[piece.Color()][piece.Type()]++
		}
	}
	return out
}

var materialWeights = []struct {
	kind   nchess.PieceType
	weight int
}{
	{nchess.Pawn, 1},
	{nchess.Knight, 3},
	{nchess.Bishop, 3},
	{nchess.Rook, 5},
	{nchess.Queen, 9},
}

// Material holds white-minus-black piece differences.
type Material struct {
	Pawns, Knights, Bishops, Rooks, Queens int
	Score                                  int
	Pieces                                 int
}

func (b *Board) Material() Material {
	counts := b.PieceCounts()
	diff := func(pt nchess.PieceType) int { return counts[nchess.White][pt] - counts[nchess.Black][pt] }
	m := Material{
		Pawns:   diff(nchess.Pawn),
		Knights: diff(nchess.Knight),
		Bishops: diff(nchess.Bishop),
		Rooks:   diff(nchess.Rook),
		Queens:  diff(nchess.Queen),
	}
	for _, w := range materialWeights {
		m.Score += diff(w.kind) * w.weight
	}
	for _, byType := range counts {
		for _, n := range byType {
			m.Pieces += n
		}
	}
	return m
}
