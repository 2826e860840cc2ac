package openingbook

import (
	"fmt"
	"os"
	"sort"
	"strings"

	chesslib "github.com/corentings/chess/v2"
	"go.uber.org/zap"
)

type Result struct {
	Move   string
	Weight uint16
}

type namedBook struct {
	name string
	path string
	book *chesslib.PolyglotBook
}

// Set is the collection of polyglot books configured for the bot.
type Set struct {
	books []namedBook
}

// Load opens every configured book. Books that fail to load are logged and
// left out of the set.
func Load(paths map[string]string, logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	set := &Set{}
	for _, name := range names {
		path := strings.TrimSpace(paths[name])
		book, err := LoadFromPath(path)
		if err != nil {
			logger.Warn("opening_book_skipped", zap.String("name", name), zap.String("path", path), zap.Error(err))
			continue
		}
		set.books = append(set.books, namedBook{name: name, path: path, book: book})
		logger.Info("opening_book_loaded", zap.String("name", name), zap.String("path", path))
	}
	return set
}

func LoadFromPath(bookPath string) (*chesslib.PolyglotBook, error) {
	if strings.TrimSpace(bookPath) == "" {
		return nil, fmt.Errorf("polyglot book path required")
	}
	file, err := os.Open(bookPath)
	if err != nil {
		return nil, fmt.Errorf("open polyglot book %q: %w", bookPath, err)
	}
	defer file.Close()

	book, err := chesslib.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("load polyglot book %q: %w", bookPath, err)
	}
	return book, nil
}

// Names lists loaded books in name order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, b.name)
	}
	return out
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.books)
}

// Lookup returns the book moves for the position reached by moves (UCI) from
// fen, taken from the first book that knows the position.
func (s *Set) Lookup(fen string, moves []string) (string, []Result, error) {
	if s == nil || len(s.books) == 0 {
		return "", nil, nil
	}
	game, err := buildGameFromPosition(fen, moves)
	if err != nil {
		return "", nil, err
	}

	hashStr, err := chesslib.NewZobristHasher().HashPosition(game.FEN())
	if err != nil {
		return "", nil, fmt.Errorf("compute polyglot hash: %w", err)
	}
	hash := chesslib.ZobristHashToUint64(hashStr)

	for _, nb := range s.books {
		entries := nb.book.FindMoves(hash)
		if len(entries) == 0 {
			continue
		}
		out := make([]Result, 0, len(entries))
		for _, entry := range entries {
			mv := chesslib.DecodeMove(entry.Move).ToMove()
			out = append(out, Result{Move: mv.String(), Weight: entry.Weight})
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
		return nb.name, out, nil
	}
	return "", nil, nil
}

func buildGameFromPosition(fen string, moves []string) (*chesslib.Game, error) {
	var game *chesslib.Game
	if strings.TrimSpace(fen) == "" || fen == "startpos" {
		game = chesslib.NewGame()
	} else {
		option, err := chesslib.FEN(fen)
		if err != nil {
			return nil, fmt.Errorf("parse fen %q: %w", fen, err)
		}
		game = chesslib.NewGame(option)
	}
	for _, mv := range moves {
		if err := game.PushNotationMove(mv, chesslib.UCINotation{}, nil); err != nil {
			return nil, fmt.Errorf("apply move %q: %w", mv, err)
		}
	}
	return game, nil
}
