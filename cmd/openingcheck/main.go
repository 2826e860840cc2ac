package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/park285/chess-chatter/internal/chess"
	"github.com/park285/chess-chatter/internal/chess/openingbook"
	"github.com/park285/chess-chatter/internal/chess/openings"
	"go.uber.org/zap"
)

type bookFlags map[string]string

func (b bookFlags) String() string { return fmt.Sprint(map[string]string(b)) }

func (b bookFlags) Set(v string) error {
	name, path, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(path) == "" {
		return fmt.Errorf("want name=path, got %q", v)
	}
	b[strings.TrimSpace(name)] = strings.TrimSpace(path)
	return nil
}

func main() {
	file := flag.String("file", os.Getenv("OPENINGS_FILE"), "openings file (defaults to OPENINGS_FILE)")
	fen := flag.String("fen", "", "start position, standard start when empty")
	verbose := flag.Bool("v", false, "log loader details")
	books := bookFlags{}
	flag.Var(books, "book", "polyglot book as name=path, repeatable")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [uci moves...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
			defer l.Sync()
		}
	}

	corpus := openings.Load(*file, logger)
	fmt.Printf("corpus: %s\n", corpus)

	board, err := chess.NewBoard(*fen, flag.Args())
	if err != nil {
		log.Fatalf("moves: %v", err)
	}
	san := board.SANMoves()
	fmt.Printf("moves:   %s\n", strings.Join(san, " "))

	name, line := corpus.Resolve(san)
	fmt.Printf("opening: %s (%s)\n", name, line)
	if code, title := board.ECO(); code != "" {
		fmt.Printf("eco:     %s %s\n", code, title)
	}

	if len(books) == 0 {
		return
	}
	set := openingbook.Load(books, logger)
	bookName, results, err := set.Lookup(board.StartFEN(), board.MovesUCI())
	if err != nil {
		log.Fatalf("book lookup: %v", err)
	}
	if bookName == "" {
		fmt.Println("book:    out of book")
		return
	}
	fmt.Printf("book:    %s\n", bookName)
	for _, r := range results {
		mvSAN, err := board.SAN(r.Move)
		if err != nil {
			mvSAN = r.Move
		}
		fmt.Printf("  %-6s %-6s weight=%d\n", mvSAN, r.Move, r.Weight)
	}
}
