package openings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	StartingPosition = "Starting Position"
	UnknownOpening   = "Unknown Opening"
)

var ErrUndecodable = errors.New("openings: no decoder accepted the file")

// Corpus is an ordered, read-only list of opening entries.
type Corpus struct {
	entries []Entry
	source  string
}

type textEncoding struct {
	name string
	enc  encoding.Encoding // nil means strict UTF-8
}

var fileEncodings = []textEncoding{
	{name: "utf-8"},
	{name: "iso-8859-1", enc: charmap.ISO8859_1},
	{name: "windows-1252", enc: charmap.Windows1252},
}

var builtin = []Entry{
	{Moves: "e4 e5 Nf3 Nc6 Bc4", Name: "Italian Game", Line: "1.e4 e5 2.Nf3 Nc6 3.Bc4"},
	{Moves: "e4 e5 Nf3 Nc6 Bc4 Bc5", Name: "Italian Game, Giuoco Piano", Line: "1.e4 e5 2.Nf3 Nc6 3.Bc4 Bc5"},
	{Moves: "e4 e5 Nf3 Nc6 Bb5", Name: "Ruy Lopez", Line: "1.e4 e5 2.Nf3 Nc6 3.Bb5"},
	{Moves: "e4 c5", Name: "Sicilian Defense", Line: "1.e4 c5"},
	{Moves: "e4 e6", Name: "French Defense", Line: "1.e4 e6"},
	{Moves: "e4 c6", Name: "Caro-Kann Defense", Line: "1.e4 c6"},
	{Moves: "d4 d5 c4", Name: "Queen's Gambit", Line: "1.d4 d5 2.c4"},
	{Moves: "c4", Name: "English Opening", Line: "1.c4"},
	{Moves: "Nf3", Name: "Reti Opening", Line: "1.Nf3"},
	{Moves: "g3", Name: "King's Fianchetto Opening", Line: "1.g3"},
}

// Builtin returns the small table used when no openings file is available.
func Builtin() *Corpus {
	return &Corpus{entries: append([]Entry(nil), builtin...), source: "builtin"}
}

// New wraps already parsed entries.
func New(entries []Entry) *Corpus {
	return &Corpus{entries: append([]Entry(nil), entries...), source: "memory"}
}

// Load reads the openings file at path. It never fails: a missing or
// unreadable file yields the builtin table.
func Load(path string, logger *zap.Logger) *Corpus {
	if logger == nil {
		logger = zap.NewNop()
	}
	path = strings.TrimSpace(path)
	if path == "" {
		logger.Warn("openings_file_unset", zap.Int("entries", len(builtin)))
		return Builtin()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("openings_file_missing", zap.String("path", path), zap.Int("entries", len(builtin)))
		} else {
			logger.Error("openings_file_read_error", zap.String("path", path), zap.Error(err))
		}
		return Builtin()
	}
	text, encName, err := decode(raw)
	if err != nil {
		logger.Error("openings_decode_error", zap.String("path", path), zap.Error(err))
		return Builtin()
	}
	entries, st := Parse(text)
	logger.Info("openings_loaded",
		zap.String("path", path),
		zap.String("encoding", encName),
		zap.Int("lines", st.Total),
		zap.Int("processed", st.Processed),
		zap.Int("chess_lines", st.ChessLines),
		zap.Int("matched", st.Matched),
	)
	return &Corpus{entries: entries, source: path}
}

func decode(raw []byte) (string, string, error) {
	for _, te := range fileEncodings {
		if te.enc == nil {
			if utf8.Valid(raw) {
				return string(raw), te.name, nil
			}
			continue
		}
		out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), te.enc.NewDecoder()))
		if err != nil {
			continue
		}
		return string(out), te.name, nil
	}
	return "", "", ErrUndecodable
}

func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

func (c *Corpus) Source() string {
	if c == nil {
		return ""
	}
	return c.source
}

// Entries returns a copy of the loaded entries in file order.
func (c *Corpus) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

// Resolve returns the name and display line of the longest entry whose move
// key is a whole-token prefix of the played SAN moves. Ties keep the entry
// that appears first.
func (c *Corpus) Resolve(san []string) (string, string) {
	if len(san) == 0 {
		return StartingPosition, ""
	}
	// 선형 탐색. 더 긴 키만 교체하므로 동률이면 먼저 나온 항목 유지
	played := strings.Join(san, " ")
	var best *Entry
	if c != nil {
		for i := range c.entries {
			e := &c.entries[i]
			if !tokenPrefix(played, e.Moves) {
				continue
			}
			if best == nil || len(e.Moves) > len(best.Moves) {
				best = e
			}
		}
	}
	if best == nil {
		return UnknownOpening, ""
	}
	return best.Name, best.Line
}

func tokenPrefix(played, key string) bool {
	if key == "" {
		return false
	}
	return played == key || strings.HasPrefix(played, key+" ")
}

func (c *Corpus) String() string {
	return fmt.Sprintf("openings(%s, %d entries)", c.Source(), c.Len())
}
