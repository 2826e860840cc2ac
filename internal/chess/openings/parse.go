package openings

import (
	"regexp"
	"strings"
)

// Entry is one opening keyed by its normalized SAN move prefix.
type Entry struct {
	Moves string // "e4 e5 Nf3"
	Name  string
	Line  string // "1.e4 e5 2.Nf3"
}

// Stats summarizes one parse pass over an openings file.
type Stats struct {
	Total      int
	Processed  int
	ChessLines int
	Matched    int
}

type linePattern struct {
	name string
	re   *regexp.Regexp
	// moves/name capture indexes
	moves, title int
}

// Word characters are matched in full Unicode, not only ASCII.
const movePart = `[1-9][\p{L}\p{N}_\s\p{Z}\-\+\=\.]+?`

// Order matters: the first pattern that matches a line wins.
var linePatterns = []linePattern{
	{name: "moves_name_paren", re: regexp.MustCompile(`^(` + movePart + `):\s*(.+?)\s*\(([^)]+)\)$`), moves: 1, title: 2},
	{name: "moves_name", re: regexp.MustCompile(`^(` + movePart + `):\s*(.+)$`), moves: 1, title: 2},
	{name: "name_moves_paren", re: regexp.MustCompile(`^(.+?):\s*(` + movePart + `)\s*\(([^)]+)\)$`), moves: 2, title: 1},
	{name: "name_moves", re: regexp.MustCompile(`^(.+?):\s*(` + movePart + `)$`), moves: 2, title: 1},
}

var (
	moveNumberRe  = regexp.MustCompile(`\d+\.`)
	chessHintRe   = regexp.MustCompile(`\d+\.\s*[a-hKQRBNO]`)
	ecoHeaderTags = []string{"A ", "B ", "C ", "D ", "E "}
)

// Parse extracts entries from decoded openings text. Lines that match none of
// the known shapes are skipped.
func Parse(text string) ([]Entry, Stats) {
	var (
		entries []Entry
		st      Stats
	)
	for _, raw := range strings.Split(text, "\n") {
		st.Total++
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if isHeader(line) {
			continue
		}
		if !strings.Contains(line, ":") {
			continue
		}
		st.Processed++
		if chessHintRe.MatchString(line) {
			st.ChessLines++
		}
		e, ok := parseLine(line)
		if !ok {
			continue
		}
		entries = append(entries, e)
		st.Matched++
	}
	return entries, st
}

func isHeader(line string) bool {
	for _, tag := range ecoHeaderTags {
		if strings.HasPrefix(line, tag) {
			return true
		}
	}
	return strings.Contains(line, "  ")
}

func parseLine(line string) (Entry, bool) {
	for _, p := range linePatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		display := strings.TrimSpace(m[p.moves])
		key := normalizeMoves(display)
		name := strings.TrimSpace(m[p.title])
		if key == "" || name == "" {
			return Entry{}, false
		}
		return Entry{Moves: key, Name: name, Line: display}, true
	}
	return Entry{}, false
}

// normalizeMoves drops move numbers and collapses whitespace.
func normalizeMoves(s string) string {
	return strings.Join(strings.Fields(moveNumberRe.ReplaceAllString(s, "")), " ")
}
