package chatter

import (
	"context"
	"io"
	"time"

	"github.com/park285/chess-chatter/internal/chess"
	"github.com/park285/chess-chatter/internal/chess/openings"
	"github.com/park285/chess-chatter/internal/msgcat"
	"go.uber.org/zap"
)

// Room names a chat channel of a game. Anything that is not the player room
// is a spectator room.
type Room string

const (
	RoomPlayer    Room = "player"
	RoomSpectator Room = "spectator"
)

// SystemUsername is the identity the platform uses for its own notices.
const SystemUsername = "lichess"

const VariantStandard = "standard"

// ChatEvent is one inbound chat line.
type ChatEvent struct {
	Room     Room
	Username string
	Text     string
}

// GameInfo is fixed for the lifetime of a game.
type GameInfo struct {
	ID            string
	Variant       string
	Rated         bool
	WhiteName     string
	BlackName     string
	WhiteTitle    string
	BlackTitle    string
	InitialTimeMS int64
	IncrementMS   int64
}

func (g GameInfo) bothBots() bool {
	return g.WhiteTitle == "BOT" && g.BlackTitle == "BOT"
}

// GameState is the live view of the game the chatter reads from.
type GameState interface {
	Board() *chess.Board
	IsWhite() bool
	IsOurTurn() bool
	IsAbortable() bool
	OwnTime() time.Duration
	LastPV() []string
	LastMessage() string
	Scores() []chess.Score
}

// Sender posts a chat message to a room of a game.
type Sender interface {
	SendChat(ctx context.Context, gameID string, room Room, text string) error
}

// AccountClient is used to time a round trip to the platform.
type AccountClient interface {
	Ping(ctx context.Context) error
}

// Engine produces hints and reports its name.
type Engine interface {
	Name() string
	Hint(ctx context.Context, board *chess.Board) (chess.HintResult, error)
}

// CommandLimiter throttles commands per user. Allow should fail open.
type CommandLimiter interface {
	Allow(ctx context.Context, identity string) bool
}

// Transcript receives every inbound line. Best effort.
type Transcript interface {
	Record(ctx context.Context, gameID string, room, username, text string)
	Forget(gameID string)
}

type DrawPolicy struct {
	Enabled          bool
	Score            int
	MinGameLength    int
	ConsecutiveMoves int
}

// Messages are user-configured greeting templates.
type Messages struct {
	Greeting           string
	Goodbye            string
	GreetingSpectators string
	GoodbyeSpectators  string
}

type Tablebase struct {
	Name      string
	MaxPieces int
}

// Settings are per-process values shared by every game.
type Settings struct {
	Username        string
	Version         string
	CommandsEnabled bool
	Draw            DrawPolicy
	Messages        Messages
	Books           []string
	Tablebases      []Tablebase
	CPU             string
	RAM             string
}

type Deps struct {
	Sender     Sender
	Account    AccountClient
	Engine     Engine
	Openings   *openings.Corpus
	Catalog    *msgcat.Catalog
	Limiter    CommandLimiter
	Transcript Transcript
	// Console receives operator echo lines; nil discards them.
	Console io.Writer
	Logger  *zap.Logger
}
