package botapi

// Event types carried by the game feed.
const (
	EventGameStart  = "gameStart"
	EventGameState  = "gameState"
	EventChatLine   = "chatLine"
	EventAnalysis   = "analysis"
	EventGameFinish = "gameFinish"
)

// Event is one frame of the game feed. Exactly one payload matches Type;
// gameFinish only carries Status.
type Event struct {
	Type     string     `json:"type"`
	GameID   string     `json:"game_id"`
	Game     *GameFull  `json:"game,omitempty"`
	State    *GameState `json:"state,omitempty"`
	Chat     *ChatLine  `json:"chat,omitempty"`
	Analysis *Analysis  `json:"analysis,omitempty"`
	Status   string     `json:"status,omitempty"`
}

type Player struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

type Clock struct {
	InitialMS   int64 `json:"initial"`
	IncrementMS int64 `json:"increment"`
}

// GameFull describes a game when the bot joins it.
type GameFull struct {
	Variant    string     `json:"variant"`
	Rated      bool       `json:"rated"`
	White      Player     `json:"white"`
	Black      Player     `json:"black"`
	Clock      Clock      `json:"clock"`
	InitialFEN string     `json:"initial_fen,omitempty"`
	State      *GameState `json:"state,omitempty"`
}

// GameState is the move list and clocks after a move.
type GameState struct {
	Moves  string `json:"moves"`
	WTime  int64  `json:"wtime"`
	BTime  int64  `json:"btime"`
	Status string `json:"status,omitempty"`
}

type ChatLine struct {
	Room     string `json:"room"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// Analysis is the engine output of the bot's own search.
type Analysis struct {
	PV      []string  `json:"pv"`
	Message string    `json:"message"`
	Score   *EvalJSON `json:"score,omitempty"`
}

// EvalJSON is a score from the side of the bot; at most one field is set.
type EvalJSON struct {
	CP   *int `json:"cp,omitempty"`
	Mate *int `json:"mate,omitempty"`
}

// Account is the subset of the account document the bot reads.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Title    string `json:"title,omitempty"`
}

// ChatRequest is the WebSocket frame for an outbound chat message.
type ChatRequest struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
	Room   string `json:"room"`
	Text   string `json:"text"`
}

type WebSocketState int

const (
	WSStateDisconnected WebSocketState = iota
	WSStateConnecting
	WSStateConnected
	WSStateReconnecting
	WSStateFailed
)

func (s WebSocketState) String() string {
	switch s {
	case WSStateConnecting:
		return "connecting"
	case WSStateConnected:
		return "connected"
	case WSStateReconnecting:
		return "reconnecting"
	case WSStateFailed:
		return "failed"
	default:
		return "disconnected"
	}
}
