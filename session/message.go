package session

// --- Server-to-Client messages (game_state lives in the game package) ---

// SessionStartedMsg is sent each time a new game is dealt.
type SessionStartedMsg struct {
	Type          string `json:"type"`
	SessionID     string `json:"sessionId"`
	TotalPairs    int    `json:"totalPairs"`
	CardCount     int    `json:"cardCount"`
	Tip           string `json:"tip,omitempty"`
	TipDurationMS int    `json:"tipDurationMs"`
}

// GameWonMsg is sent once per game, after the win delay.
type GameWonMsg struct {
	Type       string `json:"type"`
	Flips      int    `json:"flips"`
	TotalPairs int    `json:"totalPairs"`
}

// AutoplayMsg acknowledges a demo-mode toggle.
type AutoplayMsg struct {
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

// ErrorMsg is sent when a client action is invalid.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
