package game

// CardView is the client-facing representation of a card.
// PairID, Symbol and Label are only included when the card is face up or matched.
type CardView struct {
	Index  int    `json:"index"`
	State  string `json:"state"`
	PairID *int   `json:"pairId,omitempty"`
	Symbol string `json:"symbol,omitempty"`
	Label  string `json:"label,omitempty"`
}

// GameStateMsg is the full board state sent after every state change.
// Event names what caused the change (started, first_picked, match, mismatch, flip_back, won).
type GameStateMsg struct {
	Type         string     `json:"type"`
	Event        string     `json:"event"`
	Cards        []CardView `json:"cards"`
	Flips        int        `json:"flips"`
	MatchedPairs int        `json:"matchedPairs"`
	TotalPairs   int        `json:"totalPairs"`
	Locked       bool       `json:"locked"`
	Phase        string     `json:"phase"`
}

// BuildCardViews constructs the client-facing card list.
// Face-down cards do not expose which face they show.
func BuildCardViews(cards []Card, catalog []CardFace) []CardView {
	views := make([]CardView, len(cards))
	for i, card := range cards {
		cv := CardView{
			Index: card.Index,
			State: card.State.String(),
		}
		if card.State != FaceDown {
			pairID := card.PairID
			cv.PairID = &pairID
			if pairID >= 0 && pairID < len(catalog) {
				cv.Symbol = catalog[pairID].Symbol
				cv.Label = catalog[pairID].Label
			}
		}
		views[i] = cv
	}
	return views
}

// BuildState returns the state message for the engine's current game.
func (e *Engine) BuildState(event string) GameStateMsg {
	return GameStateMsg{
		Type:         "game_state",
		Event:        event,
		Cards:        BuildCardViews(e.Cards(), e.catalog),
		Flips:        e.Flips(),
		MatchedPairs: e.MatchedPairs(),
		TotalPairs:   e.TotalPairs(),
		Locked:       e.Locked(),
		Phase:        e.Phase().String(),
	}
}
