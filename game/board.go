package game

import (
	"math/rand"

	"concentration-server/matcherrors"
)

// CardState represents the current state of a card.
type CardState int

const (
	FaceDown CardState = iota
	Pending
	Matched
)

// String returns the protocol string for a CardState.
func (cs CardState) String() string {
	switch cs {
	case FaceDown:
		return "face_down"
	case Pending:
		return "pending"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// CardFace is one catalog entry. Two cards show each face.
type CardFace struct {
	Symbol string `json:"symbol" validate:"required"`
	Label  string `json:"label"`
}

// Card is a single card instance on the board.
// PairID is the catalog position of the face the card shows; it is bound
// before shuffling and never recomputed from Index.
type Card struct {
	Index  int
	PairID int
	Copy   int // 0 or 1: which of the two instances of the face
	State  CardState
}

// BuildDeck returns two face-down cards per catalog entry in uniformly random
// order. Duplicate catalog entries each get their own pair. The catalog is not
// modified.
func BuildDeck(catalog []CardFace, rng *rand.Rand) ([]Card, error) {
	if len(catalog) == 0 {
		return nil, matcherrors.ErrEmptyCatalog
	}

	numPairs := len(catalog)
	cards := make([]Card, 2*numPairs)
	for i := 0; i < numPairs; i++ {
		cards[2*i] = Card{PairID: i, Copy: 0, State: FaceDown}
		cards[2*i+1] = Card{PairID: i, Copy: 1, State: FaceDown}
	}

	// Fisher-Yates: walk from the last slot down to the second, swapping each
	// with a uniformly chosen slot at or before it.
	for i := len(cards) - 1; i > 0; i-- {
		j := intn(rng, i+1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	for i := range cards {
		cards[i].Index = i
	}
	return cards, nil
}

func intn(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}

// AllMatched returns true if every card is in the Matched state.
func AllMatched(cards []Card) bool {
	for _, card := range cards {
		if card.State != Matched {
			return false
		}
	}
	return true
}
