package game

import (
	"fmt"
	"math/rand"

	"concentration-server/matcherrors"
)

// Outcome is the result of a single Select call.
type Outcome int

const (
	Ignored Outcome = iota
	FirstPicked
	SecondPickedMatch
	SecondPickedMismatch
	GameWon
)

// String returns the protocol string for an Outcome.
func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case FirstPicked:
		return "first_picked"
	case SecondPickedMatch:
		return "match"
	case SecondPickedMismatch:
		return "mismatch"
	case GameWon:
		return "won"
	default:
		return "unknown"
	}
}

// Phase is the engine's position in the turn cycle between calls.
type Phase int

const (
	NoSession Phase = iota
	AwaitingFirst
	AwaitingSecond
	MismatchShown
	Won
)

// String returns the protocol string for a Phase.
func (p Phase) String() string {
	switch p {
	case NoSession:
		return "no_session"
	case AwaitingFirst:
		return "awaiting_first"
	case AwaitingSecond:
		return "awaiting_second"
	case MismatchShown:
		return "mismatch_shown"
	case Won:
		return "won"
	default:
		return "unknown"
	}
}

// State is the mutable record of one play-through. It is replaced wholesale
// by Engine.Start and never carried across games.
type State struct {
	Cards        []Card
	Flips        int
	Selection    []int // indices into Cards; at most two
	Locked       bool
	MatchedPairs int
	TotalPairs   int
}

// Engine runs the flip/compare/resolve cycle for one player.
// It is not safe for concurrent use; the session actor serializes calls.
type Engine struct {
	rng        *rand.Rand
	catalog    []CardFace
	state      *State
	generation uint64
}

// NewEngine returns an engine with no game started. A nil rng uses the
// package-level source.
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// Start deals a fresh deck from catalog and replaces any previous game.
// Each call advances Generation so late timers from the old game can be told apart.
func (e *Engine) Start(catalog []CardFace) ([]Card, error) {
	cards, err := BuildDeck(catalog, e.rng)
	if err != nil {
		return nil, err
	}
	e.catalog = append([]CardFace(nil), catalog...)
	e.state = &State{
		Cards:      cards,
		Selection:  make([]int, 0, 2),
		TotalPairs: len(catalog),
	}
	e.generation++
	return e.Cards(), nil
}

// Select flips the card at index. Out-of-turn clicks, repeat clicks on the
// only selected card and clicks on matched cards return Ignored with no error.
// Errors are reserved for caller bugs: no game started or an index off the board.
func (e *Engine) Select(index int) (Outcome, error) {
	s := e.state
	if s == nil {
		return Ignored, matcherrors.ErrNoSession
	}
	if index < 0 || index >= len(s.Cards) {
		return Ignored, fmt.Errorf("%w: %d (board has %d cards)", matcherrors.ErrCardOutOfRange, index, len(s.Cards))
	}

	if s.Locked {
		return Ignored, nil
	}
	if len(s.Selection) == 1 && s.Selection[0] == index {
		return Ignored, nil
	}
	card := &s.Cards[index]
	if card.State == Matched {
		return Ignored, nil
	}

	card.State = Pending
	s.Flips++

	if len(s.Selection) == 0 {
		s.Selection = append(s.Selection, index)
		return FirstPicked, nil
	}

	s.Selection = append(s.Selection, index)
	s.Locked = true

	first := &s.Cards[s.Selection[0]]
	if first.PairID != card.PairID {
		// Stays locked with both cards up until ResolveMismatch.
		return SecondPickedMismatch, nil
	}

	first.State = Matched
	card.State = Matched
	s.Selection = s.Selection[:0]
	s.MatchedPairs++

	if s.MatchedPairs == s.TotalPairs {
		return GameWon, nil
	}
	s.Locked = false
	return SecondPickedMatch, nil
}

// ResolveMismatch turns the mismatched pair face down and unlocks the board.
// Calling it when no mismatch is showing is a caller bug.
func (e *Engine) ResolveMismatch() error {
	s := e.state
	if s == nil {
		return matcherrors.ErrNoSession
	}
	if !s.Locked || len(s.Selection) != 2 {
		return matcherrors.ErrNoPendingMismatch
	}
	for _, idx := range s.Selection {
		s.Cards[idx].State = FaceDown
	}
	s.Selection = s.Selection[:0]
	s.Locked = false
	return nil
}

// Generation identifies the current game; zero before the first Start.
func (e *Engine) Generation() uint64 { return e.generation }

// Started reports whether Start has succeeded at least once.
func (e *Engine) Started() bool { return e.state != nil }

func (e *Engine) Flips() int {
	if e.state == nil {
		return 0
	}
	return e.state.Flips
}

func (e *Engine) MatchedPairs() int {
	if e.state == nil {
		return 0
	}
	return e.state.MatchedPairs
}

func (e *Engine) TotalPairs() int {
	if e.state == nil {
		return 0
	}
	return e.state.TotalPairs
}

func (e *Engine) Locked() bool {
	return e.state != nil && e.state.Locked
}

// Won reports whether every pair of the current game has been matched.
func (e *Engine) Won() bool {
	return e.state != nil && e.state.MatchedPairs == e.state.TotalPairs
}

// Selection returns a copy of the indices currently face up and pending.
func (e *Engine) Selection() []int {
	if e.state == nil {
		return nil
	}
	return append([]int(nil), e.state.Selection...)
}

// Cards returns a snapshot of the board.
func (e *Engine) Cards() []Card {
	if e.state == nil {
		return nil
	}
	return append([]Card(nil), e.state.Cards...)
}

// Catalog returns the faces the current game was dealt from.
func (e *Engine) Catalog() []CardFace {
	return append([]CardFace(nil), e.catalog...)
}

// Face returns the catalog entry a card shows.
func (e *Engine) Face(card Card) CardFace {
	return e.catalog[card.PairID]
}

// Phase derives the turn-cycle position from the current state.
func (e *Engine) Phase() Phase {
	s := e.state
	switch {
	case s == nil:
		return NoSession
	case s.MatchedPairs == s.TotalPairs:
		return Won
	case s.Locked:
		return MismatchShown
	case len(s.Selection) == 1:
		return AwaitingSecond
	default:
		return AwaitingFirst
	}
}
