// Package autoplay implements the demo-mode player: it watches the board the
// same way a person would and picks the next card to flip.
package autoplay

import (
	"math/rand"
	"time"

	"concentration-server/config"
	"concentration-server/game"
)

var (
	stateFaceDown = game.FaceDown.String()
	statePending  = game.Pending.String()
	stateMatched  = game.Matched.String()
)

// Player remembers faces it has seen (card index -> pairID) and uses them to
// choose moves. It is not safe for concurrent use.
type Player struct {
	params config.AutoplayParams
	rng    *rand.Rand
	memory map[int]int
}

// NewPlayer returns a player with empty memory.
func NewPlayer(params config.AutoplayParams, rng *rand.Rand) *Player {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Player{params: params, rng: rng, memory: make(map[int]int)}
}

// Reset forgets everything; call it when a new game is dealt.
func (p *Player) Reset() {
	p.memory = make(map[int]int)
}

// Known returns how many cards the player currently remembers.
func (p *Player) Known() int {
	return len(p.memory)
}

// Observe records every revealed card and drops matched ones from memory.
func (p *Player) Observe(cards []game.CardView) {
	for _, c := range cards {
		switch c.State {
		case statePending:
			if c.PairID != nil {
				p.memory[c.Index] = *c.PairID
			}
		case stateMatched:
			delete(p.memory, c.Index)
		}
	}
}

// Next returns the index of the card to flip, or -1 when no flip is possible
// (no face-down cards, or a pair is already up).
func (p *Player) Next(cards []game.CardView) int {
	p.Observe(cards)
	p.forget()

	var hidden, pending []int
	for _, c := range cards {
		switch c.State {
		case stateFaceDown:
			hidden = append(hidden, c.Index)
		case statePending:
			pending = append(pending, c.Index)
		}
	}
	if len(hidden) == 0 || len(pending) > 1 {
		return -1
	}

	if len(pending) == 1 {
		first := cards[pending[0]]
		if first.PairID != nil && p.roll(p.params.UseKnownPairChance) {
			for _, idx := range hidden {
				if pid, ok := p.memory[idx]; ok && pid == *first.PairID {
					return idx
				}
			}
		}
		return p.explore(hidden)
	}

	if p.roll(p.params.UseKnownPairChance) {
		if idx, ok := p.knownPair(hidden); ok {
			return idx
		}
	}
	return p.explore(hidden)
}

// Delay returns how long to wait before the next move.
func (p *Player) Delay() time.Duration {
	lo, hi := p.params.DelayMinMS, p.params.DelayMaxMS
	if hi < lo {
		hi = lo
	}
	ms := lo
	if hi > lo {
		ms += p.rng.Intn(hi - lo + 1)
	}
	return time.Duration(ms) * time.Millisecond
}

// knownPair returns the first card of a remembered pair whose cards are both face down.
func (p *Player) knownPair(hidden []int) (int, bool) {
	firstSeen := make(map[int]int)
	for _, idx := range hidden {
		pid, ok := p.memory[idx]
		if !ok {
			continue
		}
		if first, ok := firstSeen[pid]; ok {
			return first, true
		}
		firstSeen[pid] = idx
	}
	return -1, false
}

// explore prefers a card never seen; falls back to any face-down card.
func (p *Player) explore(hidden []int) int {
	var unknown []int
	for _, idx := range hidden {
		if _, ok := p.memory[idx]; !ok {
			unknown = append(unknown, idx)
		}
	}
	if len(unknown) > 0 {
		return unknown[p.rng.Intn(len(unknown))]
	}
	return hidden[p.rng.Intn(len(hidden))]
}

func (p *Player) forget() {
	if p.params.ForgetChance <= 0 {
		return
	}
	for idx := range p.memory {
		if p.roll(p.params.ForgetChance) {
			delete(p.memory, idx)
		}
	}
}

func (p *Player) roll(chance int) bool {
	if chance >= 100 {
		return true
	}
	if chance <= 0 {
		return false
	}
	return p.rng.Intn(100) < chance
}
