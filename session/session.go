package session

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"concentration-server/autoplay"
	"concentration-server/config"
	"concentration-server/game"
	"concentration-server/matcherrors"
	"concentration-server/wsutil"
)

// ActionType enumerates the kinds of actions a session can process.
type ActionType int

const (
	ActionSelectCard ActionType = iota
	ActionRestart
	ActionSetAutoplay
	ActionResolveMismatch // internal: fired after the mismatch display delay
	ActionAnnounceWin     // internal: fired after the win delay
	ActionAutoplayStep    // internal: fired when the demo player should move
)

// Action is a user intent or timer event sent into the session's action channel.
type Action struct {
	Type       ActionType
	Index      int    // card index (for SelectCard)
	Enabled    bool   // for SetAutoplay
	Generation uint64 // game the timer was armed for (internal actions)
	Token      uint64 // autoplay step token (for AutoplayStep)
}

// Session owns one player's game. All engine calls happen on the Run goroutine.
type Session struct {
	ID      string
	Config  *config.Config
	Engine  *game.Engine
	Actions chan Action
	Done    chan struct{}

	send   chan []byte
	rng    *rand.Rand
	logger *slog.Logger

	autoplay  bool
	bot       *autoplay.Player
	stepToken uint64
}

// New creates a session that writes outbound messages to send. rng drives the
// deal, the tip choice and the demo player; nil seeds from the clock.
func New(id string, cfg *config.Config, send chan []byte, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		ID:      id,
		Config:  cfg,
		Engine:  game.NewEngine(rng),
		Actions: make(chan Action, 16),
		Done:    make(chan struct{}),
		send:    send,
		rng:     rng,
		logger:  slog.Default().With("tag", "session", "session", id),
		bot:     autoplay.NewPlayer(cfg.Autoplay, rng),
	}
}

// Run deals the first game and then processes actions sequentially until ctx
// is cancelled. It should be run as a goroutine.
func (s *Session) Run(ctx context.Context) {
	defer close(s.Done)

	s.handleRestart()

	for {
		select {
		case <-ctx.Done():
			return
		case action := <-s.Actions:
			s.handle(action)
		}
	}
}

func (s *Session) handle(action Action) {
	switch action.Type {
	case ActionSelectCard:
		s.handleSelectCard(action.Index)
	case ActionRestart:
		s.handleRestart()
	case ActionSetAutoplay:
		s.handleSetAutoplay(action.Enabled)
	case ActionResolveMismatch:
		s.handleResolveMismatch(action.Generation)
	case ActionAnnounceWin:
		s.handleAnnounceWin(action.Generation)
	case ActionAutoplayStep:
		s.handleAutoplayStep(action)
	}
}

// Submit delivers an action to the session, blocking while the queue is full.
// It returns ErrSessionClosed once the session has stopped.
func (s *Session) Submit(action Action) error {
	select {
	case <-s.Done:
		return matcherrors.ErrSessionClosed
	default:
	}
	select {
	case s.Actions <- action:
		return nil
	case <-s.Done:
		return matcherrors.ErrSessionClosed
	}
}

// after posts action once d has elapsed, unless the session stops first.
func (s *Session) after(d time.Duration, action Action) {
	go func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			select {
			case s.Actions <- action:
			case <-s.Done:
			}
		case <-s.Done:
		}
	}()
}

func (s *Session) broadcastState(event string) {
	state := s.Engine.BuildState(event)
	s.bot.Observe(state.Cards)
	wsutil.SendJSON(s.send, state)
}

func (s *Session) sendError(message string) {
	wsutil.SendJSON(s.send, ErrorMsg{Type: "error", Message: message})
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
