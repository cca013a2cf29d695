package session

import (
	"errors"

	"concentration-server/game"
	"concentration-server/matcherrors"
	"concentration-server/wsutil"
)

func (s *Session) handleSelectCard(index int) {
	outcome, err := s.Engine.Select(index)
	if err != nil {
		s.logger.Warn("select rejected", "index", index, "err", err)
		if errors.Is(err, matcherrors.ErrCardOutOfRange) {
			s.sendError("No card at that position.")
		} else {
			s.sendError("No game in progress.")
		}
		return
	}

	switch outcome {
	case game.Ignored:
		return
	case game.FirstPicked, game.SecondPickedMatch:
		s.broadcastState(outcome.String())
	case game.SecondPickedMismatch:
		s.broadcastState(outcome.String())
		s.after(ms(s.Config.MismatchDelayMS), Action{Type: ActionResolveMismatch, Generation: s.Engine.Generation()})
	case game.GameWon:
		s.broadcastState(outcome.String())
		s.logger.Info("game won", "flips", s.Engine.Flips(), "pairs", s.Engine.TotalPairs())
		s.after(ms(s.Config.WinDelayMS), Action{Type: ActionAnnounceWin, Generation: s.Engine.Generation()})
	}
	s.scheduleAutoplay()
}

func (s *Session) handleResolveMismatch(generation uint64) {
	// Timer may belong to a game that was restarted in the meantime
	if generation != s.Engine.Generation() {
		s.logger.Debug("dropping stale flip-back", "generation", generation)
		return
	}
	if err := s.Engine.ResolveMismatch(); err != nil {
		s.logger.Error("flip-back without a pending mismatch", "err", err)
		return
	}
	s.broadcastState("flip_back")
	s.scheduleAutoplay()
}

func (s *Session) handleAnnounceWin(generation uint64) {
	if generation != s.Engine.Generation() || !s.Engine.Won() {
		return
	}
	wsutil.SendJSON(s.send, GameWonMsg{
		Type:       "game_won",
		Flips:      s.Engine.Flips(),
		TotalPairs: s.Engine.TotalPairs(),
	})
}

// handleRestart deals a new game, replacing the current one. Pending timers
// from the old game become no-ops through the generation check.
func (s *Session) handleRestart() {
	cards, err := s.Engine.Start(s.Config.Catalog)
	if err != nil {
		s.logger.Error("starting game", "err", err)
		s.sendError("The game could not be started.")
		return
	}
	s.bot.Reset()

	wsutil.SendJSON(s.send, SessionStartedMsg{
		Type:          "session_started",
		SessionID:     s.ID,
		TotalPairs:    s.Engine.TotalPairs(),
		CardCount:     len(cards),
		Tip:           game.PickTip(s.Config.Tips, s.rng),
		TipDurationMS: s.Config.TipDurationMS,
	})
	s.broadcastState("started")
	s.logger.Debug("game dealt", "generation", s.Engine.Generation(), "cards", len(cards))
	s.scheduleAutoplay()
}

func (s *Session) handleSetAutoplay(enabled bool) {
	s.autoplay = enabled
	wsutil.SendJSON(s.send, AutoplayMsg{Type: "autoplay", Enabled: enabled})
	if enabled {
		s.scheduleAutoplay()
	} else {
		s.stepToken++
	}
}

// scheduleAutoplay arms the next demo move. Each call supersedes any step
// already in flight.
func (s *Session) scheduleAutoplay() {
	if !s.autoplay || !s.Engine.Started() || s.Engine.Locked() {
		return
	}
	s.stepToken++
	s.after(s.bot.Delay(), Action{
		Type:       ActionAutoplayStep,
		Generation: s.Engine.Generation(),
		Token:      s.stepToken,
	})
}

func (s *Session) handleAutoplayStep(action Action) {
	if !s.autoplay || action.Token != s.stepToken || action.Generation != s.Engine.Generation() {
		return
	}
	idx := s.bot.Next(game.BuildCardViews(s.Engine.Cards(), s.Engine.Catalog()))
	if idx < 0 {
		return
	}
	s.handleSelectCard(idx)
}
