package actions

import (
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/internal/systems"
	"fmt"
)

// HandleEndTurn - ход переходит к следующему, после последнего начинается миф
func HandleEndTurn(ctx handlers.Context) (handlers.Result, error) {
	s := ctx.Session
	player, err := activePlayer(ctx)
	if err != nil {
		return handlers.Result{}, err
	}

	if systems.AdvanceTurn(s) {
		return beginMythos(ctx)
	}
	next := s.CurrentPlayer()
	return handlers.Info(fmt.Sprintf("%s ends the turn. %s is up.", player.Name, next.Name)), nil
}

// HandleContinue - Mythos -> Playing. Любой игрок, но не пока монстры атакуют.
func HandleContinue(ctx handlers.Context) (handlers.Result, error) {
	s := ctx.Session
	if _, err := ctx.Player(); err != nil {
		return handlers.Result{}, err
	}
	if err := requirePhase(s, domain.PhaseMythos); err != nil {
		return handlers.Result{}, err
	}
	if s.HasPending() || len(s.AttackQueue) > 0 {
		return handlers.Result{}, domain.ErrResolutionActive
	}
	if s.MythosPending {
		return handlers.Result{}, domain.ErrEventPending
	}
	if err := s.TransitionTo(domain.PhasePlaying); err != nil {
		return handlers.Result{}, err
	}

	msg := fmt.Sprintf("Round %d begins.", s.Round)
	if cur := s.CurrentPlayer(); cur != nil {
		msg = fmt.Sprintf("Round %d begins. %s is up.", s.Round, cur.Name)
	}
	return handlers.Info(msg), nil
}
