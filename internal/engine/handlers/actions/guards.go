package actions

import (
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"fmt"
)

func requireHost(ctx handlers.Context) error {
	if ctx.Actor == "" || ctx.Actor != ctx.Session.HostID {
		return domain.ErrNotHost
	}
	return nil
}

func requirePhase(s *domain.Session, want domain.Phase) error {
	if s.Phase != want {
		return fmt.Errorf("%w: %s (want %s)", domain.ErrWrongPhase, s.Phase, want)
	}
	return nil
}

// activePlayer - сыщик, который может кликать по полю прямо сейчас.
// Пока висит бросок или головоломка, поле заблокировано.
func activePlayer(ctx handlers.Context) (*domain.Player, error) {
	s := ctx.Session
	p, err := ctx.Player()
	if err != nil {
		return nil, err
	}
	if s.HasPending() {
		return nil, domain.ErrResolutionActive
	}
	if err := requirePhase(s, domain.PhasePlaying); err != nil {
		return nil, err
	}
	if cur := s.CurrentPlayer(); cur == nil || cur.ID != p.ID {
		return nil, domain.ErrNotYourTurn
	}
	return p, nil
}

func spendAction(p *domain.Player) error {
	if p.ActionsRemaining <= 0 {
		return domain.ErrNoActionsLeft
	}
	p.ActionsRemaining--
	return nil
}
