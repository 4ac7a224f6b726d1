package actions

import (
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/internal/systems"
	"echoes-server/pkg/api"
	"echoes-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HandleUseItem - активный эффект предмета.
// В свой ход или в фазу мифа (например, перевязка перед атакой).
func HandleUseItem(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	s := ctx.Session
	player, err := ctx.Player()
	if err != nil {
		return handlers.Result{}, err
	}
	if s.HasPending() {
		return handlers.Result{}, domain.ErrResolutionActive
	}
	switch s.Phase {
	case domain.PhasePlaying:
		if cur := s.CurrentPlayer(); cur == nil || cur.ID != player.ID {
			return handlers.Result{}, domain.ErrNotYourTurn
		}
	case domain.PhaseMythos:
	default:
		return handlers.Result{}, domain.ErrWrongPhase
	}

	msg, err := systems.UseItem(player, p.Item, s.Round)
	if err != nil {
		return handlers.Result{}, err
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "use_handler",
		"room":      s.RoomCode,
		"player_id": player.ID,
		"item":      p.Item,
	}).Debug("Item used")
	return handlers.Info(msg), nil
}
