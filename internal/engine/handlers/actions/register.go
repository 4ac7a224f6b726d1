package actions

import (
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/pkg/api"
	"echoes-server/pkg/dungeon"
	"echoes-server/pkg/logger"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// HandleRegister - ACTION_REGISTER_PLAYER.
// Повторная регистрация с тем же ID обновляет игрока на месте, дубликат не создается.
// Новые игроки принимаются только в лобби.
func HandleRegister(ctx handlers.Context, p api.RegisterPayload) (handlers.Result, error) {
	s := ctx.Session
	info := p.Payload
	if info.ID != ctx.Actor {
		return handlers.Result{}, fmt.Errorf("register %q from connection bound to %q: %w", info.ID, ctx.Actor, domain.ErrUnknownPlayer)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"component": "register_handler",
		"room":      s.RoomCode,
		"player_id": info.ID,
	})

	if existing := s.Player(info.ID); existing != nil {
		updatePlayer(s, existing, info)
		log.Debug("Registration updated in place")
		return handlers.EmptyResult(), nil
	}

	if s.Phase != domain.PhaseLobby {
		return handlers.Result{}, fmt.Errorf("%w: game already started", domain.ErrLobbyClosed)
	}
	if len(s.Players) >= len(domain.Investigators) {
		return handlers.Result{}, fmt.Errorf("%w: lobby is full", domain.ErrLobbyClosed)
	}

	investigator := info.InvestigatorID
	taken := takenInvestigators(s, "")
	if isTaken(taken, investigator) {
		investigator = ""
	}
	player := dungeon.CreatePlayer(info.ID, strings.TrimSpace(info.Name), investigator, taken)
	if info.Color != "" {
		player.Color = info.Color
	}
	s.Players = append(s.Players, player)
	if s.HostID == "" {
		s.HostID = player.ID
	}

	log.WithField("investigator", player.InvestigatorID).Info("Player registered")
	return handlers.Info(fmt.Sprintf("%s joins the investigation.", player.Name)), nil
}

// updatePlayer - имя меняется всегда, сыщик и цвет - только в лобби.
// После старта ресурсы игрока авторитетны и не перезаписываются.
func updatePlayer(s *domain.Session, existing *domain.Player, info api.PlayerInfo) {
	if name := strings.TrimSpace(info.Name); name != "" {
		existing.Name = name
	}
	if s.Phase != domain.PhaseLobby {
		return
	}
	if info.InvestigatorID != "" && info.InvestigatorID != existing.InvestigatorID &&
		!isTaken(takenInvestigators(s, existing.ID), info.InvestigatorID) {
		ready := existing.IsReady
		*existing = *dungeon.CreatePlayer(existing.ID, existing.Name, info.InvestigatorID, nil)
		existing.IsReady = ready
	}
	if info.Color != "" {
		existing.Color = info.Color
	}
}

func takenInvestigators(s *domain.Session, except string) []string {
	var out []string
	for _, p := range s.Players {
		if p.ID != except {
			out = append(out, p.InvestigatorID)
		}
	}
	return out
}

func isTaken(taken []string, id string) bool {
	for _, t := range taken {
		if t == id {
			return true
		}
	}
	return false
}
