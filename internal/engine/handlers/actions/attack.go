package actions

import (
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/internal/systems"
	"echoes-server/pkg/api"
	"fmt"
)

// HandleMonsterClick - атака монстра на своей клетке.
// Тратит действие и ставит бросок Силы, итог считает resolve.
func HandleMonsterClick(ctx handlers.Context, p api.MonsterPayload) (handlers.Result, error) {
	s := ctx.Session
	player, err := activePlayer(ctx)
	if err != nil {
		return handlers.Result{}, err
	}

	m := s.Monster(p.MonsterID)
	if m == nil {
		return handlers.Result{}, fmt.Errorf("monster %s: %w", p.MonsterID, domain.ErrNotFound)
	}
	if m.Pos != player.Pos {
		return handlers.Result{}, fmt.Errorf("monster %s: %w", m.ID, domain.ErrOutOfReach)
	}
	if player.ActionsRemaining <= 0 {
		return handlers.Result{}, domain.ErrNoActionsLeft
	}

	req := domain.DiceRequest{
		PlayerID:    player.ID,
		Attribute:   domain.AttrStrength,
		PoolSize:    systems.PoolSize(player, domain.AttrStrength),
		Target:      m.Tier,
		Description: fmt.Sprintf("Attack the %s", m.Name),
		Context: domain.ActionContext{
			Kind:      domain.ContextCombat,
			PlayerID:  player.ID,
			MonsterID: m.ID,
			Attribute: domain.AttrStrength,
		},
	}
	if err := s.BeginDiceRoll(req); err != nil {
		return handlers.Result{}, err
	}
	player.ActionsRemaining--

	return handlers.Result{
		Msg:     fmt.Sprintf("%s attacks the %s!", player.Name, m.Name),
		MsgType: domain.LogCombat,
	}, nil
}
