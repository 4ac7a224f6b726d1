package actions

import (
	"echoes-server/internal/engine/handlers"
	"echoes-server/internal/systems"
	"echoes-server/pkg/api"
)

// HandleTileClick - шаг на соседний тайл, стоит одно перемещение
func HandleTileClick(ctx handlers.Context, p api.TilePayload) (handlers.Result, error) {
	player, err := activePlayer(ctx)
	if err != nil {
		return handlers.Result{}, err
	}

	tile, err := systems.CheckStep(ctx.Session, player, p.TileID)
	if err != nil {
		return handlers.Result{}, err
	}

	player.Pos = tile.Pos
	player.MovesRemaining--
	return handlers.EmptyResult(), nil
}
