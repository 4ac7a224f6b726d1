package admin

import (
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/internal/engine/handlers/actions"
	"echoes-server/pkg/dungeon"
	"errors"
	"fmt"
)

// ErrCheatsDisabled - отладочные команды выключены в конфиге
var ErrCheatsDisabled = errors.New("cheats are disabled")

// SpawnPayload: { "template": "deep_one", "tileId": "tile_..." }
type SpawnPayload struct {
	Template string `json:"template"`
	TileID   string `json:"tileId,omitempty"` // по умолчанию - клетка хоста
}

func (p SpawnPayload) Validate() error {
	if p.Template == "" {
		return errors.New("template is required")
	}
	return nil
}

// GrantPayload: { "playerId": "...", "item": "Shotgun", "clues": 2, "evidence": 1 }
type GrantPayload struct {
	PlayerID string `json:"playerId,omitempty"` // по умолчанию - сам хост
	Item     string `json:"item,omitempty"`
	Clues    int    `json:"clues,omitempty"`
	Evidence int    `json:"evidence,omitempty"`
}

func (p GrantPayload) Validate() error {
	if p.Clues < 0 || p.Evidence < 0 {
		return errors.New("grants must not be negative")
	}
	if p.Item != "" {
		if _, ok := domain.FindItem(p.Item); !ok {
			return fmt.Errorf("unknown item %q", p.Item)
		}
	}
	return nil
}

// TeleportPayload: { "tileId": "tile_..." }
type TeleportPayload struct {
	TileID string `json:"tileId"`
}

func (p TeleportPayload) Validate() error {
	if p.TileID == "" {
		return errors.New("tileId is required")
	}
	return nil
}

func allowed(ctx handlers.Context) (*domain.Player, error) {
	if !ctx.Cheats {
		return nil, ErrCheatsDisabled
	}
	if ctx.Actor != ctx.Session.HostID {
		return nil, domain.ErrNotHost
	}
	if ctx.Session.Phase.IsTerminal() || ctx.Session.Phase < domain.PhasePlaying {
		return nil, domain.ErrWrongPhase
	}
	return ctx.Player()
}

// HandleSpawn ставит монстра в обход лимитов мифа
func HandleSpawn(ctx handlers.Context, p SpawnPayload) (handlers.Result, error) {
	host, err := allowed(ctx)
	if err != nil {
		return handlers.Result{}, err
	}
	tmpl, ok := domain.FindMonsterTemplate(p.Template)
	if !ok {
		return handlers.Result{}, fmt.Errorf("monster template %s: %w", p.Template, domain.ErrNotFound)
	}

	pos := host.Pos
	if p.TileID != "" {
		tile := ctx.Session.Tile(p.TileID)
		if tile == nil {
			return handlers.Result{}, fmt.Errorf("tile %s: %w", p.TileID, domain.ErrNotFound)
		}
		pos = tile.Pos
	}

	ctx.Session.Monsters = append(ctx.Session.Monsters, dungeon.SpawnMonster(tmpl, pos, ctx.Rng))
	return handlers.Info(fmt.Sprintf("Spawned %s via admin magic.", tmpl.Name)), nil
}

// HandleGrant выдает предмет, улики и доказательства
func HandleGrant(ctx handlers.Context, p GrantPayload) (handlers.Result, error) {
	host, err := allowed(ctx)
	if err != nil {
		return handlers.Result{}, err
	}
	target := host
	if p.PlayerID != "" {
		if target = ctx.Session.Player(p.PlayerID); target == nil {
			return handlers.Result{}, fmt.Errorf("player %s: %w", p.PlayerID, domain.ErrUnknownPlayer)
		}
	}

	if p.Item != "" {
		def, _ := domain.FindItem(p.Item)
		target.Items = append(target.Items, def.Name)
	}
	target.Clues += p.Clues
	ctx.Session.EvidenceCollected += p.Evidence
	msg := fmt.Sprintf("Admin grant to %s.", target.Name)
	if ctx.Session.Phase == domain.PhasePlaying {
		if extra := actions.OpenEscape(ctx); extra != "" {
			msg += " " + extra
		}
	}
	return handlers.Info(msg), nil
}

// HandleTeleport переносит хоста на любой тайл, без затрат
func HandleTeleport(ctx handlers.Context, p TeleportPayload) (handlers.Result, error) {
	host, err := allowed(ctx)
	if err != nil {
		return handlers.Result{}, err
	}
	tile := ctx.Session.Tile(p.TileID)
	if tile == nil {
		return handlers.Result{}, fmt.Errorf("tile %s: %w", p.TileID, domain.ErrNotFound)
	}
	host.Pos = tile.Pos
	return handlers.Info(fmt.Sprintf("%s teleported via admin magic.", host.Name)), nil
}
