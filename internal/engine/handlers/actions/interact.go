package actions

import (
	"context"
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/internal/systems"
	"echoes-server/pkg/api"
	"echoes-server/pkg/dungeon"
	"echoes-server/pkg/logger"
	"fmt"

	"github.com/sirupsen/logrus"
)

// HandleTokenClick - взаимодействие с маркером на своей клетке
func HandleTokenClick(ctx handlers.Context, p api.TokenPayload) (handlers.Result, error) {
	s := ctx.Session
	player, err := activePlayer(ctx)
	if err != nil {
		return handlers.Result{}, err
	}

	tok := s.Token(p.TokenID)
	if tok == nil {
		return handlers.Result{}, fmt.Errorf("token %s: %w", p.TokenID, domain.ErrNotFound)
	}
	if tok.Pos != player.Pos {
		return handlers.Result{}, fmt.Errorf("token %s: %w", tok.ID, domain.ErrOutOfReach)
	}

	switch tok.Type {
	case domain.TokenExplore:
		return explore(ctx, player, tok)
	case domain.TokenSearch:
		return search(ctx, player, tok)
	case domain.TokenInteract:
		return interact(ctx, player, tok)
	case domain.TokenSight:
		return handlers.Result{Msg: tok.Description, MsgType: domain.LogStory}, nil
	case domain.TokenEscape:
		return escape(ctx, player)
	}
	return handlers.Result{}, fmt.Errorf("token %s has unknown type %q", tok.ID, tok.Type)
}

// explore открывает дверь. Если за ней пусто - запрашивает описание новой комнаты.
// Дверь открывается сразу, комната появляется, когда придет описание.
func explore(ctx handlers.Context, player *domain.Player, door *domain.Token) (handlers.Result, error) {
	s := ctx.Session
	if door.Resolved {
		return handlers.Result{}, fmt.Errorf("door %s: %w", door.ID, domain.ErrAlreadyResolved)
	}
	origin := s.TileAt(door.Pos)
	if origin == nil {
		return handlers.Result{}, fmt.Errorf("door %s stands on no tile: %w", door.ID, domain.ErrNotFound)
	}
	if err := spendAction(player); err != nil {
		return handlers.Result{}, err
	}
	door.Resolved = true

	if next := s.TileAt(door.DoorTarget()); next != nil {
		return handlers.Info(fmt.Sprintf("%s opens a door into the %s.", player.Name, next.Name)), nil
	}

	requestRoom(ctx, door, origin)
	return handlers.Info(fmt.Sprintf("%s opens a door into the unknown...", player.Name)), nil
}

// requestRoom запрашивает описание комнаты за открытой дверью
func requestRoom(ctx handlers.Context, door *domain.Token, origin *domain.Tile) {
	s := ctx.Session
	req := domain.RoomRequest{
		Direction:          door.Direction,
		Context:            s.StoryContext,
		FromCategory:       origin.Category,
		ExistingCategories: s.UsedCategories(),
	}
	doorID := door.ID
	content := ctx.Content
	ctx.Defer(func(c context.Context) handlers.ApplyFunc {
		desc := content.RoomDiscovery(c, req)
		return func(ctx handlers.Context) (handlers.Result, error) {
			return placeRoom(ctx, doorID, desc)
		}
	})
}

// placeRoom - применение описания комнаты к текущему полю
func placeRoom(ctx handlers.Context, doorID string, desc domain.RoomDescriptor) (handlers.Result, error) {
	s := ctx.Session
	if s.Phase.IsTerminal() {
		return handlers.Result{}, fmt.Errorf("place room: %w", domain.ErrWrongPhase)
	}
	door := s.Token(doorID)
	if door == nil {
		return handlers.Result{}, fmt.Errorf("door %s: %w", doorID, domain.ErrNotFound)
	}
	if s.TileAt(door.DoorTarget()) != nil {
		// Пока ждали описание, клетку уже заняли - дверь просто ведет туда
		return handlers.Result{Silent: true}, nil
	}

	room, err := ctx.Dungeon.Expand(s, door, desc)
	if err != nil {
		// Комната не встала - дверь снова закрыта, ее можно исследовать еще раз
		door.Resolved = false
		logger.Log.WithFields(logrus.Fields{
			"component": "explore",
			"room":      s.RoomCode,
			"door":      doorID,
		}).WithError(err).Warn("Room placement failed, door closed again")
		return handlers.Info("The door jams shut. Nothing lies beyond it, for now."), nil
	}
	dungeon.Place(s, room)

	first := room.Tiles[0]
	s.AppendStory(first.Description)
	return handlers.Result{
		Msg:     fmt.Sprintf("Discovered the %s. %s", first.Name, first.Description),
		MsgType: domain.LogStory,
	}, nil
}

// search ставит бросок (70%) или головоломку. Действие тратится при разрешении.
func search(ctx handlers.Context, player *domain.Player, tok *domain.Token) (handlers.Result, error) {
	s := ctx.Session
	if player.ActionsRemaining <= 0 {
		return handlers.Result{}, domain.ErrNoActionsLeft
	}

	attr := tok.RequiredAttribute
	if attr == "" {
		attr = domain.AttrObservation
	}
	difficulty := max(1, tok.Difficulty)
	ac := domain.ActionContext{
		Kind:      domain.ContextSearch,
		PlayerID:  player.ID,
		TokenID:   tok.ID,
		Attribute: attr,
	}

	if ctx.Rng.Intn(100) < domain.DiceResolutionChance {
		err := s.BeginDiceRoll(domain.DiceRequest{
			PlayerID:    player.ID,
			Attribute:   attr,
			PoolSize:    systems.PoolSize(player, attr),
			Target:      difficulty,
			Description: tok.Description,
			Context:     ac,
		})
		if err != nil {
			return handlers.Result{}, err
		}
		return handlers.Info(fmt.Sprintf("%s searches: %s (%s test).", player.Name, tok.Description, attr)), nil
	}

	puzzle := systems.NewPuzzle(ctx.Rng, player.ID, difficulty, ac)
	if err := s.BeginPuzzle(puzzle); err != nil {
		return handlers.Result{}, err
	}
	return handlers.Info(fmt.Sprintf("%s searches: %s (puzzle).", player.Name, tok.Description)), nil
}

// interact тратит действие и просит у генератора описание находки
func interact(ctx handlers.Context, player *domain.Player, tok *domain.Token) (handlers.Result, error) {
	if tok.Resolved {
		return handlers.Result{}, fmt.Errorf("token %s: %w", tok.ID, domain.ErrAlreadyResolved)
	}
	if err := spendAction(player); err != nil {
		return handlers.Result{}, err
	}
	tok.Resolved = true

	narrate(ctx, tok.Description, true, "")
	return handlers.Info(fmt.Sprintf("%s examines %s.", player.Name, tok.Description)), nil
}

// escape - выход открыт, партия выиграна
func escape(ctx handlers.Context, player *domain.Player) (handlers.Result, error) {
	s := ctx.Session
	if !s.IsEscapeOpen {
		return handlers.Result{}, fmt.Errorf("escape is sealed: %w", domain.ErrNotFound)
	}
	if err := s.TransitionTo(domain.PhaseVictory); err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("%s leads the investigators out into the night. Victory!", player.Name),
		MsgType: domain.LogStory,
	}, nil
}

// narrate - асинхронный художественный текст к результату расследования
func narrate(ctx handlers.Context, description string, success bool, found string) {
	content := ctx.Content
	story := ctx.Session.StoryContext
	ctx.Defer(func(c context.Context) handlers.ApplyFunc {
		text := content.InvestigationOutcome(c, description, success, story, found)
		return func(ctx handlers.Context) (handlers.Result, error) {
			if text == "" {
				return handlers.Result{Silent: true}, nil
			}
			ctx.Session.AppendStory(text)
			return handlers.Result{Msg: text, MsgType: domain.LogStory}, nil
		}
	})
}
