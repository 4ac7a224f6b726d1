package actions

import (
	"context"
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/internal/systems"
	"fmt"
	"strings"
)

// hurt применяет урон и его последствия: ранение, выбывание, безумие.
// Возвращает строку для журнала.
func hurt(ctx handlers.Context, p *domain.Player, damage, horror int) string {
	s := ctx.Session
	out := systems.ApplyDamage(p, damage, horror)

	var lines []string
	if out.Wounded {
		lines = append(lines, fmt.Sprintf("%s is wounded.", p.Name))
	}
	if out.Eliminated {
		s.RemovePlayer(p.ID)
		lines = append(lines, fmt.Sprintf("%s has fallen and is lost to the house.", p.Name))
		if s.Phase == domain.PhaseGameOver {
			lines = append(lines, "No investigator remains. The darkness wins.")
		}
		return strings.Join(lines, " ")
	}
	if out.BecameInsane {
		lines = append(lines, fmt.Sprintf("%s's mind breaks.", p.Name))
		requestObjective(ctx, p.ID)
	}
	return strings.Join(lines, " ")
}

// requestObjective - тайная цель безумца приходит асинхронно и выставляется один раз
func requestObjective(ctx handlers.Context, playerID string) {
	content := ctx.Content
	story := ctx.Session.StoryContext
	ctx.Defer(func(c context.Context) handlers.ApplyFunc {
		objective := content.InsanityCondition(c, story)
		return func(ctx handlers.Context) (handlers.Result, error) {
			p := ctx.Session.Player(playerID)
			if p == nil {
				return handlers.Result{}, fmt.Errorf("objective for %s: %w", playerID, domain.ErrUnknownPlayer)
			}
			if !systems.AssignObjective(p, objective) {
				return handlers.Result{Silent: true}, nil
			}
			return handlers.Result{
				Msg:     fmt.Sprintf("%s now follows a secret objective.", p.Name),
				MsgType: domain.LogStory,
			}, nil
		}
	})
}

func joinLines(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
