package actions

import (
	"context"
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/internal/systems"
	"echoes-server/pkg/dungeon"
	"echoes-server/pkg/logger"
	"fmt"

	"github.com/sirupsen/logrus"
)

// beginMythos - фаза мифа: новый раунд, ход монстров, затем атаки или событие
func beginMythos(ctx handlers.Context) (handlers.Result, error) {
	s := ctx.Session
	if err := s.TransitionTo(domain.PhaseMythos); err != nil {
		return handlers.Result{}, err
	}
	systems.StartRound(s)

	attacks := systems.MoveMonsters(s)
	if len(attacks) > 0 {
		s.AttackQueue = attacks
		nextAttack(ctx)
		return handlers.Result{
			Msg:     fmt.Sprintf("Round %d. The monsters close in!", s.Round),
			MsgType: domain.LogMythos,
		}, nil
	}

	requestMythosEvent(ctx)
	return handlers.Result{
		Msg:     fmt.Sprintf("Round %d. The Mythos stirs...", s.Round),
		MsgType: domain.LogMythos,
	}, nil
}

// requestMythosEvent запрашивает событие раунда. Пока оно не применено, CONTINUE отклоняется.
func requestMythosEvent(ctx handlers.Context) {
	s := ctx.Session
	s.MythosPending = true

	threat := systems.ThreatLevel(s.Round, len(s.Tiles), s.IsEscapeOpen)
	round := s.Round
	story := s.StoryContext
	content := ctx.Content
	ctx.Defer(func(c context.Context) handlers.ApplyFunc {
		ev := content.MythosEvent(c, story, threat)
		return func(ctx handlers.Context) (handlers.Result, error) {
			return applyMythosEvent(ctx, round, threat, ev)
		}
	})
}

// nextAttack снимает атаку с очереди и ставит бросок уклонения.
// Атаки по выбывшим или на убитых монстров пропускаются.
func nextAttack(ctx handlers.Context) {
	s := ctx.Session
	for len(s.AttackQueue) > 0 && !s.Phase.IsTerminal() {
		ac := s.AttackQueue[0]
		s.AttackQueue = s.AttackQueue[1:]

		p := s.Player(ac.PlayerID)
		m := s.Monster(ac.MonsterID)
		if p == nil || m == nil {
			continue
		}
		err := s.BeginDiceRoll(domain.DiceRequest{
			PlayerID:    p.ID,
			Attribute:   ac.Attribute,
			PoolSize:    systems.PoolSize(p, ac.Attribute),
			Target:      m.Tier,
			Description: fmt.Sprintf("Evade the %s", m.Name),
			Context:     ac,
		})
		if err == nil {
			return
		}
		logger.Log.WithFields(logrus.Fields{
			"component": "mythos",
			"room":      s.RoomCode,
			"player_id": p.ID,
		}).WithError(err).Warn("Monster attack dropped")
	}
	s.AttackQueue = nil
}

// applyMythosEvent - событие мифа применяется, только если раунд не сменился
func applyMythosEvent(ctx handlers.Context, round, threat int, ev domain.MythosEvent) (handlers.Result, error) {
	s := ctx.Session
	if s.Round == round {
		s.MythosPending = false
	}
	if s.Round != round || s.Phase.IsTerminal() {
		return handlers.Result{}, fmt.Errorf("mythos event for round %d: %w", round, domain.ErrWrongPhase)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"component": "mythos",
		"room":      s.RoomCode,
		"round":     round,
		"threat":    threat,
		"kind":      ev.Kind,
		"param":     ev.Param,
	})
	s.AppendStory(ev.Narrative)

	switch ev.Kind {
	case domain.MythosSpawn:
		tmpl, ok := systems.PickSpawn(ctx.Rng, s, threat, ev.Param)
		tile := systems.RandomTile(ctx.Rng, s)
		if !ok || tile == nil {
			log.Debug("Spawn suppressed by caps")
			break
		}
		m := dungeon.SpawnMonster(tmpl, tile.Pos, ctx.Rng)
		s.Monsters = append(s.Monsters, m)
		log.WithField("monster", m.Name).Info("Monster spawned")
		return handlers.Result{
			Msg:     fmt.Sprintf("%s A %s emerges in the %s.", ev.Narrative, m.Name, tile.Name),
			MsgType: domain.LogMythos,
		}, nil

	case domain.MythosTest:
		if attr := domain.ParseAttribute(ev.Param); attr != "" && len(s.Players) > 0 && !s.HasPending() {
			p := s.Players[ctx.Rng.Intn(len(s.Players))]
			err := s.BeginDiceRoll(domain.DiceRequest{
				PlayerID:    p.ID,
				Attribute:   attr,
				PoolSize:    systems.PoolSize(p, attr),
				Target:      1,
				Description: ev.Narrative,
				Context: domain.ActionContext{
					Kind:      domain.ContextMythosTest,
					PlayerID:  p.ID,
					Attribute: attr,
				},
			})
			if err == nil {
				return handlers.Result{
					Msg:     fmt.Sprintf("%s %s must test %s.", ev.Narrative, p.Name, attr),
					MsgType: domain.LogMythos,
				}, nil
			}
			log.WithError(err).Warn("Mythos test could not be scheduled, applying horror to all")
		}

		msg := ev.Narrative + " Everyone loses 1 sanity."
		ids := make([]string, 0, len(s.Players))
		for _, p := range s.Players {
			ids = append(ids, p.ID)
		}
		for _, id := range ids {
			if p := s.Player(id); p != nil {
				msg = joinLines(msg, hurt(ctx, p, 0, 1))
			}
		}
		return handlers.Result{Msg: msg, MsgType: domain.LogMythos}, nil
	}

	return handlers.Result{Msg: ev.Narrative, MsgType: domain.LogMythos}, nil
}
