package actions

import (
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/internal/systems"
	"echoes-server/pkg/api"
	"echoes-server/pkg/dungeon"
	"echoes-server/pkg/logger"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Outcome - итог отложенного разрешения.
// Для головоломки Successes = 1 при успехе.
type Outcome struct {
	Faces     []domain.DieFace
	Successes int
	Passed    bool
}

// HandleCompleteTask - ACTION_COMPLETE_TASK. Контекст должен совпасть с ожидающим.
// Завершить может тот, кто бросает, или хост.
func HandleCompleteTask(ctx handlers.Context, p api.CompleteTaskPayload) (handlers.Result, error) {
	s := ctx.Session
	if !s.Phase.IsResolving() {
		return handlers.Result{}, fmt.Errorf("%w: nothing to resolve in %s", domain.ErrWrongPhase, s.Phase)
	}
	pending, ok := s.PendingContext()
	if !ok {
		return handlers.Result{}, fmt.Errorf("%w: no pending resolution", domain.ErrWrongPhase)
	}
	if *p.Context != pending {
		return handlers.Result{}, domain.ErrContextMismatch
	}
	if ctx.Actor != pending.PlayerID && ctx.Actor != s.HostID {
		return handlers.Result{}, domain.ErrNotYourTurn
	}

	out, err := readOutcome(ctx, p)
	if err != nil {
		return handlers.Result{}, err
	}
	return Resolve(ctx, pending, out)
}

// readOutcome разбирает результат. Грани от клиента проверяются,
// без граней хост бросает сам. Успех головоломки взлома кода сверяется с историей попыток.
func readOutcome(ctx handlers.Context, p api.CompleteTaskPayload) (Outcome, error) {
	s := ctx.Session

	if req := s.ActiveDiceRoll; req != nil {
		var data api.DiceData
		if len(p.Data) > 0 {
			if err := json.Unmarshal(p.Data, &data); err != nil {
				return Outcome{}, fmt.Errorf("%w: dice data: %v", domain.ErrInvalidOutcome, err)
			}
		}
		player := s.Player(req.PlayerID)
		if player == nil {
			return Outcome{}, nil
		}

		faces := data.Faces
		if len(faces) == 0 {
			faces = systems.RollDice(ctx.Rng, req.PoolSize)
		} else if err := systems.ValidateRoll(player, req, faces, data.CluesSpent); err != nil {
			return Outcome{}, err
		}
		faces, _ = systems.ApplyClueConversions(player, faces, data.CluesSpent)
		n := systems.CountSuccesses(faces)
		return Outcome{Faces: faces, Successes: n, Passed: n >= req.Target}, nil
	}

	req := s.ActivePuzzle
	if p.Success == nil {
		return Outcome{}, fmt.Errorf("%w: puzzle outcome requires success", domain.ErrInvalidOutcome)
	}
	passed := *p.Success
	if passed && req.Type == domain.PuzzleCodeBreak && len(p.Data) > 0 {
		var data api.PuzzleData
		if err := json.Unmarshal(p.Data, &data); err != nil {
			return Outcome{}, fmt.Errorf("%w: puzzle data: %v", domain.ErrInvalidOutcome, err)
		}
		if len(data.Guesses) > 0 && !systems.VerifyCodeBreak(req, data.Guesses) {
			logger.Log.WithFields(logrus.Fields{
				"component": "resolver",
				"room":      s.RoomCode,
				"player_id": req.PlayerID,
			}).Warn("Code-break claim does not match guess history, counted as failure")
			passed = false
		}
	}
	out := Outcome{Passed: passed}
	if passed {
		out.Successes = 1
	}
	return out, nil
}

// Resolve - единственная точка разрешения отложенных действий.
// Снимает ожидание, возвращает фазу и выполняет то, что описано в контексте.
func Resolve(ctx handlers.Context, ac domain.ActionContext, out Outcome) (handlers.Result, error) {
	s := ctx.Session
	ret := s.ClearPending()
	if err := s.TransitionTo(ret); err != nil {
		return handlers.Result{}, err
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "resolver",
		"room":      s.RoomCode,
		"kind":      ac.Kind,
		"player_id": ac.PlayerID,
		"successes": out.Successes,
		"passed":    out.Passed,
	}).Debug("Resolving pending action")

	switch ac.Kind {
	case domain.ContextSearch:
		return resolveSearch(ctx, ac, out)
	case domain.ContextCombat:
		return resolveCombat(ctx, ac, out)
	case domain.ContextMonsterAttack:
		return resolveMonsterAttack(ctx, ac, out)
	case domain.ContextMythosTest:
		return resolveMythosTest(ctx, ac, out)
	}
	return handlers.Result{}, fmt.Errorf("%w: unknown context kind %q", domain.ErrInvalidOutcome, ac.Kind)
}

func resolveSearch(ctx handlers.Context, ac domain.ActionContext, out Outcome) (handlers.Result, error) {
	s := ctx.Session
	p := s.Player(ac.PlayerID)
	if p == nil {
		return handlers.Info("The search is abandoned."), nil
	}
	if p.ActionsRemaining > 0 {
		p.ActionsRemaining--
	}

	tok := s.Token(ac.TokenID)
	if tok == nil {
		return handlers.Info(fmt.Sprintf("%s finds nothing left to search.", p.Name)), nil
	}
	if !out.Passed {
		narrate(ctx, tok.Description, false, "")
		return handlers.Info(fmt.Sprintf("%s searches %s but finds nothing.", p.Name, tok.Description)), nil
	}

	s.RemoveToken(tok.ID)

	var msg, found string
	reward := systems.DrawReward(ctx.Rng, s.IsEscapeOpen)
	if reward == systems.RewardItem {
		// Колода проверяется сейчас, а не в момент запроса
		if item, ok := systems.DrawItem(s); ok {
			p.Items = append(p.Items, item)
			found = item
			msg = fmt.Sprintf("%s finds a %s.", p.Name, item)
		} else {
			reward = systems.RewardClue
		}
	}
	switch reward {
	case systems.RewardEvidence:
		s.EvidenceCollected++
		found = "a piece of evidence"
		msg = fmt.Sprintf("%s uncovers evidence (%d/%d).", p.Name, s.EvidenceCollected, s.EvidenceRequired)
	case systems.RewardClue:
		p.Clues++
		found = "a clue"
		msg = fmt.Sprintf("%s finds a clue.", p.Name)
	}

	msg = joinLines(msg, OpenEscape(ctx))
	narrate(ctx, tok.Description, true, found)
	return handlers.Info(msg), nil
}

// OpenEscape - порог доказательств: ровно один босс и один выход.
// Повторный вызов ничего не добавляет.
func OpenEscape(ctx handlers.Context) string {
	s := ctx.Session
	if !systems.EvidenceThresholdReached(s) {
		return ""
	}

	var lines []string
	if !s.IsEscapeOpen {
		s.IsEscapeOpen = true
		lines = append(lines, "Enough evidence! The way out is revealed.")
	}
	if !s.HasToken(domain.TokenEscape) {
		tile := s.TileAt(domain.Position{})
		if tile == nil {
			tile = systems.RandomTile(ctx.Rng, s)
		}
		if tile != nil {
			s.Tokens = append(s.Tokens, dungeon.NewToken(domain.TokenEscape, tile.Pos, "The front door, finally unbarred", ctx.Rng))
		}
	}
	if !s.BossSpawned {
		boss, _ := domain.FindMonsterTemplate(domain.BossTemplateID)
		if tile := systems.RandomTile(ctx.Rng, s); tile != nil {
			s.Monsters = append(s.Monsters, dungeon.SpawnMonster(boss, tile.Pos, ctx.Rng))
			s.BossSpawned = true
			lines = append(lines, fmt.Sprintf("The %s awakens in the %s!", boss.Name, tile.Name))
		}
	}
	return strings.Join(lines, " ")
}

func resolveCombat(ctx handlers.Context, ac domain.ActionContext, out Outcome) (handlers.Result, error) {
	s := ctx.Session
	p := s.Player(ac.PlayerID)
	m := s.Monster(ac.MonsterID)
	if p == nil || m == nil {
		return handlers.Info("The fight ends before it begins."), nil
	}

	res := systems.ResolveAttack(p, m, out.Successes)
	if res.Killed {
		s.RemoveMonster(m.ID)
	}
	return handlers.Result{Msg: res.Log, MsgType: domain.LogCombat}, nil
}

func resolveMonsterAttack(ctx handlers.Context, ac domain.ActionContext, out Outcome) (handlers.Result, error) {
	s := ctx.Session
	p := s.Player(ac.PlayerID)
	m := s.Monster(ac.MonsterID)

	var msg string
	switch {
	case p == nil || m == nil:
	case out.Passed:
		msg = fmt.Sprintf("%s evades the %s.", p.Name, m.Name)
	default:
		msg = fmt.Sprintf("The %s strikes %s.", m.Name, p.Name)
		msg = joinLines(msg, hurt(ctx, p, m.Damage, m.Horror))
	}

	nextAttack(ctx)
	return handlers.Result{Msg: msg, MsgType: domain.LogCombat}, nil
}

func resolveMythosTest(ctx handlers.Context, ac domain.ActionContext, out Outcome) (handlers.Result, error) {
	s := ctx.Session
	p := s.Player(ac.PlayerID)
	if p == nil {
		return handlers.Result{Silent: true}, nil
	}
	if out.Passed {
		return handlers.Info(fmt.Sprintf("%s steels their %s.", p.Name, ac.Attribute)), nil
	}
	msg := fmt.Sprintf("%s fails the %s test.", p.Name, ac.Attribute)
	return handlers.Result{Msg: joinLines(msg, hurt(ctx, p, 0, 1)), MsgType: domain.LogMythos}, nil
}
