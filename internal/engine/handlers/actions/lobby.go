package actions

import (
	"context"
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/internal/systems"
	"echoes-server/pkg/api"
	"echoes-server/pkg/dungeon"
	"fmt"
)

// HandleSetReady - отметка готовности в лобби
func HandleSetReady(ctx handlers.Context, p api.ReadyPayload) (handlers.Result, error) {
	if err := requirePhase(ctx.Session, domain.PhaseLobby); err != nil {
		return handlers.Result{}, err
	}
	player, err := ctx.Player()
	if err != nil {
		return handlers.Result{}, err
	}
	if player.IsReady == p.Ready {
		return handlers.Result{Silent: true}, nil
	}
	player.IsReady = p.Ready
	return handlers.EmptyResult(), nil
}

// HandleStartSetup - Lobby -> Setup. Стартовые предметы сыщиков уходят в общий пул.
func HandleStartSetup(ctx handlers.Context, p api.StartSetupPayload) (handlers.Result, error) {
	s := ctx.Session
	if err := requireHost(ctx); err != nil {
		return handlers.Result{}, err
	}
	if err := requirePhase(s, domain.PhaseLobby); err != nil {
		return handlers.Result{}, err
	}
	if len(s.Players) == 0 {
		return handlers.Result{}, domain.ErrNoPlayers
	}
	if err := s.TransitionTo(domain.PhaseSetup); err != nil {
		return handlers.Result{}, err
	}

	if p.Difficulty != "" {
		s.Difficulty = domain.ParseDifficulty(p.Difficulty)
		s.EvidenceRequired = s.Difficulty.EvidenceRequired()
	}

	s.SetupPool = []string{}
	for _, pl := range s.Players {
		if tmpl, ok := domain.FindInvestigator(pl.InvestigatorID); ok && tmpl.StartingItem != "" {
			s.SetupPool = append(s.SetupPool, tmpl.StartingItem)
		}
	}
	return handlers.Info(fmt.Sprintf("Preparing the investigation (%s).", s.Difficulty)), nil
}

// HandleAssignItem - хост раздает предмет из пула
func HandleAssignItem(ctx handlers.Context, p api.AssignItemPayload) (handlers.Result, error) {
	s := ctx.Session
	if err := requireHost(ctx); err != nil {
		return handlers.Result{}, err
	}
	if err := requirePhase(s, domain.PhaseSetup); err != nil {
		return handlers.Result{}, err
	}
	target := s.Player(p.PlayerID)
	if target == nil {
		return handlers.Result{}, fmt.Errorf("player %s: %w", p.PlayerID, domain.ErrUnknownPlayer)
	}

	idx := -1
	for i, it := range s.SetupPool {
		if it == p.Item {
			idx = i
			break
		}
	}
	if idx < 0 {
		return handlers.Result{}, fmt.Errorf("%s not in setup pool: %w", p.Item, domain.ErrItemUnavailable)
	}
	s.SetupPool = append(s.SetupPool[:idx], s.SetupPool[idx+1:]...)
	target.Items = append(target.Items, p.Item)
	return handlers.Info(fmt.Sprintf("%s receives the %s.", target.Name, p.Item)), nil
}

// HandleStartGame - Setup -> Playing. Вступление приходит асинхронно,
// карта и колода строятся уже в момент применения.
func HandleStartGame(ctx handlers.Context) (handlers.Result, error) {
	s := ctx.Session
	if err := requireHost(ctx); err != nil {
		return handlers.Result{}, err
	}
	if err := requirePhase(s, domain.PhaseSetup); err != nil {
		return handlers.Result{}, err
	}
	if len(s.Players) == 0 {
		return handlers.Result{}, domain.ErrNoPlayers
	}

	difficulty := s.Difficulty
	summaries := make([]domain.PlayerSummary, 0, len(s.Players))
	for _, pl := range s.Players {
		summary := domain.PlayerSummary{Name: pl.Name, Investigator: pl.InvestigatorID}
		if tmpl, ok := domain.FindInvestigator(pl.InvestigatorID); ok {
			summary.Investigator = tmpl.Name
		}
		summaries = append(summaries, summary)
	}

	content := ctx.Content
	ctx.Defer(func(c context.Context) handlers.ApplyFunc {
		intro := content.Intro(c, difficulty, summaries)
		return func(ctx handlers.Context) (handlers.Result, error) {
			return applyStart(ctx, intro)
		}
	})
	return handlers.Result{Silent: true}, nil
}

func applyStart(ctx handlers.Context, intro domain.Intro) (handlers.Result, error) {
	s := ctx.Session
	if err := requirePhase(s, domain.PhaseSetup); err != nil {
		return handlers.Result{}, fmt.Errorf("start game: %w", err)
	}
	if len(s.Players) == 0 {
		return handlers.Result{}, domain.ErrNoPlayers
	}

	foyer, err := ctx.Dungeon.InitialMap(intro.StartingRoomDescription)
	if err != nil {
		return handlers.Result{}, fmt.Errorf("initial map: %w", err)
	}
	if err := s.TransitionTo(domain.PhasePlaying); err != nil {
		return handlers.Result{}, err
	}

	var distributed []string
	for _, pl := range s.Players {
		distributed = append(distributed, pl.Items...)
	}
	s.ItemDeck = systems.ShuffleDeck(ctx.Rng, s.SetupPool, distributed)
	s.SetupPool = []string{}

	dungeon.Place(s, foyer)
	start := foyer.Tiles[0].Pos
	for _, pl := range s.Players {
		pl.Pos = start
		pl.ResetRound()
	}

	s.Title = intro.Title
	s.Intro = intro.IntroText
	s.AppendStory(intro.IntroText)
	s.Round = 1
	s.CurrentPlayerIndex = 0

	return handlers.Result{Msg: intro.Title, MsgType: domain.LogStory}, nil
}
