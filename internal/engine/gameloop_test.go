package engine

import (
	"echoes-server/internal/domain"
	"echoes-server/pkg/api"
	"errors"
	"testing"
)

// walkTo ведет игрока по клеткам фойе: сначала по X, потом по Y
func walkTo(t *testing.T, i *Instance, playerID string, to domain.Position) {
	t.Helper()
	for {
		p := i.Session.Player(playerID)
		if p.Pos == to {
			return
		}
		next := p.Pos
		switch {
		case next.X < to.X:
			next.X++
		case next.X > to.X:
			next.X--
		case next.Y < to.Y:
			next.Y++
		default:
			next.Y--
		}
		tile := i.Session.TileAt(next)
		if tile == nil {
			t.Fatalf("no tile at %v", next)
		}
		i.mustDo(t, playerID, domain.ActionTileClick, map[string]any{"tileId": tile.ID})
	}
}

func firstToken(s *domain.Session, tt domain.TokenType) *domain.Token {
	for _, tok := range s.Tokens {
		if tok.Type == tt && !tok.Resolved {
			return tok
		}
	}
	return nil
}

// finishMythos разбирает все броски фазы мифа и возвращает ход игрокам
func finishMythos(t *testing.T, i *Instance) {
	t.Helper()
	for i.Session.HasPending() {
		resolvePending(t, i, true)
	}
	if i.Session.Phase == domain.PhaseMythos {
		i.mustDo(t, "p1", domain.ActionContinue, nil)
	}
}

func TestGameLoop_LobbyToPlaying(t *testing.T) {
	i := startedGame(t, 42)
	s := i.Session

	if s.HostID != "p1" {
		t.Errorf("HostID = %q, want p1", s.HostID)
	}
	if len(s.Tiles) != 4 {
		t.Errorf("foyer tiles = %d, want 4", len(s.Tiles))
	}
	if s.Round != 1 || s.CurrentPlayerIndex != 0 {
		t.Errorf("round/index = %d/%d, want 1/0", s.Round, s.CurrentPlayerIndex)
	}
	if s.Title == "" || s.StoryContext == "" {
		t.Error("intro was not applied")
	}
	for _, p := range s.Players {
		if p.Pos != (domain.Position{}) {
			t.Errorf("%s starts at %v, want foyer origin", p.ID, p.Pos)
		}
		if p.MovesRemaining != domain.ResourcesPerRound || p.ActionsRemaining != domain.ResourcesPerRound {
			t.Errorf("%s resources = %d/%d", p.ID, p.MovesRemaining, p.ActionsRemaining)
		}
	}

	// Стартовые предметы никому не розданы и ушли в колоду вместе с каталогом
	if want := 2 + len(domain.CatalogNames()); len(s.ItemDeck) != want {
		t.Errorf("deck size = %d, want %d", len(s.ItemDeck), want)
	}
	if len(s.SetupPool) != 0 {
		t.Errorf("setup pool not emptied: %v", s.SetupPool)
	}
	if snap := i.Snapshot(); snap == nil || snap.Revision != s.Revision {
		t.Error("snapshot is behind the session")
	}
}

func TestGameLoop_AssignItem(t *testing.T) {
	i := newTestInstance(t, 7)
	register(t, i, "p1", "Alice", "detective")
	register(t, i, "p2", "Bob", "athlete")
	i.mustDo(t, "p1", domain.ActionStartSetup, map[string]any{"difficulty": "easy"})

	if err := i.do(t, "p2", domain.ActionAssignItem, map[string]any{"item": domain.ItemRevolver, "playerId": "p2"}); !errors.Is(err, domain.ErrNotHost) {
		t.Errorf("guest assign: err = %v, want ErrNotHost", err)
	}
	i.mustDo(t, "p1", domain.ActionAssignItem, map[string]any{"item": domain.ItemRevolver, "playerId": "p1"})
	if err := i.do(t, "p1", domain.ActionAssignItem, map[string]any{"item": domain.ItemRevolver, "playerId": "p2"}); !errors.Is(err, domain.ErrItemUnavailable) {
		t.Errorf("double assign: err = %v, want ErrItemUnavailable", err)
	}

	i.mustDo(t, "p1", domain.ActionStartGame, nil)
	s := i.Session
	if !s.Player("p1").HasItem(domain.ItemRevolver) {
		t.Error("p1 should keep the assigned revolver")
	}
	if want := 1 + len(domain.CatalogNames()) - 1; len(s.ItemDeck) != want {
		t.Errorf("deck size = %d, want %d", len(s.ItemDeck), want)
	}
	if s.EvidenceRequired != domain.DifficultyEasy.EvidenceRequired() {
		t.Errorf("EvidenceRequired = %d, want easy threshold", s.EvidenceRequired)
	}
}

func TestGameLoop_Register(t *testing.T) {
	i := newTestInstance(t, 1)
	register(t, i, "p1", "Alice", "detective")
	register(t, i, "p1", "Alice B.", "professor")

	s := i.Session
	if len(s.Players) != 1 {
		t.Fatalf("players = %d, want 1", len(s.Players))
	}
	if p := s.Players[0]; p.Name != "Alice B." || p.InvestigatorID != "professor" {
		t.Errorf("player not updated in place: %+v", p)
	}

	// Чужой id от этого соединения не принимается
	err := i.do(t, "p1", domain.ActionRegisterPlayer, map[string]any{
		"payload": map[string]any{"id": "p9", "name": "Mallory"},
	})
	if err == nil {
		t.Error("registering a foreign id should fail")
	}

	i.mustDo(t, "p1", domain.ActionStartSetup, nil)
	err = i.do(t, "p2", domain.ActionRegisterPlayer, map[string]any{
		"payload": map[string]any{"id": "p2", "name": "Late"},
	})
	if !errors.Is(err, domain.ErrLobbyClosed) {
		t.Errorf("late join: err = %v, want ErrLobbyClosed", err)
	}
}

func TestGameLoop_TurnRotation(t *testing.T) {
	i := startedGame(t, 3)

	if err := i.do(t, "p2", domain.ActionEndTurn, nil); !errors.Is(err, domain.ErrNotYourTurn) {
		t.Errorf("out of turn: err = %v, want ErrNotYourTurn", err)
	}

	i.mustDo(t, "p1", domain.ActionEndTurn, nil)
	if cur := i.Session.CurrentPlayer(); cur.ID != "p2" {
		t.Fatalf("current = %s, want p2", cur.ID)
	}

	i.mustDo(t, "p2", domain.ActionEndTurn, nil)
	s := i.Session
	if s.Phase != domain.PhaseMythos && !s.HasPending() {
		t.Fatalf("phase = %s, want MYTHOS", s.Phase)
	}
	if s.Round != 2 {
		t.Errorf("round = %d, want 2", s.Round)
	}

	finishMythos(t, i)
	if s.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %s, want PLAYING", s.Phase)
	}
	if cur := s.CurrentPlayer(); cur.ID != "p1" {
		t.Errorf("round 2 starts with %s, want p1", cur.ID)
	}
}

func TestGameLoop_Move(t *testing.T) {
	i := startedGame(t, 5)
	target := i.Session.TileAt(domain.Position{X: 1, Y: 0})

	if err := i.do(t, "p2", domain.ActionTileClick, map[string]any{"tileId": target.ID}); !errors.Is(err, domain.ErrNotYourTurn) {
		t.Errorf("out of turn: err = %v, want ErrNotYourTurn", err)
	}

	i.mustDo(t, "p1", domain.ActionTileClick, map[string]any{"tileId": target.ID})
	p := i.Session.Player("p1")
	if p.Pos != target.Pos || p.MovesRemaining != domain.ResourcesPerRound-1 {
		t.Errorf("after move: pos %v moves %d", p.Pos, p.MovesRemaining)
	}

	far := i.Session.TileAt(domain.Position{X: 0, Y: 1})
	if err := i.do(t, "p1", domain.ActionTileClick, map[string]any{"tileId": far.ID}); !errors.Is(err, domain.ErrOutOfReach) {
		t.Errorf("diagonal move: err = %v, want ErrOutOfReach", err)
	}
}

func TestGameLoop_SearchBlocksBoard(t *testing.T) {
	i := startedGame(t, 11)
	s := i.Session

	tok := firstToken(s, domain.TokenSearch)
	if tok == nil {
		t.Fatal("foyer has no search point")
	}
	walkTo(t, i, "p1", tok.Pos)
	tokenID := tok.ID

	i.mustDo(t, "p1", domain.ActionTokenClick, map[string]any{"tokenId": tokenID})
	if !s.HasPending() {
		t.Fatal("search should start a dice roll or a puzzle")
	}

	tile := s.TileAt(domain.Position{X: 1, Y: 0})
	if err := i.do(t, "p1", domain.ActionTileClick, map[string]any{"tileId": tile.ID}); !errors.Is(err, domain.ErrResolutionActive) {
		t.Errorf("board click while pending: err = %v, want ErrResolutionActive", err)
	}
	if err := i.do(t, "p1", domain.ActionEndTurn, nil); !errors.Is(err, domain.ErrResolutionActive) {
		t.Errorf("end turn while pending: err = %v, want ErrResolutionActive", err)
	}

	p := s.Player("p1")
	clues, items, evidence := p.Clues, len(p.Items), s.EvidenceCollected
	actions := p.ActionsRemaining

	resolvePending(t, i, true)

	if s.Phase != domain.PhasePlaying {
		t.Errorf("phase = %s, want PLAYING", s.Phase)
	}
	if s.Token(tokenID) != nil {
		t.Error("searched token should be removed")
	}
	gained := (p.Clues - clues) + (len(p.Items) - items) + (s.EvidenceCollected - evidence)
	if gained != 1 {
		t.Errorf("rewards gained = %d, want exactly 1", gained)
	}
	if p.ActionsRemaining != actions-1 {
		t.Errorf("actions = %d, want %d", p.ActionsRemaining, actions-1)
	}
}

func TestGameLoop_ContextMismatch(t *testing.T) {
	i := startedGame(t, 11)
	s := i.Session

	tok := firstToken(s, domain.TokenSearch)
	walkTo(t, i, "p1", tok.Pos)
	i.mustDo(t, "p1", domain.ActionTokenClick, map[string]any{"tokenId": tok.ID})

	ac, _ := s.PendingContext()
	forged := ac
	forged.TokenID = "search_forged"
	err := i.do(t, "p1", domain.ActionCompleteTask, map[string]any{"context": forged, "success": true})
	if !errors.Is(err, domain.ErrContextMismatch) {
		t.Fatalf("err = %v, want ErrContextMismatch", err)
	}
	if !s.HasPending() {
		t.Error("mismatched completion must not clear the pending resolution")
	}
	if err := i.do(t, "p2", domain.ActionCompleteTask, map[string]any{"context": ac, "success": true}); !errors.Is(err, domain.ErrNotYourTurn) {
		t.Errorf("foreign completion: err = %v, want ErrNotYourTurn", err)
	}
}

func TestGameLoop_Explore(t *testing.T) {
	i := startedGame(t, 21)
	s := i.Session

	door := firstToken(s, domain.TokenExplore)
	if door == nil {
		t.Fatal("foyer has no door")
	}
	walkTo(t, i, "p1", door.Pos)
	doorID, target := door.ID, door.DoorTarget()
	before := len(s.Tiles)

	i.mustDo(t, "p1", domain.ActionTokenClick, map[string]any{"tokenId": doorID})

	if !s.Token(doorID).Resolved {
		t.Error("door should be open")
	}
	if len(s.Tiles) <= before {
		t.Fatalf("tiles = %d, want more than %d", len(s.Tiles), before)
	}
	if s.TileAt(target) == nil {
		t.Errorf("no tile behind the door at %v", target)
	}
	if p := s.Player("p1"); p.ActionsRemaining != domain.ResourcesPerRound-1 {
		t.Errorf("actions = %d, want %d", p.ActionsRemaining, domain.ResourcesPerRound-1)
	}

	seen := make(map[domain.Position]bool)
	for _, tile := range s.Tiles {
		if seen[tile.Pos] {
			t.Errorf("two tiles at %v", tile.Pos)
		}
		seen[tile.Pos] = true
	}

	if err := i.do(t, "p1", domain.ActionTokenClick, map[string]any{"tokenId": doorID}); !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Errorf("second explore: err = %v, want ErrAlreadyResolved", err)
	}
}

func TestGameLoop_CombatKillsMonster(t *testing.T) {
	i := startedGame(t, 8)
	s := i.Session

	i.mustDo(t, "p1", domain.ActionDebugSpawn, map[string]any{"template": "cultist"})
	if len(s.Monsters) != 1 {
		t.Fatalf("monsters = %d, want 1", len(s.Monsters))
	}
	m := s.Monsters[0]

	i.mustDo(t, "p1", domain.ActionMonsterClick, map[string]any{"monsterId": m.ID})
	if s.ActiveDiceRoll == nil || s.ActiveDiceRoll.Context.Kind != domain.ContextCombat {
		t.Fatal("attack should start a combat roll")
	}
	resolvePending(t, i, true)

	// Сыщик бросает 3 силы, у культиста 2 здоровья
	if s.Monster(m.ID) != nil {
		t.Error("monster should be dead")
	}
	if p := s.Player("p1"); p.ActionsRemaining != domain.ResourcesPerRound-1 {
		t.Errorf("actions = %d, want %d", p.ActionsRemaining, domain.ResourcesPerRound-1)
	}
}

func TestGameLoop_MonsterAttackQueue(t *testing.T) {
	i := startedGame(t, 9)
	s := i.Session

	i.mustDo(t, "p1", domain.ActionDebugSpawn, map[string]any{"template": "cultist"})
	i.mustDo(t, "p1", domain.ActionEndTurn, nil)
	i.mustDo(t, "p2", domain.ActionEndTurn, nil)

	req := s.ActiveDiceRoll
	if req == nil || req.Context.Kind != domain.ContextMonsterAttack {
		t.Fatalf("expected a monster attack roll, phase %s", s.Phase)
	}
	if req.ReturnPhase != domain.PhaseMythos {
		t.Errorf("ReturnPhase = %s, want MYTHOS", req.ReturnPhase)
	}
	if err := i.do(t, "p1", domain.ActionContinue, nil); !errors.Is(err, domain.ErrWrongPhase) {
		t.Errorf("continue during attack: err = %v, want ErrWrongPhase", err)
	}

	victim := s.Player(req.PlayerID)
	health := victim.Health
	resolvePending(t, i, false)

	if victim.Health != health-1 {
		t.Errorf("health = %d, want %d", victim.Health, health-1)
	}
	if s.Phase != domain.PhaseMythos || len(s.AttackQueue) != 0 {
		t.Fatalf("phase %s queue %d, want MYTHOS with empty queue", s.Phase, len(s.AttackQueue))
	}
	i.mustDo(t, "p2", domain.ActionContinue, nil)
	if s.Phase != domain.PhasePlaying {
		t.Errorf("phase = %s, want PLAYING", s.Phase)
	}
}

func TestGameLoop_LastInvestigatorFalls(t *testing.T) {
	i := newTestInstance(t, 13)
	register(t, i, "p1", "Alice", "professor")
	i.mustDo(t, "p1", domain.ActionStartSetup, nil)
	i.mustDo(t, "p1", domain.ActionStartGame, nil)

	s := i.Session
	p := s.Player("p1")
	p.IsWounded = true
	p.Health = 1

	i.mustDo(t, "p1", domain.ActionDebugSpawn, map[string]any{"template": "deep_one"})
	i.mustDo(t, "p1", domain.ActionEndTurn, nil)
	resolvePending(t, i, false)

	if len(s.Players) != 0 {
		t.Errorf("players = %d, want 0", len(s.Players))
	}
	if s.Phase != domain.PhaseGameOver {
		t.Errorf("phase = %s, want GAME_OVER", s.Phase)
	}
}

func TestGameLoop_Victory(t *testing.T) {
	i := startedGame(t, 17)
	s := i.Session

	i.mustDo(t, "p1", domain.ActionDebugGrant, map[string]any{"evidence": s.EvidenceRequired})
	if !s.IsEscapeOpen {
		t.Fatal("escape should be open")
	}
	if s.CountMonstersOfTier(3) != 1 {
		t.Errorf("bosses = %d, want 1", s.CountMonstersOfTier(3))
	}

	// Повторный порог не добавляет второго босса и второй выход
	i.mustDo(t, "p1", domain.ActionDebugGrant, map[string]any{"evidence": 1})
	escapes := 0
	for _, tok := range s.Tokens {
		if tok.Type == domain.TokenEscape {
			escapes++
		}
	}
	if escapes != 1 || s.CountMonstersOfTier(3) != 1 {
		t.Errorf("escapes %d bosses %d, want 1 and 1", escapes, s.CountMonstersOfTier(3))
	}

	exit := firstToken(s, domain.TokenEscape)
	walkTo(t, i, "p1", exit.Pos)
	i.mustDo(t, "p1", domain.ActionTokenClick, map[string]any{"tokenId": exit.ID})
	if s.Phase != domain.PhaseVictory {
		t.Fatalf("phase = %s, want VICTORY", s.Phase)
	}
	if err := i.do(t, "p1", domain.ActionEndTurn, nil); err == nil {
		t.Error("actions after victory must be rejected")
	}
}

func TestGameLoop_SyncAndErrors(t *testing.T) {
	i := newTestInstance(t, 2)
	ch := i.Hub.Register("conn-1")

	register(t, i, "p1", "Alice", "detective")
	msg := <-ch
	if msg.Type != api.MsgSync || msg.State == nil || len(msg.State.Players) != 1 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	rev := msg.State.Revision

	// Снимок не меняется, когда меняется сессия
	i.Session.Players[0].Name = "mutated"
	if msg.State.Players[0].Name != "Alice" {
		t.Error("broadcast snapshot aliases the live session")
	}
	i.Session.Players[0].Name = "Alice"

	err := i.executeCommand(InstanceCommand{
		ConnID:   "conn-1",
		PlayerID: "p2",
		Action:   domain.ActionStartSetup,
		Raw:      []byte(`{"type":"ACTION_START_SETUP"}`),
	})
	if !errors.Is(err, domain.ErrNotHost) {
		t.Fatalf("err = %v, want ErrNotHost", err)
	}
	msg = <-ch
	if msg.Type != api.MsgError || msg.Action != "ACTION_START_SETUP" {
		t.Errorf("unexpected rejection: %+v", msg)
	}
	if i.Session.Revision != rev {
		t.Errorf("revision moved on a rejected action: %d -> %d", rev, i.Session.Revision)
	}

	if got := len(i.Journal()); got != 1 {
		t.Errorf("journal = %d entries, want 1", got)
	}
}
