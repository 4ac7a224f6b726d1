package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Session - единственная авторитетная копия состояния партии.
// Мутирует только хост, клиенты получают полный снимок (SYNC) и заменяют свою копию целиком.
type Session struct {
	RoomCode   string     `json:"roomCode"`
	HostID     string     `json:"hostId"`
	Revision   int64      `json:"revision"`
	Phase      Phase      `json:"phase"`
	Round      int        `json:"round"`
	Difficulty Difficulty `json:"difficulty"`

	Players  []*Player  `json:"players"`
	Monsters []*Monster `json:"monsters"`
	Tiles    []*Tile    `json:"tiles"`
	Tokens   []*Token   `json:"tokens"`

	// ItemDeck - колода, тянем с конца
	ItemDeck  []string `json:"itemDeck"`
	SetupPool []string `json:"setupPool"`

	Log          []string `json:"log"`
	Title        string   `json:"title,omitempty"`
	Intro        string   `json:"intro,omitempty"`
	StoryContext string   `json:"storyContext"`

	EvidenceCollected  int  `json:"evidenceCollected"`
	EvidenceRequired   int  `json:"evidenceRequired"`
	IsEscapeOpen       bool `json:"isEscapeOpen"`
	CurrentPlayerIndex int  `json:"currentPlayerIndex"`

	// BossSpawned взводится один раз вместе с финалом, даже если босса потом убили
	BossSpawned bool `json:"bossSpawned"`

	// MythosPending - событие мифа этого раунда запрошено и еще не применено
	MythosPending bool `json:"mythosPending,omitempty"`

	// Не более одного активного разрешения
	ActiveDiceRoll *DiceRequest   `json:"activeDiceRoll,omitempty"`
	ActivePuzzle   *PuzzleRequest `json:"activePuzzle,omitempty"`

	// AttackQueue - атаки монстров этого раунда, ждущие своего броска
	AttackQueue []ActionContext `json:"attackQueue,omitempty"`
}

// NewSession создает пустое лобби
func NewSession(roomCode string, difficulty Difficulty) *Session {
	return &Session{
		RoomCode:         roomCode,
		Phase:            PhaseLobby,
		Difficulty:       difficulty,
		Players:          []*Player{},
		Monsters:         []*Monster{},
		Tiles:            []*Tile{},
		Tokens:           []*Token{},
		ItemDeck:         []string{},
		SetupPool:        []string{},
		Log:              []string{},
		EvidenceRequired: difficulty.EvidenceRequired(),
	}
}

// --- ПОИСК ---

func (s *Session) Player(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) PlayerIndex(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// CurrentPlayer - игрок, чей сейчас ход (nil, если игроков нет)
func (s *Session) CurrentPlayer() *Player {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil
	}
	return s.Players[s.CurrentPlayerIndex]
}

func (s *Session) Monster(id string) *Monster {
	for _, m := range s.Monsters {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *Session) Tile(id string) *Tile {
	for _, t := range s.Tiles {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Session) TileAt(p Position) *Tile {
	for _, t := range s.Tiles {
		if t.Pos == p {
			return t
		}
	}
	return nil
}

func (s *Session) Token(id string) *Token {
	for _, t := range s.Tokens {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// PlayersAt возвращает всех сыщиков в клетке
func (s *Session) PlayersAt(p Position) []*Player {
	var out []*Player
	for _, pl := range s.Players {
		if pl.Pos == p {
			out = append(out, pl)
		}
	}
	return out
}

// Board строит индекс поля для текущего состояния
func (s *Session) Board() *Board {
	return NewBoard(s.Tiles, s.Tokens)
}

// UsedCategories - уже использованные категории комнат (в нижнем регистре, без повторов)
func (s *Session) UsedCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range s.Tiles {
		c := strings.ToLower(string(t.Category))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// --- МУТАЦИИ ---

// AddLog добавляет строку в журнал, храним только последние MaxLogEntries
func (s *Session) AddLog(line string) {
	s.Log = append(s.Log, line)
	if over := len(s.Log) - MaxLogEntries; over > 0 {
		s.Log = append([]string(nil), s.Log[over:]...)
	}
}

// AppendStory дописывает нарратив в контекст генерации (только добавление)
func (s *Session) AppendStory(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if s.StoryContext != "" {
		s.StoryContext += "\n"
	}
	s.StoryContext += text
}

// TransitionTo меняет фазу, если ребро разрешено автоматом
func (s *Session) TransitionTo(to Phase) error {
	if s.Phase == to {
		return nil
	}
	if !s.Phase.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalPhase, s.Phase, to)
	}
	s.Phase = to
	return nil
}

// HasPending - есть ли активный бросок или головоломка
func (s *Session) HasPending() bool {
	return s.ActiveDiceRoll != nil || s.ActivePuzzle != nil
}

// PendingContext возвращает контекст активного разрешения
func (s *Session) PendingContext() (ActionContext, bool) {
	if s.ActiveDiceRoll != nil {
		return s.ActiveDiceRoll.Context, true
	}
	if s.ActivePuzzle != nil {
		return s.ActivePuzzle.Context, true
	}
	return ActionContext{}, false
}

// BeginDiceRoll ставит бросок в ожидание и переводит сессию в DiceRoll
func (s *Session) BeginDiceRoll(req DiceRequest) error {
	if s.HasPending() {
		return ErrResolutionActive
	}
	req.ReturnPhase = s.Phase
	if err := s.TransitionTo(PhaseDiceRoll); err != nil {
		return err
	}
	s.ActiveDiceRoll = &req
	return nil
}

// BeginPuzzle ставит головоломку в ожидание и переводит сессию в Puzzle
func (s *Session) BeginPuzzle(req PuzzleRequest) error {
	if s.HasPending() {
		return ErrResolutionActive
	}
	req.ReturnPhase = s.Phase
	if err := s.TransitionTo(PhasePuzzle); err != nil {
		return err
	}
	s.ActivePuzzle = &req
	return nil
}

// ClearPending снимает активное разрешение и возвращает фазу, из которой оно было вызвано
func (s *Session) ClearPending() Phase {
	ret := PhasePlaying
	if s.ActiveDiceRoll != nil {
		ret = s.ActiveDiceRoll.ReturnPhase
	}
	if s.ActivePuzzle != nil {
		ret = s.ActivePuzzle.ReturnPhase
	}
	s.ActiveDiceRoll = nil
	s.ActivePuzzle = nil
	return ret
}

// RemovePlayer навсегда убирает сыщика. Очередь ходов сдвигается так,
// чтобы ход не перескочил через следующего игрока.
func (s *Session) RemovePlayer(id string) bool {
	idx := s.PlayerIndex(id)
	if idx < 0 {
		return false
	}
	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)

	if idx < s.CurrentPlayerIndex {
		s.CurrentPlayerIndex--
	}
	if s.CurrentPlayerIndex >= len(s.Players) {
		s.CurrentPlayerIndex = 0
	}

	// Атаки по выбывшему больше не нужны
	kept := s.AttackQueue[:0]
	for _, ac := range s.AttackQueue {
		if ac.PlayerID != id {
			kept = append(kept, ac)
		}
	}
	s.AttackQueue = kept

	if len(s.Players) == 0 && (s.Phase == PhasePlaying || s.Phase == PhaseMythos || s.Phase.IsResolving()) {
		s.ActiveDiceRoll = nil
		s.ActivePuzzle = nil
		s.AttackQueue = nil
		s.Phase = PhaseGameOver
	}
	return true
}

func (s *Session) RemoveMonster(id string) bool {
	for i, m := range s.Monsters {
		if m.ID == id {
			s.Monsters = append(s.Monsters[:i], s.Monsters[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Session) RemoveToken(id string) bool {
	for i, t := range s.Tokens {
		if t.ID == id {
			s.Tokens = append(s.Tokens[:i], s.Tokens[i+1:]...)
			return true
		}
	}
	return false
}

// CountMonstersOfTier - сколько монстров указанного уровня на поле
func (s *Session) CountMonstersOfTier(tier int) int {
	n := 0
	for _, m := range s.Monsters {
		if m.Tier == tier {
			n++
		}
	}
	return n
}

// HasToken проверяет, есть ли маркер данного типа
func (s *Session) HasToken(tt TokenType) bool {
	for _, t := range s.Tokens {
		if t.Type == tt {
			return true
		}
	}
	return false
}

// Clone - глубокая копия через JSON. Снимок не делит память с авторитетным состоянием.
func (s *Session) Clone() (*Session, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	var out Session
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &out, nil
}
