package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Phase - состояние конечного автомата сессии
type Phase uint8

const (
	PhaseLobby Phase = iota
	PhaseSetup
	PhasePlaying
	PhaseDiceRoll
	PhasePuzzle
	PhaseMythos
	PhaseGameOver
	PhaseVictory
)

var phaseToString = map[Phase]string{
	PhaseLobby:    "LOBBY",
	PhaseSetup:    "SETUP",
	PhasePlaying:  "PLAYING",
	PhaseDiceRoll: "DICE_ROLL",
	PhasePuzzle:   "PUZZLE",
	PhaseMythos:   "MYTHOS",
	PhaseGameOver: "GAME_OVER",
	PhaseVictory:  "VICTORY",
}

var stringToPhase = func() map[string]Phase {
	m := make(map[string]Phase, len(phaseToString))
	for p, s := range phaseToString {
		m[s] = p
	}
	return m
}()

func (p Phase) String() string {
	if s, ok := phaseToString[p]; ok {
		return s
	}
	return "UNKNOWN"
}

func ParsePhase(s string) (Phase, bool) {
	p, ok := stringToPhase[strings.ToUpper(s)]
	return p, ok
}

// MarshalJSON - фаза уходит клиенту строкой
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParsePhase(s)
	if !ok {
		return fmt.Errorf("unknown phase %q", s)
	}
	*p = parsed
	return nil
}

// IsTerminal - GameOver и Victory конечные
func (p Phase) IsTerminal() bool {
	return p == PhaseGameOver || p == PhaseVictory
}

// IsResolving - фаза ожидания отложенного результата (кубики или головоломка)
func (p Phase) IsResolving() bool {
	return p == PhaseDiceRoll || p == PhasePuzzle
}

// Таблица допустимых переходов.
// DiceRoll/Puzzle возвращаются в ту фазу, из которой были вызваны (Playing или Mythos).
var transitions = map[Phase][]Phase{
	PhaseLobby:    {PhaseSetup},
	PhaseSetup:    {PhasePlaying},
	PhasePlaying:  {PhaseDiceRoll, PhasePuzzle, PhaseMythos, PhaseVictory, PhaseGameOver},
	PhaseDiceRoll: {PhasePlaying, PhaseMythos, PhaseGameOver},
	PhasePuzzle:   {PhasePlaying, PhaseMythos, PhaseGameOver},
	PhaseMythos:   {PhasePlaying, PhaseDiceRoll, PhaseGameOver},
}

// CanTransition проверяет ребро автомата
func (p Phase) CanTransition(to Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == to {
			return true
		}
	}
	return false
}
