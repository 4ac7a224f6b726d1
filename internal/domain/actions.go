package domain

import "strings"

// ActionType - Внутренний числовой идентификатор сообщения от клиента
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionRegisterPlayer
	ActionSetReady
	ActionStartSetup
	ActionAssignItem
	ActionStartGame
	ActionTileClick
	ActionTokenClick
	ActionMonsterClick
	ActionEndTurn
	ActionUseItem
	ActionCompleteTask
	ActionContinue

	// Отладочные команды хоста, работают только с включенными читами
	ActionDebugSpawn
	ActionDebugGrant
	ActionDebugTeleport
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"ACTION_REGISTER_PLAYER": ActionRegisterPlayer,
	"ACTION_SET_READY":       ActionSetReady,
	"ACTION_START_SETUP":     ActionStartSetup,
	"ACTION_ASSIGN_ITEM":     ActionAssignItem,
	"ACTION_START_GAME":      ActionStartGame,
	"ACTION_TILE_CLICK":      ActionTileClick,
	"ACTION_TOKEN_CLICK":     ActionTokenClick,
	"ACTION_MONSTER_CLICK":   ActionMonsterClick,
	"ACTION_END_TURN":        ActionEndTurn,
	"ACTION_USE_ITEM":        ActionUseItem,
	"ACTION_COMPLETE_TASK":   ActionCompleteTask,
	"ACTION_CONTINUE":        ActionContinue,
	"ACTION_DEBUG_SPAWN":     ActionDebugSpawn,
	"ACTION_DEBUG_GRANT":     ActionDebugGrant,
	"ACTION_DEBUG_TELEPORT":  ActionDebugTeleport,
}

// Маппинг для логов Domain -> String
var actionCmdToString = func() map[ActionType]string {
	m := make(map[ActionType]string, len(actionStringToCmd))
	for s, a := range actionStringToCmd {
		m[a] = s
	}
	return m
}()

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// IsBoardClick - клики по полю блокируются, пока ждем результат броска/пазла
func (a ActionType) IsBoardClick() bool {
	return a == ActionTileClick || a == ActionTokenClick || a == ActionMonsterClick
}
