package domain

// Ресурсы сыщика на раунд
const (
	ResourcesPerRound = 2
	WoundedResources  = 1
)

// Лимиты сессии
const (
	MaxLogEntries = 50
	MaxMonsters   = 10
	MaxThreat     = 10
)

// Шансы генерации (в процентах)
const (
	DiceResolutionChance = 70 // иначе головоломка
	RewardEvidenceChance = 20
	RewardItemChance     = 45
)

// Игральная кость: 8 граней, 3 успеха, 2 улики, 3 пустых
const (
	DieSides        = 8
	DieSuccessFaces = 3
	DieClueFaces    = 2
)

// Типы лог-записей
const (
	LogInfo   = "INFO"
	LogCombat = "COMBAT"
	LogStory  = "STORY"
	LogMythos = "MYTHOS"
)
