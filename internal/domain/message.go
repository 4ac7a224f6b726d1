package domain

// Данные, которыми обменивается движок и сервис генерации контента.

// Intro - вступление к партии
type Intro struct {
	Title                   string `json:"title"`
	IntroText               string `json:"introText"`
	StartingRoomDescription string `json:"startingRoomDescription"`
}

// SearchPoint - точка обыска в новой комнате
type SearchPoint struct {
	Description string    `json:"description"`
	Attribute   Attribute `json:"attribute"`
}

// RoomDescriptor - описание комнаты, из которого генератор строит тайлы и маркеры
type RoomDescriptor struct {
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	VisualCategory RoomCategory  `json:"visualCategory"`
	SearchPoints   []SearchPoint `json:"searchPoints"`
}

// RoomRequest - входные данные generateRoomDiscovery
type RoomRequest struct {
	Direction          Direction    `json:"direction"`
	Context            string       `json:"context"`
	FromCategory       RoomCategory `json:"fromCategory"`
	ExistingCategories []string     `json:"existingCategories"`
}

// MythosKind - тип события фазы мифа
type MythosKind string

const (
	MythosSpawn  MythosKind = "SPAWN"
	MythosTest   MythosKind = "TEST"
	MythosFlavor MythosKind = "FLAVOR"
)

// MythosEvent - событие мифа. Param: для SPAWN - id шаблона или уровень, для TEST - характеристика.
type MythosEvent struct {
	Narrative string     `json:"narrative"`
	Kind      MythosKind `json:"kind"`
	Param     string     `json:"param,omitempty"`
}

// PlayerSummary - то, что генератор знает об игроке
type PlayerSummary struct {
	Name         string `json:"name"`
	Investigator string `json:"investigator"`
}
