package domain

import "strings"

// Attribute - одна из шести характеристик сыщика
type Attribute string

const (
	AttrStrength    Attribute = "strength"
	AttrAgility     Attribute = "agility"
	AttrObservation Attribute = "observation"
	AttrLore        Attribute = "lore"
	AttrInfluence   Attribute = "influence"
	AttrWill        Attribute = "will"
)

var AllAttributes = []Attribute{
	AttrStrength, AttrAgility, AttrObservation, AttrLore, AttrInfluence, AttrWill,
}

// ParseAttribute нечувствителен к регистру. Неизвестное значение -> "".
func ParseAttribute(s string) Attribute {
	a := Attribute(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllAttributes {
		if a == known {
			return a
		}
	}
	return ""
}

// Attributes - значения характеристик, копируются из шаблона при создании игрока
type Attributes struct {
	Strength    int `json:"strength"`
	Agility     int `json:"agility"`
	Observation int `json:"observation"`
	Lore        int `json:"lore"`
	Influence   int `json:"influence"`
	Will        int `json:"will"`
}

func (a Attributes) Get(attr Attribute) int {
	switch attr {
	case AttrStrength:
		return a.Strength
	case AttrAgility:
		return a.Agility
	case AttrObservation:
		return a.Observation
	case AttrLore:
		return a.Lore
	case AttrInfluence:
		return a.Influence
	case AttrWill:
		return a.Will
	}
	return 0
}

// Difficulty - сложность сессии
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyNormal Difficulty = "NORMAL"
	DifficultyHard   Difficulty = "HARD"
)

func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToUpper(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	}
	return DifficultyNormal
}

// EvidenceRequired - сколько улик нужно, чтобы открылся выход
func (d Difficulty) EvidenceRequired() int {
	switch d {
	case DifficultyEasy:
		return 3
	case DifficultyHard:
		return 5
	}
	return 4
}

// LesserMonsterCap - максимум монстров первого уровня на поле
func (d Difficulty) LesserMonsterCap() int {
	switch d {
	case DifficultyEasy:
		return 2
	case DifficultyHard:
		return 4
	}
	return 3
}
