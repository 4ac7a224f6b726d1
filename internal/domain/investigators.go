package domain

// InvestigatorTemplate - карточка сыщика
type InvestigatorTemplate struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Color        string     `json:"color"`
	MaxHealth    int        `json:"maxHealth"`
	MaxSanity    int        `json:"maxSanity"`
	Attributes   Attributes `json:"attributes"`
	StartingItem string     `json:"startingItem"`
}

var Investigators = []InvestigatorTemplate{
	{
		ID: "detective", Name: "Joe Diamond", Color: "#60A5FA",
		MaxHealth: 6, MaxSanity: 5,
		Attributes:   Attributes{Strength: 3, Agility: 3, Observation: 4, Lore: 2, Influence: 3, Will: 3},
		StartingItem: ItemRevolver,
	},
	{
		ID: "professor", Name: "Harvey Walters", Color: "#A78BFA",
		MaxHealth: 4, MaxSanity: 7,
		Attributes:   Attributes{Strength: 1, Agility: 2, Observation: 3, Lore: 5, Influence: 3, Will: 4},
		StartingItem: ItemOldTome,
	},
	{
		ID: "drifter", Name: "Ashcan Pete", Color: "#F59E0B",
		MaxHealth: 7, MaxSanity: 5,
		Attributes:   Attributes{Strength: 3, Agility: 4, Observation: 3, Lore: 2, Influence: 2, Will: 3},
		StartingItem: ItemKnife,
	},
	{
		ID: "nun", Name: "Sister Mary", Color: "#F3F4F6",
		MaxHealth: 5, MaxSanity: 7,
		Attributes:   Attributes{Strength: 2, Agility: 2, Observation: 3, Lore: 4, Influence: 4, Will: 5},
		StartingItem: ItemHolyWater,
	},
	{
		ID: "athlete", Name: "Jenny Barnes", Color: "#F472B6",
		MaxHealth: 6, MaxSanity: 5,
		Attributes:   Attributes{Strength: 4, Agility: 4, Observation: 2, Lore: 2, Influence: 3, Will: 3},
		StartingItem: ItemAxe,
	},
	{
		ID: "reporter", Name: "Rex Murphy", Color: "#34D399",
		MaxHealth: 5, MaxSanity: 6,
		Attributes:   Attributes{Strength: 2, Agility: 3, Observation: 4, Lore: 3, Influence: 4, Will: 2},
		StartingItem: ItemFlashlight,
	},
}

// FindInvestigator возвращает шаблон по id
func FindInvestigator(id string) (InvestigatorTemplate, bool) {
	for _, t := range Investigators {
		if t.ID == id {
			return t, true
		}
	}
	return InvestigatorTemplate{}, false
}
