package domain

import "strings"

// Player - сыщик. Порядок игроков в сессии = порядок ходов.
type Player struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	InvestigatorID       string     `json:"investigatorId"`
	Color                string     `json:"color"`
	Clues                int        `json:"clues"`
	Items                []string   `json:"items"`
	Health               int        `json:"health"`
	MaxHealth            int        `json:"maxHealth"`
	Sanity               int        `json:"sanity"`
	MaxSanity            int        `json:"maxSanity"`
	Attributes           Attributes `json:"attributes"`
	Pos                  Position   `json:"position"`
	MovesRemaining       int        `json:"movesRemaining"`
	ActionsRemaining     int        `json:"actionsRemaining"`
	IsWounded            bool       `json:"isWounded"`
	IsInsane             bool       `json:"isInsane"`
	SecretObjective      string     `json:"secretObjective,omitempty"`
	UsedItemAbilityRound int        `json:"usedItemAbilityRound"`
	IsReady              bool       `json:"isReady"`
}

// NewPlayer создает сыщика по шаблону. Характеристики копируются.
func NewPlayer(id, name string, tmpl InvestigatorTemplate) *Player {
	return &Player{
		ID:                   id,
		Name:                 name,
		InvestigatorID:       tmpl.ID,
		Color:                tmpl.Color,
		Items:                []string{},
		Health:               tmpl.MaxHealth,
		MaxHealth:            tmpl.MaxHealth,
		Sanity:               tmpl.MaxSanity,
		MaxSanity:            tmpl.MaxSanity,
		Attributes:           tmpl.Attributes,
		MovesRemaining:       ResourcesPerRound,
		ActionsRemaining:     ResourcesPerRound,
		UsedItemAbilityRound: -1,
	}
}

// ResetRound восстанавливает ходы и действия на новый раунд
func (p *Player) ResetRound() {
	n := ResourcesPerRound
	if p.IsWounded {
		n = WoundedResources
	}
	p.MovesRemaining = n
	p.ActionsRemaining = n
}

func (p *Player) HasItem(name string) bool {
	for _, it := range p.Items {
		if strings.EqualFold(it, name) {
			return true
		}
	}
	return false
}

// RemoveItem удаляет один экземпляр предмета (дубликаты допустимы)
func (p *Player) RemoveItem(name string) bool {
	for i, it := range p.Items {
		if strings.EqualFold(it, name) {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Monster - чудовище на поле
type Monster struct {
	ID         string   `json:"id"`
	TemplateID string   `json:"templateId"`
	Name       string   `json:"name"`
	Health     int      `json:"health"`
	MaxHealth  int      `json:"maxHealth"`
	Damage     int      `json:"damage"`
	Horror     int      `json:"horror"`
	Tier       int      `json:"tier"`
	Pos        Position `json:"position"`
}

// Speed - сколько клеток монстр проходит за фазу мифа
func (m *Monster) Speed() int {
	if m.Tier >= 3 {
		return 3
	}
	return 2
}

// IsSpectral - призраки уязвимы к святой воде
func (m *Monster) IsSpectral() bool {
	return strings.Contains(m.Name, "Spirit") || strings.Contains(m.Name, "Ghost")
}

// MonsterTemplate - шаблон для спавна
type MonsterTemplate struct {
	ID     string
	Name   string
	Health int
	Damage int
	Horror int
	Tier   int
}

var MonsterTemplates = []MonsterTemplate{
	{ID: "cultist", Name: "Cultist", Health: 2, Damage: 1, Horror: 0, Tier: 1},
	{ID: "restless_ghost", Name: "Restless Ghost", Health: 2, Damage: 0, Horror: 1, Tier: 1},
	{ID: "deep_one", Name: "Deep One", Health: 3, Damage: 2, Horror: 1, Tier: 2},
	{ID: "howling_spirit", Name: "Howling Spirit", Health: 3, Damage: 1, Horror: 2, Tier: 2},
	{ID: BossTemplateID, Name: "Dweller in the Dark", Health: 8, Damage: 3, Horror: 2, Tier: 3},
}

const BossTemplateID = "dweller"

// IsBoss - финальный босс. Появляется только по порогу доказательств.
func (t MonsterTemplate) IsBoss() bool {
	return t.ID == BossTemplateID
}

// TemplatesOfTier возвращает шаблоны указанного уровня
func TemplatesOfTier(tier int) []MonsterTemplate {
	var out []MonsterTemplate
	for _, t := range MonsterTemplates {
		if t.Tier == tier {
			out = append(out, t)
		}
	}
	return out
}

func FindMonsterTemplate(id string) (MonsterTemplate, bool) {
	for _, t := range MonsterTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return MonsterTemplate{}, false
}

// Spawn создает монстра из шаблона
func (t MonsterTemplate) Spawn(id string, pos Position) *Monster {
	return &Monster{
		ID:         id,
		TemplateID: t.ID,
		Name:       t.Name,
		Health:     t.Health,
		MaxHealth:  t.Health,
		Damage:     t.Damage,
		Horror:     t.Horror,
		Tier:       t.Tier,
		Pos:        pos,
	}
}
