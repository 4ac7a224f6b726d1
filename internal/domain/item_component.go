package domain

import "strings"

// Названия предметов. В сессии предмет - это просто строка-идентификатор.
const (
	ItemKnife      = "Knife"
	ItemAxe        = "Axe"
	ItemRevolver   = "Revolver"
	ItemShotgun    = "Shotgun"
	ItemHolyWater  = "Holy Water"
	ItemFlashlight = "Flashlight"
	ItemOldTome    = "Old Tome"
	ItemLuckyCharm = "Lucky Charm"
	ItemBandages   = "Bandages"
	ItemWhiskey    = "Whiskey"
	ItemElderSign  = "Elder Sign"
)

// ItemEffect - что делает предмет при ACTION_USE_ITEM
type ItemEffect string

const (
	EffectNone        ItemEffect = ""
	EffectHeal        ItemEffect = "heal"
	EffectCalm        ItemEffect = "calm"
	EffectExtraAction ItemEffect = "extra_action"
)

// ItemDef - описание предмета в каталоге
type ItemDef struct {
	Name string

	IsWeapon bool

	// Пассивный бонус к пулу кубиков
	PassiveAttr  Attribute
	PassiveBonus int

	Effect      ItemEffect
	EffectValue int
	// IsConsumable - предмет исчезает после использования.
	// Иначе эффект доступен раз в раунд (usedItemAbilityRound).
	IsConsumable bool
}

// ItemCatalog - полный каталог. Порядок важен для детерминированной колоды.
var ItemCatalog = []ItemDef{
	{Name: ItemKnife, IsWeapon: true},
	{Name: ItemAxe, IsWeapon: true},
	{Name: ItemRevolver, IsWeapon: true},
	{Name: ItemShotgun, IsWeapon: true},
	{Name: ItemHolyWater},
	{Name: ItemFlashlight, PassiveAttr: AttrObservation, PassiveBonus: 1},
	{Name: ItemOldTome, PassiveAttr: AttrLore, PassiveBonus: 1},
	{Name: ItemLuckyCharm, PassiveAttr: AttrWill, PassiveBonus: 1},
	{Name: ItemBandages, Effect: EffectHeal, EffectValue: 2, IsConsumable: true},
	{Name: ItemWhiskey, Effect: EffectCalm, EffectValue: 2, IsConsumable: true},
	{Name: ItemElderSign, Effect: EffectExtraAction, EffectValue: 1},
}

// FindItem ищет предмет в каталоге без учета регистра
func FindItem(name string) (ItemDef, bool) {
	for _, def := range ItemCatalog {
		if strings.EqualFold(def.Name, strings.TrimSpace(name)) {
			return def, true
		}
	}
	return ItemDef{}, false
}

// CatalogNames возвращает имена всех предметов каталога
func CatalogNames() []string {
	names := make([]string, 0, len(ItemCatalog))
	for _, def := range ItemCatalog {
		names = append(names, def.Name)
	}
	return names
}
