package dungeon

import "echoes-server/internal/domain"

// RoomTemplate - запасное описание комнаты для офлайн-генерации
type RoomTemplate struct {
	Names        []string
	Descriptions []string
	SearchPoints []domain.SearchPoint
}

// Классы категорий
var (
	MandatoryCategories  = []domain.RoomCategory{domain.RoomKitchen, domain.RoomBathroom}
	RepeatableCategories = []domain.RoomCategory{domain.RoomBedroom, domain.RoomCloset}
	UniqueCategories     = []domain.RoomCategory{domain.RoomStudy, domain.RoomDining, domain.RoomRitual, domain.RoomGarden}
)

var roomTemplates = map[domain.RoomCategory]RoomTemplate{
	domain.RoomFoyer: {
		Names: []string{"Grand Foyer", "Entrance Hall"},
		Descriptions: []string{
			"Dust hangs in the lamplight. The front door has swung shut behind you and will not open again.",
			"A chandelier sways although there is no draft. Portraits watch from every wall.",
		},
		SearchPoints: []domain.SearchPoint{
			{Description: "A coat stand heavy with damp overcoats", Attribute: domain.AttrObservation},
			{Description: "A guest book with the last page torn out", Attribute: domain.AttrLore},
		},
	},
	domain.RoomHallway: {
		Names: []string{"Narrow Corridor", "Portrait Gallery", "Servants' Passage"},
		Descriptions: []string{
			"The floorboards groan under every step. Somewhere ahead, a door clicks shut.",
			"Faded wallpaper peels away in long strips, revealing scratches beneath.",
			"The corridor is colder than it should be. Your breath fogs.",
		},
		SearchPoints: []domain.SearchPoint{
			{Description: "A loose floorboard", Attribute: domain.AttrStrength},
			{Description: "A portrait whose eyes seem to follow you", Attribute: domain.AttrWill},
			{Description: "A side table with a locked drawer", Attribute: domain.AttrAgility},
		},
	},
	domain.RoomKitchen: {
		Names: []string{"Scullery Kitchen", "Old Kitchen"},
		Descriptions: []string{
			"Pots still simmer on a cold stove. Something has been cooking for a very long time.",
			"Rows of knives gleam on the wall. One hook is empty.",
		},
		SearchPoints: []domain.SearchPoint{
			{Description: "The pantry shelves", Attribute: domain.AttrObservation},
			{Description: "A soot-blackened oven", Attribute: domain.AttrStrength},
			{Description: "A recipe book written in a shaking hand", Attribute: domain.AttrLore},
		},
	},
	domain.RoomBathroom: {
		Names: []string{"Tiled Bathroom", "Washroom"},
		Descriptions: []string{
			"The bathtub is full of black water. The mirror is fogged from the inside.",
			"Green tiles sweat with condensation. The drain gurgles words you almost understand.",
		},
		SearchPoints: []domain.SearchPoint{
			{Description: "The medicine cabinet", Attribute: domain.AttrObservation},
			{Description: "The clogged drain", Attribute: domain.AttrWill},
		},
	},
	domain.RoomBedroom: {
		Names: []string{"Master Bedroom", "Guest Bedroom", "Nursery"},
		Descriptions: []string{
			"The bed is made, but the sheets are warm.",
			"A music box plays a tune that stops the moment you enter.",
		},
		SearchPoints: []domain.SearchPoint{
			{Description: "Under the bed", Attribute: domain.AttrAgility},
			{Description: "A wardrobe with claw marks on the door", Attribute: domain.AttrStrength},
			{Description: "A diary on the nightstand", Attribute: domain.AttrInfluence},
		},
	},
	domain.RoomCloset: {
		Names: []string{"Linen Closet", "Storage Nook"},
		Descriptions: []string{
			"Barely room to turn around. Something soft brushes your neck.",
			"Boxes are stacked to the ceiling, each labelled with a date decades away.",
		},
		SearchPoints: []domain.SearchPoint{
			{Description: "A stack of moth-eaten boxes", Attribute: domain.AttrObservation},
			{Description: "A hatch in the ceiling", Attribute: domain.AttrAgility},
		},
	},
	domain.RoomStudy: {
		Names: []string{"Professor's Study", "Library"},
		Descriptions: []string{
			"Books line every wall; several have been shelved spine inward.",
			"A desk lamp burns over an unfinished letter. The ink is still wet.",
		},
		SearchPoints: []domain.SearchPoint{
			{Description: "The unfinished letter", Attribute: domain.AttrLore},
			{Description: "A hidden compartment in the desk", Attribute: domain.AttrObservation},
			{Description: "A globe with a continent that does not exist", Attribute: domain.AttrLore},
		},
	},
	domain.RoomDining: {
		Names: []string{"Dining Room", "Banquet Hall"},
		Descriptions: []string{
			"A feast is laid for thirteen. Every plate holds the same grey meat.",
			"Candles have burned down to stubs. One chair is pushed back, as if someone left in a hurry.",
		},
		SearchPoints: []domain.SearchPoint{
			{Description: "The place setting at the head of the table", Attribute: domain.AttrInfluence},
			{Description: "The sideboard drawers", Attribute: domain.AttrObservation},
		},
	},
	domain.RoomRitual: {
		Names: []string{"Ritual Chamber", "Hidden Chapel"},
		Descriptions: []string{
			"A circle of salt surrounds a stone altar. The air tastes of copper.",
			"Symbols cover the floor, carved so deep they must have taken years.",
		},
		SearchPoints: []domain.SearchPoint{
			{Description: "The altar", Attribute: domain.AttrWill},
			{Description: "The carved symbols", Attribute: domain.AttrLore},
			{Description: "A heavy iron brazier", Attribute: domain.AttrStrength},
		},
	},
	domain.RoomGarden: {
		Names: []string{"Overgrown Conservatory", "Walled Garden"},
		Descriptions: []string{
			"The plants lean toward you. The glass roof is cracked in a perfect spiral.",
			"Moonlight falls on rows of flowers that close when you look at them.",
		},
		SearchPoints: []domain.SearchPoint{
			{Description: "A freshly dug flower bed", Attribute: domain.AttrStrength},
			{Description: "A greenhouse potting bench", Attribute: domain.AttrObservation},
		},
	},
}

// TemplateFor возвращает шаблон категории (для неизвестной - коридор)
func TemplateFor(c domain.RoomCategory) RoomTemplate {
	if t, ok := roomTemplates[c]; ok {
		return t
	}
	return roomTemplates[domain.RoomHallway]
}
