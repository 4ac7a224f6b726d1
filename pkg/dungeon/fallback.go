package dungeon

import (
	"echoes-server/internal/domain"
	"math/rand"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	minSearchPoints = 2
	maxSearchPoints = 3
)

var lower = cases.Lower(language.Und)

// NormalizeCategory приводит категорию от генератора к нашему виду ("Dining Room" -> "dining")
func NormalizeCategory(s string) domain.RoomCategory {
	s = strings.TrimSpace(lower.String(s))
	s = strings.TrimSuffix(s, " room")
	return domain.RoomCategory(s)
}

func knownCategory(c domain.RoomCategory) bool {
	_, ok := roomTemplates[c]
	return ok
}

// ChooseCategory - детерминированное правило выбора категории новой комнаты.
// Из обычной комнаты всегда ведет коридор. Из коридора - сначала недостающие
// обязательные комнаты, затем случайно из повторяемых и еще не использованных уникальных.
func ChooseCategory(rng *rand.Rand, from domain.RoomCategory, used []string) domain.RoomCategory {
	if from != domain.RoomHallway {
		return domain.RoomHallway
	}

	isUsed := func(c domain.RoomCategory) bool { return slices.Contains(used, string(c)) }

	for _, c := range MandatoryCategories {
		if !isUsed(c) {
			return c
		}
	}

	pool := append([]domain.RoomCategory{}, RepeatableCategories...)
	for _, c := range UniqueCategories {
		if !isUsed(c) {
			pool = append(pool, c)
		}
	}
	return pool[rng.Intn(len(pool))]
}

// CategoryAllowed - можно ли поставить комнату категории c при входе из from
func CategoryAllowed(c, from domain.RoomCategory, used []string) bool {
	if !knownCategory(c) || c == domain.RoomFoyer {
		return false
	}
	if from != domain.RoomHallway {
		return c == domain.RoomHallway
	}
	if slices.Contains(MandatoryCategories, c) || slices.Contains(UniqueCategories, c) {
		return !slices.Contains(used, string(c))
	}
	return true
}

// FallbackRoom строит описание комнаты без внешнего сервиса
func FallbackRoom(rng *rand.Rand, req domain.RoomRequest) domain.RoomDescriptor {
	category := ChooseCategory(rng, NormalizeCategory(string(req.FromCategory)), req.ExistingCategories)
	tmpl := TemplateFor(category)

	return domain.RoomDescriptor{
		Name:           tmpl.Names[rng.Intn(len(tmpl.Names))],
		Description:    tmpl.Descriptions[rng.Intn(len(tmpl.Descriptions))],
		VisualCategory: category,
		SearchPoints:   pickSearchPoints(rng, tmpl, minSearchPoints+rng.Intn(maxSearchPoints-minSearchPoints+1)),
	}
}

// Sanitize применяет те же правила к описанию от внешнего сервиса.
// Недопустимая категория заменяется запасной, точек обыска всегда 2-3.
func Sanitize(rng *rand.Rand, req domain.RoomRequest, desc domain.RoomDescriptor) domain.RoomDescriptor {
	from := NormalizeCategory(string(req.FromCategory))
	desc.VisualCategory = NormalizeCategory(string(desc.VisualCategory))

	if !CategoryAllowed(desc.VisualCategory, from, req.ExistingCategories) {
		fb := FallbackRoom(rng, req)
		desc.VisualCategory = fb.VisualCategory
		if strings.TrimSpace(desc.Name) == "" {
			desc.Name = fb.Name
		}
	}

	tmpl := TemplateFor(desc.VisualCategory)
	if strings.TrimSpace(desc.Name) == "" {
		desc.Name = tmpl.Names[rng.Intn(len(tmpl.Names))]
	}
	if strings.TrimSpace(desc.Description) == "" {
		desc.Description = tmpl.Descriptions[rng.Intn(len(tmpl.Descriptions))]
	}

	var points []domain.SearchPoint
	for _, sp := range desc.SearchPoints {
		if strings.TrimSpace(sp.Description) == "" {
			continue
		}
		sp.Attribute = domain.ParseAttribute(string(sp.Attribute))
		if sp.Attribute == "" {
			sp.Attribute = domain.AttrObservation
		}
		points = append(points, sp)
	}
	if len(points) > maxSearchPoints {
		points = points[:maxSearchPoints]
	}
	if missing := minSearchPoints - len(points); missing > 0 {
		points = append(points, pickSearchPoints(rng, tmpl, missing)...)
	}
	desc.SearchPoints = points
	return desc
}

func pickSearchPoints(rng *rand.Rand, tmpl RoomTemplate, n int) []domain.SearchPoint {
	idx := rng.Perm(len(tmpl.SearchPoints))
	out := make([]domain.SearchPoint, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, tmpl.SearchPoints[idx[i%len(idx)]])
	}
	return out
}
