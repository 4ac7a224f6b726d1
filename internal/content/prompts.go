package content

import (
	"echoes-server/internal/domain"
	"fmt"
	"strings"
)

// Контекст истории бывает длинным, в промпт идет только хвост
const maxContextChars = 2000

const narratorRole = `You are the narrator of a cooperative Lovecraftian horror investigation game set in a haunted mansion.
Write in second person plural, in a dark and atmospheric tone. Keep every text short.`

func tail(s string) string {
	if len(s) <= maxContextChars {
		return s
	}
	return s[len(s)-maxContextChars:]
}

func introPrompts(difficulty domain.Difficulty, players []domain.PlayerSummary) (string, string) {
	var b strings.Builder
	for _, p := range players {
		fmt.Fprintf(&b, "- %s (%s)\n", p.Name, p.Investigator)
	}
	user := strings.TrimSpace(fmt.Sprintf(`
### INVESTIGATORS
%s
### DIFFICULTY
%s
### TASK
Invent the premise of tonight's investigation.
### RESPONSE FORMAT (JSON only)
{"title": "string", "introText": "2-3 sentences", "startingRoomDescription": "1-2 sentences about the foyer"}`,
		b.String(), difficulty))
	return narratorRole, user
}

func roomPrompts(req domain.RoomRequest) (string, string) {
	user := strings.TrimSpace(fmt.Sprintf(`
### STORY SO FAR
%s
### SITUATION
The investigators open a door heading %s from a room of category "%s".
Room categories already in the house: %s.
### RULES
visualCategory is one of: hallway, kitchen, bathroom, bedroom, closet, study, dining, ritual, garden.
A door from any room other than a hallway always leads to a hallway.
kitchen, bathroom, study, dining, ritual and garden exist at most once.
Give 2 or 3 search points; attribute is one of: strength, agility, observation, lore, influence, will.
### RESPONSE FORMAT (JSON only)
{"name": "string", "description": "1-2 sentences", "visualCategory": "string",
 "searchPoints": [{"description": "string", "attribute": "string"}]}`,
		tail(req.Context), req.Direction, req.FromCategory, strings.Join(req.ExistingCategories, ", ")))
	return narratorRole, user
}

func investigationPrompts(description string, success bool, storyContext, foundObject string) (string, string) {
	result := "fails to find anything"
	if success {
		result = "succeeds"
		if foundObject != "" {
			result += " and finds: " + foundObject
		}
	}
	user := strings.TrimSpace(fmt.Sprintf(`
### STORY SO FAR
%s
### EVENT
An investigator searches "%s" and %s.
### TASK
Describe the outcome in one or two sentences. Plain text, no JSON.`,
		tail(storyContext), description, result))
	return narratorRole, user
}

func mythosPrompts(storyContext string, threat int) (string, string) {
	user := strings.TrimSpace(fmt.Sprintf(`
### STORY SO FAR
%s
### THREAT LEVEL
%d of %d
### TASK
The house acts against the investigators. Higher threat means more dangerous events.
kind is SPAWN (a monster appears), TEST (the investigators' minds are tested) or FLAVOR (an omen, no effect).
For TEST, param may name the tested attribute (strength, agility, observation, lore, influence, will).
### RESPONSE FORMAT (JSON only)
{"narrative": "1-2 sentences", "kind": "SPAWN|TEST|FLAVOR", "param": "string"}`,
		tail(storyContext), threat, domain.MaxThreat))
	return narratorRole, user
}

func insanityPrompts(storyContext string) (string, string) {
	user := strings.TrimSpace(fmt.Sprintf(`
### STORY SO FAR
%s
### TASK
An investigator has lost their mind. Write their new secret objective as one short imperative sentence.
Plain text, no JSON.`,
		tail(storyContext)))
	return narratorRole, user
}
