package systems

import (
	"echoes-server/internal/domain"
	"fmt"
	"math/rand"
)

// Цвета для взлома кода
var CodeColors = []string{"r", "g", "b", "y", "p", "o"}

const (
	CodeLength    = 4
	CodeMaxGuess  = 8
	puzzleMinDiff = 1
	puzzleMaxDiff = 3
)

// ScoreGuess - стандартный подсчет для взлома кода.
// exact - совпадение цвета и позиции, partial - цвет есть, но на другом месте.
func ScoreGuess(secret, guess []string) (exact, partial int) {
	secretLeft := make(map[string]int)
	guessLeft := make(map[string]int)

	for i := range secret {
		if i < len(guess) && secret[i] == guess[i] {
			exact++
			continue
		}
		secretLeft[secret[i]]++
		if i < len(guess) {
			guessLeft[guess[i]]++
		}
	}
	for i := len(secret); i < len(guess); i++ {
		guessLeft[guess[i]]++
	}

	for color, n := range guessLeft {
		partial += min(n, secretLeft[color])
	}
	return exact, partial
}

// NewPuzzle выбирает тип головоломки. Для CODE_BREAK хост сам загадывает код.
func NewPuzzle(rng *rand.Rand, playerID string, difficulty int, ctx domain.ActionContext) domain.PuzzleRequest {
	difficulty = max(puzzleMinDiff, min(puzzleMaxDiff, difficulty))
	req := domain.PuzzleRequest{
		PlayerID:   playerID,
		Type:       domain.PuzzleTypes[rng.Intn(len(domain.PuzzleTypes))],
		Difficulty: difficulty,
		Context:    ctx,
	}
	if req.Type == domain.PuzzleCodeBreak {
		req.Secret = make([]string, CodeLength)
		for i := range req.Secret {
			req.Secret[i] = CodeColors[rng.Intn(len(CodeColors))]
		}
		req.MaxGuesses = CodeMaxGuess - difficulty
	}
	req.Description = fmt.Sprintf("%s (difficulty %d)", req.Type, difficulty)
	return req
}

// VerifyCodeBreak проверяет заявленный успех по истории попыток.
// Успех засчитывается, только если одна из первых MaxGuesses попыток угадала код целиком.
func VerifyCodeBreak(req *domain.PuzzleRequest, guesses [][]string) bool {
	limit := req.MaxGuesses
	if limit <= 0 || limit > len(guesses) {
		limit = len(guesses)
	}
	for _, g := range guesses[:limit] {
		if len(g) != len(req.Secret) {
			continue
		}
		if exact, _ := ScoreGuess(req.Secret, g); exact == len(req.Secret) {
			return true
		}
	}
	return false
}
