package domain

// ContextKind - что должно произойти по завершении отложенного разрешения
type ContextKind string

const (
	ContextSearch        ContextKind = "SEARCH"
	ContextCombat        ContextKind = "COMBAT"
	ContextMonsterAttack ContextKind = "MONSTER_ATTACK"
	ContextMythosTest    ContextKind = "MYTHOS_TEST"
)

// ActionContext - сериализуемый тег вместо колбэка.
// Хранится в снапшоте и возвращается клиентом в ACTION_COMPLETE_TASK.
type ActionContext struct {
	Kind      ContextKind `json:"kind"`
	PlayerID  string      `json:"playerId"`
	TokenID   string      `json:"tokenId,omitempty"`
	MonsterID string      `json:"monsterId,omitempty"`
	Attribute Attribute   `json:"attribute,omitempty"`
}

// DieFace - грань кубика
type DieFace string

const (
	FaceSuccess DieFace = "SUCCESS"
	FaceClue    DieFace = "CLUE"
	FaceBlank   DieFace = "BLANK"
)

func (f DieFace) Valid() bool {
	return f == FaceSuccess || f == FaceClue || f == FaceBlank
}

// DiceRequest - активный бросок
type DiceRequest struct {
	PlayerID    string        `json:"playerId"`
	Attribute   Attribute     `json:"attribute"`
	PoolSize    int           `json:"poolSize"`
	Target      int           `json:"target"`
	Description string        `json:"description"`
	Context     ActionContext `json:"context"`
	ReturnPhase Phase         `json:"returnPhase"`
}

// PuzzleType - один из трех мини-пазлов (внешний виджет)
type PuzzleType string

const (
	PuzzleCodeBreak PuzzleType = "CODE_BREAK"
	PuzzleSlider    PuzzleType = "SLIDER"
	PuzzleRunes     PuzzleType = "RUNES"
)

var PuzzleTypes = []PuzzleType{PuzzleCodeBreak, PuzzleSlider, PuzzleRunes}

// PuzzleRequest - активная головоломка
type PuzzleRequest struct {
	PlayerID    string        `json:"playerId"`
	Type        PuzzleType    `json:"type"`
	Difficulty  int           `json:"difficulty"`
	Description string        `json:"description"`
	Context     ActionContext `json:"context"`
	ReturnPhase Phase         `json:"returnPhase"`

	// Для CODE_BREAK: секрет и лимит попыток. Хост проверяет историю попыток.
	Secret     []string `json:"secret,omitempty"`
	MaxGuesses int      `json:"maxGuesses,omitempty"`
}
