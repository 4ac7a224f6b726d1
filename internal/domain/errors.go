package domain

import "errors"

// Ошибки валидации действий. Ни одна из них не фатальна: движок логирует и игнорирует действие.
var (
	ErrWrongPhase       = errors.New("action not allowed in current phase")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrNotHost          = errors.New("host-only action")
	ErrUnknownPlayer    = errors.New("player not registered")
	ErrNotFound         = errors.New("target not found")
	ErrOutOfReach       = errors.New("target out of reach")
	ErrNoMovesLeft      = errors.New("no moves remaining")
	ErrNoActionsLeft    = errors.New("no actions remaining")
	ErrResolutionActive = errors.New("a resolution is already pending")
	ErrContextMismatch  = errors.New("action context does not match pending resolution")
	ErrIllegalPhase     = errors.New("illegal phase transition")
	ErrAlreadyResolved  = errors.New("token already resolved")
	ErrInvalidOutcome   = errors.New("invalid resolution outcome")
	ErrItemUnavailable  = errors.New("item unavailable")
	ErrLobbyClosed      = errors.New("registration closed")
	ErrNoPlayers        = errors.New("no registered players")
	ErrBadPayload       = errors.New("malformed action payload")
	ErrEventPending     = errors.New("mythos event not resolved yet")
)
