package api

import (
	"echoes-server/internal/domain"
	"errors"
	"fmt"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

const maxNameLen = 40

func (p RegisterPayload) Validate() error {
	if strings.TrimSpace(p.Payload.ID) == "" {
		return errors.New("payload.id is required")
	}
	if len(p.Payload.Name) > maxNameLen {
		return fmt.Errorf("name longer than %d characters", maxNameLen)
	}
	if p.Payload.InvestigatorID != "" {
		if _, ok := domain.FindInvestigator(p.Payload.InvestigatorID); !ok {
			return fmt.Errorf("unknown investigator %q", p.Payload.InvestigatorID)
		}
	}
	return nil
}

func (p StartSetupPayload) Validate() error {
	if p.Difficulty == "" {
		return nil
	}
	switch domain.Difficulty(strings.ToUpper(p.Difficulty)) {
	case domain.DifficultyEasy, domain.DifficultyNormal, domain.DifficultyHard:
		return nil
	}
	return fmt.Errorf("unknown difficulty %q", p.Difficulty)
}

func (p AssignItemPayload) Validate() error {
	if p.Item == "" || p.PlayerID == "" {
		return errors.New("item and playerId are required")
	}
	return nil
}

func (p TilePayload) Validate() error {
	if p.TileID == "" {
		return errors.New("tileId is required")
	}
	return nil
}

func (p TokenPayload) Validate() error {
	if p.TokenID == "" {
		return errors.New("tokenId is required")
	}
	return nil
}

func (p MonsterPayload) Validate() error {
	if p.MonsterID == "" {
		return errors.New("monsterId is required")
	}
	return nil
}

func (p ItemPayload) Validate() error {
	if p.Item == "" {
		return errors.New("item is required")
	}
	return nil
}

func (p CompleteTaskPayload) Validate() error {
	if p.Context == nil || p.Context.Kind == "" {
		return errors.New("context with kind is required")
	}
	return nil
}
