package systems

import "echoes-server/internal/domain"

// DamageOutcome - что произошло с сыщиком после урона
type DamageOutcome struct {
	Wounded      bool // ранен впервые
	Eliminated   bool // выбыл навсегда, вызывающий удаляет игрока из сессии
	BecameInsane bool // сошел с ума впервые, нужна тайная цель
}

// ApplyDamage вычитает урон из здоровья и ужас из рассудка.
// Первое падение здоровья до нуля - ранение: здоровье восстанавливается,
// ходы и действия до конца раунда не больше одного. Второе - выбывание.
// Безумие наступает один раз, рассудок не уходит ниже нуля.
func ApplyDamage(p *domain.Player, damage, horror int) DamageOutcome {
	var out DamageOutcome

	if damage > 0 {
		p.Health -= damage
		if p.Health <= 0 {
			if p.IsWounded {
				p.Health = 0
				out.Eliminated = true
			} else {
				p.IsWounded = true
				p.Health = p.MaxHealth
				p.MovesRemaining = min(p.MovesRemaining, domain.WoundedResources)
				p.ActionsRemaining = min(p.ActionsRemaining, domain.WoundedResources)
				out.Wounded = true
			}
		}
	}

	if horror > 0 {
		p.Sanity -= horror
		if p.Sanity <= 0 {
			p.Sanity = 0
			if !p.IsInsane {
				p.IsInsane = true
				out.BecameInsane = true
			}
		}
	}
	return out
}

// AssignObjective выставляет тайную цель ровно один раз
func AssignObjective(p *domain.Player, objective string) bool {
	if p.SecretObjective != "" || objective == "" {
		return false
	}
	p.SecretObjective = objective
	return true
}
