package game

import "math"

// CalculatePlayerAttackDamage returns floor(hero damage * mult).
func (bl *BattleLogic) CalculatePlayerAttackDamage(mult float64) int {
	base := bl.hero.DamageWithBonus(bl.enemy)
	return int(math.Floor(float64(base) * mult))
}

// CalculateEnemyAttackDamage returns max(0, enemy attack - hero defense).
func (bl *BattleLogic) CalculateEnemyAttackDamage() int {
	return max(0, bl.enemy.Attack()-bl.hero.Defense())
}

// CalculateSpellDamage returns floor(base * 1.5 * mult). The spell only
// names the effect; every learned spell hits equally hard.
func (bl *BattleLogic) CalculateSpellDamage(spell Spell, mult float64) int {
	base := bl.CalculatePlayerAttackDamage(1)
	return int(math.Floor(float64(base) * SpellMultiplier * mult))
}

// counterRushHitDamage is floor((base/5) * mult) with truncating division.
func (bl *BattleLogic) counterRushHitDamage(mult float64) int {
	base := bl.CalculatePlayerAttackDamage(1)
	return int(math.Floor(float64(base/CounterRushHits) * mult))
}

// PrepareDamageList builds the damage schedule for the committed round.
//
// When the player is ahead only player-won rounds deal damage: Attack hits
// once, Defend triggers a counter rush of five hits, Spell is deferred to
// the caller through SpellWins. When the enemy is ahead every enemy-won
// round hits the player once, unmultiplied. On a tie all draw rounds are
// folded into a single entry that hits both sides with halved damage.
func (bl *BattleLogic) PrepareDamageList(mult float64) DamageSchedule {
	results := bl.JudgeAllRounds()
	stats := bl.CalculateBattleStats()
	var sched DamageSchedule

	switch {
	case stats.PlayerWins > stats.EnemyWins:
		for i, r := range results {
			if r != JudgePlayerWin {
				continue
			}
			cmd := bl.playerCommands[i]
			switch cmd {
			case CommandAttack:
				sched.Damages = append(sched.Damages, DamageInfo{
					Round:   i,
					Amount:  bl.CalculatePlayerAttackDamage(mult),
					Target:  TargetEnemy,
					Command: cmd,
				})
			case CommandDefend:
				hit := bl.counterRushHitDamage(mult)
				for h := 0; h < CounterRushHits; h++ {
					sched.Damages = append(sched.Damages, DamageInfo{
						Round:         i,
						Amount:        hit,
						Target:        TargetEnemy,
						Command:       cmd,
						IsCounterRush: true,
					})
				}
			case CommandSpell:
				sched.SpellWins = append(sched.SpellWins, i)
			}
		}

	case stats.EnemyWins > stats.PlayerWins:
		for i, r := range results {
			if r != JudgeEnemyWin {
				continue
			}
			sched.Damages = append(sched.Damages, DamageInfo{
				Round:   i,
				Amount:  bl.CalculateEnemyAttackDamage(),
				Target:  TargetPlayer,
				Command: bl.enemyCommands[i],
			})
		}

	default:
		var draw DrawAmounts
		for _, r := range results {
			if r != JudgeDraw {
				continue
			}
			draw.Player += bl.CalculateEnemyAttackDamage() / 2
			draw.Enemy += bl.CalculatePlayerAttackDamage(1) / 2
		}
		sched.Damages = append(sched.Damages, DamageInfo{
			Round:       -1,
			Amount:      draw.Player + draw.Enemy,
			Target:      TargetBoth,
			IsDraw:      true,
			DrawAmounts: draw,
		})
	}

	return sched
}

// SpellDamage builds the schedule entry for a resolved spell win.
func (bl *BattleLogic) SpellDamage(round int, spell Spell, mult float64) DamageInfo {
	return DamageInfo{
		Round:   round,
		Amount:  bl.CalculateSpellDamage(spell, mult),
		Target:  TargetEnemy,
		Command: CommandSpell,
		Spell:   spell.Name,
	}
}
