package game

// JudgeRound decides one round by cyclic dominance:
// Defend beats Attack, Attack beats Spell, Spell beats Defend.
func JudgeRound(player, enemy Command) JudgeResult {
	switch player {
	case CommandAttack:
		switch enemy {
		case CommandDefend:
			return JudgeEnemyWin
		case CommandSpell:
			return JudgePlayerWin
		}
	case CommandDefend:
		switch enemy {
		case CommandAttack:
			return JudgePlayerWin
		case CommandSpell:
			return JudgeEnemyWin
		}
	case CommandSpell:
		switch enemy {
		case CommandDefend:
			return JudgePlayerWin
		case CommandAttack:
			return JudgeEnemyWin
		}
	}
	return JudgeDraw
}

// JudgeAllRounds judges every round pair in order.
func (bl *BattleLogic) JudgeAllRounds() []JudgeResult {
	results := make([]JudgeResult, bl.turnCount)
	for i := 0; i < bl.turnCount; i++ {
		results[i] = JudgeRound(bl.playerCommands[i], bl.enemyCommands[i])
	}
	return results
}

// CalculateBattleStats tallies a full pass over both sequences.
// HasThreeWinStreak only looks at rounds 0, 1 and 2.
func (bl *BattleLogic) CalculateBattleStats() BattleStats {
	results := bl.JudgeAllRounds()
	var stats BattleStats
	for _, r := range results {
		switch r {
		case JudgePlayerWin:
			stats.PlayerWins++
		case JudgeEnemyWin:
			stats.EnemyWins++
		default:
			stats.Draws++
		}
	}
	if bl.turnCount >= 3 &&
		results[0] == JudgePlayerWin &&
		results[1] == JudgePlayerWin &&
		results[2] == JudgePlayerWin {
		stats.HasThreeWinStreak = true
	}
	return stats
}
