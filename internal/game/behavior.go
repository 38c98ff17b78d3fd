package game

import "fmt"

// EnemyBehaviorType is a hidden per-battle trait biasing enemy commands.
type EnemyBehaviorType int

const (
	BehaviorAttack EnemyBehaviorType = iota
	BehaviorDefend
	BehaviorSpell
)

func (b EnemyBehaviorType) String() string {
	switch b {
	case BehaviorAttack:
		return "Attack Type"
	case BehaviorDefend:
		return "Defend Type"
	case BehaviorSpell:
		return "Spell Type"
	default:
		return "Unknown Type"
	}
}

// SignatureCommand returns the command this behavior favors.
func (b EnemyBehaviorType) SignatureCommand() Command {
	switch b {
	case BehaviorDefend:
		return CommandDefend
	case BehaviorSpell:
		return CommandSpell
	default:
		return CommandAttack
	}
}

var allBehaviors = []EnemyBehaviorType{BehaviorAttack, BehaviorDefend, BehaviorSpell}

// behaviorWeights is the per-command weight table used when generating enemy
// commands, indexed by Command. Signature command only; the 60/30/10 table
// tried earlier is kept out until tuning is revisited.
func behaviorWeights(b EnemyBehaviorType) [3]int {
	var w [3]int
	w[b.SignatureCommand()] = 100
	return w
}

// selectBehaviorType picks one of the three types uniformly.
func (bl *BattleLogic) selectBehaviorType() {
	bl.behavior = allBehaviors[bl.rng.Intn(len(allBehaviors))]
}

// selectExcludedType picks uniformly from the two types that were not
// selected, taken in declaration order.
func (bl *BattleLogic) selectExcludedType() {
	others := make([]EnemyBehaviorType, 0, 2)
	for _, b := range allBehaviors {
		if b != bl.behavior {
			others = append(others, b)
		}
	}
	bl.excluded = others[bl.rng.Intn(len(others))]
}

// GenerateEnemyCommands fills the enemy sequence for every turn.
func (bl *BattleLogic) GenerateEnemyCommands() {
	w := behaviorWeights(bl.behavior)
	total := 0
	for _, v := range w {
		total += v
	}
	for i := range bl.enemyCommands {
		roll := bl.rng.Intn(total)
		for _, cmd := range AllCommands {
			if roll < w[cmd] {
				bl.enemyCommands[i] = cmd
				break
			}
			roll -= w[cmd]
		}
	}
}

// BehaviorType returns the hidden behavior type.
func (bl *BattleLogic) BehaviorType() EnemyBehaviorType {
	return bl.behavior
}

// ExcludedBehaviorType returns the type named by the negative hint.
func (bl *BattleLogic) ExcludedBehaviorType() EnemyBehaviorType {
	return bl.excluded
}

// ExclusionHint is the only information the player gets about the behavior type.
func (bl *BattleLogic) ExclusionHint() string {
	return fmt.Sprintf("%s is NOT the %s.", bl.enemy.Name(), bl.excluded)
}

// BehaviorReveal describes the actual type, shown once the battle is over.
func (bl *BattleLogic) BehaviorReveal() string {
	return fmt.Sprintf("%s was the %s (favors %s).", bl.enemy.Name(), bl.behavior, bl.behavior.SignatureCommand())
}
