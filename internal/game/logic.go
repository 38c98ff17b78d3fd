package game

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrInvalidTurnCount = errors.New("turn count must be 3 or 6")
	ErrCommandCount     = errors.New("command count does not match turn count")
	ErrTurnOutOfRange   = errors.New("turn index out of range")
	ErrUnknownCommand   = errors.New("unknown command (use attack, defend or spell)")
)

// BattleLogic owns both command sequences for one encounter and resolves
// them into results, stats and a damage schedule. It lives for the whole
// battle, including a desperate mode escalation.
type BattleLogic struct {
	hero  Hero
	enemy Combatant
	rng   *rand.Rand

	turnCount      int
	playerCommands []Command
	enemyCommands  []Command
	desperate      bool

	behavior EnemyBehaviorType
	excluded EnemyBehaviorType
}

// NewBattleLogic creates the engine for one encounter. A nil rng is replaced
// with a freshly seeded one.
func NewBattleLogic(hero Hero, enemy Combatant, rng *rand.Rand) *BattleLogic {
	if rng == nil {
		rng = NewRand(0)
	}
	bl := &BattleLogic{
		hero:      hero,
		enemy:     enemy,
		rng:       rng,
		turnCount: NormalTurnCount,
	}
	bl.selectBehaviorType()
	bl.selectExcludedType()
	bl.playerCommands = make([]Command, bl.turnCount)
	bl.enemyCommands = make([]Command, bl.turnCount)
	bl.GenerateEnemyCommands()
	return bl
}

// CommandTurnCount returns the number of rounds per command sequence.
func (bl *BattleLogic) CommandTurnCount() int {
	return bl.turnCount
}

// SetCommandTurnCount resizes both sequences and regenerates enemy commands.
// Existing player commands are kept up to the new length.
func (bl *BattleLogic) SetCommandTurnCount(n int) error {
	if n != NormalTurnCount && n != DesperateTurnCount {
		return fmt.Errorf("set turn count %d: %w", n, ErrInvalidTurnCount)
	}
	player := make([]Command, n)
	copy(player, bl.playerCommands)
	bl.playerCommands = player
	bl.enemyCommands = make([]Command, n)
	bl.turnCount = n
	bl.GenerateEnemyCommands()
	return nil
}

// IsDesperateMode reports whether desperate mode has been activated.
func (bl *BattleLogic) IsDesperateMode() bool {
	return bl.desperate
}

// SetDesperateMode flips the flag only; the caller also sets the turn count.
func (bl *BattleLogic) SetDesperateMode(on bool) {
	bl.desperate = on
}

// SetPlayerCommand commits one command for the given turn.
func (bl *BattleLogic) SetPlayerCommand(turn int, cmd Command) error {
	if turn < 0 || turn >= bl.turnCount {
		return fmt.Errorf("turn %d of %d: %w", turn, bl.turnCount, ErrTurnOutOfRange)
	}
	bl.playerCommands[turn] = cmd
	return nil
}

// SetPlayerCommands commits the full player sequence.
func (bl *BattleLogic) SetPlayerCommands(cmds []Command) error {
	if len(cmds) != bl.turnCount {
		return fmt.Errorf("got %d commands for %d turns: %w", len(cmds), bl.turnCount, ErrCommandCount)
	}
	copy(bl.playerCommands, cmds)
	return nil
}

// SetEnemyCommands overrides the generated enemy sequence.
func (bl *BattleLogic) SetEnemyCommands(cmds []Command) error {
	if len(cmds) != bl.turnCount {
		return fmt.Errorf("got %d enemy commands for %d turns: %w", len(cmds), bl.turnCount, ErrCommandCount)
	}
	copy(bl.enemyCommands, cmds)
	return nil
}

// PlayerCommands returns a copy of the player sequence.
func (bl *BattleLogic) PlayerCommands() []Command {
	return append([]Command(nil), bl.playerCommands...)
}

// EnemyCommands returns a copy of the enemy sequence.
func (bl *BattleLogic) EnemyCommands() []Command {
	return append([]Command(nil), bl.enemyCommands...)
}

// NewRound clears the player's commitment and rolls new enemy commands.
func (bl *BattleLogic) NewRound() {
	for i := range bl.playerCommands {
		bl.playerCommands[i] = CommandAttack
	}
	bl.GenerateEnemyCommands()
}

// CheckDesperateModeCondition reports whether hp/maxHP <= 30%.
func (bl *BattleLogic) CheckDesperateModeCondition() bool {
	return bl.hero.HP()*DesperateHPDenominator <= bl.hero.MaxHP()*DesperateHPNumerator
}

// ComposeMultiplier stacks the streak and desperate multipliers.
func ComposeMultiplier(streak, desperate bool) float64 {
	m := 1.0
	if streak {
		m *= StreakMultiplier
	}
	if desperate {
		m *= DesperateMultiplier
	}
	return m
}
