package game

import "time"

// --- Constants ---

const (
	NormalTurnCount    = 3
	DesperateTurnCount = 6

	StreakMultiplier    = 1.5
	DesperateMultiplier = 1.5
	SpellMultiplier     = 1.5

	CounterRushHits = 5

	// Desperate mode is offered when hp/maxHP <= 3/10.
	DesperateHPNumerator   = 3
	DesperateHPDenominator = 10

	IntroDuration       = 1 * time.Second
	JudgeResultDuration = 3 * time.Second
)

// --- Enums ---

type Command int

const (
	CommandAttack Command = iota
	CommandDefend
	CommandSpell
)

func (c Command) String() string {
	switch c {
	case CommandAttack:
		return "Attack"
	case CommandDefend:
		return "Defend"
	case CommandSpell:
		return "Spell"
	default:
		return "Unknown"
	}
}

// AllCommands lists every command in declaration order.
var AllCommands = []Command{CommandAttack, CommandDefend, CommandSpell}

type JudgeResult int

const (
	JudgeDraw JudgeResult = iota
	JudgePlayerWin
	JudgeEnemyWin
)

func (r JudgeResult) String() string {
	switch r {
	case JudgePlayerWin:
		return "Player Win"
	case JudgeEnemyWin:
		return "Enemy Win"
	default:
		return "Draw"
	}
}

type DamageTarget int

const (
	TargetEnemy DamageTarget = iota
	TargetPlayer
	TargetBoth
)

func (t DamageTarget) String() string {
	switch t {
	case TargetEnemy:
		return "enemy"
	case TargetPlayer:
		return "player"
	default:
		return "both"
	}
}

// Side identifies a participant in the battle result.
type Side int

const (
	SideNone Side = iota
	SidePlayer
	SideEnemy
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "Player"
	case SideEnemy:
		return "Enemy"
	default:
		return "None"
	}
}

// --- Round results ---

// BattleStats is recomputed from the full command sequences on every call.
type BattleStats struct {
	PlayerWins        int
	EnemyWins         int
	Draws             int
	HasThreeWinStreak bool
}

// DrawAmounts carries both sides of a draw clash.
type DrawAmounts struct {
	Player int // damage dealt to the player
	Enemy  int // damage dealt to the enemy
}

// DamageInfo is one scheduled damage application.
type DamageInfo struct {
	Round         int // round index that caused it, -1 for the aggregated draw
	Amount        int
	Target        DamageTarget
	Command       Command
	IsCounterRush bool
	IsDraw        bool
	DrawAmounts   DrawAmounts
	Spell         string // spell name, only for resolved spell wins
}

// DamageSchedule is the output of PrepareDamageList.
// SpellWins holds the round indices the player won with Spell; their damage
// is resolved by the caller after a spell is chosen.
type DamageSchedule struct {
	Damages   []DamageInfo
	SpellWins []int
}
