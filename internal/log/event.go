package log

// EventType enumerates all observable battle events.
type EventType int

const (
	EventEncounter EventType = iota
	EventNewRound
	EventPhaseChange
	EventHint
	EventCommandsCommitted
	EventRoundJudged
	EventStats
	EventThreeWinStreak
	EventDamage
	EventCounterRush
	EventClash
	EventSpellCast
	EventSpellFizzle // spell won but the hero knows no spells
	EventHPChange
	EventDesperateOffer
	EventDesperateMode
	EventBattleOver
	EventReveal
)

func (e EventType) String() string {
	switch e {
	case EventEncounter:
		return "Encounter"
	case EventNewRound:
		return "NewRound"
	case EventPhaseChange:
		return "PhaseChange"
	case EventHint:
		return "Hint"
	case EventCommandsCommitted:
		return "CommandsCommitted"
	case EventRoundJudged:
		return "RoundJudged"
	case EventStats:
		return "Stats"
	case EventThreeWinStreak:
		return "ThreeWinStreak"
	case EventDamage:
		return "Damage"
	case EventCounterRush:
		return "CounterRush"
	case EventClash:
		return "Clash"
	case EventSpellCast:
		return "SpellCast"
	case EventSpellFizzle:
		return "SpellFizzle"
	case EventHPChange:
		return "HPChange"
	case EventDesperateOffer:
		return "DesperateOffer"
	case EventDesperateMode:
		return "DesperateMode"
	case EventBattleOver:
		return "BattleOver"
	case EventReveal:
		return "Reveal"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a battle.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Round   int       // battle round (1-based, 0 before the first round)
	Phase   string    // current phase name (e.g. "Judge")
	Actor   string    // acting or affected combatant name
	Type    EventType // event type
	Command string    // command name (if applicable)
	Amount  int       // damage or HP amount (if applicable)
	Details string    // human-readable detail string
}
