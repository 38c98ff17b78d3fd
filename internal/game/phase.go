package game

import "time"

// BattlePhase is a resolution phase of one battle round.
type BattlePhase int

const (
	PhaseIntro BattlePhase = iota
	PhaseCommandSelect
	PhaseJudge
	PhaseJudgeResult
	PhaseExecute
	PhaseDesperateModePrompt
	PhaseDesperateCommandSelect
	PhaseDesperateJudge
	PhaseDesperateJudgeResult
	PhaseDesperateExecute
	PhaseEnd
)

func (p BattlePhase) String() string {
	switch p {
	case PhaseIntro:
		return "Intro"
	case PhaseCommandSelect:
		return "Command Select"
	case PhaseJudge:
		return "Judge"
	case PhaseJudgeResult:
		return "Judge Result"
	case PhaseExecute:
		return "Execute"
	case PhaseDesperateModePrompt:
		return "Desperate Prompt"
	case PhaseDesperateCommandSelect:
		return "Desperate Select"
	case PhaseDesperateJudge:
		return "Desperate Judge"
	case PhaseDesperateJudgeResult:
		return "Desperate Result"
	case PhaseDesperateExecute:
		return "Desperate Execute"
	case PhaseEnd:
		return "End"
	default:
		return "None"
	}
}

// IsDesperate reports whether the phase belongs to a desperate round.
func (p BattlePhase) IsDesperate() bool {
	switch p {
	case PhaseDesperateCommandSelect, PhaseDesperateJudge, PhaseDesperateJudgeResult, PhaseDesperateExecute:
		return true
	default:
		return false
	}
}

// PresentationPhase is what the rendering layer should be showing. It is
// driven by the orchestrator, never by the PhaseManager.
type PresentationPhase int

const (
	PresentNone PresentationPhase = iota
	PresentPlayerStrike
	PresentEnemyStrike
	PresentCounterRush
	PresentSpellCast
	PresentClash
	PresentVictory
	PresentDefeat
	PresentStalemate
)

func (p PresentationPhase) String() string {
	switch p {
	case PresentPlayerStrike:
		return "Player Strike"
	case PresentEnemyStrike:
		return "Enemy Strike"
	case PresentCounterRush:
		return "Counter Rush"
	case PresentSpellCast:
		return "Spell Cast"
	case PresentClash:
		return "Clash"
	case PresentVictory:
		return "Victory"
	case PresentDefeat:
		return "Defeat"
	case PresentStalemate:
		return "Stalemate"
	default:
		return "None"
	}
}

// PresentationFor maps a scheduled damage entry to the animation showing it.
func PresentationFor(d DamageInfo) PresentationPhase {
	switch {
	case d.IsDraw:
		return PresentClash
	case d.IsCounterRush:
		return PresentCounterRush
	case d.Target == TargetPlayer:
		return PresentEnemyStrike
	case d.Command == CommandSpell:
		return PresentSpellCast
	default:
		return PresentPlayerStrike
	}
}

// TurnCounter exposes the configured command turn count.
type TurnCounter interface {
	CommandTurnCount() int
}

// PhaseContext is the orchestrator's view of the current phase.
// PhaseTimer is the time spent in the phase, including the current frame.
type PhaseContext struct {
	Phase          BattlePhase
	PhaseTimer     time.Duration
	SelectingTurn  int
	ExecutingTurn  int
	PendingDamages int
}

// PhaseTransitionResult tells the orchestrator what to do next.
type PhaseTransitionResult struct {
	NextPhase        BattlePhase
	ShouldTransition bool
	ResetTimer       bool
}

// PhaseManager maps a phase context to the next phase. It holds no state
// besides read access to the turn count.
type PhaseManager struct {
	turns TurnCounter
}

// NewPhaseManager creates a manager reading the turn count from turns.
func NewPhaseManager(turns TurnCounter) *PhaseManager {
	return &PhaseManager{turns: turns}
}

// UpdatePhase evaluates the transition table for one frame of length dt.
// Timed phases compare ctx.PhaseTimer alone against their duration; dt is
// already counted in it. Judge, DesperateJudge and DesperateModePrompt are
// advanced by the caller.
func (pm *PhaseManager) UpdatePhase(ctx PhaseContext, dt time.Duration) PhaseTransitionResult {
	switch ctx.Phase {
	case PhaseIntro:
		if ctx.PhaseTimer > IntroDuration {
			return transitionTo(PhaseCommandSelect)
		}
	case PhaseCommandSelect:
		if ctx.SelectingTurn >= pm.turns.CommandTurnCount() {
			return transitionTo(PhaseJudge)
		}
	case PhaseJudgeResult:
		if ctx.PhaseTimer > JudgeResultDuration {
			return transitionTo(PhaseExecute)
		}
	case PhaseExecute:
		if ctx.ExecutingTurn >= ctx.PendingDamages {
			return transitionTo(PhaseEnd)
		}
	case PhaseDesperateCommandSelect:
		if ctx.SelectingTurn >= pm.turns.CommandTurnCount() {
			return transitionTo(PhaseDesperateJudge)
		}
	case PhaseDesperateJudgeResult:
		if ctx.PhaseTimer > JudgeResultDuration {
			return transitionTo(PhaseDesperateExecute)
		}
	case PhaseDesperateExecute:
		if ctx.ExecutingTurn >= ctx.PendingDamages {
			return transitionTo(PhaseEnd)
		}
	}
	return PhaseTransitionResult{NextPhase: ctx.Phase}
}

func transitionTo(next BattlePhase) PhaseTransitionResult {
	return PhaseTransitionResult{NextPhase: next, ShouldTransition: true, ResetTimer: true}
}
