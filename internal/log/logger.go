package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging battle events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- MultiLogger: fans each event out to several loggers ---

// MultiLogger records events like MemoryLogger and forwards each one to
// every wrapped logger.
type MultiLogger struct {
	MemoryLogger
	loggers []EventLogger
}

func NewMultiLogger(loggers ...EventLogger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

func (l *MultiLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	for _, sub := range l.loggers {
		sub.Log(event)
	}
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	// Pad phase to 18 chars for alignment
	for len(phase) < 18 {
		phase += " "
	}

	return fmt.Sprintf("R%-2d %s| %s", e.Round, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewEncounterEvent(hero, enemy string, enemyHP int) GameEvent {
	return GameEvent{
		Actor:   enemy,
		Type:    EventEncounter,
		Amount:  enemyHP,
		Details: fmt.Sprintf("%s appears! (HP %d) %s readies for battle.", enemy, enemyHP, hero),
	}
}

func NewRoundEvent(round, turnCount int, desperate bool) GameEvent {
	mode := "normal"
	if desperate {
		mode = "DESPERATE"
	}
	return GameEvent{
		Round:   round,
		Type:    EventNewRound,
		Amount:  turnCount,
		Details: fmt.Sprintf("=== Round %d (%d commands, %s) ===", round, turnCount, mode),
	}
}

func NewPhaseChangeEvent(round int, phase string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewHintEvent(round int, phase string, enemy, hint string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Actor:   enemy,
		Type:    EventHint,
		Details: fmt.Sprintf("Hint: %s", hint),
	}
}

func NewCommandsEvent(round int, phase string, actor string, commands []string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Actor:   actor,
		Type:    EventCommandsCommitted,
		Details: fmt.Sprintf("%s commits [%s]", actor, strings.Join(commands, ", ")),
	}
}

func NewRoundJudgedEvent(round int, phase string, index int, player, enemy, result string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventRoundJudged,
		Command: player,
		Amount:  index,
		Details: fmt.Sprintf("Turn %d: %s vs %s → %s", index+1, player, enemy, result),
	}
}

func NewStatsEvent(round int, phase string, playerWins, enemyWins, draws int, multiplier float64) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventStats,
		Details: fmt.Sprintf("Wins %d / Losses %d / Draws %d (multiplier x%.2f)", playerWins, enemyWins, draws, multiplier),
	}
}

func NewStreakEvent(round int, phase string, actor string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Actor:   actor,
		Type:    EventThreeWinStreak,
		Details: fmt.Sprintf("%s won the first three turns! Damage boosted.", actor),
	}
}

func NewDamageEvent(round int, phase string, attacker, target string, command string, amount int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Actor:   target,
		Type:    EventDamage,
		Command: command,
		Amount:  amount,
		Details: fmt.Sprintf("%s's %s hits %s for %d", attacker, command, target, amount),
	}
}

func NewCounterRushEvent(round int, phase string, attacker, target string, hit, amount int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Actor:   target,
		Type:    EventCounterRush,
		Command: "Defend",
		Amount:  amount,
		Details: fmt.Sprintf("Counter Rush hit %d: %s strikes %s for %d", hit, attacker, target, amount),
	}
}

func NewClashEvent(round int, phase string, hero, enemy string, toHero, toEnemy int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventClash,
		Amount:  toHero + toEnemy,
		Details: fmt.Sprintf("Clash! %s takes %d, %s takes %d", hero, toHero, enemy, toEnemy),
	}
}

func NewSpellCastEvent(round int, phase string, caster, spell, target string, amount int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Actor:   target,
		Type:    EventSpellCast,
		Command: "Spell",
		Amount:  amount,
		Details: fmt.Sprintf("%s casts %s on %s for %d", caster, spell, target, amount),
	}
}

func NewSpellFizzleEvent(round int, phase string, caster string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Actor:   caster,
		Type:    EventSpellFizzle,
		Command: "Spell",
		Details: fmt.Sprintf("%s knows no spells; the opening is wasted", caster),
	}
}

func NewHPChangeEvent(round int, phase string, actor string, oldHP, newHP int, reason string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Actor:   actor,
		Type:    EventHPChange,
		Amount:  newHP - oldHP,
		Details: fmt.Sprintf("%s HP: %d → %d (%s)", actor, oldHP, newHP, reason),
	}
}

func NewDesperateOfferEvent(round int, phase string, actor string, hp, maxHP int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Actor:   actor,
		Type:    EventDesperateOffer,
		Amount:  hp,
		Details: fmt.Sprintf("%s is on the brink (HP %d/%d). Desperate mode is available.", actor, hp, maxHP),
	}
}

func NewDesperateModeEvent(round int, phase string, actor string, accepted bool) GameEvent {
	details := fmt.Sprintf("%s holds back.", actor)
	if accepted {
		details = fmt.Sprintf("%s enters DESPERATE MODE: 6 commands per round, damage x1.5", actor)
	}
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Actor:   actor,
		Type:    EventDesperateMode,
		Details: details,
	}
}

func NewBattleOverEvent(round int, phase string, winner string, reason string) GameEvent {
	details := fmt.Sprintf("%s wins! (%s)", winner, reason)
	if winner == "" {
		details = fmt.Sprintf("No winner. (%s)", reason)
	}
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Actor:   winner,
		Type:    EventBattleOver,
		Details: details,
	}
}

func NewRevealEvent(round int, phase string, enemy, text string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Actor:   enemy,
		Type:    EventReveal,
		Details: text,
	}
}
