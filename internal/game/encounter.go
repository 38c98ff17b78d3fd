package game

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterkuimelis/rpgx/internal/log"
)

// Controller is the interface that human (TCP/WebSocket) and AI (MCP) players implement.
type Controller interface {
	// ChooseCommands asks for the full hidden command sequence for this round.
	ChooseCommands(ctx context.Context, state *BattleState, turnCount int) ([]Command, error)

	// ChooseSpell asks which learned spell to cast for a round won with Spell.
	ChooseSpell(ctx context.Context, state *BattleState, round int, spells []Spell) (Spell, error)

	// ChooseYesNo asks a yes/no question (e.g., "enter desperate mode?").
	ChooseYesNo(ctx context.Context, state *BattleState, prompt string) (bool, error)

	// Notify sends a battle event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// CombatantView is a read-only snapshot of one side.
type CombatantView struct {
	Name    string
	HP      int
	MaxHP   int
	Attack  int
	Defense int
}

func viewOf(c Combatant) CombatantView {
	return CombatantView{Name: c.Name(), HP: c.HP(), MaxHP: c.MaxHP(), Attack: c.Attack(), Defense: c.Defense()}
}

// BattleState is the snapshot handed to controllers and transports.
type BattleState struct {
	EncounterID  string
	Round        int
	Phase        BattlePhase
	Presentation PresentationPhase
	TurnCount    int
	Desperate    bool
	Hero         CombatantView
	Enemy        CombatantView
	Hint         string
	Spells       []Spell

	// Results of the most recently judged round.
	LastPlayerCommands []Command
	LastEnemyCommands  []Command
	LastResults        []JudgeResult
	LastStats          BattleStats
	Multiplier         float64

	Over   bool
	Winner Side
	Result string
}

// EncounterConfig holds configuration for creating a new encounter.
type EncounterConfig struct {
	Hero       *Player
	Enemy      *Enemy
	Logger     log.EventLogger
	Seed       int64         // RNG seed (0 for random)
	FrameStep  time.Duration // simulated time per Update (0 = 100ms)
	FrameDelay time.Duration // real time to wait between frames (0 = none)
	MaxRounds  int           // stop after this many rounds (0 = 100)
}

// Encounter orchestrates one battle between the hero and one enemy.
type Encounter struct {
	ID         string
	State      *BattleState
	Logic      *BattleLogic
	Phases     *PhaseManager
	Hero       *Player
	Enemy      *Enemy
	Controller Controller
	Logger     log.EventLogger

	ctx        context.Context
	frameStep  time.Duration
	frameDelay time.Duration
	maxRounds  int

	phase         BattlePhase
	timer         time.Duration
	selectingTurn int
	executingTurn int
	pending       []DamageInfo
}

// NewEncounter creates a new encounter from the given config and controller.
func NewEncounter(cfg EncounterConfig, ctrl Controller) *Encounter {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	frameStep := cfg.FrameStep
	if frameStep <= 0 {
		frameStep = 100 * time.Millisecond
	}
	maxRounds := cfg.MaxRounds
	if maxRounds == 0 {
		maxRounds = 100 // safety limit
	}

	logic := NewBattleLogic(cfg.Hero, cfg.Enemy, NewRand(cfg.Seed))
	e := &Encounter{
		ID:         uuid.NewString(),
		Logic:      logic,
		Phases:     NewPhaseManager(logic),
		Hero:       cfg.Hero,
		Enemy:      cfg.Enemy,
		Controller: ctrl,
		Logger:     logger,
		ctx:        context.Background(),
		frameStep:  frameStep,
		frameDelay: cfg.FrameDelay,
		maxRounds:  maxRounds,
		phase:      PhaseIntro,
	}
	e.State = &BattleState{
		EncounterID: e.ID,
		Phase:       PhaseIntro,
		Hint:        logic.ExclusionHint(),
		Spells:      append([]Spell(nil), cfg.Hero.Spells...),
		Winner:      SideNone,
	}
	e.snapshot()
	return e
}

// Run drives the encounter frame by frame until it is over.
// Returns the winning side (SideNone for a stalemate).
func (e *Encounter) Run(ctx context.Context) (Side, error) {
	e.ctx = ctx

	e.log(log.NewEncounterEvent(e.Hero.Name(), e.Enemy.Name(), e.Enemy.HP()))
	e.log(log.NewPhaseChangeEvent(0, e.phase.String()))
	e.log(log.NewHintEvent(0, e.phase.String(), e.Enemy.Name(), e.State.Hint))

	for !e.State.Over {
		if err := ctx.Err(); err != nil {
			return SideNone, err
		}
		if err := e.Update(e.frameStep); err != nil {
			return e.State.Winner, err
		}
		if e.frameDelay > 0 {
			select {
			case <-ctx.Done():
				return SideNone, ctx.Err()
			case <-time.After(e.frameDelay):
			}
		}
	}

	return e.State.Winner, nil
}

// Update advances the encounter by one frame of length dt.
func (e *Encounter) Update(dt time.Duration) error {
	if e.State.Over {
		return nil
	}

	switch e.phase {
	case PhaseCommandSelect, PhaseDesperateCommandSelect:
		if err := e.selectCommands(); err != nil {
			return err
		}
	case PhaseJudge, PhaseDesperateJudge:
		if err := e.judge(); err != nil {
			return err
		}
		next := PhaseJudgeResult
		if e.phase.IsDesperate() {
			next = PhaseDesperateJudgeResult
		}
		e.enterPhase(next)
		return nil
	case PhaseExecute, PhaseDesperateExecute:
		e.executeNext()
		if e.State.Over {
			return nil
		}
	case PhaseDesperateModePrompt:
		return e.promptDesperate()
	case PhaseEnd:
		return e.endRound()
	}

	e.timer += dt
	res := e.Phases.UpdatePhase(e.phaseContext(), dt)
	if res.ShouldTransition {
		timer := e.timer
		e.enterPhase(res.NextPhase)
		if !res.ResetTimer {
			e.timer = timer
		}
	}
	return nil
}

// Phase returns the current resolution phase.
func (e *Encounter) Phase() BattlePhase {
	return e.phase
}

func (e *Encounter) phaseContext() PhaseContext {
	return PhaseContext{
		Phase:          e.phase,
		PhaseTimer:     e.timer,
		SelectingTurn:  e.selectingTurn,
		ExecutingTurn:  e.executingTurn,
		PendingDamages: len(e.pending),
	}
}

// enterPhase switches phase and zeroes the phase timer.
func (e *Encounter) enterPhase(p BattlePhase) {
	e.phase = p
	e.timer = 0
	e.State.Phase = p
	if p == PhaseCommandSelect || p == PhaseDesperateCommandSelect {
		e.startRound()
	}
	e.log(log.NewPhaseChangeEvent(e.State.Round, p.String()))
}

func (e *Encounter) startRound() {
	e.State.Round++
	e.State.Presentation = PresentNone
	e.selectingTurn = 0
	e.executingTurn = 0
	e.pending = nil
	e.Logic.NewRound()
	e.log(log.NewRoundEvent(e.State.Round, e.Logic.CommandTurnCount(), e.Logic.IsDesperateMode()))
}

// selectCommands asks the controller for this round's hidden commands.
func (e *Encounter) selectCommands() error {
	turns := e.Logic.CommandTurnCount()
	if e.selectingTurn >= turns {
		return nil
	}

	cmds, err := e.Controller.ChooseCommands(e.ctx, e.snapshot(), turns)
	if err != nil {
		return err
	}
	if err := e.Logic.SetPlayerCommands(cmds); err != nil {
		return fmt.Errorf("commit commands: %w", err)
	}
	e.selectingTurn = turns
	e.log(log.NewCommandsEvent(e.State.Round, e.phase.String(), e.Hero.Name(), commandNames(cmds)))
	return nil
}

// judge resolves every round, computes the multiplier and builds the
// damage schedule, asking the controller for a spell per spell-win round.
func (e *Encounter) judge() error {
	round := e.State.Round
	phase := e.phase.String()

	playerCmds := e.Logic.PlayerCommands()
	enemyCmds := e.Logic.EnemyCommands()
	e.log(log.NewCommandsEvent(round, phase, e.Enemy.Name(), commandNames(enemyCmds)))

	results := e.Logic.JudgeAllRounds()
	for i, r := range results {
		e.log(log.NewRoundJudgedEvent(round, phase, i, playerCmds[i].String(), enemyCmds[i].String(), r.String()))
	}

	stats := e.Logic.CalculateBattleStats()
	mult := ComposeMultiplier(stats.HasThreeWinStreak, e.Logic.IsDesperateMode())
	if stats.HasThreeWinStreak {
		e.log(log.NewStreakEvent(round, phase, e.Hero.Name()))
	}
	e.log(log.NewStatsEvent(round, phase, stats.PlayerWins, stats.EnemyWins, stats.Draws, mult))

	e.State.LastPlayerCommands = playerCmds
	e.State.LastEnemyCommands = enemyCmds
	e.State.LastResults = results
	e.State.LastStats = stats
	e.State.Multiplier = mult

	sched := e.Logic.PrepareDamageList(mult)
	for _, r := range sched.SpellWins {
		if len(e.Hero.Spells) == 0 {
			e.log(log.NewSpellFizzleEvent(round, phase, e.Hero.Name()))
			continue
		}
		spell, err := e.Controller.ChooseSpell(e.ctx, e.snapshot(), r, e.Hero.Spells)
		if err != nil {
			return err
		}
		sched.Damages = append(sched.Damages, e.Logic.SpellDamage(r, spell, mult))
	}
	sort.SliceStable(sched.Damages, func(i, j int) bool {
		return sched.Damages[i].Round < sched.Damages[j].Round
	})

	e.pending = sched.Damages
	e.executingTurn = 0
	return nil
}

// executeNext applies one scheduled damage entry.
func (e *Encounter) executeNext() {
	if e.executingTurn >= len(e.pending) {
		return
	}
	d := e.pending[e.executingTurn]
	e.executingTurn++
	e.State.Presentation = PresentationFor(d)

	round := e.State.Round
	phase := e.phase.String()
	hero, enemy := e.Hero.Name(), e.Enemy.Name()

	switch d.Target {
	case TargetEnemy:
		switch {
		case d.IsCounterRush:
			e.log(log.NewCounterRushEvent(round, phase, hero, enemy, e.counterRushHit(), d.Amount))
		case d.Command == CommandSpell:
			e.log(log.NewSpellCastEvent(round, phase, hero, d.Spell, enemy, d.Amount))
		default:
			e.log(log.NewDamageEvent(round, phase, hero, enemy, d.Command.String(), d.Amount))
		}
		e.damageEnemy(d.Amount, d.Command.String())
	case TargetPlayer:
		e.log(log.NewDamageEvent(round, phase, enemy, hero, d.Command.String(), d.Amount))
		e.damageHero(d.Amount, d.Command.String())
	case TargetBoth:
		e.log(log.NewClashEvent(round, phase, hero, enemy, d.DrawAmounts.Player, d.DrawAmounts.Enemy))
		e.damageHero(d.DrawAmounts.Player, "clash")
		e.damageEnemy(d.DrawAmounts.Enemy, "clash")
	}

	e.checkOver()
}

// counterRushHit returns the 1-based hit number of the entry just executed.
func (e *Encounter) counterRushHit() int {
	cur := e.pending[e.executingTurn-1]
	hit := 1
	for j := e.executingTurn - 2; j >= 0; j-- {
		if !e.pending[j].IsCounterRush || e.pending[j].Round != cur.Round {
			break
		}
		hit++
	}
	return hit
}

func (e *Encounter) damageHero(amount int, reason string) {
	old := e.Hero.HP()
	e.Hero.TakeDamage(amount)
	e.log(log.NewHPChangeEvent(e.State.Round, e.phase.String(), e.Hero.Name(), old, e.Hero.HP(), reason))
}

func (e *Encounter) damageEnemy(amount int, reason string) {
	old := e.Enemy.HP()
	e.Enemy.TakeDamage(amount)
	e.log(log.NewHPChangeEvent(e.State.Round, e.phase.String(), e.Enemy.Name(), old, e.Enemy.HP(), reason))
}

// checkOver ends the battle once either side has fallen.
func (e *Encounter) checkOver() {
	heroDown, enemyDown := !e.Hero.Alive(), !e.Enemy.Alive()
	switch {
	case heroDown && enemyDown:
		e.finish(SideNone, PresentStalemate, "both combatants fell")
	case enemyDown:
		e.finish(SidePlayer, PresentVictory, fmt.Sprintf("%s was defeated", e.Enemy.Name()))
	case heroDown:
		e.finish(SideEnemy, PresentDefeat, fmt.Sprintf("%s was defeated", e.Hero.Name()))
	}
}

func (e *Encounter) finish(winner Side, present PresentationPhase, reason string) {
	st := e.State
	st.Over = true
	st.Winner = winner
	st.Presentation = present

	winnerName := ""
	switch winner {
	case SidePlayer:
		winnerName = e.Hero.Name()
		st.Result = fmt.Sprintf("%s wins: %s", winnerName, reason)
	case SideEnemy:
		winnerName = e.Enemy.Name()
		st.Result = fmt.Sprintf("%s wins: %s", winnerName, reason)
	default:
		st.Result = fmt.Sprintf("No winner: %s", reason)
	}

	e.log(log.NewBattleOverEvent(st.Round, e.phase.String(), winnerName, reason))
	e.log(log.NewRevealEvent(st.Round, e.phase.String(), e.Enemy.Name(), e.Logic.BehaviorReveal()))
	e.snapshot()
}

// endRound decides what follows a fully executed round.
func (e *Encounter) endRound() error {
	if e.State.Round >= e.maxRounds {
		e.finish(SideNone, PresentStalemate, fmt.Sprintf("round limit reached (%d rounds)", e.maxRounds))
		return nil
	}
	if !e.Logic.IsDesperateMode() && e.Logic.CheckDesperateModeCondition() {
		e.log(log.NewDesperateOfferEvent(e.State.Round, e.phase.String(), e.Hero.Name(), e.Hero.HP(), e.Hero.MaxHP()))
		e.enterPhase(PhaseDesperateModePrompt)
		return nil
	}
	e.enterNextRound()
	return nil
}

// promptDesperate asks the controller to confirm desperate mode.
func (e *Encounter) promptDesperate() error {
	yes, err := e.Controller.ChooseYesNo(e.ctx, e.snapshot(),
		"Enter desperate mode? 6 commands per round, damage x1.5")
	if err != nil {
		return err
	}
	if yes {
		e.Logic.SetDesperateMode(true)
		if err := e.Logic.SetCommandTurnCount(DesperateTurnCount); err != nil {
			return err
		}
	}
	e.log(log.NewDesperateModeEvent(e.State.Round, e.phase.String(), e.Hero.Name(), yes))
	e.enterNextRound()
	return nil
}

func (e *Encounter) enterNextRound() {
	if e.Logic.IsDesperateMode() {
		e.enterPhase(PhaseDesperateCommandSelect)
		return
	}
	e.enterPhase(PhaseCommandSelect)
}

// snapshot refreshes and returns the shared state.
func (e *Encounter) snapshot() *BattleState {
	st := e.State
	st.Phase = e.phase
	st.TurnCount = e.Logic.CommandTurnCount()
	st.Desperate = e.Logic.IsDesperateMode()
	st.Hero = viewOf(e.Hero)
	st.Enemy = viewOf(e.Enemy)
	return st
}

// log emits a battle event through the logger and notifies the controller.
func (e *Encounter) log(event log.GameEvent) {
	e.Logger.Log(event)
	// Notifications are best effort
	_ = e.Controller.Notify(e.ctx, event)
}

func commandNames(cmds []Command) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.String()
	}
	return names
}

// ParseCommand accepts a command name or its first letter, case-insensitive.
func ParseCommand(s string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "attack":
		return CommandAttack, nil
	case "d", "defend":
		return CommandDefend, nil
	case "s", "spell":
		return CommandSpell, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownCommand)
	}
}

// ParseCommands parses a whitespace or comma separated command list.
func ParseCommands(s string) ([]Command, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	cmds := make([]Command, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCommand(f)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}
