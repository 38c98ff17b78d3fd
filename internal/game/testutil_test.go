package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/peterkuimelis/rpgx/internal/log"
)

// ScriptedController is a Controller that follows a predefined script.
// Used in tests to deterministically drive the battle.
type ScriptedController struct {
	t    *testing.T
	name string

	commands [][]Command
	cmdPos   int

	spells   []string
	spellPos int

	yesNoChoices []bool
	yesNoPos     int

	prompts []string
	events  []log.GameEvent
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

// AddCommands queues one round's command sequence.
func (sc *ScriptedController) AddCommands(cmds ...Command) *ScriptedController {
	sc.commands = append(sc.commands, cmds)
	return sc
}

// AddSpell queues a spell choice by name.
func (sc *ScriptedController) AddSpell(name string) *ScriptedController {
	sc.spells = append(sc.spells, name)
	return sc
}

func (sc *ScriptedController) AddYesNo(answer bool) *ScriptedController {
	sc.yesNoChoices = append(sc.yesNoChoices, answer)
	return sc
}

func (sc *ScriptedController) ChooseCommands(ctx context.Context, state *BattleState, turnCount int) ([]Command, error) {
	if sc.cmdPos >= len(sc.commands) {
		// Default: attack every turn
		cmds := make([]Command, turnCount)
		for i := range cmds {
			cmds[i] = CommandAttack
		}
		return cmds, nil
	}
	cmds := sc.commands[sc.cmdPos]
	sc.cmdPos++
	return cmds, nil
}

func (sc *ScriptedController) ChooseSpell(ctx context.Context, state *BattleState, round int, spells []Spell) (Spell, error) {
	if sc.spellPos >= len(sc.spells) {
		return spells[0], nil
	}
	name := sc.spells[sc.spellPos]
	sc.spellPos++
	for _, s := range spells {
		if s.Name == name {
			return s, nil
		}
	}
	sc.t.Fatalf("[%s] spell %q not among %v", sc.name, name, spells)
	return Spell{}, nil
}

func (sc *ScriptedController) ChooseYesNo(ctx context.Context, state *BattleState, prompt string) (bool, error) {
	sc.prompts = append(sc.prompts, prompt)
	if sc.yesNoPos >= len(sc.yesNoChoices) {
		return false, nil
	}
	answer := sc.yesNoChoices[sc.yesNoPos]
	sc.yesNoPos++
	return answer, nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	sc.events = append(sc.events, event)
	return nil
}

// --- Test combatant helpers ---

// fixedHero is a Hero with a flat DamageWithBonus value.
type fixedHero struct {
	hp, maxHP, defense, damage int
}

func (h *fixedHero) Name() string { return "Tester" }
func (h *fixedHero) HP() int { return h.hp }
func (h *fixedHero) MaxHP() int { return h.maxHP }
func (h *fixedHero) Attack() int { return h.damage }
func (h *fixedHero) Defense() int { return h.defense }
func (h *fixedHero) Alive() bool { return h.hp > 0 }
func (h *fixedHero) DamageWithBonus(Combatant) int { return h.damage }

func seededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// newTestLogic builds a BattleLogic with fixed enemy commands.
func newTestLogic(t *testing.T, hero Hero, enemy Combatant, player, enemyCmds []Command) *BattleLogic {
	t.Helper()
	bl := NewBattleLogic(hero, enemy, seededRand(1))
	if len(player) != bl.CommandTurnCount() {
		if err := bl.SetCommandTurnCount(len(player)); err != nil {
			t.Fatalf("SetCommandTurnCount(%d): %v", len(player), err)
		}
	}
	if err := bl.SetPlayerCommands(player); err != nil {
		t.Fatalf("SetPlayerCommands: %v", err)
	}
	if err := bl.SetEnemyCommands(enemyCmds); err != nil {
		t.Fatalf("SetEnemyCommands: %v", err)
	}
	return bl
}

func testHero() *Player {
	p := NewPlayer("Arlen", 100, 20, 5)
	p.Spells = []Spell{SpellRegistry["Flare"], SpellRegistry["Frost Lance"]}
	return p
}

// runEncounterToCompletion runs an encounter and returns the logger for inspection.
func runEncounterToCompletion(t *testing.T, cfg EncounterConfig, ctrl *ScriptedController) (*Encounter, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	if cfg.Seed == 0 {
		cfg.Seed = 42 // deterministic tests
	}
	if cfg.MaxRounds == 0 {
		cfg.MaxRounds = 50
	}

	enc := NewEncounter(cfg, ctrl)

	winner, err := enc.Run(context.Background())
	if err != nil {
		t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		t.Fatalf("Encounter error: %v", err)
	}

	t.Logf("Battle result: winner=%s (%s)", winner, enc.State.Result)
	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))

	return enc, logger
}
