package net

import (
	"github.com/peterkuimelis/rpgx/internal/game"
	"github.com/peterkuimelis/rpgx/internal/log"
)

// Message types for the JSON protocol over TCP.

const (
	MsgNotify         = "notify"
	MsgChooseCommands = "choose_commands"
	MsgChooseSpell    = "choose_spell"
	MsgChooseYesNo    = "choose_yes_no"
	MsgError          = "error"
	MsgBattleOver     = "battle_over"

	MsgJoin     = "join"
	MsgCommands = "commands"
	MsgSpell    = "spell"
	MsgYesNo    = "yes_no"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_commands", "choose_spell" and "choose_yes_no"
	State     *StateView  `json:"state,omitempty"`
	Prompt    string      `json:"prompt,omitempty"`
	TurnCount int         `json:"turn_count,omitempty"`
	Round     int         `json:"round,omitempty"`
	Spells    []SpellView `json:"spells,omitempty"`

	// For "battle_over"
	Winner string `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified battle event for the client.
type EventView struct {
	Round   int    `json:"round"`
	Phase   string `json:"phase"`
	Actor   string `json:"actor,omitempty"`
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Details string `json:"details"`
}

// SpellView is a numbered spell choice.
type SpellView struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// StateView is the battle as the hero sees it. Enemy commands of the
// current round stay hidden until they are judged.
type StateView struct {
	EncounterID string        `json:"encounter_id"`
	Round       int           `json:"round"`
	Phase       string        `json:"phase"`
	TurnCount   int           `json:"turn_count"`
	Desperate   bool          `json:"desperate"`
	Hero        CombatantView `json:"hero"`
	Enemy       CombatantView `json:"enemy"`
	Hint        string        `json:"hint"`
	Spells      []string      `json:"spells,omitempty"`

	LastPlayer  []string `json:"last_player,omitempty"`
	LastEnemy   []string `json:"last_enemy,omitempty"`
	LastResults []string `json:"last_results,omitempty"`
	Multiplier  float64  `json:"multiplier,omitempty"`
}

// CombatantView shows one side of the battle.
type CombatantView struct {
	Name    string `json:"name"`
	HP      int    `json:"hp"`
	MaxHP   int    `json:"max_hp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "commands": names or first letters, one per turn
	Commands []string `json:"commands,omitempty"`

	// For "spell"
	Index int `json:"index,omitempty"`

	// For "yes_no"
	Answer bool `json:"answer,omitempty"`

	// For "join" (initial handshake)
	EnemyNumber int `json:"enemy_number,omitempty"`
}

// BuildStateView creates a StateView from a battle snapshot.
func BuildStateView(state *game.BattleState) *StateView {
	sv := &StateView{
		EncounterID: state.EncounterID,
		Round:       state.Round,
		Phase:       state.Phase.String(),
		TurnCount:   state.TurnCount,
		Desperate:   state.Desperate,
		Hero:        combatantView(state.Hero),
		Enemy:       combatantView(state.Enemy),
		Hint:        state.Hint,
		Multiplier:  state.Multiplier,
	}
	for _, s := range state.Spells {
		sv.Spells = append(sv.Spells, s.Name)
	}
	for _, c := range state.LastPlayerCommands {
		sv.LastPlayer = append(sv.LastPlayer, c.String())
	}
	for _, c := range state.LastEnemyCommands {
		sv.LastEnemy = append(sv.LastEnemy, c.String())
	}
	for _, r := range state.LastResults {
		sv.LastResults = append(sv.LastResults, r.String())
	}
	return sv
}

func combatantView(c game.CombatantView) CombatantView {
	return CombatantView{Name: c.Name, HP: c.HP, MaxHP: c.MaxHP, Attack: c.Attack, Defense: c.Defense}
}

// NewEventView converts a battle event for the wire.
func NewEventView(event log.GameEvent) *EventView {
	return &EventView{
		Round:   event.Round,
		Phase:   event.Phase,
		Actor:   event.Actor,
		Type:    event.Type.String(),
		Command: event.Command,
		Amount:  event.Amount,
		Details: event.Details,
	}
}

// SpellViews numbers the hero's spells for a choose_spell prompt.
func SpellViews(spells []game.Spell) []SpellView {
	views := make([]SpellView, len(spells))
	for i, s := range spells {
		views[i] = SpellView{Index: i, Name: s.Name, Description: s.Description}
	}
	return views
}
