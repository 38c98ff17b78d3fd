package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/rpgx/internal/game"
	"github.com/peterkuimelis/rpgx/internal/log"
)

// maxCommandAttempts bounds how often an invalid command sequence is re-asked.
const maxCommandAttempts = 5

// NetworkController implements game.Controller over a TCP connection.
type NetworkController struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
	mu   sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn) *NetworkController {
	return &NetworkController{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseCommands implements game.Controller. Invalid sequences are answered
// with an error message and asked for again.
func (nc *NetworkController) ChooseCommands(ctx context.Context, state *game.BattleState, turnCount int) ([]game.Command, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	for attempt := 0; attempt < maxCommandAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msg := ServerMessage{
			Type:      MsgChooseCommands,
			Prompt:    fmt.Sprintf("Choose %d commands (attack, defend, spell)", turnCount),
			TurnCount: turnCount,
			State:     BuildStateView(state),
		}
		if err := nc.send(msg); err != nil {
			return nil, fmt.Errorf("send choose_commands: %w", err)
		}

		resp, err := nc.recv()
		if err != nil {
			return nil, fmt.Errorf("recv commands: %w", err)
		}

		cmds, err := parseCommandList(resp.Commands, turnCount)
		if err == nil {
			return cmds, nil
		}
		if err := nc.send(ServerMessage{Type: MsgError, Prompt: err.Error()}); err != nil {
			return nil, fmt.Errorf("send error: %w", err)
		}
	}
	return nil, fmt.Errorf("no valid commands after %d attempts: %w", maxCommandAttempts, game.ErrCommandCount)
}

func parseCommandList(names []string, turnCount int) ([]game.Command, error) {
	if len(names) != turnCount {
		return nil, fmt.Errorf("got %d commands for %d turns: %w", len(names), turnCount, game.ErrCommandCount)
	}
	cmds := make([]game.Command, len(names))
	for i, name := range names {
		c, err := game.ParseCommand(name)
		if err != nil {
			return nil, err
		}
		cmds[i] = c
	}
	return cmds, nil
}

// ChooseSpell implements game.Controller.
func (nc *NetworkController) ChooseSpell(ctx context.Context, state *game.BattleState, round int, spells []game.Spell) (game.Spell, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type:   MsgChooseSpell,
		Prompt: fmt.Sprintf("Turn %d won with Spell. Choose a spell to cast", round+1),
		Round:  round,
		Spells: SpellViews(spells),
		State:  BuildStateView(state),
	}
	if err := nc.send(msg); err != nil {
		return game.Spell{}, fmt.Errorf("send choose_spell: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return game.Spell{}, fmt.Errorf("recv spell: %w", err)
	}

	if resp.Index < 0 || resp.Index >= len(spells) {
		return spells[0], nil // fallback to first spell
	}
	return spells[resp.Index], nil
}

// ChooseYesNo implements game.Controller.
func (nc *NetworkController) ChooseYesNo(ctx context.Context, state *game.BattleState, prompt string) (bool, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type:   MsgChooseYesNo,
		Prompt: prompt,
		State:  BuildStateView(state),
	}
	if err := nc.send(msg); err != nil {
		return false, fmt.Errorf("send choose_yes_no: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return false, fmt.Errorf("recv yes_no: %w", err)
	}

	return resp.Answer, nil
}

// SendBattleOver sends a battle_over message to the client.
func (nc *NetworkController) SendBattleOver(winner, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: MsgBattleOver, Winner: winner, Result: result})
}

// Notify implements game.Controller.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	return nc.send(ServerMessage{Type: MsgNotify, Event: NewEventView(event)})
}
