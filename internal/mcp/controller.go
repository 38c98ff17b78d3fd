package mcp

import (
	"context"

	"github.com/peterkuimelis/rpgx/internal/game"
	"github.com/peterkuimelis/rpgx/internal/log"
	"github.com/peterkuimelis/rpgx/internal/net"
)

// MCPController implements game.Controller by sending decisions to the MCP
// session's pending channel and blocking on a response channel.
type MCPController struct {
	session    *BattleSession
	responseCh chan any
}

// NewMCPController creates a controller bound to the given session.
func NewMCPController(session *BattleSession) *MCPController {
	return &MCPController{
		session:    session,
		responseCh: make(chan any),
	}
}

// ask publishes a decision and waits for the tool handler's answer.
func (c *MCPController) ask(ctx context.Context, d *PendingDecision) (any, error) {
	select {
	case c.session.pendingCh <- d:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-c.responseCh:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ChooseCommands implements game.Controller.
func (c *MCPController) ChooseCommands(ctx context.Context, state *game.BattleState, turnCount int) ([]game.Command, error) {
	resp, err := c.ask(ctx, &PendingDecision{
		Type:      DecisionChooseCommands,
		State:     net.BuildStateView(state),
		Prompt:    "Choose your hidden commands for this round (attack, defend, spell)",
		TurnCount: turnCount,
	})
	if err != nil {
		return nil, err
	}
	return resp.(CommandsResponse).Commands, nil
}

// ChooseSpell implements game.Controller.
func (c *MCPController) ChooseSpell(ctx context.Context, state *game.BattleState, round int, spells []game.Spell) (game.Spell, error) {
	resp, err := c.ask(ctx, &PendingDecision{
		Type:   DecisionChooseSpell,
		State:  net.BuildStateView(state),
		Prompt: "A turn was won with Spell. Choose a spell to cast",
		Round:  round,
		Spells: net.SpellViews(spells),
	})
	if err != nil {
		return game.Spell{}, err
	}

	sr := resp.(SpellResponse)
	if sr.Index < 0 || sr.Index >= len(spells) {
		return spells[0], nil
	}
	return spells[sr.Index], nil
}

// ChooseYesNo implements game.Controller.
func (c *MCPController) ChooseYesNo(ctx context.Context, state *game.BattleState, prompt string) (bool, error) {
	resp, err := c.ask(ctx, &PendingDecision{
		Type:   DecisionChooseYesNo,
		State:  net.BuildStateView(state),
		Prompt: prompt,
	})
	if err != nil {
		return false, err
	}
	return resp.(YesNoResponse).Answer, nil
}

// Notify implements game.Controller.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	c.session.appendEvent(*net.NewEventView(event))
	return nil
}
