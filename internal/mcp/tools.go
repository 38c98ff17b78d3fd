package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/rpgx/internal/game"
)

// Tools serves the battle tools. One battle runs at a time per process.
type Tools struct {
	RosterFile string
	Logger     *zap.Logger

	mu     sync.Mutex
	active *BattleSession
}

// NewTools creates the tool set reading matchups from rosterFile.
func NewTools(rosterFile string, logger *zap.Logger) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{RosterFile: rosterFile, Logger: logger}
}

// RegisterTools adds all battle tools to the MCP server.
func (t *Tools) RegisterTools(s *server.MCPServer) {
	s.AddTool(startBattleTool(), t.handleStartBattle)
	s.AddTool(selectCommandsTool(), t.handleSelectCommands)
	s.AddTool(chooseSpellTool(), t.handleChooseSpell)
	s.AddTool(answerYesNoTool(), t.handleAnswerYesNo)
	s.AddTool(getBattleStateTool(), t.handleGetBattleState)
}

// --- Tool definitions ---

func startBattleTool() mcp.Tool {
	return mcp.NewTool("start_battle",
		mcp.WithDescription("Start a new turn-based battle as the hero. Each round both sides secretly commit a "+
			"sequence of commands (attack, defend, spell); Defend beats Attack, Attack beats Spell, Spell beats Defend. "+
			"Returns the opening events, the enemy behavior hint and the first pending decision."),
		mcp.WithNumber("enemy", mcp.Required(), mcp.Description("Enemy number (1-indexed from the roster file)")),
		mcp.WithNumber("seed", mcp.Description("Optional RNG seed for a reproducible battle (0 for random)")),
	)
}

func selectCommandsTool() mcp.Tool {
	return mcp.NewTool("select_commands",
		mcp.WithDescription("Commit the hidden command sequence for this round. Use this when the pending decision type is 'choose_commands'."),
		mcp.WithString("commands", mcp.Required(), mcp.Description("Exactly turn_count commands separated by spaces or commas, "+
			"each attack|defend|spell or a|d|s (e.g. 'a d s')")),
	)
}

func chooseSpellTool() mcp.Tool {
	return mcp.NewTool("choose_spell",
		mcp.WithDescription("Pick the spell to cast for a turn won with Spell. Use this when the pending decision type is 'choose_spell'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the pending spells list")),
	)
}

func answerYesNoTool() mcp.Tool {
	return mcp.NewTool("answer_yes_no",
		mcp.WithDescription("Answer a yes/no question such as entering desperate mode. Use this when the pending decision type is 'choose_yes_no'."),
		mcp.WithBoolean("answer", mcp.Required(), mcp.Description("true for yes, false for no")),
	)
}

func getBattleStateTool() mcp.Tool {
	return mcp.NewTool("get_battle_state",
		mcp.WithDescription("Get the current battle state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

// --- Tool handlers ---

func (t *Tools) session() *BattleSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Tools) handleStartBattle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	if t.active != nil && !t.active.Over() {
		t.mu.Unlock()
		return mcp.NewToolResultError("A battle is already running. Only one battle at a time is supported."), nil
	}

	enemy := request.GetInt("enemy", 0)
	if enemy < 1 {
		t.mu.Unlock()
		return mcp.NewToolResultError("enemy must be >= 1"), nil
	}
	seed := int64(request.GetInt("seed", 0))

	sess, err := NewBattleSession(t.RosterFile, enemy, seed, t.Logger)
	if err != nil {
		t.mu.Unlock()
		return mcp.NewToolResultErrorf("Failed to start battle: %v", err), nil
	}
	if t.active != nil {
		t.active.Close()
	}
	t.active = sess
	t.mu.Unlock()

	t.Logger.Info("battle started", zap.String("encounter", sess.enc.ID), zap.Int("enemy", enemy))

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// pendingFor returns the active session when it waits for a decision of type want.
func (t *Tools) pendingFor(want DecisionType) (*BattleSession, *PendingDecision, *mcp.CallToolResult) {
	sess := t.session()
	if sess == nil {
		return nil, nil, mcp.NewToolResultError("No battle is running. Use start_battle first.")
	}
	pending := sess.pending()
	if pending == nil {
		return nil, nil, mcp.NewToolResultError("No pending decision.")
	}
	if pending.Type == DecisionBattleOver {
		return nil, nil, mcp.NewToolResultError("The battle is over. Use start_battle to fight again.")
	}
	if pending.Type != want {
		return nil, nil, mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not '%s'. Use the correct tool.", pending.Type, want)
	}
	return sess, pending, nil
}

// respond hands answer to the battle and waits for the next decision.
func (t *Tools) respond(ctx context.Context, sess *BattleSession, answer any) (*mcp.CallToolResult, error) {
	select {
	case sess.ctrl.responseCh <- answer:
	case <-ctx.Done():
		return mcp.NewToolResultErrorf("Cancelled: %v", ctx.Err()), nil
	}

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}
	if resp.BattleOver {
		t.Logger.Info("battle over", zap.String("encounter", resp.EncounterID), zap.String("result", resp.Result))
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleSelectCommands(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, pending, errResult := t.pendingFor(DecisionChooseCommands)
	if errResult != nil {
		return errResult, nil
	}

	cmds, err := game.ParseCommands(request.GetString("commands", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid commands: %v", err), nil
	}
	if len(cmds) != pending.TurnCount {
		return mcp.NewToolResultErrorf("Expected exactly %d commands, got %d.", pending.TurnCount, len(cmds)), nil
	}

	return t.respond(ctx, sess, CommandsResponse{Commands: cmds})
}

func (t *Tools) handleChooseSpell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, pending, errResult := t.pendingFor(DecisionChooseSpell)
	if errResult != nil {
		return errResult, nil
	}

	index := request.GetInt("index", -1)
	if index < 0 || index >= len(pending.Spells) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(pending.Spells)-1), nil
	}

	return t.respond(ctx, sess, SpellResponse{Index: index})
}

func (t *Tools) handleAnswerYesNo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, _, errResult := t.pendingFor(DecisionChooseYesNo)
	if errResult != nil {
		return errResult, nil
	}

	answer := request.GetBool("answer", false)
	return t.respond(ctx, sess, YesNoResponse{Answer: answer})
}

func (t *Tools) handleGetBattleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return mcp.NewToolResultError("No battle is running. Use start_battle first."), nil
	}

	resp := &ToolResponse{
		EncounterID: sess.enc.ID,
		Events:      sess.drainEvents(),
	}

	sess.mu.Lock()
	resp.BattleOver = sess.over
	resp.Winner = sess.winner
	resp.Result = sess.result
	pending := sess.currentPending
	sess.mu.Unlock()

	// The engine is blocked on the current decision, so its snapshot is current.
	if pending != nil {
		resp.State = pending.State
		if pending.Type != DecisionBattleOver {
			resp.Pending = pending.view()
		}
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// Close stops any running battle.
func (t *Tools) Close() {
	if sess := t.session(); sess != nil {
		sess.Close()
	}
}
