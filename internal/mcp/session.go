package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/peterkuimelis/rpgx/internal/game"
	"github.com/peterkuimelis/rpgx/internal/log"
	rpgxnet "github.com/peterkuimelis/rpgx/internal/net"
)

// DecisionType identifies what kind of decision the battle is waiting for.
type DecisionType string

const (
	DecisionChooseCommands DecisionType = "choose_commands"
	DecisionChooseSpell    DecisionType = "choose_spell"
	DecisionChooseYesNo    DecisionType = "choose_yes_no"
	DecisionBattleOver     DecisionType = "battle_over"
)

// PendingDecision represents a decision the battle is waiting for.
type PendingDecision struct {
	Type      DecisionType
	State     *rpgxnet.StateView
	Prompt    string
	TurnCount int
	Round     int
	Spells    []rpgxnet.SpellView
}

// Response types sent back from MCP tools to the controller.

type CommandsResponse struct {
	Commands []game.Command
}

type SpellResponse struct {
	Index int
}

type YesNoResponse struct {
	Answer bool
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	EncounterID string              `json:"encounter_id,omitempty"`
	Events      []rpgxnet.EventView `json:"events"`
	State       *rpgxnet.StateView  `json:"state,omitempty"`
	Pending     *PendingView        `json:"pending,omitempty"`
	BattleOver  bool                `json:"battle_over"`
	Winner      string              `json:"winner,omitempty"`
	Result      string              `json:"result,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type      DecisionType        `json:"type"`
	Prompt    string              `json:"prompt,omitempty"`
	TurnCount int                 `json:"turn_count,omitempty"`
	Round     int                 `json:"round,omitempty"`
	Spells    []rpgxnet.SpellView `json:"spells,omitempty"`
}

func (p *PendingDecision) view() *PendingView {
	return &PendingView{
		Type:      p.Type,
		Prompt:    p.Prompt,
		TurnCount: p.TurnCount,
		Round:     p.Round,
		Spells:    p.Spells,
	}
}

// BattleSession holds the state of a single MCP battle.
type BattleSession struct {
	enc    *game.Encounter
	ctrl   *MCPController
	cancel context.CancelFunc

	pendingCh chan *PendingDecision

	mu             sync.Mutex
	currentPending *PendingDecision
	events         []rpgxnet.EventView
	over           bool
	winner         string
	result         string
}

// NewBattleSession loads the matchup and starts the encounter in the
// background. The first decision is collected with waitForPending.
func NewBattleSession(rosterFile string, enemyNumber int, seed int64, logger *zap.Logger) (*BattleSession, error) {
	hero, enemy, err := game.LoadMatchup(rosterFile, enemyNumber)
	if err != nil {
		return nil, fmt.Errorf("load matchup: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &BattleSession{
		cancel:    cancel,
		pendingCh: make(chan *PendingDecision, 1),
	}
	sess.ctrl = NewMCPController(sess)
	sess.enc = game.NewEncounter(game.EncounterConfig{
		Hero:   hero,
		Enemy:  enemy,
		Logger: log.NewZapLogger(logger.With(zap.String("session", "mcp"))),
		Seed:   seed,
	}, sess.ctrl)

	// Run the encounter in a goroutine
	go func() {
		_, err := sess.enc.Run(ctx)

		result := sess.enc.State.Result
		winner := ""
		switch sess.enc.State.Winner {
		case game.SidePlayer:
			winner = hero.Name()
		case game.SideEnemy:
			winner = enemy.Name()
		}
		if err != nil {
			result = fmt.Sprintf("error: %v", err)
		}

		sess.mu.Lock()
		sess.over = true
		sess.winner = winner
		sess.result = result
		sess.mu.Unlock()

		// Hand the final state to whoever waits next
		select {
		case sess.pendingCh <- &PendingDecision{
			Type:  DecisionBattleOver,
			State: rpgxnet.BuildStateView(sess.enc.State),
		}:
		case <-ctx.Done():
		}
	}()

	return sess, nil
}

// Close stops the encounter.
func (s *BattleSession) Close() {
	s.cancel()
}

// Over reports whether the battle has finished.
func (s *BattleSession) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// pending returns the decision the battle is blocked on, or nil before the first.
func (s *BattleSession) pending() *PendingDecision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPending
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *BattleSession) appendEvent(ev rpgxnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *BattleSession) drainEvents() []rpgxnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []rpgxnet.EventView{}
	}
	return events
}

// waitForPending blocks until the next decision arrives from the battle,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *BattleSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	s.currentPending = pending
	s.mu.Unlock()

	resp := &ToolResponse{
		EncounterID: s.enc.ID,
		Events:      s.drainEvents(),
		State:       pending.State,
	}

	if pending.Type == DecisionBattleOver {
		s.mu.Lock()
		resp.BattleOver = true
		resp.Winner = s.winner
		resp.Result = s.result
		s.mu.Unlock()
		return resp, nil
	}

	resp.Pending = pending.view()
	return resp, nil
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
