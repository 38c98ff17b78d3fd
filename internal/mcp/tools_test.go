package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/rpgx/internal/game"
)

const testRoster = `
hero:
  name: Arlen
  max_hp: 100
  attack: 100
  defense: 2
  spells: [Flare, Radiance]
enemies:
  - name: Slime
`

func newTestTools(t *testing.T) *Tools {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testRoster), 0o644))
	tools := NewTools(path, nil)
	t.Cleanup(tools.Close)
	return tools
}

func newCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return ""
}

func decodeResponse(t *testing.T, res *mcp.CallToolResult) ToolResponse {
	t.Helper()
	require.False(t, res.IsError, resultText(t, res))
	var resp ToolResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &resp))
	return resp
}

func TestStartBattleAndWin(t *testing.T) {
	tools := newTestTools(t)
	ctx := context.Background()

	res, err := tools.handleStartBattle(ctx, newCallToolRequest("start_battle", map[string]any{"enemy": 1, "seed": 5}))
	require.NoError(t, err)
	resp := decodeResponse(t, res)

	assert.NotEmpty(t, resp.EncounterID)
	assert.False(t, resp.BattleOver)
	require.NotNil(t, resp.Pending)
	assert.Equal(t, DecisionChooseCommands, resp.Pending.Type)
	assert.Equal(t, 3, resp.Pending.TurnCount)
	require.NotNil(t, resp.State)
	assert.Equal(t, "Slime", resp.State.Enemy.Name)
	assert.Contains(t, resp.State.Hint, "Slime is NOT the")

	var types []string
	for _, ev := range resp.Events {
		types = append(types, ev.Type)
	}
	assert.Contains(t, types, "Encounter")
	assert.Contains(t, types, "Hint")

	// One win, one loss and one draw: the clash deals 100/2 to the Slime.
	res, err = tools.handleSelectCommands(ctx, newCallToolRequest("select_commands", map[string]any{"commands": "attack, defend, spell"}))
	require.NoError(t, err)
	resp = decodeResponse(t, res)

	assert.True(t, resp.BattleOver)
	assert.Nil(t, resp.Pending)
	assert.Equal(t, "Arlen", resp.Winner)
	assert.Contains(t, resp.Result, "Slime was defeated")
	assert.NotEmpty(t, resp.Events)

	// Further decisions are refused.
	res, err = tools.handleSelectCommands(ctx, newCallToolRequest("select_commands", map[string]any{"commands": "a a a"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	// A finished battle can be replaced.
	res, err = tools.handleStartBattle(ctx, newCallToolRequest("start_battle", map[string]any{"enemy": 1}))
	require.NoError(t, err)
	assert.False(t, res.IsError, resultText(t, res))
}

func TestToolValidation(t *testing.T) {
	tools := newTestTools(t)
	ctx := context.Background()

	res, err := tools.handleSelectCommands(ctx, newCallToolRequest("select_commands", map[string]any{"commands": "a a a"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "start_battle")

	res, err = tools.handleGetBattleState(ctx, newCallToolRequest("get_battle_state", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tools.handleStartBattle(ctx, newCallToolRequest("start_battle", map[string]any{"enemy": 0}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tools.handleStartBattle(ctx, newCallToolRequest("start_battle", map[string]any{"enemy": 9}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "enemy 9 not found")

	res, err = tools.handleStartBattle(ctx, newCallToolRequest("start_battle", map[string]any{"enemy": 1, "seed": 1}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = tools.handleStartBattle(ctx, newCallToolRequest("start_battle", map[string]any{"enemy": 1}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "already running")

	res, err = tools.handleSelectCommands(ctx, newCallToolRequest("select_commands", map[string]any{"commands": "a d"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Expected exactly 3 commands")

	res, err = tools.handleSelectCommands(ctx, newCallToolRequest("select_commands", map[string]any{"commands": "a d x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Invalid commands")

	res, err = tools.handleAnswerYesNo(ctx, newCallToolRequest("answer_yes_no", map[string]any{"answer": true}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Wrong tool")

	// The rejected calls did not advance the battle.
	res, err = tools.handleGetBattleState(ctx, newCallToolRequest("get_battle_state", nil))
	require.NoError(t, err)
	resp := decodeResponse(t, res)
	require.NotNil(t, resp.Pending)
	assert.Equal(t, DecisionChooseCommands, resp.Pending.Type)
	assert.False(t, resp.BattleOver)
	assert.NotNil(t, resp.Events)
}

func TestGetBattleStateDuringDecision(t *testing.T) {
	tools := newTestTools(t)
	ctx := context.Background()

	res, err := tools.handleStartBattle(ctx, newCallToolRequest("start_battle", map[string]any{"enemy": 1, "seed": 5}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				res, err := tools.handleGetBattleState(ctx, newCallToolRequest("get_battle_state", nil))
				assert.NoError(t, err)
				assert.False(t, res.IsError)
			}
		}()
	}

	res, err = tools.handleSelectCommands(ctx, newCallToolRequest("select_commands", map[string]any{"commands": "attack, defend, spell"}))
	close(stop)
	wg.Wait()
	require.NoError(t, err)
	resp := decodeResponse(t, res)
	assert.True(t, resp.BattleOver)
	assert.Equal(t, "Arlen", resp.Winner)

	res, err = tools.handleGetBattleState(ctx, newCallToolRequest("get_battle_state", nil))
	require.NoError(t, err)
	resp = decodeResponse(t, res)
	assert.True(t, resp.BattleOver)
	assert.Nil(t, resp.Pending)
}

// sessionFacing starts sessions until the enemy has the wanted behavior type.
func sessionFacing(t *testing.T, tools *Tools, want game.EnemyBehaviorType) *BattleSession {
	t.Helper()
	for seed := int64(1); seed <= 100; seed++ {
		sess, err := NewBattleSession(tools.RosterFile, 1, seed, nil)
		require.NoError(t, err)
		_, err = sess.waitForPending(context.Background())
		require.NoError(t, err)
		if sess.enc.Logic.BehaviorType() == want {
			return sess
		}
		sess.Close()
	}
	t.Fatalf("no seed produced %s", want)
	return nil
}

func TestChooseSpell(t *testing.T) {
	tools := newTestTools(t)
	ctx := context.Background()

	sess := sessionFacing(t, tools, game.BehaviorDefend)
	tools.active = sess

	// Spell beats Defend on every turn.
	res, err := tools.handleSelectCommands(ctx, newCallToolRequest("select_commands", map[string]any{"commands": "s s s"}))
	require.NoError(t, err)
	resp := decodeResponse(t, res)
	require.NotNil(t, resp.Pending)
	assert.Equal(t, DecisionChooseSpell, resp.Pending.Type)
	require.Len(t, resp.Pending.Spells, 2)
	assert.Equal(t, "Radiance", resp.Pending.Spells[1].Name)

	res, err = tools.handleChooseSpell(ctx, newCallToolRequest("choose_spell", map[string]any{"index": 5}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	// Every spell-win turn is asked for in order before any damage lands.
	for _, idx := range []int{1, 0} {
		res, err = tools.handleChooseSpell(ctx, newCallToolRequest("choose_spell", map[string]any{"index": idx}))
		require.NoError(t, err)
		resp = decodeResponse(t, res)
		require.NotNil(t, resp.Pending)
		assert.Equal(t, DecisionChooseSpell, resp.Pending.Type)
	}
	assert.Equal(t, 2, resp.Pending.Round)

	res, err = tools.handleChooseSpell(ctx, newCallToolRequest("choose_spell", map[string]any{"index": 0}))
	require.NoError(t, err)
	resp = decodeResponse(t, res)

	// floor(100 * 1.5 * 1.5) kills the Slime with the first cast.
	assert.True(t, resp.BattleOver)
	var casts []string
	for _, ev := range resp.Events {
		if ev.Type == "SpellCast" {
			casts = append(casts, ev.Details)
			assert.Equal(t, 225, ev.Amount)
		}
	}
	require.Len(t, casts, 1)
	assert.Contains(t, casts[0], "Radiance")
}
