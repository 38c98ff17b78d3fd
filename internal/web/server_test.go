package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rpgxnet "github.com/peterkuimelis/rpgx/internal/net"
)

const testRoster = `
hero:
  name: Arlen
  max_hp: 100
  attack: 100
  defense: 2
  weapon: {name: Goblin Bane, attack: 4, slayer_of: Goblin, slayer_bonus: 0.5}
  spells: [Flare, Frost Lance]
enemies:
  - name: Slime
  - name: Mimic
    description: A chest with teeth.
    max_hp: 70
    attack: 14
    defense: 6
`

func newTestServer(t *testing.T, gameAddr string) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testRoster), 0o644))
	ts := httptest.NewServer(NewServer(path, gameAddr, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, "")

	res, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "<title>rpgx</title>")

	res, err = http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRosterAPI(t *testing.T) {
	ts := newTestServer(t, "")

	res, err := http.Get(ts.URL + "/api/roster")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var info RosterInfo
	require.NoError(t, json.NewDecoder(res.Body).Decode(&info))

	assert.Equal(t, "Arlen", info.Hero.Name)
	assert.Equal(t, 104, info.Hero.Attack)
	assert.Equal(t, "Goblin Bane", info.Hero.Weapon)
	assert.Empty(t, info.Hero.Armor)
	assert.Equal(t, []string{"Flare", "Frost Lance"}, info.Hero.Spells)

	require.Len(t, info.Enemies, 2)
	assert.Equal(t, EnemyInfo{Number: 1, Name: "Slime", Description: "A wobbling blob of goo.", MaxHP: 30, Attack: 8, Defense: 1}, info.Enemies[0])
	assert.Equal(t, "Mimic", info.Enemies[1].Name)
	assert.Equal(t, 70, info.Enemies[1].MaxHP)
}

func TestRosterAPIMissingFile(t *testing.T) {
	ts := httptest.NewServer(NewServer(filepath.Join(t.TempDir(), "missing.yaml"), "", nil).Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/roster")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestSpellsAPI(t *testing.T) {
	ts := newTestServer(t, "")

	res, err := http.Get(ts.URL + "/api/spells")
	require.NoError(t, err)
	defer res.Body.Close()

	var spells []SpellInfo
	require.NoError(t, json.NewDecoder(res.Body).Decode(&spells))
	require.NotEmpty(t, spells)

	var names []string
	for _, s := range spells {
		names = append(names, s.Name)
		assert.NotEmpty(t, s.Description)
	}
	assert.Contains(t, names, "Flare")
	assert.IsIncreasing(t, names)
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func TestWebSocketProxyPlaysBattle(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ts := newTestServer(t, ln.Addr().String())
	roster := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(roster, []byte(testRoster), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	game := &rpgxnet.Server{RosterFile: roster, Seed: 3}
	go func() { _ = game.Serve(ctx, ln) }()

	// A browser-supplied address is ignored; only the configured server is dialed.
	decoy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer decoy.Close()
	dialed := make(chan struct{}, 1)
	go func() {
		if c, err := decoy.Accept(); err == nil {
			c.Close()
			dialed <- struct{}{}
		}
	}()

	conn := dialWS(t, ctx, ts)
	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{
		"type":         "connect",
		"addr":         decoy.Addr().String(),
		"enemy_number": 1,
	}))

	var over rpgxnet.ServerMessage
	for over.Type == "" {
		var msg rpgxnet.ServerMessage
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		switch msg.Type {
		case rpgxnet.MsgChooseCommands:
			// One win, one loss and one draw whatever the enemy commits.
			require.NoError(t, wsjson.Write(ctx, conn, rpgxnet.ClientMessage{
				Type:     rpgxnet.MsgCommands,
				Commands: []string{"attack", "defend", "spell"},
			}))
		case rpgxnet.MsgChooseSpell:
			require.NoError(t, wsjson.Write(ctx, conn, rpgxnet.ClientMessage{Type: rpgxnet.MsgSpell}))
		case rpgxnet.MsgChooseYesNo:
			require.NoError(t, wsjson.Write(ctx, conn, rpgxnet.ClientMessage{Type: rpgxnet.MsgYesNo}))
		case rpgxnet.MsgBattleOver:
			over = msg
		}
	}

	assert.Equal(t, "Arlen", over.Winner)
	assert.Contains(t, over.Result, "Slime was defeated")
	select {
	case <-dialed:
		t.Error("proxy dialed the browser-supplied address")
	default:
	}
}

func TestWebSocketUnreachableGameServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	ts := newTestServer(t, addr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	require.NoError(t, wsjson.Write(ctx, conn, connectMessage{Type: "connect", EnemyNumber: 1}))

	var msg rpgxnet.ServerMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, rpgxnet.MsgError, msg.Type)
	assert.Contains(t, msg.Prompt, "Could not connect to game server")
}

func TestWebSocketRequiresConnect(t *testing.T) {
	ts := newTestServer(t, "")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	require.NoError(t, wsjson.Write(ctx, conn, map[string]string{"type": "hello"}))

	_, _, err := conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusPolicyViolation, websocket.CloseStatus(err))
}
