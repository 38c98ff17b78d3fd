package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/peterkuimelis/rpgx/internal/game"
)

// Client connects to a battle server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   *bufio.Reader
	out  io.Writer
}

// NewClient creates a REPL client reading input from in and writing to out.
func NewClient(conn net.Conn, in io.Reader, out io.Writer) *Client {
	return &Client{conn: conn, in: bufio.NewReader(in), out: out}
}

// Connect connects to a server, sends the enemy choice, and runs the REPL.
func Connect(ctx context.Context, addr string, enemyNumber int) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Send join message with enemy choice
	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: MsgJoin, EnemyNumber: enemyNumber}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for the battle to start...")

	client := NewClient(conn, os.Stdin, os.Stdout)
	return client.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgNotify:
			c.renderEvent(msg.Event)

		case MsgChooseCommands:
			c.renderState(msg.State)
			fmt.Fprintf(c.out, "\n%s\n", msg.Prompt)
			cmds, err := c.readCommands(msg.TurnCount)
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: MsgCommands, Commands: cmds}); err != nil {
				return fmt.Errorf("send commands: %w", err)
			}

		case MsgChooseSpell:
			c.renderSpells(msg.Prompt, msg.Spells)
			idx, err := c.readChoice(len(msg.Spells))
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: MsgSpell, Index: idx}); err != nil {
				return fmt.Errorf("send spell: %w", err)
			}

		case MsgChooseYesNo:
			fmt.Fprintf(c.out, "\n%s (y/n): ", msg.Prompt)
			answer, err := c.readYesNo()
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: MsgYesNo, Answer: answer}); err != nil {
				return fmt.Errorf("send yes_no: %w", err)
			}

		case MsgError:
			fmt.Fprintf(c.out, "Server: %s\n", msg.Prompt)

		case MsgBattleOver:
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "          BATTLE OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	phase := ev.Phase
	if phase == "" {
		phase = "          "
	}
	for len(phase) < 18 {
		phase += " "
	}
	fmt.Fprintf(c.out, "R%-2d %s| %s\n", ev.Round, phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════════════╗")
	enemy := sv.Enemy
	fmt.Fprintf(c.out, "║  %s  HP %s %d/%d  ATK %d  DEF %d\n",
		enemy.Name, hpBar(enemy.HP, enemy.MaxHP), enemy.HP, enemy.MaxHP, enemy.Attack, enemy.Defense)
	fmt.Fprintf(c.out, "║  %s\n", sv.Hint)
	fmt.Fprintln(c.out, "║──────────────────────────────────────────────────────")
	hero := sv.Hero
	fmt.Fprintf(c.out, "║  %s  HP %s %d/%d  ATK %d  DEF %d\n",
		hero.Name, hpBar(hero.HP, hero.MaxHP), hero.HP, hero.MaxHP, hero.Attack, hero.Defense)
	if len(sv.Spells) > 0 {
		fmt.Fprintf(c.out, "║  Spells: %s\n", strings.Join(sv.Spells, ", "))
	}
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════════════╝")

	roundInfo := fmt.Sprintf("Round %d | %s | %d commands", sv.Round, sv.Phase, sv.TurnCount)
	if sv.Desperate {
		roundInfo += " | DESPERATE"
	}
	fmt.Fprintln(c.out, roundInfo)

	if len(sv.LastResults) > 0 {
		fmt.Fprintln(c.out, "\nLast round:")
		for i, r := range sv.LastResults {
			fmt.Fprintf(c.out, "  %d) %-6s vs %-6s  %s\n", i+1, sv.LastPlayer[i], sv.LastEnemy[i], r)
		}
	}
}

func hpBar(hp, maxHP int) string {
	const width = 20
	filled := 0
	if maxHP > 0 {
		filled = min(max(hp*width/maxHP, 0), width)
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", width-filled) + "]"
}

func (c *Client) renderSpells(prompt string, spells []SpellView) {
	fmt.Fprintf(c.out, "\n%s:\n", prompt)
	for _, s := range spells {
		if s.Description != "" {
			fmt.Fprintf(c.out, "  %d) %s: %s\n", s.Index+1, s.Name, s.Description)
		} else {
			fmt.Fprintf(c.out, "  %d) %s\n", s.Index+1, s.Name)
		}
	}
}

func (c *Client) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readCommands reads one line of commands (e.g. "a d s") and returns their
// canonical names.
func (c *Client) readCommands(count int) ([]string, error) {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.readLine()
		if err != nil {
			return nil, err
		}
		cmds, err := game.ParseCommands(line)
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		if len(cmds) != count {
			fmt.Fprintf(c.out, "Enter exactly %d commands, e.g. \"a d s\"\n", count)
			continue
		}
		names := make([]string, len(cmds))
		for i, cmd := range cmds {
			names[i] = cmd.String()
		}
		return names, nil
	}
}

func (c *Client) readChoice(count int) (int, error) {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > count {
			fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", count)
			continue
		}
		return n - 1, nil // convert to 0-indexed
	}
}

func (c *Client) readYesNo() (bool, error) {
	for {
		line, err := c.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprint(c.out, "Enter y or n: ")
		}
	}
}
