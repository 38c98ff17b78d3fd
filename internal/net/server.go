package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peterkuimelis/rpgx/internal/game"
	"github.com/peterkuimelis/rpgx/internal/log"
)

// Server hosts battles for TCP clients, one encounter per connection.
type Server struct {
	RosterFile string
	Port       string
	Seed       int64         // 0 for a random seed per battle
	FrameStep  time.Duration // simulated time per encounter frame
	FrameDelay time.Duration // real time between frames
	Logger     *zap.Logger

	// Transcript, when set, receives every battle event as a text line.
	// Writes from concurrent battles must be safe; see zapcore.Lock.
	Transcript io.Writer
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Run listens on the configured port and serves clients until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.logger().Info("waiting for heroes", zap.String("addr", ln.Addr().String()))
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done. The listener is closed
// on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			s.handle(ctx, conn)
		}()
	}
}

// handle reads the join handshake and runs one battle on conn.
func (s *Server) handle(ctx context.Context, conn net.Conn) {
	session := uuid.NewString()
	logger := s.logger().With(
		zap.String("session", session),
		zap.String("remote", conn.RemoteAddr().String()),
	)
	logger.Info("hero connected")

	// Read the joiner's enemy choice
	dec := json.NewDecoder(conn)
	var joinMsg ClientMessage
	if err := dec.Decode(&joinMsg); err != nil {
		logger.Warn("read join message", zap.Error(err))
		return
	}
	if joinMsg.Type != MsgJoin {
		logger.Warn("unexpected first message", zap.String("type", joinMsg.Type))
		return
	}
	enemyNumber := joinMsg.EnemyNumber
	if enemyNumber == 0 {
		enemyNumber = 1
	}

	// The decoder may have buffered bytes past the handshake.
	rw := &bufferedConn{Conn: conn, r: io.MultiReader(dec.Buffered(), conn)}
	err := s.battle(ctx, rw, enemyNumber, logger)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		logger.Info("battle cancelled")
	default:
		logger.Error("battle failed", zap.Error(err))
		ctrl := NewNetworkController(rw)
		_ = ctrl.SendBattleOver("", err.Error())
	}
}

// battle loads the matchup and runs one encounter over conn.
func (s *Server) battle(ctx context.Context, conn net.Conn, enemyNumber int, logger *zap.Logger) error {
	hero, enemy, err := game.LoadMatchup(s.RosterFile, enemyNumber)
	if err != nil {
		return fmt.Errorf("load matchup: %w", err)
	}
	logger.Info("battle starting",
		zap.String("hero", hero.Name()),
		zap.String("enemy", enemy.Name()),
		zap.Int("enemy_number", enemyNumber),
	)

	var events log.EventLogger = log.NewZapLogger(logger)
	if s.Transcript != nil {
		events = log.NewMultiLogger(events, log.NewTextLogger(s.Transcript))
	}

	ctrl := NewNetworkController(conn)
	enc := game.NewEncounter(game.EncounterConfig{
		Hero:       hero,
		Enemy:      enemy,
		Logger:     events,
		Seed:       s.Seed,
		FrameStep:  s.FrameStep,
		FrameDelay: s.FrameDelay,
	}, ctrl)

	winner, err := enc.Run(ctx)
	if err != nil {
		return fmt.Errorf("encounter %s: %w", enc.ID, err)
	}

	logger.Info("battle over",
		zap.String("encounter", enc.ID),
		zap.String("winner", winner.String()),
		zap.Int("rounds", enc.State.Round),
	)
	return ctrl.SendBattleOver(winnerName(enc), enc.State.Result)
}

func winnerName(enc *game.Encounter) string {
	switch enc.State.Winner {
	case game.SidePlayer:
		return enc.Hero.Name()
	case game.SideEnemy:
		return enc.Enemy.Name()
	default:
		return ""
	}
}

// PlayLocal runs a battle in-process: the encounter and a terminal client
// talk over a net.Pipe, the way a remote hero would over TCP.
func (s *Server) PlayLocal(ctx context.Context, enemyNumber int, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	errCh := make(chan error, 2)

	// Run the local REPL in a goroutine
	go func() {
		client := NewClient(clientConn, in, out)
		errCh <- client.RunREPL(ctx)
	}()

	// Run the battle
	go func() {
		defer serverConn.Close()
		logger := s.logger().With(zap.String("session", "local"))
		errCh <- s.battle(ctx, serverConn, enemyNumber, logger)
	}()

	// Wait for either the battle or the REPL to finish
	err := <-errCh
	if err != nil {
		return err
	}
	return <-errCh
}

// bufferedConn reads through r so bytes consumed by the handshake decoder
// are not lost.
type bufferedConn struct {
	net.Conn
	r io.Reader
}

func (c *bufferedConn) Read(p []byte) (int, error) {
	return c.r.Read(p)
}
