package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/peterkuimelis/rpgx/internal/config"
	"github.com/peterkuimelis/rpgx/internal/logging"
	rpgxnet "github.com/peterkuimelis/rpgx/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := os.Args[1]
	switch cmd {
	case "serve":
		err = runServe(ctx, cfg, os.Args[2:])
	case "join":
		err = runJoin(ctx, cfg, os.Args[2:])
	case "play":
		err = runPlay(ctx, cfg, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  rpgx serve [--port P] [--roster FILE] [--seed N] [--realtime] [--transcript FILE]")
	fmt.Println("  rpgx join  [--enemy N] [--addr ADDR]")
	fmt.Println("  rpgx play  [--enemy N] [--roster FILE] [--seed N] [--realtime] [--transcript FILE]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve   Host battles for heroes connecting over TCP")
	fmt.Println("  join    Connect to a battle server and fight as the hero")
	fmt.Println("  play    Fight a battle in this terminal without a server")
}

func runServe(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.String("port", cfg.Port, "TCP port to listen on")
	roster := fs.String("roster", cfg.RosterFile, "path to roster file")
	seed := fs.Int64("seed", cfg.Seed, "RNG seed for every battle (0 for random)")
	realtime := fs.Bool("realtime", false, "pace phase timers in wall-clock time")
	transcriptPath := fs.String("transcript", "", "write a text transcript of every battle to FILE (- for stdout)")
	fs.Parse(args)

	logger := logging.New(cfg.Log)
	defer logger.Sync()

	transcript, closeTranscript, err := openTranscript(*transcriptPath, os.Stdout)
	if err != nil {
		return err
	}
	defer closeTranscript()

	srv := &rpgxnet.Server{
		RosterFile: *roster,
		Port:       *port,
		Seed:       *seed,
		FrameStep:  cfg.FrameStep,
		FrameDelay: frameDelay(cfg, *realtime),
		Logger:     logger,
		Transcript: transcript,
	}
	logger.Info("starting battle server", zap.String("roster", *roster), zap.String("port", *port))
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	enemy := fs.Int("enemy", 1, "enemy number to fight (from the server's roster)")
	addr := fs.String("addr", "localhost:"+cfg.Port, "server address to connect to")
	fs.Parse(args)

	return rpgxnet.Connect(ctx, *addr, *enemy)
}

func runPlay(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	enemy := fs.Int("enemy", 1, "enemy number to fight (from roster file)")
	roster := fs.String("roster", cfg.RosterFile, "path to roster file")
	seed := fs.Int64("seed", cfg.Seed, "RNG seed (0 for random)")
	realtime := fs.Bool("realtime", false, "pace phase timers in wall-clock time")
	transcriptPath := fs.String("transcript", "", "write a text transcript of the battle to FILE")
	fs.Parse(args)

	// Stdout belongs to the battle prompt here.
	transcript, closeTranscript, err := openTranscript(*transcriptPath, nil)
	if err != nil {
		return err
	}
	defer closeTranscript()

	srv := &rpgxnet.Server{
		RosterFile: *roster,
		Seed:       *seed,
		FrameStep:  cfg.FrameStep,
		FrameDelay: frameDelay(cfg, *realtime),
		Transcript: transcript,
	}
	return srv.PlayLocal(ctx, *enemy, os.Stdin, os.Stdout)
}

// frameDelay is the wall-clock pause per encounter frame.
func frameDelay(cfg *config.Config, realtime bool) time.Duration {
	if !realtime {
		return 0
	}
	return cfg.FrameStep
}

// openTranscript opens the transcript destination. An empty path disables
// the transcript; "-" selects stdout when it is available.
func openTranscript(path string, stdout *os.File) (io.Writer, func(), error) {
	switch {
	case path == "":
		return nil, func() {}, nil
	case path == "-" && stdout != nil:
		return zapcore.Lock(stdout), func() {}, nil
	case path == "-":
		return nil, nil, fmt.Errorf("transcript: stdout is in use, give a file path")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("transcript: %w", err)
	}
	return zapcore.Lock(f), func() { f.Close() }, nil
}
