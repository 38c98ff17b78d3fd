package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/rpgx/internal/config"
	"github.com/peterkuimelis/rpgx/internal/logging"
	rpgxmcp "github.com/peterkuimelis/rpgx/internal/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	roster := flag.String("roster", cfg.RosterFile, "path to roster YAML file")
	flag.Parse()

	logger := logging.New(cfg.Log)
	defer logger.Sync()

	tools := rpgxmcp.NewTools(*roster, logger)
	defer tools.Close()

	s := server.NewMCPServer("rpgx", "1.0.0")
	tools.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
