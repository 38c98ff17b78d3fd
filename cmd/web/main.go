package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/peterkuimelis/rpgx/internal/config"
	"github.com/peterkuimelis/rpgx/internal/logging"
	"github.com/peterkuimelis/rpgx/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	port := flag.Int("port", cfg.WebPort, "HTTP port to listen on")
	rosterFile := flag.String("roster", cfg.RosterFile, "path to roster YAML file")
	gameAddr := flag.String("game", "localhost:"+cfg.Port, "battle server address the web UI proxies to")
	flag.Parse()

	logger := logging.New(cfg.Log)
	defer logger.Sync()

	srv := web.NewServer(*rosterFile, *gameAddr, logger)

	logger.Info("rpgx web UI listening", zap.String("url", fmt.Sprintf("http://localhost:%d", *port)))
	if err := srv.ListenAndServe(fmt.Sprintf(":%d", *port)); err != nil {
		logger.Error("web server stopped", zap.Error(err))
		os.Exit(1)
	}
}
