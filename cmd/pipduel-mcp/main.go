package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/pipduel/internal/config"
	pipmcp "github.com/peterkuimelis/pipduel/internal/mcp"
)

func main() {
	decks := flag.String("decks", "", "path to decks YAML file (default: built-in deck)")
	rulesFile := flag.String("rules", "", "path to rules YAML file")
	flag.Parse()

	// stdout carries the MCP protocol; zap's production config logs to stderr.
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	rules, err := config.Resolve(*rulesFile)
	if err != nil {
		logger.Fatal("load rules", zap.Error(err))
	}

	s := server.NewMCPServer("pipduel", "1.0.0")
	pipmcp.NewTools(rules, *decks, logger).Register(s)

	if err := server.ServeStdio(s); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}
