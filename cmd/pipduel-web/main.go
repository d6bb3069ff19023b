package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	decksFile := flag.String("decks", "", "path to decks YAML file (default: built-in deck)")
	rulesFile := flag.String("rules", "", "path to rules YAML file")
	dev := flag.Bool("dev", false, "human-readable debug logging")
	flag.Parse()

	newLogger := zap.NewProduction
	if *dev {
		newLogger = zap.NewDevelopment
	}
	logger, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	rules, err := config.Resolve(*rulesFile)
	if err != nil {
		logger.Fatal("load rules", zap.Error(err))
	}

	srv := web.NewServer(rules, *decksFile, logger)
	addr := fmt.Sprintf(":%d", *port)
	logger.Info("pipduel web UI listening", zap.String("url", fmt.Sprintf("http://localhost:%d", *port)))
	if err := srv.ListenAndServe(addr); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}
