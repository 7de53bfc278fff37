// Package main is the entry point for the midi2tab API server
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/james-see/midi2tab/pkg/api"
	"github.com/james-see/midi2tab/pkg/logging"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logging.Init(*debug)

	slog.Info("starting midi2tab API server", "port", *port)
	slog.Info("swagger docs available", "url", fmt.Sprintf("http://localhost:%d/swagger/index.html", *port))

	if err := api.StartServer(*port); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
