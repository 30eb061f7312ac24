package main

import (
	"flag"
	"log"
	"os"

	"storesync_api/config"
	"storesync_api/internal/catalog/app"
	"storesync_api/pkg/dbconnect/postgres"
	"storesync_api/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config %s: %v", *configPath, err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	baseLog := logger.NewLogger(os.Stdout, "[storesync]")
	connector := postgres.NewPgConnector(&cfg.Postgres)

	server := app.NewServer(connector, cfg, baseLog)
	if err := server.Run(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
