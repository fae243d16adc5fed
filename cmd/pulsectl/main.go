package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/pulsecity/internal/admin"
	"github.com/dmitrijs2005/pulsecity/internal/flagx"
	"github.com/dmitrijs2005/pulsecity/internal/logging"
	"github.com/dmitrijs2005/pulsecity/internal/server"
	"github.com/dmitrijs2005/pulsecity/internal/server/config"
	"github.com/dmitrijs2005/pulsecity/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, rm, err := server.OpenDatabase(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	idp, err := server.NewIdentityProvider(ctx, cfg, db, rm, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	accounts := services.NewAccountService(db, rm, idp)
	cli := admin.New(accounts, os.Stdin, os.Stdout)

	if err := cli.Run(ctx, flagx.Positional(os.Args[1:], config.ValueFlags())); err != nil {
		log.Printf("%v", err)
		db.Close()
		os.Exit(1)
	}

}
