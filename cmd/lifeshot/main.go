package main

import (
	"fmt"
	"os"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/config"
	"github.com/akamensky/argparse"
)

func check(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func main() {
	parser := argparse.NewParser("lifeshot", "Pool presence monitor: detects swimmers who go under and stay under")
	configFile := parser.String("c", "config", &argparse.Options{Help: "Path to JSON config file"})
	port := parser.Int("p", "port", &argparse.Options{Help: "Override the HTTP listen port"})
	wipeDB := parser.Flag("", "wipe-db", &argparse.Options{Help: "Drop all event data and exit"})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := log.NewLog()
	check(err)

	cfg, err := config.Load(*configFile)
	check(err)
	if *port != 0 {
		cfg.HTTPPort = *port
	}

	if *wipeDB {
		check(server.DropAllData(logger, cfg))
		logger.Infof("Event data wiped")
		return
	}

	srv, err := server.NewServer(logger, cfg)
	check(err)
	defer srv.Shutdown()
	check(srv.ListenAndServe())
}
