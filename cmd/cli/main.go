package main

import (
	"context"
	"log"
	"os"

	"github.com/riceguard/riceguard/internal/buildinfo"
	"github.com/riceguard/riceguard/internal/client/cli"
	"github.com/riceguard/riceguard/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
