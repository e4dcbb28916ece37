package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jhoicas/invoice-builder/internal/cli"
	"github.com/jhoicas/invoice-builder/pkg/config"
	"github.com/jhoicas/invoice-builder/pkg/logger"
)

func main() {
	// .env opcional; las variables ya definidas tienen prioridad
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// stdout queda libre para los artefactos (--out -)
	log := logger.New(logger.Config{
		Env:    cfg.App.Env,
		Level:  cfg.App.LogLevel,
		Output: os.Stderr,
	})

	os.Exit(cli.Execute(cli.NewRootCommand(cfg, log, cli.Options{})))
}
