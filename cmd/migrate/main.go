// Comando migrate: aplica o revierte el esquema embebido.
//
//	migrate up       aplica las migraciones pendientes
//	migrate down     revierte todas las migraciones
//	migrate version  muestra la versión actual
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/gudang-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gudang-api/pkg/config"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "uso: migrate [up|down|version]")
	}
	flag.Parse()
	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("preparar migraciones")
	}
	defer func() { _ = mg.Close() }()

	switch command {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down()
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = mg.Version()
		if err == nil {
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión del esquema")
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migración fallida")
	}
}
