// migrate aplica o revierte el esquema de PostgreSQL con las migraciones embebidas.
//
// Uso:
//
//	go run ./cmd/migrate -cmd up
//	go run ./cmd/migrate -cmd down
//	go run ./cmd/migrate -cmd steps -n -1
//	go run ./cmd/migrate -cmd version
//
// Toma la conexión de DATABASE_URL o DB_HOST/DB_PORT/... igual que la API.
package main

import (
	"flag"
	"os"

	"github.com/jhoicas/Servitec-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Servitec-api/pkg/config"
	"github.com/jhoicas/Servitec-api/pkg/logger"
)

func main() {
	cmd := flag.String("cmd", "up", "up | down | steps | version")
	steps := flag.Int("n", 1, "pasos para -cmd steps (negativo = down)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer m.Close()

	switch *cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(*steps)
	case "version":
	default:
		log.Error().Str("cmd", *cmd).Msg("comando desconocido")
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", *cmd).Msg("migración fallida")
	}

	v, dirty, err := m.Version()
	if err != nil {
		log.Fatal().Err(err).Msg("leer versión")
	}
	log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión del esquema")
}
