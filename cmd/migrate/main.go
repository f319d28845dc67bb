// Command migrate aplica las migraciones SQL embebidas y termina.
package main

import (
	"context"
	"time"

	"github.com/jhoicas/fishtrade-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fishtrade-api/pkg/config"
	"github.com/jhoicas/fishtrade-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}, cfg.App.Name+"-migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.RunMigrations(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if len(applied) == 0 {
		log.Info().Msg("esquema al día, nada que aplicar")
		return
	}
	log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
}
