// seed_catalog carga productos desde un CSV exportado del sistema anterior.
//
// Uso: go run ./cmd/seed_catalog [-charset windows-1258] [-dry-run] productos.csv
// Columnas: name, unit (obligatorias); sku, min_stock, purchase_price, sale_price, category_id.
// Un SKU ya existente se informa y se omite; sin SKU se genera desde el nombre.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/fishtrade-api/internal/application/catalog"
	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/infrastructure/importer"
	"github.com/jhoicas/fishtrade-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fishtrade-api/pkg/config"
	"github.com/jhoicas/fishtrade-api/pkg/logger"
)

func main() {
	charset := flag.String("charset", "utf-8", "codificación del CSV (utf-8, windows-1258, windows-1252, iso-8859-1)")
	dryRun := flag.Bool("dry-run", false, "solo valida el archivo")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog [-charset windows-1258] [-dry-run] productos.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	products, err := importer.ReadProducts(f, *charset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	if *dryRun {
		fmt.Printf("%d productos válidos en %s\n", len(products), flag.Arg(0))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}, cfg.App.Name+"-seed")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := catalog.NewProductUseCase(postgres.NewProductRepository(pool))
	created, skipped := 0, 0
	for i, in := range products {
		out, err := uc.Create(ctx, in)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
			log.Warn().Str("sku", in.SKU).Str("name", in.Name).Msg("SKU existente, se omite")
		case err != nil:
			log.Fatal().Err(err).Int("row", i+2).Str("name", in.Name).Msg("crear producto")
		default:
			created++
			log.Debug().Str("sku", out.SKU).Str("name", out.Name).Msg("producto creado")
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("catálogo cargado")
}
