package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/docs"
	"github.com/jhoicas/fishtrade-api/internal/application/auth"
	"github.com/jhoicas/fishtrade-api/internal/application/catalog"
	"github.com/jhoicas/fishtrade-api/internal/application/inventory"
	"github.com/jhoicas/fishtrade-api/internal/application/purchasing"
	"github.com/jhoicas/fishtrade-api/internal/application/reporting"
	"github.com/jhoicas/fishtrade-api/internal/application/sales"
	domaininv "github.com/jhoicas/fishtrade-api/internal/domain/inventory"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
	"github.com/jhoicas/fishtrade-api/internal/infrastructure/export"
	"github.com/jhoicas/fishtrade-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/fishtrade-api/internal/infrastructure/pdf"
	"github.com/jhoicas/fishtrade-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/fishtrade-api/internal/interfaces/http"
	"github.com/jhoicas/fishtrade-api/pkg/config"
	"github.com/jhoicas/fishtrade-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	}, cfg.App.Name)
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		// solo fuera de production (Validate lo exige allí); los tokens no sobreviven un reinicio
		cfg.JWT.Secret = uuid.NewString()
		log.Warn().Msg("JWT_SECRET vacío: se usa un secreto aleatorio de proceso")
	}

	ctx := context.Background()

	var (
		txRunner inventory.TxRunner
		repos    inventory.Repos
		users    repository.UserRepository
	)
	switch cfg.Store.Driver {
	case "memory":
		store := memory.New()
		txRunner, repos, users = store, store.Repos(), store.Users()
		log.Warn().Msg("almacén en memoria: los datos se pierden al detener el proceso")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			applied, err := postgres.RunMigrations(ctx, pool)
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Strs("applied", applied).Msg("migraciones al día")
		}
		txRunner, repos, users = postgres.NewTxRunner(pool), postgres.NewRepos(pool), postgres.NewUserRepository(pool)
	}

	zl := log.Zerolog()
	ledger := inventory.NewLedger(txRunner, repos.Inventory)
	saleSM := sales.NewStateMachine(txRunner, ledger, repos.SaleOrders, zl)
	importSM := purchasing.NewStateMachine(txRunner, ledger, repos.ImportOrders, zl)
	stockUC := inventory.NewStockUseCase(ledger, zl)

	thresholds := domaininv.RiskThresholds{
		Medium: decimal.NewFromFloat(cfg.Stock.MediumRiskRate),
		High:   decimal.NewFromFloat(cfg.Stock.HighRiskRate),
	}
	auditLog := reporting.NewAuditLog(repos.Logs, repos.Inventory, export.NewExcelExporter(time.Local), thresholds)
	dashboardUC := reporting.NewDashboardUseCase(auditLog, repos.Inventory, repos.Logs, repos.SaleOrders, repos.ImportOrders)
	replenishmentUC := reporting.NewReplenishmentUseCase(repos.Inventory, repos.Logs)

	// PDF: comprobante de pedido de venta
	receiptUC := sales.NewReceiptUseCase(repos.SaleOrders, repos.Products, repos.Customers, infrapdf.NewReceiptGenerator(cfg.App.Name))

	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, zl)
	if created, err := authUC.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		log.Error().Err(err).Msg("crear usuario admin inicial")
	} else if created {
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("usuario admin inicial creado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(zl))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado; /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "version": docs.SwaggerInfo.Version})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     catalog.NewProductUseCase(repos.Products),
		CustomerUC:    catalog.NewCustomerUseCase(repos.Customers),
		SupplierUC:    catalog.NewSupplierUseCase(repos.Suppliers),
		SaleOrders:    saleSM,
		Receipts:      receiptUC,
		ImportOrders:  importSM,
		Stock:         stockUC,
		AuditLog:      auditLog,
		Replenishment: replenishmentUC,
		DashboardUC:   dashboardUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
