package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fishtrade-api/internal/application/auth"
	"github.com/jhoicas/fishtrade-api/internal/application/catalog"
	"github.com/jhoicas/fishtrade-api/internal/application/inventory"
	"github.com/jhoicas/fishtrade-api/internal/application/purchasing"
	"github.com/jhoicas/fishtrade-api/internal/application/reporting"
	"github.com/jhoicas/fishtrade-api/internal/application/sales"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *catalog.ProductUseCase
	CustomerUC    *catalog.CustomerUseCase
	SupplierUC    *catalog.SupplierUseCase
	SaleOrders    *sales.StateMachine
	Receipts      *sales.ReceiptUseCase
	ImportOrders  *purchasing.StateMachine
	Stock         *inventory.StockUseCase
	AuditLog      *reporting.AuditLog
	Replenishment *reporting.ReplenishmentUseCase
	DashboardUC   *reporting.DashboardUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
//
// Roles: admin todo; vendedor pedidos de venta y clientes; bodeguero
// importaciones, ajustes, mermas y proveedores. Las lecturas son para cualquier usuario autenticado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	secured := AuthMiddleware(deps.JWTSecret)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor)
	sellers := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	warehouse := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Products
	products := api.Group("/products", secured, anyRole)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", warehouse, productHandler.Create)
	products.Put("/:id", warehouse, productHandler.Update)

	// Customers
	customers := api.Group("/customers", secured, anyRole)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/", sellers, customerHandler.Create)

	// Suppliers
	suppliers := api.Group("/suppliers", secured, anyRole)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", warehouse, supplierHandler.Create)

	// Sale orders
	saleOrders := api.Group("/sale-orders", secured, anyRole)
	saleHandler := NewSaleOrderHandler(deps.SaleOrders, deps.Receipts)
	saleOrders.Get("/", saleHandler.List)
	saleOrders.Get("/:id", saleHandler.GetByID)
	saleOrders.Get("/:id/receipt", saleHandler.Receipt)
	saleOrders.Patch("/:id/status", saleHandler.UpdateStatus)
	saleOrders.Post("/", sellers, saleHandler.Create)
	saleOrders.Post("/:id/cancel", sellers, saleHandler.Cancel)
	saleOrders.Put("/:id", sellers, saleHandler.UpdateFields)
	saleOrders.Put("/:id/items", sellers, saleHandler.ReplaceItems)
	saleOrders.Delete("/:id", sellers, saleHandler.Delete)

	// Import orders
	importOrders := api.Group("/import-orders", secured, anyRole)
	importHandler := NewImportOrderHandler(deps.ImportOrders)
	importOrders.Get("/", importHandler.List)
	importOrders.Get("/:id", importHandler.GetByID)
	importOrders.Post("/", warehouse, importHandler.Create)
	importOrders.Patch("/:id/status", warehouse, importHandler.UpdateStatus)
	importOrders.Put("/:id", warehouse, importHandler.UpdateFields)
	importOrders.Delete("/:id", warehouse, importHandler.Delete)

	// Inventory
	inv := api.Group("/inventory", secured, anyRole)
	inventoryHandler := NewInventoryHandler(deps.Stock, deps.AuditLog, deps.Replenishment)
	inv.Post("/adjustments", warehouse, inventoryHandler.Adjust)
	inv.Post("/losses", warehouse, inventoryHandler.RecordLoss)
	inv.Get("/logs", inventoryHandler.Logs)
	inv.Get("/logs/export", warehouse, inventoryHandler.ExportLogs)
	inv.Get("/summary", inventoryHandler.Summary)
	inv.Get("/levels", inventoryHandler.Levels)
	inv.Get("/loss-report", inventoryHandler.LossReport)
	inv.Get("/movement-summary", inventoryHandler.MovementSummary)
	inv.Get("/reconciliation", adminOnly, inventoryHandler.Reconciliation)
	inv.Get("/replenishment", warehouse, inventoryHandler.Replenishment)

	// Dashboard
	dashboard := api.Group("/dashboard", secured, anyRole)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
}
