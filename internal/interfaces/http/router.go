package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/produksi-api/internal/application/analytics"
	"github.com/jhoicas/produksi-api/internal/application/auth"
	"github.com/jhoicas/produksi-api/internal/application/cart"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/application/order"
	"github.com/jhoicas/produksi-api/internal/application/production"
	"github.com/jhoicas/produksi-api/internal/application/report"
	"github.com/jhoicas/produksi-api/internal/application/trade"
	"github.com/jhoicas/produksi-api/internal/application/usecase"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ItemUC       *inventory.ItemUseCase
	ProductionUC *production.UseCase
	PurchaseUC   *trade.PurchaseUseCase
	SaleUC       *trade.SaleUseCase
	OrderUC      *order.UseCase
	CartUC       *cart.UseCase
	CustomerUC   *usecase.CustomerUseCase
	EmployeeUC   *usecase.EmployeeUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	ReportUC     *report.UseCase
	Files        ProofFiles
	ShopName     string
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/employees/login", authHandler.EmployeeLogin)
	authGroup.Post("/customers/register", authHandler.CustomerRegister)
	authGroup.Post("/customers/login", authHandler.CustomerLogin)

	// Catálogo (público)
	itemHandler := NewItemHandler(deps.ItemUC)
	api.Get("/items/available", itemHandler.Available)

	// Rutas protegidas (Bearer Token + sesión abierta)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC))
	protected.Post("/auth/logout", authHandler.Logout)

	staff := RequireRole(entity.RoleAdmin, entity.RoleEmployee)
	adminOnly := RequireRole(entity.RoleAdmin)
	customerOnly := RequireRole(entity.RoleCustomer)

	items := protected.Group("/items", staff)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.Get)
	items.Get("/:id/movements", itemHandler.Movements)
	items.Post("/", adminOnly, itemHandler.Create)
	items.Put("/:id", adminOnly, itemHandler.Update)
	items.Post("/:id/adjust", adminOnly, itemHandler.Adjust)
	items.Delete("/:id", adminOnly, itemHandler.Delete)

	productionHandler := NewProductionHandler(deps.ProductionUC)
	productions := protected.Group("/productions", staff)
	productions.Get("/", productionHandler.List)
	productions.Post("/", productionHandler.Create)
	productions.Get("/:id", productionHandler.Get)
	productions.Put("/:id", productionHandler.Update)
	productions.Delete("/:id", productionHandler.Delete)
	productions.Post("/:id/lines", productionHandler.AddLine)
	productions.Put("/:id/lines/:lineId", productionHandler.UpdateLine)
	productions.Delete("/:id/lines/:lineId", productionHandler.DeleteLine)

	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases := protected.Group("/purchases", staff)
	purchases.Get("/", purchaseHandler.List)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.Get)
	purchases.Put("/:id", purchaseHandler.Update)
	purchases.Delete("/:id", purchaseHandler.Delete)
	purchases.Post("/:id/lines", purchaseHandler.AddLine)
	purchases.Put("/:id/lines/:lineId", purchaseHandler.UpdateLine)
	purchases.Delete("/:id/lines/:lineId", purchaseHandler.DeleteLine)
	purchases.Post("/:id/recompute", purchaseHandler.Recompute)

	saleHandler := NewSaleHandler(deps.SaleUC)
	sales := protected.Group("/sales", staff)
	sales.Get("/", saleHandler.List)
	sales.Post("/", saleHandler.Create)
	sales.Get("/:id", saleHandler.Get)
	sales.Put("/:id", saleHandler.Update)
	sales.Delete("/:id", saleHandler.Delete)
	sales.Post("/:id/lines", saleHandler.AddLine)
	sales.Put("/:id/lines/:lineId", saleHandler.UpdateLine)
	sales.Delete("/:id/lines/:lineId", saleHandler.DeleteLine)
	sales.Post("/:id/recompute", saleHandler.Recompute)

	orderHandler := NewOrderHandler(deps.OrderUC, deps.Files)
	orders := protected.Group("/orders", staff)
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.Get)
	orders.Get("/:id/payment-proof", orderHandler.PaymentProof)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)
	orders.Patch("/:id/shipping-cost", orderHandler.SetShippingCost)
	orders.Put("/:id/lines", orderHandler.UpdateLines)
	orders.Post("/:id/recompute", orderHandler.Recompute)
	orders.Delete("/:id", adminOnly, orderHandler.Delete)

	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.AuthUC)
	customers := protected.Group("/customers", staff)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.Get)
	customers.Put("/:id/password", adminOnly, customerHandler.SetPassword)

	employeeHandler := NewEmployeeHandler(deps.EmployeeUC, deps.AuthUC)
	employees := protected.Group("/employees", adminOnly)
	employees.Get("/", employeeHandler.List)
	employees.Post("/", employeeHandler.Create)
	employees.Get("/:id", employeeHandler.Get)
	employees.Put("/:id/password", employeeHandler.SetPassword)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", adminOnly, dashboardHandler.GetSummary)

	reportHandler := NewReportHandler(deps.ReportUC, deps.ShopName)
	protected.Get("/reports/:kind", adminOnly, reportHandler.Get)

	// Tienda del cliente
	cartHandler := NewCartHandler(deps.CartUC, deps.Files)
	cartGroup := protected.Group("/cart", customerOnly)
	cartGroup.Get("/", cartHandler.View)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:itemId", cartHandler.UpdateItem)
	cartGroup.Delete("/items/:itemId", cartHandler.RemoveItem)
	protected.Post("/checkout", customerOnly, cartHandler.Checkout)

	accountHandler := NewAccountHandler(deps.CustomerUC, deps.AuthUC, deps.OrderUC, deps.Files)
	account := protected.Group("/account", customerOnly)
	account.Get("/", accountHandler.Profile)
	account.Put("/", accountHandler.UpdateProfile)
	account.Put("/password", accountHandler.ChangePassword)
	account.Get("/orders", accountHandler.Orders)
	account.Get("/orders/:id", accountHandler.Order)
	account.Post("/orders/:id/payment-proof", accountHandler.UploadPaymentProof)
	account.Get("/notifications", accountHandler.Notifications)
}
