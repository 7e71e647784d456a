package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/produksi-api/docs"
	appanalytics "github.com/jhoicas/produksi-api/internal/application/analytics"
	"github.com/jhoicas/produksi-api/internal/application/auth"
	"github.com/jhoicas/produksi-api/internal/application/cart"
	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/application/order"
	"github.com/jhoicas/produksi-api/internal/application/ports"
	"github.com/jhoicas/produksi-api/internal/application/production"
	"github.com/jhoicas/produksi-api/internal/application/report"
	"github.com/jhoicas/produksi-api/internal/application/trade"
	"github.com/jhoicas/produksi-api/internal/application/usecase"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
	"github.com/jhoicas/produksi-api/internal/infrastructure/excel"
	"github.com/jhoicas/produksi-api/internal/infrastructure/mail"
	"github.com/jhoicas/produksi-api/internal/infrastructure/memory"
	"github.com/jhoicas/produksi-api/internal/infrastructure/messaging"
	infrapdf "github.com/jhoicas/produksi-api/internal/infrastructure/pdf"
	"github.com/jhoicas/produksi-api/internal/infrastructure/postgres"
	"github.com/jhoicas/produksi-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/produksi-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/produksi-api/internal/interfaces/http"
	"github.com/jhoicas/produksi-api/internal/interfaces/http/views"
	"github.com/jhoicas/produksi-api/pkg/config"
	"github.com/jhoicas/produksi-api/pkg/idgen"
	"github.com/jhoicas/produksi-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// backend repositorios de un motor de persistencia.
type backend struct {
	tx        inventory.TxRunner
	repos     inventory.Repos
	employees repository.EmployeeRepository
	analytics repository.AnalyticsRepository
	close     func()
}

// @title                       Produksi API
// @version                     1.0
// @description                 Inventario, producción y pedidos de una fábrica de tahu y tempe.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var be *backend
	if cfg.Storage.UsesMemory() {
		be = openMemory()
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
	} else {
		be, err = openPostgres(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
	}
	defer be.close()

	// Sesiones y carritos: Redis si está configurado, si no en memoria.
	var sessions interface {
		ports.SessionStore
		ports.CartStore
	}
	if cfg.Redis.URL != "" {
		client, err := redisstore.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		sessions = redisstore.NewSessionStore(client, time.Duration(cfg.Redis.SessionTTL)*time.Minute)
	} else {
		sessions = memory.NewSessionStore()
	}

	var publisher inventory.MovementPublisher = inventory.NopPublisher{}
	if cfg.Kafka.Enabled() {
		kp := messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		publisher = kp
	}

	var notifier ports.OrderNotifier = ports.NopNotifier{}
	if cfg.Mail.Enabled() {
		notifier = mail.NewOrderNotifier(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From, cfg.Mail.To)
	}

	files, err := storage.NewLocalFileStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de comprobantes")
	}
	ids, err := idgen.New(cfg.App.NodeID)
	if err != nil {
		log.Fatal().Err(err).Msg("generador de números de pedido")
	}

	ledger := inventory.NewLedger(publisher, log.Zerolog())
	itemUC := inventory.NewItemUseCase(be.tx, ledger, be.repos.Items, be.repos.Movements)
	productionUC := production.NewUseCase(be.tx, ledger, be.repos.Productions)
	purchaseUC := trade.NewPurchaseUseCase(be.tx, ledger, be.repos.Purchases)
	saleUC := trade.NewSaleUseCase(be.tx, ledger, be.repos.Sales)
	orderUC := order.NewUseCase(be.tx, ledger, be.repos.Orders, ids)
	cartUC := cart.NewUseCase(sessions, be.repos.Items, be.tx, orderUC, notifier, log.Zerolog())
	employeeUC := usecase.NewEmployeeUseCase(be.employees)
	customerUC := usecase.NewCustomerUseCase(be.repos.Customers, be.analytics, orderUC)
	dashboardUC := appanalytics.NewDashboardUseCase(be.analytics, be.repos.Items)
	reportUC := report.NewUseCase(be.analytics, be.repos.Items,
		infrapdf.NewMarotoReportExporter(cfg.App.ShopName), excel.NewExcelizeReportExporter())
	authUC := auth.NewAuthUseCase(be.employees, be.repos.Customers, sessions, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	adminPassword := cfg.Admin.Password
	if adminPassword == "" && cfg.Storage.UsesMemory() {
		adminPassword = "admin123"
		log.Warn().Str("username", cfg.Admin.Username).Msg("administrador de desarrollo con contraseña por defecto")
	}
	if adminPassword != "" {
		_, err := employeeUC.Create(ctx, dto.CreateEmployeeRequest{
			Name:     "Administrator",
			Username: cfg.Admin.Username,
			Password: adminPassword,
			Role:     entity.RoleAdmin,
		})
		if err != nil && !errors.Is(err, domain.ErrDuplicateCredential) {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimit,
		Views:        views.NewEngine(),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs (generado con swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Produksi API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ItemUC:       itemUC,
		ProductionUC: productionUC,
		PurchaseUC:   purchaseUC,
		SaleUC:       saleUC,
		OrderUC:      orderUC,
		CartUC:       cartUC,
		CustomerUC:   customerUC,
		EmployeeUC:   employeeUC,
		DashboardUC:  dashboardUC,
		ReportUC:     reportUC,
		Files:        files,
		ShopName:     cfg.App.ShopName,
		JWTSecret:    cfg.JWT.Secret,
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

func openPostgres(ctx context.Context, cfg config.DBConfig) (*backend, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &backend{
		tx:        postgres.NewTxRunner(pool),
		repos:     postgres.NewRepos(pool),
		employees: postgres.NewEmployeeRepository(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		close:     pool.Close,
	}, nil
}

func openMemory() *backend {
	store := memory.NewStore()
	return &backend{
		tx:        memory.NewTxRunner(store),
		repos:     store.Repos(),
		employees: memory.NewEmployeeRepository(store),
		analytics: memory.NewAnalyticsRepository(store),
		close:     func() {},
	}
}
