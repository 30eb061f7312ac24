package app

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"storesync_api/config"
	"storesync_api/internal/catalog/app/web/handlers"
	"storesync_api/internal/catalog/business/services"
	"storesync_api/internal/catalog/storage"
	"storesync_api/internal/catalog/storage/repositories"
	supplierservices "storesync_api/internal/supplier/business/services"
	"storesync_api/internal/supplier/pkg/clients"
	"storesync_api/metrics"
	"storesync_api/pkg/dbconnect"
	"storesync_api/pkg/dbconnect/migration"
	"storesync_api/pkg/logger"
	"storesync_api/pkg/middleware"
)

type Server struct {
	connector dbconnect.Database
	cfg       *config.AppConfig
	log       logger.Logger
}

func NewServer(connector dbconnect.Database, cfg *config.AppConfig, log logger.Logger) *Server {
	return &Server{connector: connector, cfg: cfg, log: log}
}

func (s *Server) Run() error {
	db, err := s.connector.Connect()
	if err != nil {
		return err
	}

	migrationApply := []migration.MigrationInterface{
		&storage.CatalogSchema{},
		&storage.MigrationsSchema{},
		&storage.SupplierItems{},
		&storage.ImportJobs{},
		&storage.Brands{},
		&storage.Products{},
		&storage.ProductSources{},
		&storage.Users{},
	}
	for _, m := range migrationApply {
		if err := m.UpMigration(db); err != nil {
			return err
		}
	}
	s.log.Log("catalog migrations applied")

	tokens := clients.NewClientCredentials(
		s.cfg.Supplier.TokenURL,
		s.cfg.Supplier.ClientID,
		s.cfg.Supplier.ClientSecret,
	)
	api := clients.NewClient(s.cfg.Supplier.BaseURL, s.cfg.Supplier.SubscriptionKey, tokens, s.log)
	resolver := supplierservices.NewItemResolver(api, s.log)
	pricing := supplierservices.NewPricingResolver(api, s.log)

	staging := repositories.NewSupplierItemRepository(db)
	jobs := repositories.NewImportJobRepository(db)
	brands := repositories.NewBrandRepository(db)
	products := repositories.NewProductRepository(db)
	sources := repositories.NewProductSourceRepository(db)
	users := repositories.NewUserRepository(db)

	importer := services.NewImportService(api, resolver, pricing, staging, jobs, s.cfg.Supplier.Defaults, s.log)
	publishService := services.NewPublishService(staging, brands, products, sources, s.cfg.Supplier.Name, s.log)

	importHandler := handlers.NewImportHandler(importer, jobs, staging, s.cfg.Supplier.Name)
	stagingHandler := handlers.NewStagingHandler(staging)
	publishHandler := handlers.NewPublishHandler(publishService)
	stockHandler := handlers.NewStockHandler(db, s.log)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Prometheus())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		if err := s.connector.Ping(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	admin := e.Group("/api", middleware.AdminAuth([]byte(s.cfg.Server.AuthSecret), users))
	admin.POST("/import/run", importHandler.RunImport)
	admin.GET("/import/status", importHandler.ImportStatus)
	admin.GET("/import/diff", importHandler.ImportDiff)
	admin.POST("/import/publish", publishHandler.Publish)
	admin.GET("/staging/items", stagingHandler.ListItems)
	admin.DELETE("/staging/clear", stagingHandler.ClearItems)
	admin.POST("/run-products-stock-update", stockHandler.RunStockUpdate)

	s.log.Log("catalog sync service listening on %s", s.cfg.Server.Addr)
	return e.Start(s.cfg.Server.Addr)
}
