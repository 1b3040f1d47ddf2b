package router

import (
	"time"

	"mesalivre/internal/config"
	"mesalivre/internal/handler"
	"mesalivre/internal/infra"
	"mesalivre/internal/middleware"
	"mesalivre/internal/realtime"
	"mesalivre/internal/repository"
	"mesalivre/internal/service"
	"mesalivre/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, hub *realtime.Hub, dispatcher *worker.Dispatcher, gateway infra.PaymentGateway) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	renderer := infra.NewPDFRenderer(cfg.PDFStoragePath)
	publisher := realtime.NewPublisher(rdb)
	locker := &service.RedisTableLocker{Client: infra.NewLocker(rdb)}

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	productRepo := repository.NewProductRepository(db)
	registerRepo := repository.NewRegisterRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	tableRepo := repository.NewTableRepository(db)
	tabRepo := repository.NewTabRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, tenantRepo)
	registerSvc := service.NewRegisterService(registerRepo, tenantRepo, dispatcher, renderer, publisher)
	saleSvc := service.NewSaleService(saleRepo, registerSvc, registerRepo, productRepo, publisher)
	tableSvc := service.NewTableService(tableRepo)
	tabSvc := service.NewTabService(tabRepo, tableRepo, productRepo, locker, publisher)
	orderSvc := service.NewOrderService(orderRepo, dispatcher, publisher)
	billingSvc := service.NewBillingService(gateway, tenantRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(authSvc)
	productH := handler.NewProductHandler(productSvc)
	registerH := handler.NewRegisterHandler(registerSvc)
	saleH := handler.NewSaleHandler(saleSvc)
	tableH := handler.NewTableHandler(tableSvc)
	tabH := handler.NewTabHandler(tabSvc, renderer)
	orderH := handler.NewOrderHandler(orderSvc)
	billingH := handler.NewBillingHandler(billingSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.POST("/v1/billing/webhook", billingH.Webhook)

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		staff := middleware.RequireRole("waiter", "cashier", "manager")
		cashDesk := middleware.RequireRole("cashier", "manager")
		managerOnly := middleware.RequireRole("manager")

		// Register sessions — cash desk roles
		register := v1.Group("/register", cashDesk)
		{
			register.POST("/open", registerH.Open)
			register.POST("/movement", registerH.Movement)
			register.GET("/:id/report", registerH.Report)
			register.POST("/:id/close", registerH.Close)
			register.GET("/:id/sales", saleH.ListBySession)
			register.GET("/history", middleware.RequireRole("manager"), registerH.History)
		}

		v1.POST("/sales", cashDesk, saleH.Record)
		v1.GET("/sales/:id", cashDesk, saleH.Get)

		// Tables and tabs — all floor staff
		v1.GET("/tables", staff, tableH.List)
		v1.POST("/tables", managerOnly, tableH.Create)
		v1.DELETE("/tables/:id", managerOnly, tableH.Delete)
		v1.POST("/tables/:id/tab", staff, tabH.Resolve)

		v1.GET("/tabs", staff, tabH.ListOpen)
		v1.POST("/tabs/:id/items", staff, tabH.AppendItem)
		v1.POST("/tabs/:id/settle", cashDesk, tabH.Settle)
		v1.GET("/tabs/:id/receipt", staff, tabH.Receipt)

		// Orders
		v1.POST("/orders", staff, orderH.Create)
		v1.GET("/orders", staff, orderH.List)
		v1.GET("/orders/:id", staff, orderH.Get)
		v1.PATCH("/orders/:id/status", staff, orderH.Advance)

		// Catalog
		v1.GET("/products", staff, productH.List)
		products := v1.Group("/products", managerOnly)
		{
			products.POST("", productH.Create)
			products.PUT("/:id", productH.Update)
			products.DELETE("/:id", productH.Deactivate)
			products.POST("/:id/reactivate", productH.Reactivate)
		}

		// Staff administration
		users := v1.Group("/users", managerOnly)
		{
			users.POST("", userH.Create)
			users.GET("", userH.List)
			users.PUT("/:id", userH.Update)
			users.DELETE("/:id", userH.Deactivate)
			users.PATCH("/:id/reactivate", userH.Reactivate)
		}

		v1.GET("/billing/plan", managerOnly, billingH.Plan)

		// Realtime event stream (websocket)
		v1.GET("/events", staff, handler.Events(hub))
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
