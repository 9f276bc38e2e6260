package router

import (
	"time"

	"savoria/internal/config"
	"savoria/internal/handler"
	"savoria/internal/infra"
	"savoria/internal/middleware"
	"savoria/internal/repository"
	"savoria/internal/service"
	"savoria/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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

	// ── Repositories ─────────────────────────────────────────────────────────
	ingredientRepo := repository.NewIngredientRepository(db)
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewSaleHistoryRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	commitLock := infra.NewCommitLock(rdb, time.Duration(cfg.CommitLockWaitMS)*time.Millisecond)
	dispatcher := worker.NewDispatcher(rdb)

	reconcileSvc := service.NewReconcileService(
		ingredientRepo, productRepo, historyRepo, movementRepo, auditRepo,
		commitLock, dispatcher,
	)
	ingredientSvc := service.NewIngredientService(ingredientRepo, movementRepo)
	historySvc := service.NewHistoryService(historyRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	reconcileH := handler.NewReconcileHandler(reconcileSvc)
	ingredientsH := handler.NewIngredientsHandler(ingredientSvc)
	historyH := handler.NewHistoryHandler(historySvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		rec := v1.Group("/reconciliation")
		{
			rec.POST("/preview", reconcileH.Preview)
			rec.POST("/commit", reconcileH.Commit)
			rec.POST("/import", reconcileH.ImportCSV)
		}

		v1.GET("/ingredients", ingredientsH.List)
		v1.GET("/ingredients/:id/movements", ingredientsH.Movements)
		v1.GET("/history", historyH.List)
	}

	// Swagger UI; only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
