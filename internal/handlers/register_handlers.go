package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ceramica/erp_backend/cmd/docs"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/middleware"
	"github.com/ceramica/erp_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// metrics may be nil, in which case /metrics is not exposed.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	metrics *middleware.HTTPMetrics,
) error {
	r.Use(cors.New(corsConfig(cfg)))
	if metrics != nil {
		r.Use(metrics.Middleware())
		r.GET("/metrics", metrics.Handler())
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	loginLimiter, err := middleware.NewLimiter(cfg.LoginRateLimit)
	if err != nil {
		return err
	}
	loginLimit := middleware.RateLimit(loginLimiter)

	registerAuthRoutes(r, cfg.JWTSecret, services, loginLimit)
	registerStorePortalRoutes(r, cfg.JWTSecret, services.Store, loginLimit)

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the staff /api/v1 group and delegates to the entity route registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.User)

	companies := v1.Group("/companies")
	scoped := companies.Group("/:companyID")
	registerCompanyRoutes(companies, scoped, services.Company)
	registerProductRoutes(scoped, services.Product)
	registerTreasuryRoutes(scoped, services.Treasury)
	registerPartnerRoutes(scoped, services.Supplier, services.Contact)
	registerSaleRoutes(scoped, services.Sale)
	registerPurchaseRoutes(scoped, services.Purchase)
	registerProvisionalSaleRoutes(scoped, services.ProvisionalSale)
	registerStoreAdminRoutes(scoped, services.Store)
	registerStatsRoutes(scoped, services.Stats)
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsCfg.AddAllowHeaders("Authorization")
	return corsCfg
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
