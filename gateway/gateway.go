package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "github.com/example/honeystore/docs"
	"github.com/example/honeystore/pkg/config"
	"github.com/example/honeystore/pkg/metrics"
	"github.com/example/honeystore/pkg/repository"
	"github.com/example/honeystore/pkg/seed"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Gateway serves the storefront HTTP API. store is nil when the document
// store could not be configured; the gateway still starts in that case.
type Gateway struct {
	config *config.Config
	store  repository.DocumentStore
	seeder *seed.Seeder
	logger *zap.Logger
	router *gin.Engine
	server *http.Server
}

func NewGateway(cfg *config.Config, logger *zap.Logger, store repository.DocumentStore) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(logger))
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		// Wildcard headers are only honoured by browsers on requests
		// without credentials, so credentials stay disabled.
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	g := &Gateway{
		config: cfg,
		store:  store,
		logger: logger,
		router: router,
		server: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
	if store != nil {
		g.seeder = seed.NewSeeder(store, logger.Named("seed"))
	}
	return g
}

func (g *Gateway) SetupRoutes() {
	g.router.GET("/", g.root)
	g.router.GET("/test", g.testDatabase)

	api := g.router.Group("/api")
	{
		api.GET("/products", g.listProducts)
		api.POST("/products", g.createProduct)
		api.POST("/seed", g.seedProducts)
		api.POST("/orders", g.createOrder)
	}

	g.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Start blocks serving HTTP until Shutdown is called. It returns nil
// immediately if Shutdown already ran.
func (g *Gateway) Start() error {
	g.logger.Info("Gateway starting", zap.String("address", g.server.Addr))
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.server.Shutdown(ctx)
}

// root godoc
// @Summary     Liveness check
// @Tags        diagnostics
// @Produce     json
// @Success     200 {object} MessageResponse
// @Router      / [get]
func (g *Gateway) root(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "Honey & Bees Store Backend is running"})
}

// documents returns the store or a StorageError when running degraded.
func (g *Gateway) documents() (repository.DocumentStore, error) {
	if g.store == nil {
		return nil, &repository.StorageError{Op: "connect", Err: repository.ErrUnavailable}
	}
	return g.store, nil
}
