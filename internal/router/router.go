package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/handler"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/metrics"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/middleware"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/repository"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/service"
)

// Config holds everything Setup needs to build the engine
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	BasePath       string
	AllowedOrigins []string
	Comments       service.Config
	// Gatherer backs /metrics; nil means the default registry
	Gatherer prometheus.Gatherer
}

// Setup wires repositories, services and handlers into a gin engine
func Setup(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Viewer(false))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Initialize repositories
	commentRepo := repository.NewCommentRepository(cfg.DB)
	userRepo := repository.NewUserRepository(cfg.DB)

	// Initialize services
	commentService := service.NewCommentService(commentRepo, userRepo, cfg.Comments, cfg.Metrics, logger)

	// Initialize handlers
	commentHandler := handler.NewCommentHandler(commentService, logger)
	healthHandler := handler.NewHealthHandler(cfg.DB)

	metricsHandler := gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Health endpoints
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", metricsHandler)

	api := r.Group(cfg.BasePath)
	{
		if cfg.BasePath != "" && cfg.BasePath != "/" {
			api.GET("/health", healthHandler.Health)
			api.GET("/ready", healthHandler.Ready)
			api.GET("/metrics", metricsHandler)
		}

		api.GET("/posts/:postId/comments", commentHandler.ListComments)

		// Routes that act on behalf of the viewer
		viewer := api.Group("")
		viewer.Use(middleware.Viewer(true))
		{
			viewer.POST("/posts/:postId/comments", commentHandler.CreateComment)
			viewer.PUT("/comments/:commentId", commentHandler.UpdateComment)
			viewer.DELETE("/comments/:commentId", commentHandler.DeleteComment)
			viewer.POST("/comments/:commentId/like", commentHandler.ToggleLike)
		}
	}

	return r
}
