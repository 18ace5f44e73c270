package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/freedom_case_2/replydraft/internal/config"
	"github.com/freedom_case_2/replydraft/internal/http/handlers"
	"github.com/freedom_case_2/replydraft/internal/http/middleware"
	"github.com/freedom_case_2/replydraft/internal/service"
	"github.com/freedom_case_2/replydraft/internal/templates"

	_ "github.com/freedom_case_2/replydraft/docs"
)

func Router(cfg config.Config, pipeline *service.Pipeline, repo templates.Repository, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" || cfg.CORSAllowed == "" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins()
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Pipeline:         pipeline,
		Templates:        repo,
		Validator:        validator.New(),
		Logger:           logger,
		BatchConcurrency: cfg.BatchConcurrency,
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.Timeout(cfg.RequestTimeout))
	{
		api.POST("/responses/generate", h.Generate)
		api.POST("/responses/batch", h.Batch)
		api.POST("/responses/score", h.Score)
		api.GET("/templates", h.ListTemplates)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey, logger))
	{
		admin.POST("/templates", h.AddTemplate)
		admin.POST("/templates/:id/outcome", h.RecordOutcome)
		admin.POST("/debug/selection", h.DebugSelection)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
