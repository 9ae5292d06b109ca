package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ruet-cse/class-routine-api/api/swagger"
	"github.com/ruet-cse/class-routine-api/internal/handler"
	"github.com/ruet-cse/class-routine-api/internal/middleware"
	"github.com/ruet-cse/class-routine-api/internal/repository"
	"github.com/ruet-cse/class-routine-api/internal/service"
	"github.com/ruet-cse/class-routine-api/internal/timetable"
	"github.com/ruet-cse/class-routine-api/pkg/cache"
	"github.com/ruet-cse/class-routine-api/pkg/config"
	"github.com/ruet-cse/class-routine-api/pkg/database"
	"github.com/ruet-cse/class-routine-api/pkg/logger"
	corsmiddleware "github.com/ruet-cse/class-routine-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ruet-cse/class-routine-api/pkg/middleware/requestid"
)

// @title Class Routine API
// @version 1.0.0
// @description Weekly class routine management with conflict-aware placement
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The routine works without redis; listings just skip the cache.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	metricsSvc := service.NewMetricsService()

	batchRepo := repository.NewBatchRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	batchSvc := service.NewBatchService(batchRepo, cacheRepo, metricsSvc, validate, logr, cfg.Routine.BatchCacheTTL)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	routineSvc := service.NewRoutineService(batchSvc, batchRepo, timetable.NewValidator(), metricsSvc, validate, logr)

	batchHandler := handler.NewBatchHandler(batchSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	routineHandler := handler.NewRoutineHandler(routineSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		batches := api.Group("/batches")
		{
			batches.GET("", batchHandler.List)
			batches.POST("", batchHandler.Create)
			batches.GET("/:id", batchHandler.Get)
			batches.PUT("/:id", batchHandler.Update)
			batches.DELETE("/:id", batchHandler.Delete)
			batches.PUT("/:id/cells", routineHandler.EditCell)
			batches.DELETE("/:id/cells", routineHandler.DeleteCell)
		}

		teachers := api.Group("/teachers")
		{
			teachers.GET("", teacherHandler.List)
			teachers.POST("", teacherHandler.Create)
			teachers.GET("/:id", teacherHandler.Get)
			teachers.PUT("/:id", teacherHandler.Update)
			teachers.DELETE("/:id", teacherHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
