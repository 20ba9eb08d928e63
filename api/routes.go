package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/courieros/courierstack/api/handlers"
	"github.com/courieros/courierstack/internal/repository"
	"github.com/courieros/courierstack/internal/tracing"
	"github.com/courieros/courierstack/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, s *services.Services, repos *repository.Repositories) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	// Add recovery middlewares
	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	// setup handlers
	apiHandlers := handlers.InitHandlers(repos)

	// Health check endpoint
	r.GET("/health", handlers.HealthCheck)

	// Self-service endpoint reached from reminder emails. Kept at its
	// historical path so links in already-sent reminders stay valid.
	api := r.Group("/api")
	{
		api.GET("/traiter", apiHandlers.Courier.MarkProcessed())
	}
}
