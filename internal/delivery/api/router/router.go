// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"courier/config"
	"courier/internal/delivery/api/router/handler"
	"courier/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	ConnectionHandler *handler.ConnectionHandler
	JobHandler        *handler.JobHandler
	ServerHandler     *handler.ServerHandler
	RecipientHandler  *handler.RecipientHandler
	Metrics           *metrics.Metrics `optional:"true"`
	Config            *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	connectionHandler *handler.ConnectionHandler
	jobHandler        *handler.JobHandler
	serverHandler     *handler.ServerHandler
	recipientHandler  *handler.RecipientHandler
	metrics           *metrics.Metrics
	config            *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		connectionHandler: params.ConnectionHandler,
		jobHandler:        params.JobHandler,
		serverHandler:     params.ServerHandler,
		recipientHandler:  params.RecipientHandler,
		metrics:           params.Metrics,
		config:            params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	if r.metrics != nil && r.config.Metrics.Enabled {
		e.GET(r.config.Metrics.Path, echo.WrapHandler(r.metrics.Handler()))
	}

	apiV1 := e.Group("/api/v1")

	// Connection routes
	connectionsGroup := apiV1.Group("/connections")
	{
		connectionsGroup.POST("", r.connectionHandler.CreateConnection)
		connectionsGroup.GET("", r.connectionHandler.ListConnections)
		connectionsGroup.POST("/refresh", r.connectionHandler.RefreshAll)
		connectionsGroup.GET("/:id", r.connectionHandler.GetConnection)
		connectionsGroup.DELETE("/:id", r.connectionHandler.RemoveConnection)
		connectionsGroup.POST("/:id/refresh", r.connectionHandler.RefreshConnection)
		connectionsGroup.POST("/:id/qr", r.connectionHandler.RequestFreshQR)
		connectionsGroup.POST("/:id/reconnect", r.connectionHandler.Reconnect)
		connectionsGroup.GET("/:id/jobs", r.connectionHandler.ListJobs)
		connectionsGroup.POST("/:id/queue/cancel", r.connectionHandler.CancelQueue)
	}

	// Bulk job routes
	jobsGroup := apiV1.Group("/jobs")
	{
		jobsGroup.POST("", r.jobHandler.Submit)
		jobsGroup.GET("/:id", r.jobHandler.Status)
		jobsGroup.POST("/:id/cancel", r.jobHandler.Cancel)
		jobsGroup.GET("/:id/recipients", r.jobHandler.Recipients)
	}

	apiV1.POST("/recipients/parse", r.recipientHandler.Parse)

	// Transport server administration
	serversGroup := apiV1.Group("/servers")
	{
		serversGroup.GET("", r.serverHandler.ListServers)
		serversGroup.POST("", r.serverHandler.RegisterServer)
		serversGroup.PUT("/:id/status", r.serverHandler.SetServerStatus)
	}
}
