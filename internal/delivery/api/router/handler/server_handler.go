package handler

import (
	"log/slog"
	"net/http"

	"courier/internal/delivery/api/response"
	"courier/internal/domain/entity"
	"courier/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ServerHandlerParams holds dependencies for ServerHandler, injected by Fx.
type ServerHandlerParams struct {
	fx.In

	ServerUC usecase.ServerUsecase
	Logger   *slog.Logger
}

// ServerHandler administers the transport server pool
type ServerHandler struct {
	serverUC usecase.ServerUsecase
	logger   *slog.Logger
}

// NewServerHandler is the constructor for ServerHandler
func NewServerHandler(params ServerHandlerParams) *ServerHandler {
	return &ServerHandler{
		serverUC: params.ServerUC,
		logger:   params.Logger,
	}
}

// RegisterServerRequest represents the request body for registering a transport server
type RegisterServerRequest struct {
	ID       string `json:"id" validate:"required,max=64"`
	Address  string `json:"address" validate:"required,url"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
}

// SetServerStatusRequest represents the request body for changing a server status
type SetServerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive maintenance"`
}

// ListServers handles listing the transport servers
func (h *ServerHandler) ListServers(c echo.Context) error {
	servers, err := h.serverUC.ListServers(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	out := make([]*ServerResponse, 0, len(servers))
	for _, s := range servers {
		out = append(out, toServerResponse(s))
	}

	return response.Success(c, http.StatusOK, out)
}

// RegisterServer handles adding a transport server to the pool
func (h *ServerHandler) RegisterServer(c echo.Context) error {
	var req RegisterServerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid server input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	server, err := h.serverUC.RegisterServer(c.Request().Context(), &usecase.RegisterServerInput{
		ID:       req.ID,
		Address:  req.Address,
		Capacity: req.Capacity,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toServerResponse(server))
}

// SetServerStatus handles changing the administrative status of a server
func (h *ServerHandler) SetServerStatus(c echo.Context) error {
	var req SetServerStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	server, err := h.serverUC.SetServerStatus(c.Request().Context(), c.Param("id"), entity.ServerStatus(req.Status))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toServerResponse(server))
}
