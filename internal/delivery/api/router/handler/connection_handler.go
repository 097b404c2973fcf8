package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"courier/internal/delivery/api/response"
	deliverycontext "courier/internal/delivery/context"
	"courier/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const missingAccountMessage = "account is required, send the " + deliverycontext.HeaderXAccountRef + " header"

// ConnectionHandlerParams holds dependencies for ConnectionHandler, injected by Fx.
type ConnectionHandlerParams struct {
	fx.In

	ConnectionUC usecase.ConnectionUsecase
	JobUC        usecase.JobUsecase
	Logger       *slog.Logger
}

// ConnectionHandler holds dependencies for connection-related handlers
type ConnectionHandler struct {
	connectionUC usecase.ConnectionUsecase
	jobUC        usecase.JobUsecase
	logger       *slog.Logger
}

// NewConnectionHandler is the constructor for ConnectionHandler
func NewConnectionHandler(params ConnectionHandlerParams) *ConnectionHandler {
	return &ConnectionHandler{
		connectionUC: params.ConnectionUC,
		jobUC:        params.JobUC,
		logger:       params.Logger,
	}
}

// CreateConnectionRequest represents the request body for creating a connection.
// AccountRef overrides the account taken from the X-Account-Ref header.
type CreateConnectionRequest struct {
	AccountRef       string  `json:"accountRef,omitempty" validate:"max=255"`
	AccountName      string  `json:"accountName" validate:"required,max=255"`
	ServerID         string  `json:"serverId" validate:"max=64"`
	MessageInterval  float64 `json:"messageInterval" validate:"gte=0,lte=86400"`
	MaxDailyMessages int     `json:"maxDailyMessages" validate:"gte=0"`
}

// QRCodeResponse is the body of a fresh QR request; QRCode is null while the
// transport server has not produced one
type QRCodeResponse struct {
	QRCode *string     `json:"qrCode"`
	QR     *QRResponse `json:"qr,omitempty"`
}

// CreateConnection handles connection creation
func (h *ConnectionHandler) CreateConnection(c echo.Context) error {
	var req CreateConnectionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid connection input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	account := accountRef(c, req.AccountRef)
	if account == "" {
		return response.BadRequest(c, "VALIDATION_FAILED", missingAccountMessage)
	}

	conn, err := h.connectionUC.CreateConnection(c.Request().Context(), &usecase.CreateConnectionInput{
		AccountRef:        account,
		DisplayName:       strings.TrimSpace(req.AccountName),
		PreferredServerID: strings.TrimSpace(req.ServerID),
		MessageInterval:   seconds(req.MessageInterval),
		MaxDailyMessages:  req.MaxDailyMessages,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toConnectionResponse(conn))
}

// ListConnections handles listing the connections of an account
func (h *ConnectionHandler) ListConnections(c echo.Context) error {
	account := accountRef(c, c.QueryParam("account"))
	if account == "" {
		return response.BadRequest(c, "VALIDATION_FAILED", missingAccountMessage)
	}

	conns, err := h.connectionUC.ListConnections(c.Request().Context(), account)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toConnectionResponses(conns))
}

// GetConnection handles retrieving one connection
func (h *ConnectionHandler) GetConnection(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid connection ID")
	}

	conn, err := h.connectionUC.GetConnection(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toConnectionResponse(conn))
}

// RemoveConnection handles best-effort teardown of a connection
func (h *ConnectionHandler) RemoveConnection(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid connection ID")
	}

	if err := h.connectionUC.RemoveConnection(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Connection removed successfully"})
}

// RefreshConnection handles reconciling one connection with its transport server
func (h *ConnectionHandler) RefreshConnection(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid connection ID")
	}

	conn, err := h.connectionUC.RefreshConnection(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toConnectionResponse(conn))
}

// RefreshAll handles reconciling every connection of an account
func (h *ConnectionHandler) RefreshAll(c echo.Context) error {
	account := accountRef(c, c.QueryParam("account"))
	if account == "" {
		return response.BadRequest(c, "VALIDATION_FAILED", missingAccountMessage)
	}

	conns, err := h.connectionUC.RefreshAll(c.Request().Context(), account)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toConnectionResponses(conns))
}

// RequestFreshQR handles forcing a new pairing artifact
func (h *ConnectionHandler) RequestFreshQR(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid connection ID")
	}

	qr, err := h.connectionUC.RequestFreshQR(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if qr == nil {
		return response.Success(c, http.StatusOK, QRCodeResponse{})
	}

	return response.Success(c, http.StatusOK, QRCodeResponse{
		QRCode: &qr.Code,
		QR:     toQRResponse(qr),
	})
}

// Reconnect handles restarting the session of a failed or disconnected connection
func (h *ConnectionHandler) Reconnect(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid connection ID")
	}

	conn, err := h.connectionUC.Reconnect(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toConnectionResponse(conn))
}

// ListJobs handles listing the jobs of a connection
func (h *ConnectionHandler) ListJobs(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid connection ID")
	}

	statuses, err := h.jobUC.JobsByConnection(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	out := make([]*JobStatusResponse, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, toJobStatusResponse(status))
	}

	return response.Success(c, http.StatusOK, out)
}

// CancelQueue handles cancelling every unfinished job of a connection
func (h *ConnectionHandler) CancelQueue(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid connection ID")
	}

	n, err := h.jobUC.CancelConnectionQueue(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"cancelled": n})
}

// accountRef prefers an explicit value from the request and falls back to the header
func accountRef(c echo.Context, explicit string) string {
	if account := strings.TrimSpace(explicit); account != "" {
		return account
	}

	return strings.TrimSpace(c.Request().Header.Get(deliverycontext.HeaderXAccountRef))
}
