package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"courier/internal/delivery/api/response"
	"courier/internal/domain/entity"
	"courier/internal/errors"
	"courier/internal/infra/importer"
	"courier/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// JobHandlerParams holds dependencies for JobHandler, injected by Fx.
type JobHandlerParams struct {
	fx.In

	JobUC  usecase.JobUsecase
	Logger *slog.Logger
}

// JobHandler holds dependencies for bulk job handlers
type JobHandler struct {
	jobUC  usecase.JobUsecase
	logger *slog.Logger
}

// NewJobHandler is the constructor for JobHandler
func NewJobHandler(params JobHandlerParams) *JobHandler {
	return &JobHandler{
		jobUC:  params.JobUC,
		logger: params.Logger,
	}
}

// TemplateRequest is the message content of a job
type TemplateRequest struct {
	Type     string `json:"type" validate:"required,oneof=text image document"`
	Text     string `json:"text" validate:"max=4096"`
	MediaURL string `json:"mediaUrl" validate:"omitempty,url"`
	FileName string `json:"fileName" validate:"max=255"`
}

// RecipientRequest is one destination of a job
type RecipientRequest struct {
	Destination string `json:"destination" validate:"required"`
	Name        string `json:"name" validate:"max=255"`
}

// SubmitJobRequest represents the request body for submitting a bulk job.
// Recipients and RecipientsText are merged in that order. Either DelaySeconds or
// the MinDelay/MaxDelay range may be given.
type SubmitJobRequest struct {
	ConnectionID   string             `json:"connectionId" validate:"required,uuid"`
	Template       TemplateRequest    `json:"template" validate:"required"`
	Recipients     []RecipientRequest `json:"recipients" validate:"dive"`
	RecipientsText string             `json:"recipientsText"`
	DelaySeconds   *float64           `json:"delaySeconds" validate:"omitempty,gte=0"`
	MinDelay       *float64           `json:"minDelay" validate:"omitempty,gte=0"`
	MaxDelay       *float64           `json:"maxDelay" validate:"omitempty,gte=0"`
	Priority       int                `json:"priority"`
	ScheduledAt    *time.Time         `json:"scheduledAt"`
}

// delay maps the request fields onto a policy; nil leaves the choice to the job service
func (req *SubmitJobRequest) delay() (*entity.DelayPolicy, error) {
	ranged := req.MinDelay != nil || req.MaxDelay != nil
	if ranged && req.DelaySeconds != nil {
		return nil, errors.New("delaySeconds and minDelay/maxDelay are mutually exclusive")
	}

	switch {
	case ranged:
		if req.MinDelay == nil || req.MaxDelay == nil {
			return nil, errors.New("minDelay and maxDelay must be given together")
		}
		policy := entity.RandomDelay(seconds(*req.MinDelay), seconds(*req.MaxDelay))

		return &policy, nil
	case req.DelaySeconds != nil:
		policy := entity.FixedDelay(seconds(*req.DelaySeconds))

		return &policy, nil
	default:
		return nil, nil
	}
}

// Submit handles bulk job submission
func (h *JobHandler) Submit(c echo.Context) error {
	var req SubmitJobRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid job input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	connectionID, err := uuid.Parse(req.ConnectionID)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid connection ID")
	}

	delay, err := req.delay()
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	recipients := make([]usecase.RecipientInput, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		recipients = append(recipients, usecase.RecipientInput{Destination: r.Destination, Name: r.Name})
	}
	if strings.TrimSpace(req.RecipientsText) != "" {
		parsed := importer.ParseText(req.RecipientsText)
		if len(parsed.Invalid) > 0 {
			return response.BadRequestWithDetails(c, "INVALID_RECIPIENTS", "recipient list is malformed", parsed.Invalid)
		}
		for _, e := range parsed.Entries {
			recipients = append(recipients, usecase.RecipientInput{Destination: e.Destination, Name: e.Name})
		}
	}

	status, err := h.jobUC.Submit(c.Request().Context(), &usecase.SubmitJobInput{
		ConnectionID: connectionID,
		Template: entity.MessageTemplate{
			Type:     entity.MessageType(req.Template.Type),
			Text:     req.Template.Text,
			MediaURL: req.Template.MediaURL,
			FileName: req.Template.FileName,
		},
		Recipients:  recipients,
		Delay:       delay,
		Priority:    req.Priority,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toJobStatusResponse(status))
}

// Status handles retrieving the aggregated progress of a job
func (h *JobHandler) Status(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid job ID")
	}

	status, err := h.jobUC.Status(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toJobStatusResponse(status))
}

// Cancel handles cancelling the pending recipients of a job
func (h *JobHandler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid job ID")
	}

	status, err := h.jobUC.Cancel(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toJobStatusResponse(status))
}

// Recipients handles listing the recipients of a job
func (h *JobHandler) Recipients(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid job ID")
	}

	recipients, err := h.jobUC.Recipients(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toRecipientResponses(recipients))
}
