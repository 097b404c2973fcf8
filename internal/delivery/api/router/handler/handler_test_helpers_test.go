package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"courier/internal/delivery/api/validator"
	"courier/internal/domain/entity"
	"courier/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()

	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return env
}

type connectionUsecaseStub struct {
	mock.Mock
}

func (s *connectionUsecaseStub) CreateConnection(ctx context.Context, input *usecase.CreateConnectionInput) (*entity.DeviceConnection, error) {
	args := s.Called(ctx, input)
	conn, _ := args.Get(0).(*entity.DeviceConnection)

	return conn, args.Error(1)
}

func (s *connectionUsecaseStub) ListConnections(ctx context.Context, accountRef string) ([]*entity.DeviceConnection, error) {
	args := s.Called(ctx, accountRef)
	conns, _ := args.Get(0).([]*entity.DeviceConnection)

	return conns, args.Error(1)
}

func (s *connectionUsecaseStub) GetConnection(ctx context.Context, id uuid.UUID) (*entity.DeviceConnection, error) {
	args := s.Called(ctx, id)
	conn, _ := args.Get(0).(*entity.DeviceConnection)

	return conn, args.Error(1)
}

func (s *connectionUsecaseStub) RemoveConnection(ctx context.Context, id uuid.UUID) error {
	return s.Called(ctx, id).Error(0)
}

func (s *connectionUsecaseStub) RefreshConnection(ctx context.Context, id uuid.UUID) (*entity.DeviceConnection, error) {
	args := s.Called(ctx, id)
	conn, _ := args.Get(0).(*entity.DeviceConnection)

	return conn, args.Error(1)
}

func (s *connectionUsecaseStub) RefreshAll(ctx context.Context, accountRef string) ([]*entity.DeviceConnection, error) {
	args := s.Called(ctx, accountRef)
	conns, _ := args.Get(0).([]*entity.DeviceConnection)

	return conns, args.Error(1)
}

func (s *connectionUsecaseStub) RequestFreshQR(ctx context.Context, id uuid.UUID) (*entity.QRArtifact, error) {
	args := s.Called(ctx, id)
	qr, _ := args.Get(0).(*entity.QRArtifact)

	return qr, args.Error(1)
}

func (s *connectionUsecaseStub) Reconnect(ctx context.Context, id uuid.UUID) (*entity.DeviceConnection, error) {
	args := s.Called(ctx, id)
	conn, _ := args.Get(0).(*entity.DeviceConnection)

	return conn, args.Error(1)
}

func (s *connectionUsecaseStub) Restore(ctx context.Context) error {
	return s.Called(ctx).Error(0)
}

type jobUsecaseStub struct {
	mock.Mock
}

func (s *jobUsecaseStub) Submit(ctx context.Context, input *usecase.SubmitJobInput) (*entity.JobStatus, error) {
	args := s.Called(ctx, input)
	status, _ := args.Get(0).(*entity.JobStatus)

	return status, args.Error(1)
}

func (s *jobUsecaseStub) Status(ctx context.Context, jobID uuid.UUID) (*entity.JobStatus, error) {
	args := s.Called(ctx, jobID)
	status, _ := args.Get(0).(*entity.JobStatus)

	return status, args.Error(1)
}

func (s *jobUsecaseStub) Cancel(ctx context.Context, jobID uuid.UUID) (*entity.JobStatus, error) {
	args := s.Called(ctx, jobID)
	status, _ := args.Get(0).(*entity.JobStatus)

	return status, args.Error(1)
}

func (s *jobUsecaseStub) CancelConnectionQueue(ctx context.Context, connectionID uuid.UUID) (int, error) {
	args := s.Called(ctx, connectionID)

	return args.Int(0), args.Error(1)
}

func (s *jobUsecaseStub) ReleaseConnection(ctx context.Context, connectionID uuid.UUID) (int, error) {
	args := s.Called(ctx, connectionID)

	return args.Int(0), args.Error(1)
}

func (s *jobUsecaseStub) Recipients(ctx context.Context, jobID uuid.UUID) ([]*entity.Recipient, error) {
	args := s.Called(ctx, jobID)
	recipients, _ := args.Get(0).([]*entity.Recipient)

	return recipients, args.Error(1)
}

func (s *jobUsecaseStub) JobsByConnection(ctx context.Context, connectionID uuid.UUID) ([]*entity.JobStatus, error) {
	args := s.Called(ctx, connectionID)
	jobs, _ := args.Get(0).([]*entity.JobStatus)

	return jobs, args.Error(1)
}

func (s *jobUsecaseStub) Resume(ctx context.Context, connectionIDs []uuid.UUID) error {
	return s.Called(ctx, connectionIDs).Error(0)
}
