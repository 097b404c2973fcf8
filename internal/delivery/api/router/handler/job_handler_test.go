package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"courier/internal/domain/entity"
	domainerrors "courier/internal/domain/errors"
	"courier/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestJobHandler() (*JobHandler, *jobUsecaseStub) {
	jobUC := &jobUsecaseStub{}

	return NewJobHandler(JobHandlerParams{JobUC: jobUC, Logger: testLogger()}), jobUC
}

func TestJobHandler_Submit(t *testing.T) {
	h, jobUC := createTestJobHandler()
	connID := uuid.New()
	job := &entity.BulkJob{ID: uuid.New(), ConnectionID: connID, Priority: 2, CreatedAt: time.Now().UTC()}

	jobUC.On("Submit", mock.Anything, mock.MatchedBy(func(in *usecase.SubmitJobInput) bool {
		if in.ConnectionID != connID || in.Template.Type != entity.MessageTypeText || in.Priority != 2 {
			return false
		}
		if in.Delay == nil || !in.Delay.Random || in.Delay.Min != 2*time.Second || in.Delay.Max != 4*time.Second {
			return false
		}

		return len(in.Recipients) == 3 &&
			in.Recipients[0].Destination == "+1 555 0101" &&
			in.Recipients[1].Destination == "15550102" && in.Recipients[1].Name == "Ben" &&
			in.Recipients[2].Destination == "15550103"
	})).Return(&entity.JobStatus{
		Job:                job,
		Counts:             entity.JobCounts{Total: 3, Pending: 3},
		EstimatedRemaining: 9 * time.Second,
	}, nil).Once()

	body := `{
		"connectionId": "` + connID.String() + `",
		"template": {"type": "text", "text": "Hi {name}"},
		"recipients": [{"destination": "+1 555 0101", "name": "Ana"}],
		"recipientsText": "15550102,Ben\n15550103",
		"minDelay": 2,
		"maxDelay": 4,
		"priority": 2
	}`
	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/api/v1/jobs", body)

	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got JobStatusResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
	assert.Equal(t, job.ID, got.JobID)
	assert.Equal(t, 3, got.Counts.Pending)
	assert.False(t, got.Finished)
	assert.Equal(t, int64(9), got.EstimatedRemainingSeconds)
	jobUC.AssertExpectations(t)
}

func TestJobHandler_Submit_RequestErrors(t *testing.T) {
	connID := uuid.New().String()

	tests := []struct {
		name string
		body string
		code string
	}{
		{
			name: "unknown message type",
			body: `{"connectionId":"` + connID + `","template":{"type":"sticker"}}`,
			code: "VALIDATION_FAILED",
		},
		{
			name: "fixed and ranged delay together",
			body: `{"connectionId":"` + connID + `","template":{"type":"text","text":"x"},"delaySeconds":1,"minDelay":1,"maxDelay":2}`,
			code: "VALIDATION_FAILED",
		},
		{
			name: "half a range",
			body: `{"connectionId":"` + connID + `","template":{"type":"text","text":"x"},"minDelay":1}`,
			code: "VALIDATION_FAILED",
		},
		{
			name: "malformed recipients text",
			body: `{"connectionId":"` + connID + `","template":{"type":"text","text":"x"},"recipientsText":"15550101\nnope"}`,
			code: "INVALID_RECIPIENTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, jobUC := createTestJobHandler()
			c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/api/v1/jobs", tt.body)

			require.NoError(t, h.Submit(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decodeEnvelope(t, rec).Error.Code)
			jobUC.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
		})
	}
}

func TestJobHandler_Submit_ConnectionNotReady(t *testing.T) {
	h, jobUC := createTestJobHandler()
	jobUC.On("Submit", mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrConnectionNotReady.WithDetails("state qr_required")).Once()

	body := `{"connectionId":"` + uuid.New().String() + `","template":{"type":"text","text":"x"},"recipients":[{"destination":"15550101"}]}`
	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/api/v1/jobs", body)

	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "CONNECTION_NOT_READY", env.Error.Code)
	assert.JSONEq(t, `"state qr_required"`, string(env.Error.Details))
}

func TestJobHandler_Cancel_Finished(t *testing.T) {
	h, jobUC := createTestJobHandler()
	id := uuid.New()
	jobUC.On("Cancel", mock.Anything, id).Return(nil, domainerrors.ErrJobFinished).Once()

	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "JOB_FINISHED", decodeEnvelope(t, rec).Error.Code)
}

func TestJobHandler_Recipients(t *testing.T) {
	h, jobUC := createTestJobHandler()
	id := uuid.New()
	jobUC.On("Recipients", mock.Anything, id).Return([]*entity.Recipient{
		{ID: uuid.New(), JobID: id, Seq: 0, Destination: "15550101", Status: entity.RecipientSent},
		{ID: uuid.New(), JobID: id, Seq: 1, Destination: "15550102", Status: entity.RecipientFailed, LastError: "cancelled"},
	}, nil).Once()

	c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	require.NoError(t, h.Recipients(c))

	var got []RecipientResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "sent", got[0].Status)
	assert.Equal(t, "cancelled", got[1].LastError)
}
