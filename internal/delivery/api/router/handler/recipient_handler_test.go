package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"courier/internal/infra/importer"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadContext(t *testing.T, filename, content string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipients/parse", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()

	return newTestEcho().NewContext(req, rec), rec
}

func TestRecipientHandler_Parse(t *testing.T) {
	h := NewRecipientHandler(RecipientHandlerParams{Logger: testLogger()})

	t.Run("csv with header", func(t *testing.T) {
		c, rec := newUploadContext(t, "contacts.csv", "name,phone\nAna,+1 555 0101\nBen,bad\n")

		require.NoError(t, h.Parse(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var got importer.Result
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
		require.Len(t, got.Entries, 1)
		assert.Equal(t, "15550101", got.Entries[0].Destination)
		assert.Equal(t, "Ana", got.Entries[0].Name)
		assert.Equal(t, []importer.InvalidRow{{Line: 3, Value: "bad"}}, got.Invalid)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		c, rec := newUploadContext(t, "contacts.pdf", "15550101")

		require.NoError(t, h.Parse(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "UNSUPPORTED_FORMAT", decodeEnvelope(t, rec).Error.Code)
	})

	t.Run("empty file", func(t *testing.T) {
		c, rec := newUploadContext(t, "contacts.csv", "\n")

		require.NoError(t, h.Parse(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_RECIPIENTS", decodeEnvelope(t, rec).Error.Code)
	})

	t.Run("missing file field", func(t *testing.T) {
		c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/api/v1/recipients/parse", "{}")

		require.NoError(t, h.Parse(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
