package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukex/flowcanvas/pkg/events"
	"github.com/dukex/flowcanvas/pkg/mocks"
	"github.com/dukex/flowcanvas/pkg/otelhelper"
	"github.com/dukex/flowcanvas/pkg/persistence/file"
	"github.com/dukex/flowcanvas/pkg/validation"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.MockEventBus) {
	t.Helper()

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	api := NewAPI(
		slog.New(slog.DiscardHandler),
		file.NewPersistence(t.TempDir()),
		bus,
		otelhelper.NoopTracer("flowcanvas-api-test"),
		validation.DefaultPolicy(),
	)

	return api.App(), bus
}

func request(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, raw
}

func TestAPI_RootEndpoint(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, body := request(t, app, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Flowcanvas API", string(body))
}

func TestAPI_HealthCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, body := request(t, app, http.MethodGet, "/livez", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestAPI_Metrics(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, body := request(t, app, http.MethodPost, "/workflows", map[string]string{"name": "Digest"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]any
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = request(t, app, http.MethodPost, "/workflows/"+created["id"].(string)+"/validate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = request(t, app, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "flowcanvas_validations_total"), string(body))
}

func TestAPI_EditsArePublished(t *testing.T) {
	app, bus := setupTestApp(t)

	resp, body := request(t, app, http.MethodPost, "/workflows", map[string]string{"name": "Digest"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]any
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = request(t, app, http.MethodPost, "/workflows/"+created["id"].(string)+"/nodes",
		map[string]string{"category": "agent", "subtype": "writer"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Contains(t, bus.PublishedTypes(), events.NodeAddedEvent)
}
