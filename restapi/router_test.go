package restapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hydrosense/phealth-backend/database"
	gqlschema "github.com/hydrosense/phealth-backend/graphql"
	"github.com/hydrosense/phealth-backend/internal/health"
	"github.com/hydrosense/phealth-backend/internal/inference"
	"github.com/hydrosense/phealth-backend/internal/simulation"
	"github.com/hydrosense/phealth-backend/model"
	"github.com/hydrosense/phealth-backend/restapi"
)

type testEnv struct {
	app *fiber.App
	mgr *simulation.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	// 400 days of linear decay for one segment.
	records := make([]model.DailyRecord, 400)
	for i := range records {
		day := i + 1
		records[i] = model.DailyRecord{
			Day:  day,
			Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Upstream: model.SensorReading{
				Pressure: 5.0, Flow: 200, Corrosion: 0.01, Acoustic: 42, Temperature: 18,
			},
			Downstream: model.SensorReading{
				Pressure: 4.8, Flow: 195, Corrosion: 0.012, Acoustic: 44, Temperature: 18,
			},
			WallThickness: 10 - 0.008*float64(day),
			CorrosionRate: 0.008,
			RUL:           float64(900 - day),
		}
	}
	require.NoError(t, store.ReplaceSegment("A-B", records))

	logger := zap.NewNop().Sugar()
	mapper := health.NewMapper(nil)
	mgr := simulation.NewManager(store, mapper, []string{"A-B"}, 180, 730, time.Second, logger)
	svc := inference.NewService(filepath.Join(t.TempDir(), "missing.json"), logger)

	schema, err := gqlschema.CreateSchema(store, mgr, mapper)
	require.NoError(t, err)

	app := fiber.New()
	restapi.SetupRoutes(app, store, mgr, mapper, svc, schema, logger)

	return &testEnv{app: app, mgr: mgr}
}

func (e *testEnv) request(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]interface{}
	if len(data) > 0 && data[0] == '{' {
		require.NoError(t, json.Unmarshal(data, &payload))
	}
	return resp.StatusCode, payload
}

func TestGetInit(t *testing.T) {
	env := newTestEnv(t)

	code, payload := env.request(t, http.MethodGet, "/api/v1/init", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"A-B"}, payload["segments"])

	status := payload["status"].(map[string]interface{})
	assert.Equal(t, 180.0, status["day"])
	assert.Equal(t, "running", status["state"])
}

func TestGetHealthSnapshot(t *testing.T) {
	env := newTestEnv(t)

	code, payload := env.request(t, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, code)

	segs := payload["segments"].(map[string]interface{})
	require.Contains(t, segs, "A-B")
	snap := segs["A-B"].(map[string]interface{})
	assert.Equal(t, "A-B", snap["segment_id"])
	assert.Equal(t, 720.0, snap["rul"], "day 180 carries RUL 900-180")
}

func TestGetSegmentHealthNotFound(t *testing.T) {
	env := newTestEnv(t)

	code, payload := env.request(t, http.MethodGet, "/api/v1/health/X-Y", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, payload["success"])
}

func TestGetHistoryWindow(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history/A-B", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var points []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&points))

	require.Len(t, points, 180, "history caps at the trailing six months")
	assert.Equal(t, "Day 1", points[0]["day"])
	assert.Equal(t, "Day 180", points[len(points)-1]["day"])
	assert.Equal(t, 720.0, points[len(points)-1]["rul"])
}

func TestControlEndpoints(t *testing.T) {
	env := newTestEnv(t)

	code, payload := env.request(t, http.MethodPost, "/api/v1/control/speed", `{"speed": 10}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 10.0, payload["speed"])

	code, _ = env.request(t, http.MethodPost, "/api/v1/control/speed", `{"speed": -2}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.request(t, http.MethodPost, "/api/v1/control/pause", "")
	require.Equal(t, http.StatusOK, code)
	_, state, _ := env.mgr.Status()
	assert.Equal(t, simulation.Paused, state)

	code, _ = env.request(t, http.MethodPost, "/api/v1/control/resume", "")
	require.Equal(t, http.StatusOK, code)
	_, state, _ = env.mgr.Status()
	assert.Equal(t, simulation.Running, state)

	code, payload = env.request(t, http.MethodGet, "/api/v1/control/status", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 10.0, payload["speed"])
}

func TestPredictFallsBackWithoutArtifact(t *testing.T) {
	env := newTestEnv(t)

	code, payload := env.request(t, http.MethodPost, "/api/v1/predict/A-B", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, inference.FallbackRUL, payload["rul"])
	assert.Equal(t, "fallback", payload["source"])
	assert.Equal(t, 180.0, payload["day"])

	code, _ = env.request(t, http.MethodPost, "/api/v1/predict/X-Y", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGraphQLSystemOverview(t *testing.T) {
	env := newTestEnv(t)

	query := `{"query": "{ systemOverview { day total_segments average_score } }"}`
	code, payload := env.request(t, http.MethodPost, "/api/v1/graphql", query)
	require.Equal(t, http.StatusOK, code)
	require.NotContains(t, payload, "errors")

	data := payload["data"].(map[string]interface{})
	overview := data["systemOverview"].(map[string]interface{})
	assert.Equal(t, 180.0, overview["day"])
	assert.Equal(t, 1.0, overview["total_segments"])
}

func TestStreamPollingFallback(t *testing.T) {
	env := newTestEnv(t)

	code, payload := env.request(t, http.MethodGet, "/stream", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 180.0, payload["day"])
	require.Contains(t, payload["segments"].(map[string]interface{}), "A-B")
}
