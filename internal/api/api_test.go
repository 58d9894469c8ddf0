package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleepsense/internal"
	"github.com/yourname/sleepsense/internal/auth"
	"github.com/yourname/sleepsense/internal/config"
	"github.com/yourname/sleepsense/internal/storage"
	"github.com/yourname/sleepsense/internal/wizard"
)

const testToken = "test-token"

type brokenRepo struct{ storage.DailyInputRepository }

func (brokenRepo) ListDailyInputs(context.Context, string) ([]internal.DailyInput, error) {
	return nil, errors.New("database is down")
}

func newTestRouter(t *testing.T, repo storage.DailyInputRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := internal.NewNopLogger()
	cfg := &config.Config{Env: "development", AuthToken: testToken}
	return NewRouter(NewServer(logger, repo), auth.NewLocalAuthProvider(testToken, logger), cfg)
}

func newFileRepo(t *testing.T) storage.DailyInputRepository {
	t.Helper()
	repo, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "daily_inputs.json"), internal.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data  json.RawMessage    `json:"data"`
	Meta  map[string]any     `json:"meta"`
	Error *internal.AppError `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func draftFor(bedtime, wake string) wizard.Draft {
	return wizard.Draft{
		Bedtime:              bedtime,
		WakeTime:             wake,
		SleepLatency:         "<10",
		RestedRating:         "4",
		HadDisturbances:      "no",
		MorningSunlight:      "yes",
		MorningSunlightTime:  "07:30",
		Caffeine:             "no",
		LastMealTime:         "19:00",
		Exercised:            "no",
		ScreenTime:           "22:00",
		BlueLightFilter:      "yes",
		BrightLightBeforeBed: "no",
		HadAlcohol:           "no",
		RoomTempC:            "19",
		StressLevel:          "2",
	}
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	r := newTestRouter(t, newFileRepo(t))
	for _, path := range []string{"/healthz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t, newFileRepo(t))
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestDailyInputLifecycle(t *testing.T) {
	r := newTestRouter(t, newFileRepo(t))

	w := do(t, r, http.MethodPost, "/daily-inputs", draftFor("2025-05-01T23:00", "2025-05-02T07:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created internal.DailyInput
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	assert.Equal(t, "2025-05-01", created.Date)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, internal.ClockTime("07:30"), created.MorningSunlightTime)

	w = do(t, r, http.MethodPost, "/daily-inputs", draftFor("2025-05-01T22:00", "2025-05-02T06:00"))
	assert.Equal(t, http.StatusConflict, w.Code)

	edit := draftFor("2025-05-01T22:30", "2025-05-02T06:30")
	edit.StressLevel = "5"
	w = do(t, r, http.MethodPut, "/daily-inputs/2025-05-01", edit)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodPut, "/daily-inputs/2025-06-01", draftFor("2025-06-01T22:30", "2025-06-02T06:30"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/daily-inputs/2025-05-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got internal.DailyInput
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	assert.Equal(t, 5, got.StressLevel)
	assert.Equal(t, created.ID, got.ID)

	w = do(t, r, http.MethodGet, "/daily-inputs/2025-04-01", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/daily-inputs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w).Meta["count"])
}

func TestPostDailyInput_Rejections(t *testing.T) {
	r := newTestRouter(t, newFileRepo(t))

	incomplete := draftFor("2025-05-01T23:00", "2025-05-02T07:00")
	incomplete.StressLevel = ""
	w := do(t, r, http.MethodPost, "/daily-inputs", incomplete)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "stress_level")

	backwards := draftFor("2025-05-02T07:00", "2025-05-01T23:00")
	w = do(t, r, http.MethodPost, "/daily-inputs", backwards)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostDraft(t *testing.T) {
	r := newTestRouter(t, newFileRepo(t))

	body := map[string]any{
		"draft": wizard.Draft{},
		"changes": []map[string]string{
			{"field": "bedtime", "value": "2025-05-01T23:00"},
			{"field": "sleep_latency", "value": ">30"},
		},
		"step": 1,
	}
	w := do(t, r, http.MethodPost, "/daily-inputs/draft", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var state struct {
		Draft        wizard.Draft   `json:"draft"`
		StepComplete bool           `json:"step_complete"`
		Missing      []wizard.Field `json:"missing"`
		Complete     bool           `json:"complete"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &state))
	assert.Equal(t, "2025-05-01T23:00", state.Draft.Bedtime)
	assert.False(t, state.StepComplete)
	assert.False(t, state.Complete)
	assert.Contains(t, state.Missing, wizard.FieldCustomLatencyMinutes)
	assert.NotContains(t, state.Missing, wizard.FieldBedtime)

	body["changes"] = []map[string]string{{"field": "mood", "value": "ok"}}
	w = do(t, r, http.MethodPost, "/daily-inputs/draft", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["changes"] = nil
	body["step"] = 7
	w = do(t, r, http.MethodPost, "/daily-inputs/draft", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard(t *testing.T) {
	r := newTestRouter(t, newFileRepo(t))
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/daily-inputs", draftFor("2025-05-01T23:00", "2025-05-02T07:00")).Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/daily-inputs", draftFor("2025-05-02T23:10", "2025-05-03T07:00")).Code)

	w := do(t, r, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d struct {
		Metrics []map[string]any `json:"metrics"`
		Stats   map[string]any   `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &d))
	assert.Len(t, d.Metrics, 2)
	assert.NotNil(t, d.Stats)

	w = do(t, r, http.MethodGet, "/dashboard/correlations?outcome=latency&factor=room_temp", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var points []map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &points))
	require.Len(t, points, 2)
	assert.Equal(t, 19.0, points[0]["factor"])
	assert.Equal(t, 5.0, points[0]["outcome"])

	w = do(t, r, http.MethodGet, "/dashboard/correlations?outcome=latency&factor=moon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard_DegradesWhenStoreFails(t *testing.T) {
	r := newTestRouter(t, brokenRepo{})
	w := do(t, r, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d struct {
		Metrics  []any `json:"metrics"`
		Degraded bool  `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &d))
	assert.True(t, d.Degraded)
	assert.Empty(t, d.Metrics)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := internal.NewNopLogger()
	cfg := &config.Config{Env: "development", AuthToken: testToken, CORSOrigins: []string{"http://localhost:3000"}}
	r := NewRouter(NewServer(logger, newFileRepo(t)), auth.NewLocalAuthProvider(testToken, logger), cfg)

	req := httptest.NewRequest(http.MethodOptions, "/dashboard", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/dashboard", nil)
	req.Header.Set("Origin", "http://evil.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
