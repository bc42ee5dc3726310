package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"handoverhub/internal/notify"
	"handoverhub/internal/report"
	"handoverhub/internal/repository"
	"handoverhub/internal/service"
	"handoverhub/pkg/database"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrator(db, logger).Run("../../../migrations"))

	handoverRepo := repository.NewHandoverRepository(db.DB, logger)
	taskRepo := repository.NewTaskRepository(db.DB, logger)
	noteRepo := repository.NewNoteRepository(db.DB, logger)
	insightRepo := repository.NewInsightRepository(db.DB, logger)
	templateRepo := repository.NewTemplateRepository(db.DB, logger)
	helpRepo := repository.NewHelpRequestRepository(db.DB, logger)
	activityRepo := repository.NewActivityRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)

	handoverSvc := service.NewHandoverService(db, handoverRepo, taskRepo, activityRepo, logger)
	services := Services{
		Handovers: handoverSvc,
		Tasks:     service.NewTaskService(db, taskRepo, noteRepo, insightRepo, handoverSvc, logger),
		Templates: service.NewTemplateService(db, templateRepo, taskRepo, handoverSvc, logger),
		Help:      service.NewHelpService(db, helpRepo, handoverSvc, taskRepo, notify.NoopNotifier{}, logger),
		Reports:   service.NewReportService(handoverRepo, helpRepo, report.NewExcelExporter(logger), logger),
		Users:     service.NewUserService(userRepo, logger),
	}

	return NewServer(DefaultServerConfig(), services, logger)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(actorHeader, "tester-1")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
		Error   string                 `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success, "error: %s", resp.Error)
	return resp.Data
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "healthy", data["status"])
}

func TestCreateAndFetchHandover(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/handovers", CreateHandoverRequest{
		ExitingEmployeeID:    "emp-1",
		ExitingEmployeeEmail: "alex@example.com",
		ExitingEmployeeName:  "Alex Doe",
		Department:           "Sales",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeData(t, rec)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/handovers/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	got := decodeData(t, rec)
	assert.Equal(t, "pending", got["status"])
}

func TestGetHandoverNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/handovers/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateHandoverValidatesBody(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/handovers", map[string]string{
		"exiting_employee_id": "emp-1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPivotRejectsBadDimension(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/reports/pivot?dims=department,favoriteColor", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLifecycleConflictMapsTo409(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/handovers", CreateHandoverRequest{
		ExitingEmployeeID:    "emp-1",
		ExitingEmployeeEmail: "alex@example.com",
		ExitingEmployeeName:  "Alex Doe",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := decodeData(t, rec)["id"].(string)

	// Submitting a pending handover skips the in-progress state.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/handovers/"+id+"/submit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterUserIdempotentByEmail(t *testing.T) {
	srv := newTestServer(t)

	body := RegisterUserRequest{Email: "sam@example.com", Name: "Sam Lee", Role: "successor"}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/users", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decodeData(t, rec)

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/users", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decodeData(t, rec)
	assert.Equal(t, first["id"], second["id"])
}
