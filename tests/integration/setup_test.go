package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"drebuilder/internal/format"
	"drebuilder/internal/logger"
	"drebuilder/internal/models"
	"drebuilder/internal/server"
	"drebuilder/internal/services"
	"drebuilder/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Sessions services.SessionServicer
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.ActivityLog{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	currency, err := format.NewCurrency("BRL")
	if err != nil {
		t.Fatalf("failed to create currency: %v", err)
	}

	activityService := services.NewActivityService(db)
	sessionService := services.NewSessionService(activityService, time.Hour)
	budgetService := services.NewBudgetService(sessionService, currency)

	router := server.NewRouter(server.Services{
		Sessions: sessionService,
		Budget:   budgetService,
		Activity: activityService,
	})

	return &testApp{DB: db, Router: router, Sessions: sessionService}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorCode extracts error.code from an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	detail, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	return detail["code"].(string)
}

// createSession opens a session and returns its token and id.
func (app *testApp) createSession(t *testing.T) (token, sessionID string) {
	t.Helper()
	rec := app.request("POST", "/api/v1/sessions", "", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	session := result["session"].(map[string]interface{})
	return result["token"].(string), session["id"].(string)
}

// addItem adds a root item, or a child when parentID is set, and returns it.
func (app *testApp) addItem(t *testing.T, token, parentID, itemType string) map[string]interface{} {
	t.Helper()
	path := "/api/v1/budget/items"
	if parentID != "" {
		path += "/" + parentID + "/children"
	}
	rec := app.request("POST", path, fmt.Sprintf(`{"type":%q}`, itemType), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add item failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["item"].(map[string]interface{})
}

// setValue writes a monthly value and returns whether it was applied.
func (app *testApp) setValue(t *testing.T, token, itemID, month, value string) bool {
	t.Helper()
	path := fmt.Sprintf("/api/v1/budget/items/%s/values/%s", itemID, month)
	rec := app.request("PUT", path, fmt.Sprintf(`{"value":%s}`, value), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("set value failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["applied"].(bool)
}
