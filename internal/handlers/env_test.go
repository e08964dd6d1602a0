package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/database"
	"github.com/sjperalta/backoffice-api/internal/events"
	"github.com/sjperalta/backoffice-api/internal/jobs"
	"github.com/sjperalta/backoffice-api/internal/middleware"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/repository"
	"github.com/sjperalta/backoffice-api/internal/response"
	"github.com/sjperalta/backoffice-api/internal/services"
	"github.com/sjperalta/backoffice-api/internal/storage"
	"github.com/sjperalta/backoffice-api/internal/token"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// inlineDispatcher runs audit writes synchronously so tests can read them back
type inlineDispatcher struct{}

func (inlineDispatcher) EnqueueAsync(job jobs.Job) { _ = job(context.Background()) }

type testEnv struct {
	db     *gorm.DB
	svcs   *services.Services
	store  *storage.LocalStorage
	hub    *events.Hub
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := database.OpenTestDB(t)
	repos := repository.NewRepositories(db)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	hub := events.NewHub(8)
	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	registry := audit.NewRegistry()
	logSvc := services.NewOperationLogService(repos.OperationLog)
	recorder := audit.NewRecorder(logSvc, inlineDispatcher{}, registry)
	customerSvc := services.NewCustomerService(repos.Customer, recorder, 2)
	sampleSvc := services.NewSampleService(repos.Sample, store, recorder, hub)
	orderSvc := services.NewOrderService(repos.Order, recorder, hub)
	employeeSvc := services.NewEmployeeService(repos.Employee, recorder)
	userSvc := services.NewUserService(repos.User, recorder)
	registry.Register(audit.EntityCustomer, audit.Lookup(customerSvc.Get))
	registry.Register(audit.EntitySample, audit.Lookup(sampleSvc.Get))
	registry.Register(audit.EntityOrder, audit.Lookup(orderSvc.Get))

	svcs := &services.Services{
		Auth:         services.NewAuthService(repos.AdminIdentity, repos.UserIdentity, token.New("handler-test-secret", time.Hour), recorder),
		OperationLog: logSvc,
		Export:       services.NewExportService(logSvc),
		Customer:     customerSvc,
		Sample:       sampleSvc,
		Order:        orderSvc,
		Employee:     employeeSvc,
		User:         userSvc,
		DDNS:         services.NewDDNSService("", nil, logSvc),
		Job:          services.NewJobService(worker),
		Recorder:     recorder,
	}
	h := NewHandlers(svcs, hub)

	r := gin.New()
	r.Use(middleware.RequestContext(), middleware.Auth(svcs.Auth, middleware.DefaultExemptPrefixes))
	api := r.Group("/api")
	api.POST("/admin/login", h.Auth.AdminLogin)
	api.POST("/user/login", h.Auth.UserLogin)
	api.GET("/auth/verify", h.Auth.Verify)
	api.GET("/customers", h.Customer.Index)
	api.POST("/customers", h.Customer.Create)
	api.GET("/customers/:id", h.Customer.Show)
	api.DELETE("/customers/:id", h.Customer.Delete)
	api.POST("/samples", h.Sample.Create)
	api.PUT("/samples/:id", h.Sample.Update)
	api.GET("/samples/page", h.Sample.Page)
	api.POST("/orders", h.Order.Create)
	api.POST("/orders/:id/transition", h.Order.Transition)
	api.GET("/logs", h.Log.Index)
	api.GET("/logs/search", h.Log.Search)
	api.GET("/logs/export", h.Log.Export)
	api.GET("/logs/:id", h.Log.Show)
	api.DELETE("/logs/clean", middleware.RequireAdmin(), h.Log.Clean)
	api.GET("/users", middleware.RequireAdmin(), h.User.Index)
	api.POST("/users", middleware.RequireAdmin(), h.User.Create)
	api.GET("/system/ddns", h.System.DDNSStatus)
	api.POST("/system/ddns/run", h.System.DDNSRun)

	return &testEnv{db: db, svcs: svcs, store: store, hub: hub, router: r}
}

func (e *testEnv) seedAdmin(t *testing.T, username, password string) *models.Admin {
	t.Helper()
	admin := &models.Admin{Username: username, Password: password, Name: "Admin " + username}
	require.NoError(t, e.db.Create(admin).Error)
	return admin
}

func (e *testEnv) seedUser(t *testing.T, username, password string) *models.User {
	t.Helper()
	hashed, err := services.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{Username: username, Password: hashed, Name: "User " + username, Phone: "555-0100"}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) do(method, path, tok string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, path, tok string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	return e.do(method, path, tok, body, "application/json")
}

func (e *testEnv) login(t *testing.T, kind, username, password string) string {
	t.Helper()
	w := e.doJSON(http.MethodPost, "/api/"+kind+"/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result services.LoginResult
	decodeData(t, w, &result)
	require.NotEmpty(t, result.Token)
	return result.Token
}

// decodeData unwraps the envelope and decodes its data member into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) response.Envelope {
	t.Helper()
	var env struct {
		response.Envelope
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env.Envelope
}
