package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmabill-api/internal/application/service"
	"github.com/sangkips/pharmabill-api/internal/config"
	infraRepo "github.com/sangkips/pharmabill-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmabill-api/internal/presentation/http/handler"
	"github.com/sangkips/pharmabill-api/mocks"
	"github.com/sangkips/pharmabill-api/pkg/printer"
	"github.com/sangkips/pharmabill-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *utils.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App:       config.AppConfig{Name: "pharmabill-api"},
		RateLimit: config.RateLimitConfig{Requests: 100, Duration: 60},
		Printer:   config.PrinterConfig{Type: "none", CharWidth: 32, AdminRoles: []string{"admin"}},
		Billing:   config.BillingConfig{SuggestionDebounce: time.Millisecond},
	}
	jwt := utils.NewJWTManager("secret", "", time.Hour)

	submissions := service.NewSubmissionService(infraRepo.NewMemorySubmissionRepository(), &cfg.Backend)
	printerService := service.NewPrinterService(printer.NewNullPrinter(), &cfg.Printer, &cfg.Store)
	billing := service.NewBillingService(new(mocks.MockBackendProvider), submissions, printerService, &cfg.Billing)

	router := Setup(&Handlers{
		Billing: handler.NewBillingHandler(billing),
		Printer: handler.NewPrinterHandler(printerService),
	}, &Deps{
		JWTManager:      jwt,
		Cfg:             cfg,
		IdempotencyRepo: infraRepo.NewMemoryIdempotencyRepository(),
	})
	return router, jwt
}

func request(t *testing.T, r *gin.Engine, jwt *utils.JWTManager, method, path string, roles []string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if roles != nil {
		token, err := jwt.GenerateAccessToken(8, "Anil", roles)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestSetup_HealthIsPublic(t *testing.T) {
	r, jwt := setupRouter(t)
	assert.Equal(t, http.StatusOK, request(t, r, jwt, http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusUnauthorized, request(t, r, jwt, http.MethodGet, "/api/v1/billing/session", nil))
}

func TestSetup_TestPrintRequiresAdminRole(t *testing.T) {
	r, jwt := setupRouter(t)

	assert.Equal(t, http.StatusOK, request(t, r, jwt, http.MethodGet, "/api/v1/printer/status", []string{"cashier"}))
	assert.Equal(t, http.StatusForbidden, request(t, r, jwt, http.MethodPost, "/api/v1/printer/test", []string{"cashier"}))
	assert.Equal(t, http.StatusOK, request(t, r, jwt, http.MethodPost, "/api/v1/printer/test", []string{"admin"}))
}
