package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-millet-backend/config"
	v1 "go-millet-backend/internal/delivery/http/v1"
	"go-millet-backend/internal/domain"
	"go-millet-backend/internal/usecase"
	"go-millet-backend/pkg/mailer"
	"go-millet-backend/pkg/recaptcha"
	"go-millet-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNewsletterUsecase struct {
	mock.Mock
}

func (m *MockNewsletterUsecase) Subscribe(ctx context.Context, req *domain.SubscribeRequest) (*domain.SubscribeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubscribeResult), args.Error(1)
}

func (m *MockNewsletterUsecase) Status(ctx context.Context, email string) (*domain.SubscriptionStatus, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubscriptionStatus), args.Error(1)
}

// newContactStack wires the real contact pipeline against fake reCAPTCHA and
// Mandrill upstreams, behind the real router and middleware.
func newContactStack(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fakeRecaptcha := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(fakeRecaptcha.Close)

	fakeMandrill := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"email":"x","status":"sent","_id":"m1"}]`))
	}))
	t.Cleanup(fakeMandrill.Close)

	cfg := &config.Config{
		RecaptchaSecretKey:     "secret",
		MandrillAPIKey:         "key",
		EmailFrom:              "hello@truemillet.com",
		AdminEmail:             "admin@truemillet.com",
		RateLimitFormThreshold: 100,
		RateLimitWindowSeconds: 60,
	}

	verifier := recaptcha.NewVerifier(cfg.RecaptchaSecretKey).WithEndpoint(fakeRecaptcha.URL)
	mailClient := mailer.NewClient(cfg.MandrillAPIKey, cfg.EmailFrom, cfg.EmailFromName).WithAPIBase(fakeMandrill.URL)
	dispatcher := mailer.NewDispatcher(mailClient)

	validate := validator.New()
	validation.RegisterValidators(validate)
	contactUC := usecase.NewContactUsecase(cfg, validate, verifier, dispatcher)

	return v1.NewRouter(v1.RouterDeps{
		ContactUC:    contactUC,
		NewsletterUC: new(MockNewsletterUsecase),
		Config:       cfg,
	})
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func contactPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":             "Jo",
		"email":            "a@b.com",
		"phone":            "9876543210",
		"organizationType": "School",
		"message":          "Hello there, need info",
		"recaptchaToken":   "03AGdBq24PBCbwiDRaS_MJ7Z",
	}
}

func TestContactEndpointSuccess(t *testing.T) {
	router := newContactStack(t)

	w := postJSON(router, "/v1/contact", contactPayload())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["request_id"])
}

func TestContactEndpointRejectsShortName(t *testing.T) {
	router := newContactStack(t)

	payload := contactPayload()
	payload["name"] = "J"

	w := postJSON(router, "/v1/contact", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name must be at least 2 characters")
}

func TestContactEndpointRejectsShortToken(t *testing.T) {
	router := newContactStack(t)

	payload := contactPayload()
	payload["recaptchaToken"] = "too-short"

	w := postJSON(router, "/v1/contact", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid reCAPTCHA token")
}

func TestContactEndpointMisconfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		RateLimitFormThreshold: 100,
		RateLimitWindowSeconds: 60,
	}
	validate := validator.New()
	validation.RegisterValidators(validate)
	contactUC := usecase.NewContactUsecase(cfg, validate,
		recaptcha.NewVerifier(""),
		mailer.NewDispatcher(mailer.NewClient("", "", "")))

	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:    contactUC,
		NewsletterUC: new(MockNewsletterUsecase),
		Config:       cfg,
	})

	w := postJSON(router, "/v1/contact", contactPayload())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestContactEndpointInvalidBody(t *testing.T) {
	router := newContactStack(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/contact", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newContactStack(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
