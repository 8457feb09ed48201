package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-millet-backend/config"
	v1 "go-millet-backend/internal/delivery/http/v1"
	"go-millet-backend/internal/domain"
	"go-millet-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContactUsecase struct {
	mock.Mock
}

func (m *MockContactUsecase) SubmitContact(ctx context.Context, req *domain.ContactRequest) error {
	return m.Called(ctx, req).Error(0)
}

func newNewsletterRouter(newsletterUC domain.NewsletterUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return v1.NewRouter(v1.RouterDeps{
		ContactUC:    new(MockContactUsecase),
		NewsletterUC: newsletterUC,
		Config: &config.Config{
			RateLimitFormThreshold: 100,
			RateLimitWindowSeconds: 60,
		},
	})
}

func TestSubscribeEndpointSuccess(t *testing.T) {
	uc := new(MockNewsletterUsecase)
	uc.On("Subscribe", mock.Anything, mock.MatchedBy(func(r *domain.SubscribeRequest) bool {
		return r.Email == "x@y.com"
	})).Return(&domain.SubscribeResult{SanityID: "sub-1", MailchimpID: "mc-1", EmailResult: "sent"}, nil)

	router := newNewsletterRouter(uc)
	w := postJSON(router, "/v1/newsletter/subscribe", map[string]string{"email": "x@y.com"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Success  bool     `json:"success"`
		Warnings []string `json:"warnings"`
		Data     struct {
			SanityID    string `json:"sanityId"`
			MailchimpID string `json:"mailchimpId"`
			EmailResult string `json:"emailResult"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "sub-1", body.Data.SanityID)
	assert.Equal(t, "mc-1", body.Data.MailchimpID)
	assert.Equal(t, "sent", body.Data.EmailResult)
	assert.Empty(t, body.Warnings)
}

func TestSubscribeEndpointWarningsStaySoft(t *testing.T) {
	uc := new(MockNewsletterUsecase)
	uc.On("Subscribe", mock.Anything, mock.Anything).Return(&domain.SubscribeResult{
		SanityID:    "sub-1",
		EmailResult: "failed",
		Warnings:    []string{"Marketing list sync failed", "Welcome email could not be sent"},
	}, nil)

	router := newNewsletterRouter(uc)
	w := postJSON(router, "/v1/newsletter/subscribe", map[string]string{"email": "x@y.com"})

	require.Equal(t, http.StatusOK, w.Code, "secondary failures must not fail the response")
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), "Marketing list sync failed")
}

func TestSubscribeEndpointInvalidEmail(t *testing.T) {
	uc := new(MockNewsletterUsecase)
	uc.On("Subscribe", mock.Anything, mock.Anything).Return(nil, apperror.BadRequest("Email must be a valid email address"))

	router := newNewsletterRouter(uc)
	w := postJSON(router, "/v1/newsletter/subscribe", map[string]string{"email": "nope"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "valid email address")
}

func TestStatusEndpoint(t *testing.T) {
	uc := new(MockNewsletterUsecase)
	uc.On("Status", mock.Anything, "x@y.com").Return(&domain.SubscriptionStatus{
		Subscribed: true,
		Source:     "homepage-footer",
	}, nil)

	router := newNewsletterRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/v1/newsletter/subscribe?email=x@y.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subscribed":true`)
	assert.Contains(t, w.Body.String(), "homepage-footer")
}

func TestStatusEndpointRequiresEmailParam(t *testing.T) {
	router := newNewsletterRouter(new(MockNewsletterUsecase))

	req := httptest.NewRequest(http.MethodGet, "/v1/newsletter/subscribe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email query parameter is required")
}
