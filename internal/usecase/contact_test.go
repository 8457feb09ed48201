package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go-millet-backend/config"
	"go-millet-backend/internal/domain"
	"go-millet-backend/internal/usecase"
	"go-millet-backend/pkg/apperror"
	"go-millet-backend/pkg/mailer"
	"go-millet-backend/pkg/recaptcha"
	"go-millet-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock collaborators

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token string) recaptcha.Result {
	args := m.Called(ctx, token)
	return args.Get(0).(recaptcha.Result)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) SendPair(ctx context.Context, primary, secondary mailer.Message) mailer.DispatchResult {
	args := m.Called(ctx, primary, secondary)
	return args.Get(0).(mailer.DispatchResult)
}

func contactConfig() *config.Config {
	return &config.Config{
		RecaptchaSecretKey: "secret",
		MandrillAPIKey:     "key",
		AdminEmail:         "admin@truemillet.com",
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func validContact() *domain.ContactRequest {
	return &domain.ContactRequest{
		Name:             "Jo",
		Email:            "a@b.com",
		Phone:            "9876543210",
		OrganizationType: "School",
		Message:          "Hello there, need info",
		RecaptchaToken:   "03AGdBq24PBCbwiDRaS_MJ7Z",
	}
}

func statusCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.Code
}

func TestSubmitContactSuccess(t *testing.T) {
	verifier := new(MockVerifier)
	dispatcher := new(MockDispatcher)
	uc := usecase.NewContactUsecase(contactConfig(), newValidator(), verifier, dispatcher)

	verifier.On("Verify", mock.Anything, mock.Anything).Return(recaptcha.Result{Success: true})
	dispatcher.On("SendPair", mock.Anything, mock.Anything, mock.Anything).Return(mailer.DispatchResult{
		Primary:   mailer.SendResult{Success: true},
		Secondary: mailer.SendResult{Success: true},
	})

	err := uc.SubmitContact(context.Background(), validContact())
	assert.NoError(t, err)
	verifier.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

func TestSubmitContactMisconfigured(t *testing.T) {
	cfg := contactConfig()
	cfg.MandrillAPIKey = ""
	uc := usecase.NewContactUsecase(cfg, newValidator(), new(MockVerifier), new(MockDispatcher))

	err := uc.SubmitContact(context.Background(), validContact())
	assert.Equal(t, http.StatusServiceUnavailable, statusCode(t, err))
}

func TestSubmitContactCollectsAllValidationErrors(t *testing.T) {
	verifier := new(MockVerifier)
	uc := usecase.NewContactUsecase(contactConfig(), newValidator(), verifier, new(MockDispatcher))

	req := validContact()
	req.Name = "J"
	req.Phone = "12345"

	err := uc.SubmitContact(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
	assert.Contains(t, err.Error(), "Name must be at least 2 characters")
	assert.Contains(t, err.Error(), "Phone number must be a valid 10-digit mobile number")
	verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestSubmitContactNormalizesFormattedPhone(t *testing.T) {
	verifier := new(MockVerifier)
	dispatcher := new(MockDispatcher)
	uc := usecase.NewContactUsecase(contactConfig(), newValidator(), verifier, dispatcher)

	verifier.On("Verify", mock.Anything, mock.Anything).Return(recaptcha.Result{Success: true})
	dispatcher.On("SendPair", mock.Anything, mock.Anything, mock.Anything).Return(mailer.DispatchResult{
		Primary: mailer.SendResult{Success: true},
	})

	req := validContact()
	req.Phone = "+91 98765-43210"

	err := uc.SubmitContact(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, "9876543210", req.Phone)
}

func TestSubmitContactRejectsInvalidLeadingDigit(t *testing.T) {
	uc := usecase.NewContactUsecase(contactConfig(), newValidator(), new(MockVerifier), new(MockDispatcher))

	req := validContact()
	req.Phone = "5876543210"

	err := uc.SubmitContact(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
}

func TestSubmitContactOthersRequiresCustomOrganization(t *testing.T) {
	uc := usecase.NewContactUsecase(contactConfig(), newValidator(), new(MockVerifier), new(MockDispatcher))

	req := validContact()
	req.OrganizationType = "Others"

	err := uc.SubmitContact(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
	assert.Contains(t, err.Error(), "Organization name")

	req.CustomOrganization = "X"
	err = uc.SubmitContact(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
}

func TestSubmitContactChallengeRejected(t *testing.T) {
	verifier := new(MockVerifier)
	dispatcher := new(MockDispatcher)
	uc := usecase.NewContactUsecase(contactConfig(), newValidator(), verifier, dispatcher)

	verifier.On("Verify", mock.Anything, mock.Anything).Return(recaptcha.Result{Success: false, Reason: "Invalid reCAPTCHA token"})

	err := uc.SubmitContact(context.Background(), validContact())
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
	assert.Contains(t, err.Error(), "Invalid reCAPTCHA token")
	dispatcher.AssertNotCalled(t, "SendPair", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitContactSucceedsWhenOnlyAdminAlertDelivers(t *testing.T) {
	verifier := new(MockVerifier)
	dispatcher := new(MockDispatcher)
	uc := usecase.NewContactUsecase(contactConfig(), newValidator(), verifier, dispatcher)

	verifier.On("Verify", mock.Anything, mock.Anything).Return(recaptcha.Result{Success: true})
	dispatcher.On("SendPair", mock.Anything, mock.Anything, mock.Anything).Return(mailer.DispatchResult{
		Primary:   mailer.SendResult{Success: false, Error: "message rejected: hard-bounce"},
		Secondary: mailer.SendResult{Success: true},
	})

	err := uc.SubmitContact(context.Background(), validContact())
	assert.NoError(t, err, "one delivered message is enough for the contact flow")
}

func TestSubmitContactFailsWhenBothSendsFail(t *testing.T) {
	verifier := new(MockVerifier)
	dispatcher := new(MockDispatcher)
	uc := usecase.NewContactUsecase(contactConfig(), newValidator(), verifier, dispatcher)

	verifier.On("Verify", mock.Anything, mock.Anything).Return(recaptcha.Result{Success: true})
	dispatcher.On("SendPair", mock.Anything, mock.Anything, mock.Anything).Return(mailer.DispatchResult{
		Primary:   mailer.SendResult{Success: false, Error: "down"},
		Secondary: mailer.SendResult{Success: false, Error: "down"},
	})

	err := uc.SubmitContact(context.Background(), validContact())
	assert.Equal(t, http.StatusInternalServerError, statusCode(t, err))
}
