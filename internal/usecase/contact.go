package usecase

import (
	"context"
	"net/http"
	"strings"

	"go-millet-backend/config"
	"go-millet-backend/internal/domain"
	"go-millet-backend/pkg/apperror"
	"go-millet-backend/pkg/logger"
	"go-millet-backend/pkg/mailer"
	"go-millet-backend/pkg/recaptcha"
	"go-millet-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// ChallengeVerifier is the part of the reCAPTCHA client the usecases need.
type ChallengeVerifier interface {
	Verify(ctx context.Context, token string) recaptcha.Result
}

// PairDispatcher issues a primary/secondary email pair and waits for both
// attempts to settle.
type PairDispatcher interface {
	SendPair(ctx context.Context, primary, secondary mailer.Message) mailer.DispatchResult
}

type contactUsecase struct {
	cfg        *config.Config
	validate   *validator.Validate
	verifier   ChallengeVerifier
	dispatcher PairDispatcher
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(cfg *config.Config, validate *validator.Validate, verifier ChallengeVerifier, dispatcher PairDispatcher) domain.ContactUsecase {
	return &contactUsecase{
		cfg:        cfg,
		validate:   validate,
		verifier:   verifier,
		dispatcher: dispatcher,
	}
}

// SubmitContact runs the full intake pipeline: misconfiguration check,
// validation, challenge verification, then dual dispatch. Expected failures
// come back as AppErrors with the right status.
func (uc *contactUsecase) SubmitContact(ctx context.Context, req *domain.ContactRequest) error {
	// Detect missing secrets before any processing or outbound call
	if !uc.cfg.ContactConfigured() {
		return apperror.ServiceUnavailable("Contact service is temporarily unavailable. Please try again later.")
	}

	normalize(req)

	if err := uc.validate.Struct(req); err != nil {
		messages := validation.FormatValidationErrors(err)
		return apperror.BadRequest(strings.Join(messages, ", "))
	}

	if result := uc.verifier.Verify(ctx, req.RecaptchaToken); !result.Success {
		logger.Log.Warn("contact challenge rejected", "reason", result.Reason, "email", req.Email)
		return apperror.BadRequest(result.Reason)
	}

	data := mailer.ContactEmailData{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Organization: req.Organization(),
		Message:      req.Message,
	}

	confirmation, err := mailer.ContactConfirmation(data)
	if err != nil {
		return apperror.Internal(err)
	}
	adminAlert, err := mailer.ContactAdminAlert(uc.cfg.AdminEmail, data)
	if err != nil {
		return apperror.Internal(err)
	}

	result := uc.dispatcher.SendPair(ctx, confirmation, adminAlert)
	if !result.Primary.Success {
		logger.Log.Warn("contact confirmation email failed", "email", req.Email, "error", result.Primary.Error)
	}
	if !result.Secondary.Success {
		logger.Log.Warn("contact admin notification failed", "admin", uc.cfg.AdminEmail, "error", result.Secondary.Error)
	}

	// The submission already happened; reaching either the submitter or the
	// admin counts as delivered.
	if !result.AnySucceeded() {
		return apperror.New(http.StatusInternalServerError, "Failed to send your message. Please try again later.", nil)
	}

	return nil
}

func normalize(req *domain.ContactRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = validation.NormalizePhone(req.Phone)
	req.OrganizationType = strings.TrimSpace(req.OrganizationType)
	req.CustomOrganization = strings.TrimSpace(req.CustomOrganization)
	req.Message = strings.TrimSpace(req.Message)
}
