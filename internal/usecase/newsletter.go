package usecase

import (
	"context"
	"net/http"
	"strings"

	"go-millet-backend/config"
	"go-millet-backend/internal/domain"
	"go-millet-backend/pkg/apperror"
	"go-millet-backend/pkg/logger"
	"go-millet-backend/pkg/mailchimp"
	"go-millet-backend/pkg/mailer"
	"go-millet-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// ListConnector is the part of the Mailchimp client the usecase needs.
type ListConnector interface {
	UpsertMember(ctx context.Context, email, name string) (*mailchimp.Member, error)
	IsConfigured() bool
}

type newsletterUsecase struct {
	cfg        *config.Config
	validate   *validator.Validate
	repo       domain.SubscriberRepository
	list       ListConnector
	dispatcher PairDispatcher
}

// NewNewsletterUsecase creates a new newsletter usecase
func NewNewsletterUsecase(cfg *config.Config, validate *validator.Validate, repo domain.SubscriberRepository, list ListConnector, dispatcher PairDispatcher) domain.NewsletterUsecase {
	return &newsletterUsecase{
		cfg:        cfg,
		validate:   validate,
		repo:       repo,
		list:       list,
		dispatcher: dispatcher,
	}
}

// Subscribe upserts the CMS subscriber record (the primary, durable signal),
// then runs the list sync and the welcome/admin email pair. Once the record
// is upserted the caller gets success; secondary failures become warnings.
func (uc *newsletterUsecase) Subscribe(ctx context.Context, req *domain.SubscribeRequest) (*domain.SubscribeResult, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if strings.TrimSpace(req.Source) == "" {
		req.Source = domain.DefaultSubscribeSource
	}

	if err := uc.validate.Struct(req); err != nil {
		messages := validation.FormatValidationErrors(err)
		return nil, apperror.BadRequest(strings.Join(messages, ", "))
	}

	if !uc.cfg.SanityConfigured() {
		return nil, apperror.ServiceUnavailable("Newsletter service is temporarily unavailable. Please try again later.")
	}

	sanityID, err := uc.repo.Upsert(ctx, &domain.Subscriber{
		Email:  req.Email,
		Name:   req.Name,
		Source: req.Source,
	})
	if err != nil {
		logger.Log.Error("subscriber upsert failed", "email", req.Email, "error", err)
		return nil, apperror.New(http.StatusInternalServerError, "Failed to subscribe. Please try again later.", err)
	}

	result := &domain.SubscribeResult{SanityID: sanityID}

	uc.syncMarketingList(ctx, req, sanityID, result)
	uc.sendWelcomeEmails(ctx, req, result)

	return result, nil
}

// syncMarketingList mirrors the subscriber into Mailchimp. Failure here is
// isolated: the subscriber record is already durable.
func (uc *newsletterUsecase) syncMarketingList(ctx context.Context, req *domain.SubscribeRequest, sanityID string, result *domain.SubscribeResult) {
	if !uc.list.IsConfigured() {
		logger.Log.Info("mailchimp not configured, skipping list sync", "email", req.Email)
		return
	}

	member, err := uc.list.UpsertMember(ctx, req.Email, req.Name)
	if err != nil {
		logger.Log.Warn("mailchimp sync failed", "email", req.Email, "error", err)
		result.Warnings = append(result.Warnings, "Marketing list sync failed")
		return
	}

	result.MailchimpID = member.ID
	if member.AlreadySubscribed {
		logger.Log.Info("already on marketing list", "email", req.Email)
	}

	if err := uc.repo.AttachMailchimpID(ctx, sanityID, member.ID); err != nil {
		logger.Log.Warn("failed to store mailchimp id on subscriber record", "email", req.Email, "error", err)
	}
}

// sendWelcomeEmails dispatches the welcome email (primary) and the admin
// alert (best-effort) in parallel.
func (uc *newsletterUsecase) sendWelcomeEmails(ctx context.Context, req *domain.SubscribeRequest, result *domain.SubscribeResult) {
	if uc.cfg.MandrillAPIKey == "" {
		result.EmailResult = "skipped"
		logger.Log.Info("email service not configured, skipping welcome email", "email", req.Email)
		return
	}

	data := mailer.NewsletterEmailData{
		Name:   req.Name,
		Email:  req.Email,
		Source: req.Source,
	}

	welcome, err := mailer.NewsletterWelcome(data)
	if err != nil {
		result.EmailResult = "failed"
		result.Warnings = append(result.Warnings, "Welcome email could not be sent")
		logger.Log.Error("failed to build welcome email", "error", err)
		return
	}
	adminAlert, err := mailer.NewsletterAdminAlert(uc.cfg.AdminEmail, data)
	if err != nil {
		result.EmailResult = "failed"
		result.Warnings = append(result.Warnings, "Welcome email could not be sent")
		logger.Log.Error("failed to build admin alert email", "error", err)
		return
	}

	dispatch := uc.dispatcher.SendPair(ctx, welcome, adminAlert)

	// The welcome email is this flow's deliverable; the admin alert is not.
	if dispatch.PrimarySucceeded() {
		result.EmailResult = "sent"
	} else {
		result.EmailResult = "failed"
		result.Warnings = append(result.Warnings, "Welcome email could not be sent")
		logger.Log.Warn("welcome email failed", "email", req.Email, "error", dispatch.Primary.Error)
	}
	if !dispatch.Secondary.Success {
		logger.Log.Warn("newsletter admin notification failed", "admin", uc.cfg.AdminEmail, "error", dispatch.Secondary.Error)
	}
}

// Status looks up the CMS record for an email address.
func (uc *newsletterUsecase) Status(ctx context.Context, email string) (*domain.SubscriptionStatus, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, apperror.BadRequest("Email query parameter is required")
	}

	sub, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		logger.Log.Error("subscriber lookup failed", "email", email, "error", err)
		return nil, apperror.New(http.StatusInternalServerError, "Failed to look up subscription.", err)
	}
	if sub == nil {
		return &domain.SubscriptionStatus{Subscribed: false}, nil
	}

	status := &domain.SubscriptionStatus{
		Subscribed: sub.Subscribed,
		Source:     sub.Source,
	}
	if !sub.SubscribedAt.IsZero() {
		ts := sub.SubscribedAt
		status.SubscribedAt = &ts
	}
	return status, nil
}
