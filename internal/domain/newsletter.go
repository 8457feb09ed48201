package domain

import (
	"context"
	"time"
)

// DefaultSubscribeSource is recorded when the frontend does not say where
// the signup came from.
const DefaultSubscribeSource = "homepage-footer"

// SubscribeRequest represents a newsletter signup.
type SubscribeRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"omitempty,min=2,max=50,person_name"`
	Source string `json:"source" validate:"omitempty,max=100"`
}

// Subscriber is the durable CMS record for a newsletter subscriber,
// keyed by email.
type Subscriber struct {
	ID           string    `json:"_id,omitempty"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	Source       string    `json:"source,omitempty"`
	Subscribed   bool      `json:"subscribed"`
	SubscribedAt time.Time `json:"subscribedAt"`
	MailchimpID  string    `json:"mailchimpId,omitempty"`
}

// SubscribeResult is returned to the frontend once the subscriber record is
// durably upserted. Secondary failures surface only as warnings.
type SubscribeResult struct {
	SanityID    string   `json:"sanityId"`
	MailchimpID string   `json:"mailchimpId,omitempty"`
	EmailResult string   `json:"emailResult"`
	Warnings    []string `json:"-"`
}

// SubscriptionStatus is the lookup result for GET requests.
type SubscriptionStatus struct {
	Subscribed   bool       `json:"subscribed"`
	SubscribedAt *time.Time `json:"subscribedAt,omitempty"`
	Source       string     `json:"source,omitempty"`
}

// SubscriberRepository is the CMS-backed store for subscriber records.
type SubscriberRepository interface {
	// FindByEmail returns nil when no record exists.
	FindByEmail(ctx context.Context, email string) (*Subscriber, error)
	// Upsert creates the record if absent, otherwise re-subscribes the
	// existing one and refreshes its timestamp. Returns the document id.
	Upsert(ctx context.Context, sub *Subscriber) (string, error)
	// AttachMailchimpID stores the marketing-list member id on the record.
	AttachMailchimpID(ctx context.Context, id, mailchimpID string) error
}

// NewsletterUsecase defines the interface for newsletter operations
type NewsletterUsecase interface {
	Subscribe(ctx context.Context, req *SubscribeRequest) (*SubscribeResult, error)
	Status(ctx context.Context, email string) (*SubscriptionStatus, error)
}
