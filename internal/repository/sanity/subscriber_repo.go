package sanityrepo

import (
	"context"
	"fmt"
	"time"

	"go-millet-backend/internal/domain"
	"go-millet-backend/pkg/sanity"
)

const subscriberByEmailQuery = `*[_type == "subscriber" && email == $email][0]`

type subscriberRepository struct {
	client *sanity.Client
}

// NewSubscriberRepository creates a CMS-backed subscriber repository
func NewSubscriberRepository(client *sanity.Client) domain.SubscriberRepository {
	return &subscriberRepository{client: client}
}

type subscriberDoc struct {
	ID           string `json:"_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Source       string `json:"source"`
	Subscribed   bool   `json:"subscribed"`
	SubscribedAt string `json:"subscribedAt"`
	MailchimpID  string `json:"mailchimpId"`
}

func (r *subscriberRepository) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	var doc subscriberDoc
	found, err := r.client.Query(ctx, subscriberByEmailQuery, map[string]string{"email": email}, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriber: %w", err)
	}
	if !found {
		return nil, nil
	}

	sub := &domain.Subscriber{
		ID:          doc.ID,
		Email:       doc.Email,
		Name:        doc.Name,
		Source:      doc.Source,
		Subscribed:  doc.Subscribed,
		MailchimpID: doc.MailchimpID,
	}
	if ts, err := time.Parse(time.RFC3339, doc.SubscribedAt); err == nil {
		sub.SubscribedAt = ts
	}
	return sub, nil
}

// Upsert is a read-modify-write: concurrent submissions for the same email
// race with last-write-wins on the patched fields. Acceptable here since
// every write sets subscribed=true.
func (r *subscriberRepository) Upsert(ctx context.Context, sub *domain.Subscriber) (string, error) {
	existing, err := r.FindByEmail(ctx, sub.Email)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC().Format(time.RFC3339)

	if existing == nil {
		doc := map[string]interface{}{
			"_type":        "subscriber",
			"email":        sub.Email,
			"subscribed":   true,
			"subscribedAt": now,
		}
		if sub.Name != "" {
			doc["name"] = sub.Name
		}
		if sub.Source != "" {
			doc["source"] = sub.Source
		}

		result, err := r.client.Mutate(ctx, []map[string]interface{}{{"create": doc}})
		if err != nil {
			return "", fmt.Errorf("failed to create subscriber: %w", err)
		}
		if len(result.IDs) == 0 {
			return "", fmt.Errorf("sanity did not return a document id")
		}
		return result.IDs[0], nil
	}

	set := map[string]interface{}{
		"subscribed":   true,
		"subscribedAt": now,
	}
	if sub.Name != "" && existing.Name == "" {
		set["name"] = sub.Name
	}

	patch := map[string]interface{}{"patch": map[string]interface{}{
		"id":  existing.ID,
		"set": set,
	}}
	if _, err := r.client.Mutate(ctx, []map[string]interface{}{patch}); err != nil {
		return "", fmt.Errorf("failed to re-subscribe: %w", err)
	}
	return existing.ID, nil
}

func (r *subscriberRepository) AttachMailchimpID(ctx context.Context, id, mailchimpID string) error {
	patch := map[string]interface{}{"patch": map[string]interface{}{
		"id":  id,
		"set": map[string]interface{}{"mailchimpId": mailchimpID},
	}}
	if _, err := r.client.Mutate(ctx, []map[string]interface{}{patch}); err != nil {
		return fmt.Errorf("failed to attach mailchimp id: %w", err)
	}
	return nil
}
