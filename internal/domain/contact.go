package domain

import "context"

// ContactRequest represents a contact form submission.
// Validation runs in the usecase after phone normalization; fields are
// declared in the order errors should be reported in.
type ContactRequest struct {
	Name               string `json:"name" validate:"required,min=2,max=50,person_name"`
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone" validate:"required,in_mobile"`
	OrganizationType   string `json:"organizationType" validate:"required"`
	CustomOrganization string `json:"customOrganization" validate:"required_if=OrganizationType Others,omitempty,min=2,max=50"`
	Message            string `json:"message" validate:"required,min=10,max=1000"`
	RecaptchaToken     string `json:"recaptchaToken" validate:"required"`
}

// Organization returns the effective organization label for notifications.
func (r *ContactRequest) Organization() string {
	if r.OrganizationType == "Others" && r.CustomOrganization != "" {
		return r.CustomOrganization
	}
	return r.OrganizationType
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SubmitContact validates the submission, verifies the bot challenge and
	// dispatches the confirmation/notification email pair.
	SubmitContact(ctx context.Context, req *ContactRequest) error
}
