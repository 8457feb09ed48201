package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template data for the contact-form emails.
type ContactEmailData struct {
	Name         string
	Email        string
	Phone        string
	Organization string
	Message      string
}

// Template data for the newsletter emails.
type NewsletterEmailData struct {
	Name   string
	Email  string
	Source string
}

const contactAdminTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #5c7a29; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #5c7a29; margin-top: 10px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Contact Form Submission</h1>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">From:</div>
                <div>{{.Name}} ({{.Email}})</div>
            </div>
            <div class="field">
                <div class="label">Phone:</div>
                <div>{{.Phone}}</div>
            </div>
            <div class="field">
                <div class="label">Organization:</div>
                <div>{{.Organization}}</div>
            </div>
            <div class="field">
                <div class="label">Message:</div>
                <div class="message-box">{{.Message}}</div>
            </div>
        </div>
        <div class="footer">
            <p>Sent from the TrueMillet website contact form.</p>
            <p>To reply, send an email to: {{.Email}}</p>
        </div>
    </div>
</body>
</html>`

const contactConfirmationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>We received your message</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #5c7a29; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Thanks for reaching out!</h1>
        </div>
        <div class="content">
            <p>Hi {{.Name}},</p>
            <p>We received your message and will get back to you within one business day.</p>
            <p>In the meantime, feel free to browse our millet recipes and products on the website.</p>
            <p>Warm regards,<br>The TrueMillet Team</p>
        </div>
        <div class="footer">
            <p>You are receiving this email because you contacted us through truemillet.com.</p>
        </div>
    </div>
</body>
</html>`

const newsletterWelcomeTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Welcome to the TrueMillet newsletter</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #5c7a29; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Welcome aboard!</h1>
        </div>
        <div class="content">
            <p>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</p>
            <p>You are now subscribed to the TrueMillet newsletter. Expect seasonal recipes,
            new product announcements, and the occasional millet deep-dive.</p>
            <p>Warm regards,<br>The TrueMillet Team</p>
        </div>
        <div class="footer">
            <p>You subscribed with {{.Email}} on truemillet.com.</p>
        </div>
    </div>
</body>
</html>`

const newsletterAdminTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Newsletter Subscriber</title>
</head>
<body>
    <p>New newsletter subscriber:</p>
    <ul>
        <li>Email: {{.Email}}</li>
        <li>Name: {{if .Name}}{{.Name}}{{else}}(not given){{end}}</li>
        <li>Source: {{.Source}}</li>
    </ul>
</body>
</html>`

var (
	contactAdminTmpl        = template.Must(template.New("contact_admin").Parse(contactAdminTemplate))
	contactConfirmationTmpl = template.Must(template.New("contact_confirmation").Parse(contactConfirmationTemplate))
	newsletterWelcomeTmpl   = template.Must(template.New("newsletter_welcome").Parse(newsletterWelcomeTemplate))
	newsletterAdminTmpl     = template.Must(template.New("newsletter_admin").Parse(newsletterAdminTemplate))
)

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template %q: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// ContactConfirmation builds the submitter-facing confirmation message.
func ContactConfirmation(data ContactEmailData) (Message, error) {
	html, err := render(contactConfirmationTmpl, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      data.Email,
		ToName:  data.Name,
		Subject: "We received your message",
		HTML:    html,
	}, nil
}

// ContactAdminAlert builds the admin-facing alert, reply-to the submitter.
func ContactAdminAlert(adminEmail string, data ContactEmailData) (Message, error) {
	html, err := render(contactAdminTmpl, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      adminEmail,
		Subject: fmt.Sprintf("Contact form: %s", data.Name),
		HTML:    html,
		ReplyTo: data.Email,
	}, nil
}

// NewsletterWelcome builds the subscriber welcome message.
func NewsletterWelcome(data NewsletterEmailData) (Message, error) {
	html, err := render(newsletterWelcomeTmpl, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      data.Email,
		ToName:  data.Name,
		Subject: "Welcome to the TrueMillet newsletter",
		HTML:    html,
	}, nil
}

// NewsletterAdminAlert builds the best-effort admin notification.
func NewsletterAdminAlert(adminEmail string, data NewsletterEmailData) (Message, error) {
	html, err := render(newsletterAdminTmpl, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      adminEmail,
		Subject: fmt.Sprintf("New newsletter subscriber: %s", data.Email),
		HTML:    html,
	}, nil
}
