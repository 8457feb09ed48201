package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	FrontendURL string
	// reCAPTCHA (server-side verification)
	RecaptchaSecretKey string
	// Mandrill (transactional email)
	MandrillAPIKey string
	EmailFrom      string
	EmailFromName  string
	AdminEmail     string
	// Mailchimp (marketing list)
	MailchimpAPIKey       string
	MailchimpAudienceID   string
	MailchimpServerPrefix string
	// Sanity (headless CMS, durable subscriber tracking)
	SanityProjectID  string
	SanityDataset    string
	SanityAPIToken   string
	SanityAPIVersion string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds int
	RateLimitFormThreshold int
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; ignored in production
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		RecaptchaSecretKey: getEnv("RECAPTCHA_SECRET_KEY", ""),

		MandrillAPIKey: getEnv("MANDRILL_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "hello@truemillet.com"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "TrueMillet"),
		AdminEmail:     getEnv("ADMIN_EMAIL", ""),

		MailchimpAPIKey:       getEnv("MAILCHIMP_API_KEY", ""),
		MailchimpAudienceID:   getEnv("MAILCHIMP_AUDIENCE_ID", ""),
		MailchimpServerPrefix: getEnv("MAILCHIMP_SERVER_PREFIX", ""),

		SanityProjectID:  getEnv("SANITY_PROJECT_ID", ""),
		SanityDataset:    getEnv("SANITY_DATASET", "production"),
		SanityAPIToken:   getEnv("SANITY_API_TOKEN", ""),
		SanityAPIVersion: getEnv("SANITY_API_VERSION", "2021-10-21"),

		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),

		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitFormThreshold: getEnvInt("RATE_LIMIT_FORM_THRESHOLD", 10),
	}

	// If the Mailchimp server prefix was not set explicitly, derive it from
	// the API key suffix ("<key>-us21" style keys).
	if cfg.MailchimpServerPrefix == "" && strings.Contains(cfg.MailchimpAPIKey, "-") {
		parts := strings.Split(cfg.MailchimpAPIKey, "-")
		cfg.MailchimpServerPrefix = parts[len(parts)-1]
	}

	if cfg.MandrillAPIKey == "" {
		log.Println("WARNING: MANDRILL_API_KEY is missing. Contact and newsletter emails will be unavailable.")
	}
	if !cfg.SanityConfigured() {
		log.Println("WARNING: Sanity credentials missing. Newsletter subscriptions cannot be recorded.")
	}
	if !cfg.MailchimpConfigured() {
		log.Println("WARNING: Mailchimp not fully configured. Marketing list sync is disabled.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// ContactConfigured reports whether the contact flow has every secret it
// needs before any processing starts (reCAPTCHA + email delivery).
func (c *Config) ContactConfigured() bool {
	return c.RecaptchaSecretKey != "" && c.MandrillAPIKey != "" && c.AdminEmail != ""
}

// SanityConfigured reports whether subscriber records can be persisted.
func (c *Config) SanityConfigured() bool {
	return c.SanityProjectID != "" && c.SanityAPIToken != ""
}

// MailchimpConfigured reports whether list sync is available. The newsletter
// flow degrades gracefully when it is not.
func (c *Config) MailchimpConfigured() bool {
	return c.MailchimpAPIKey != "" && c.MailchimpAudienceID != "" && c.MailchimpServerPrefix != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
