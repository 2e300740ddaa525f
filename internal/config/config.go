// Package config loads environment-driven application configuration.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration, loaded once at startup.
type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	JWTAccessSecret string
	CORSAllowAll    bool
	CORSOrigins     []string

	// AppBaseURL is the customer portal origin, used for deep links in
	// customer-facing emails.
	AppBaseURL string
	// AdminBaseURL is the back-office origin, used for deep links in
	// intake emails.
	AdminBaseURL string

	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	// IntakeRecipients is the fixed internal distribution list that receives
	// quote-request and contact intake notifications.
	IntakeRecipients []string
}

// Load reads configuration from the environment (and .env in development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JWTAccessSecret:  getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:4200"),
		AdminBaseURL:     getEnv("ADMIN_BASE_URL", "http://localhost:4300"),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Meridian Freight"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", "noreply@meridianfreight.example"),
		IntakeRecipients: splitCSV(getEnv("INTAKE_RECIPIENTS", "")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.SMTPHost != "" && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP_HOST is set")
	}

	return cfg, nil
}

// GetDatabaseURL implements the platform db.Config interface.
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// GetCORSAllowAll reports whether CORS allows any origin.
func (c *Config) GetCORSAllowAll() bool { return c.CORSAllowAll }

// GetCORSOrigins returns the allowed CORS origins.
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// GetJWTAccessSecret implements the httpkit.JWTConfig interface.
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// GetAppBaseURL returns the customer portal origin.
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }

// GetAdminBaseURL returns the back-office origin.
func (c *Config) GetAdminBaseURL() string { return c.AdminBaseURL }

// GetIntakeRecipients returns the internal intake distribution list.
func (c *Config) GetIntakeRecipients() []string { return c.IntakeRecipients }

// MailConfigured reports whether an SMTP transport can be constructed.
// When false the application runs with the logging transport ("demo mode").
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

// GetSMTPHost returns the SMTP server hostname.
func (c *Config) GetSMTPHost() string { return c.SMTPHost }

// GetSMTPPort returns the SMTP server port.
func (c *Config) GetSMTPPort() int { return c.SMTPPort }

// GetSMTPUsername returns the SMTP auth username.
func (c *Config) GetSMTPUsername() string { return c.SMTPUsername }

// GetSMTPPassword returns the SMTP auth password.
func (c *Config) GetSMTPPassword() string { return c.SMTPPassword }

// GetEmailFromName returns the display name for outbound email.
func (c *Config) GetEmailFromName() string { return c.EmailFromName }

// GetEmailFromAddress returns the sender address for outbound email.
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
