package main

import (
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
)

// Config is everything the server reads from the environment (.env is loaded
// automatically).
type Config struct {
	Port         string
	DBPath       string
	ContentDir   string
	TemplateGlob string
	WatchContent bool

	MailchimpAPIKey string
	MailchimpListID string
	MailchimpDC     string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	ToEmail  string

	AdminUsername string
	AdminPassword string
	HashSalt      string
}

func loadConfig() Config {
	cfg := Config{
		Port:         getenv("PORT", "8080"),
		DBPath:       getenv("DB_PATH", "portfolio.db"),
		ContentDir:   getenv("CONTENT_DIR", "content"),
		TemplateGlob: getenv("TEMPLATE_GLOB", "templates/*"),

		MailchimpAPIKey: os.Getenv("MAILCHIMP_API_KEY"),
		MailchimpListID: os.Getenv("MAILCHIMP_LIST_ID"),
		MailchimpDC:     os.Getenv("MAILCHIMP_DC"),

		// Default values for development
		SMTPHost: getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getenv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		ToEmail:  getenv("TO_EMAIL", "hello@adrianglazer.dev"),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		HashSalt:      os.Getenv("HASH_SALT"),
	}

	// Hot reload content while developing unless explicitly turned off.
	watch := strings.ToLower(os.Getenv("WATCH_CONTENT"))
	cfg.WatchContent = watch == "1" || watch == "true" || (watch == "" && gin.Mode() == gin.DebugMode)
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
