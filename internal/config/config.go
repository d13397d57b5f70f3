package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Mail transports supported by the dispatcher
const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
)

// Config holds all configuration for the application.
// It is loaded once at startup and treated as read-only afterwards.
type Config struct {
	// Server Configuration
	Environment    string `env:"ENV" envDefault:"development"`
	Port           string `env:"PORT" envDefault:"8080"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFile        string `env:"LOG_FILE"`
	LogRequests    bool   `env:"LOG_REQUESTS" envDefault:"false"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	MaxBodyBytes   int64  `env:"MAX_BODY_BYTES" envDefault:"1048576" validate:"gt=0"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Email Reputation Configuration
	AbstractAPIKey     string        `env:"ABSTRACT_API_KEY"`
	ReputationURL      string        `env:"ABSTRACT_API_URL" envDefault:"https://emailreputation.abstractapi.com/v1/" validate:"required,url"`
	ReputationTimeout  time.Duration `env:"ABSTRACT_API_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	ValidationFailOpen bool          `env:"EMAIL_VALIDATION_FAIL_OPEN" envDefault:"true"`

	// Mail Configuration
	MailTransport string `env:"MAIL_TRANSPORT" envDefault:"smtp" validate:"oneof=smtp ses"`
	SMTPHost      string `env:"SMTP_HOST" envDefault:"smtp.gmail.com" validate:"required_if=MailTransport smtp"`
	SMTPPort      string `env:"SMTP_PORT" envDefault:"465" validate:"required_if=MailTransport smtp"`
	SMTPSecurity  string `env:"SMTP_SECURITY" envDefault:"auto" validate:"oneof=auto tls starttls none"`
	SMTPUsername  string `env:"EMAIL"`
	SMTPPassword  string `env:"PASSWORD"`
	SenderAddress string `env:"MAIL_FROM_ADDRESS" validate:"required,email"`
	SenderName    string `env:"MAIL_FROM_NAME" envDefault:"Knottin Website"`

	// AWS SES Configuration
	AWSRegion    string `env:"AWS_REGION" envDefault:"us-east-1" validate:"required_if=MailTransport ses"`
	AWSAccessKey string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey string `env:"AWS_SECRET_ACCESS_KEY"`

	// Enquiry Configuration
	EnquiryInbox        string `env:"ENQUIRY_INBOX" envDefault:"knottin_schoolcare@live.com" validate:"required,email"`
	EnquirySubject      string `env:"ENQUIRY_SUBJECT" envDefault:"New Enquiry Received" validate:"required"`
	EnquiryTemplatePath string `env:"ENQUIRY_TEMPLATE_PATH" envDefault:"emailTemplateEnquire.html" validate:"required"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	envLocations := []string{".env"}

	// If ENV is set, try to load that specific file first
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		// godotenv.Load never overrides variables that are already set
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	return Parse()
}

// Parse builds the configuration from the current process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	// The authenticated SMTP account doubles as the sender unless overridden
	if cfg.SenderAddress == "" {
		cfg.SenderAddress = cfg.SMTPUsername
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints declared in the struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the trimmed list of CORS origins
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
