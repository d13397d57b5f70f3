package server

import (
	"context"
	"fmt"

	"github.com/knottin/enquiry-api/internal/config"
	"github.com/knottin/enquiry-api/internal/logging"
	"github.com/knottin/enquiry-api/internal/service"
)

// Services holds the enquiry pipeline collaborators
type Services struct {
	Validator *service.EmailValidationService
	Templates *service.TemplateService
	Mail      *service.MailService
}

// NewServices builds the pipeline services from configuration
func NewServices(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Services, error) {
	reputation := service.NewReputationService(service.ReputationConfig{
		APIKey:  cfg.AbstractAPIKey,
		BaseURL: cfg.ReputationURL,
		Timeout: cfg.ReputationTimeout,
	})

	policy := service.FailOpen
	if !cfg.ValidationFailOpen {
		policy = service.FailClosed
	}

	transport, err := NewTransport(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Services{
		Validator: service.NewEmailValidationService(reputation, policy, logger),
		Templates: service.NewTemplateService(logger),
		Mail:      service.NewMailService(transport, logger),
	}, nil
}

// NewTransport creates the mail transport selected by MAIL_TRANSPORT
func NewTransport(ctx context.Context, cfg *config.Config) (service.Transport, error) {
	switch cfg.MailTransport {
	case config.TransportSMTP:
		return service.NewSMTPTransport(service.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Security: cfg.SMTPSecurity,
		})
	case config.TransportSES:
		return service.NewSESTransport(ctx, service.SESConfig{
			Region:    cfg.AWSRegion,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown mail transport %q: %w", cfg.MailTransport, logging.ErrInvalidConfig)
	}
}
