package interfaces

import (
	"context"

	"github.com/knottin/enquiry-api/internal/service"
)

// EmailValidator decides whether a submitted address may be used
type EmailValidator interface {
	Validate(ctx context.Context, email string) service.Verdict
}

// TemplateRenderer renders an HTML template file with named variables
type TemplateRenderer interface {
	Render(path string, variables map[string]any) (string, error)
}

// MailDispatcher sends a single composed message
type MailDispatcher interface {
	Send(ctx context.Context, msg service.OutboundMessage) error
}
