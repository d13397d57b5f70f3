package service

import (
	"context"
	"fmt"

	"github.com/knottin/enquiry-api/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OutboundMessage is a single composed email
type OutboundMessage struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

// Transport delivers one message through a mail provider
type Transport interface {
	Name() string
	Deliver(ctx context.Context, msg OutboundMessage) error
}

// MailService sends enquiry emails through a fixed transport
type MailService struct {
	transport Transport
	logger    *logging.Logger
}

// NewMailService creates a mail dispatcher bound to one transport
func NewMailService(transport Transport, logger *logging.Logger) *MailService {
	return &MailService{
		transport: transport,
		logger:    logger,
	}
}

// Send delivers exactly one message. Failures are returned as *DispatchError.
func (s *MailService) Send(ctx context.Context, msg OutboundMessage) error {
	ctx, span := otel.Tracer("enquiry-api/mail").Start(ctx, "mail.Send",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("mail.transport", s.transport.Name()))

	if msg.From == "" || msg.To == "" {
		err := &DispatchError{
			Transport: s.transport.Name(),
			Err:       fmt.Errorf("%w: sender and recipient are required", ErrInvalidMessage),
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.transport.Deliver(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("Failed to send mail via %s: %v", s.transport.Name(), err)
		return &DispatchError{Transport: s.transport.Name(), Err: err}
	}

	s.logger.Info("Sent %q to %s via %s", msg.Subject, msg.To, s.transport.Name())
	return nil
}
