package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// implicitTLSPort is the SMTPS port where TLS starts before the greeting
const implicitTLSPort = "465"

// SMTP connection security modes
const (
	// SMTPSecurityAuto uses implicit TLS on 465 and STARTTLS on any other port
	SMTPSecurityAuto     = "auto"
	SMTPSecurityTLS      = "tls"
	SMTPSecuritySTARTTLS = "starttls"
	// SMTPSecurityNone sends in cleartext, only for local relays
	SMTPSecurityNone = "none"
)

// SMTPConfig holds SMTP server credentials
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Security string
	// RootCAs overrides the system pool when verifying the server certificate
	RootCAs *x509.CertPool
}

// SMTPTransport delivers mail through an authenticated SMTP account
type SMTPTransport struct {
	host     string
	port     string
	username string
	password string
	security string
	rootCAs  *x509.CertPool
	timeout  time.Duration
}

// NewSMTPTransport creates a new SMTP transport. Host and port are required.
func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if cfg.Host == "" || cfg.Port == "" {
		return nil, fmt.Errorf("SMTP host and port: %w", ErrNotConfigured)
	}

	security := cfg.Security
	if security == "" || security == SMTPSecurityAuto {
		security = SMTPSecuritySTARTTLS
		if cfg.Port == implicitTLSPort {
			security = SMTPSecurityTLS
		}
	}
	switch security {
	case SMTPSecurityTLS, SMTPSecuritySTARTTLS, SMTPSecurityNone:
	default:
		return nil, fmt.Errorf("unknown SMTP security mode %q: %w", cfg.Security, ErrNotConfigured)
	}

	return &SMTPTransport{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		security: security,
		rootCAs:  cfg.RootCAs,
		timeout:  30 * time.Second,
	}, nil
}

// Security reports the resolved connection mode
func (t *SMTPTransport) Security() string {
	return t.security
}

func (t *SMTPTransport) Name() string {
	return "smtp"
}

func (t *SMTPTransport) Deliver(ctx context.Context, msg OutboundMessage) error {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}

	data, err := buildMIMEMessage(msg)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	client, err := t.connect()
	if err != nil {
		return err
	}
	defer client.Close()

	if t.username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(sasl.NewPlainClient("", t.username, t.password)); err != nil {
				return err
			}
		}
	}

	if err := client.Mail(from.Address, nil); err != nil {
		return err
	}
	if err := client.Rcpt(to.Address, nil); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// connect opens a session secured according to the configured mode
func (t *SMTPTransport) connect() (*smtp.Client, error) {
	addr := net.JoinHostPort(t.host, t.port)
	tlsConfig := &tls.Config{ServerName: t.host, RootCAs: t.rootCAs}

	var client *smtp.Client
	var err error
	switch t.security {
	case SMTPSecurityTLS:
		client, err = smtp.DialTLS(addr, tlsConfig)
	case SMTPSecuritySTARTTLS:
		client, err = smtp.DialStartTLS(addr, tlsConfig)
	default:
		client, err = smtp.Dial(addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server %s (%s): %w", addr, t.security, err)
	}
	client.CommandTimeout = t.timeout
	client.SubmissionTimeout = t.timeout

	return client, nil
}

// buildMIMEMessage renders an RFC 5322 message with a quoted-printable HTML body
func buildMIMEMessage(msg OutboundMessage) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", msg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(msg.HTMLBody)); err != nil {
		return nil, fmt.Errorf("failed to encode message body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode message body: %w", err)
	}

	return buf.Bytes(), nil
}
