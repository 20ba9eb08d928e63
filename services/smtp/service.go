package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/courieros/courierstack/config"
	"github.com/courieros/courierstack/dto"
	"github.com/courieros/courierstack/interfaces"
	"github.com/courieros/courierstack/internal/tracing"
	"github.com/courieros/courierstack/internal/utils"
)

type smtpService struct {
	cfg *config.SMTPConfig
}

func NewSMTPService(cfg *config.SMTPConfig) interfaces.SMTPService {
	return &smtpService{cfg: cfg}
}

// NewSession dials the submission relay, upgrades to TLS and authenticates.
// The returned session is reused for every message of a dispatch run and must
// be closed by the caller.
func (s *smtpService) NewSession(ctx context.Context) (interfaces.MailSession, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "SMTPService.NewSession")
	defer span.Finish()
	span.LogKV("smtp_server", s.cfg.Host)
	span.LogKV("smtp_port", s.cfg.Port)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		err = fmt.Errorf("failed to connect to SMTP server: %w", err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		err = fmt.Errorf("failed to create SMTP client: %w", err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	tlsConfig := &tls.Config{
		ServerName: s.cfg.Host,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		client.Close()
		err = fmt.Errorf("failed to start TLS: %w", err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err = client.Auth(auth); err != nil {
		client.Close()
		err = fmt.Errorf("SMTP authentication failed: %w", err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &session{client: client, cfg: s.cfg}, nil
}

type session struct {
	client *smtp.Client
	cfg    *config.SMTPConfig
}

// Send submits one composed message over the open session.
func (s *session) Send(ctx context.Context, message *dto.OutgoingEmail) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "SMTPSession.Send")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.LogKV("to", message.To)

	if err := s.validateMessage(ctx, message); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	buffer, err := s.buildMessage(ctx, message)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	if err := s.client.Mail(message.From); err != nil {
		err = fmt.Errorf("SMTP MAIL command failed: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	for _, recipient := range utils.UniqueEmails(message.AllRecipients()) {
		if err := s.client.Rcpt(recipient); err != nil {
			err = fmt.Errorf("SMTP RCPT command failed for %s: %w", recipient, err)
			tracing.TraceErr(span, err)
			return err
		}
	}

	dataWriter, err := s.client.Data()
	if err != nil {
		err = fmt.Errorf("SMTP DATA command failed: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	if _, err = dataWriter.Write(buffer.Bytes()); err != nil {
		err = fmt.Errorf("failed to write email data: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	if err = dataWriter.Close(); err != nil {
		err = fmt.Errorf("failed to finalize email data: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

func (s *session) Close() error {
	return s.client.Quit()
}

func (s *session) validateMessage(ctx context.Context, message *dto.OutgoingEmail) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.From == "" {
		return errors.New("from address is required")
	}
	if message.To == "" {
		return errors.New("at least one recipient is required")
	}
	if message.Subject == "" {
		return errors.New("message must have a subject")
	}
	if message.BodyText == "" {
		return errors.New("message must have text content")
	}
	if message.MessageID == "" {
		message.MessageID = utils.GenerateMessageID(utils.ExtractDomainFromEmail(message.From), "")
	}
	return nil
}

// buildMessage renders the message as a multipart MIME document with a single
// plain-text part.
func (s *session) buildMessage(ctx context.Context, message *dto.OutgoingEmail) (*bytes.Buffer, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "SMTPSession.buildMessage")
	defer span.Finish()

	buffer := bytes.NewBuffer(nil)
	writer := multipart.NewWriter(buffer)

	headers := []header{
		{"From", message.From},
		{"To", message.To},
	}
	if message.Cc != "" {
		headers = append(headers, header{"Cc", message.Cc})
	}
	headers = append(headers,
		header{"Subject", message.Subject},
		header{"Message-ID", message.MessageID},
		header{"Date", time.Now().UTC().Format(time.RFC1123Z)},
		header{"MIME-Version", "1.0"},
		header{"Content-Type", "multipart/mixed; boundary=" + writer.Boundary()},
	)
	tracing.LogObjectAsJson(span, "headers", headers)

	writeHeaders(headers, buffer)

	textPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=UTF-8"},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create text part: %w", err)
	}
	if _, err = textPart.Write([]byte(message.BodyText)); err != nil {
		return nil, fmt.Errorf("failed to write text content: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buffer, nil
}

type header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// writeHeaders writes email headers to the buffer in a fixed order so two
// renderings of the same message are byte-identical.
func writeHeaders(headers []header, buffer *bytes.Buffer) {
	for _, h := range headers {
		buffer.WriteString(fmt.Sprintf("%s: %s\r\n", h.Name, h.Value))
	}
	buffer.WriteString("\r\n")
}
