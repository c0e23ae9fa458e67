package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/amimagid/ami-super-app/internal/config"
	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/wneessen/go-mail"
)

// Attachment is a file attached to an email.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is an HTML email.
type Message struct {
	To          []string
	Subject     string
	HTML        []byte
	Attachments []Attachment
}

// Mailer sends email.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPMailer sends mail through an SMTP relay, authenticating with PLAIN
// when a user is configured.
type SMTPMailer struct {
	cfg  config.MailConfig
	send func(ctx context.Context, msg *mail.Msg) error
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg}
	m.send = m.dialAndSend
	return m
}

// Send builds a multipart/mixed message and hands it to the relay.
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := m.build(msg)
	if err != nil {
		return err
	}
	if err := m.send(ctx, out); err != nil {
		return fmt.Errorf("sending mail via %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	return nil
}

func (m *SMTPMailer) build(msg *Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.cfg.From, err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetDate()
	out.SetMessageID()
	out.SetBodyString(mail.TypeTextHTML, string(msg.HTML))

	for _, a := range msg.Attachments {
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		err := out.AttachReader(a.Name, bytes.NewReader(a.Data), mail.WithFileContentType(mail.ContentType(ct)))
		if err != nil {
			return nil, fmt.Errorf("attaching %s: %w", a.Name, err)
		}
	}
	return out, nil
}

func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.User),
			mail.WithPassword(m.cfg.Password))
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// DecodeDataURL returns the payload of a base64 data URL such as
// "data:application/pdf;base64,JVBERi0...".
func DecodeDataURL(s string) ([]byte, error) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return nil, fmt.Errorf("not a data URL")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data URL: %w", err)
	}
	return data, nil
}

// ReportEmail builds the health log email: the rendered report as body,
// the client's PDF (when given) and a fresh XLSX export as attachments.
func ReportEmail(entries []models.HealthEntry, pdf []byte, to []string, now time.Time) (*Message, error) {
	var xlsx bytes.Buffer
	if err := WriteXLSX(&xlsx, entries); err != nil {
		return nil, err
	}

	day := now.Format("2006-01-02")
	msg := &Message{
		To:      to,
		Subject: "Health Log Report - " + now.Format("1/2/2006"),
		HTML:    HTML(Markdown(entries, now) + "\nBest regards,  \nYour Health Log App\n"),
	}
	if len(pdf) > 0 {
		msg.Attachments = append(msg.Attachments, Attachment{
			Name:        "health-log-report-" + day + ".pdf",
			ContentType: "application/pdf",
			Data:        pdf,
		})
	}
	msg.Attachments = append(msg.Attachments, Attachment{
		Name:        "health-log-" + day + ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        xlsx.Bytes(),
	})
	return msg, nil
}
