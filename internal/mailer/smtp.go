// Package mailer delivers magic link emails over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"

	"github.com/dmarkhas/tasklane-server/internal/logger"
	"github.com/dmarkhas/tasklane-server/internal/model"
)

var _ model.Notifier = (*SMTP)(nil)

const signInSubject = "Sign in to Tasklane"

// signInTemplate is the body of the magic link mail.
const signInTemplate = `Hi,

Click the link below to sign in to Tasklane. It expires in {{.Minutes}} minutes.

{{.Link}}

If you didn't request this email, you can safely ignore it.

Tasklane
`

// SMTP sends mail through a single configured relay.
type SMTP struct {
	host   string
	port   int
	user   string
	pass   string
	from   string
	tmpl   *template.Template
	logger *logger.Logger
}

func NewSMTP(host string, port int, user, pass, from string, logger *logger.Logger) *SMTP {
	return &SMTP{
		host:   host,
		port:   port,
		user:   user,
		pass:   pass,
		from:   from,
		tmpl:   template.Must(template.New("signin").Parse(signInTemplate)),
		logger: logger,
	}
}

// Send delivers the magic link. The error is surfaced to the caller; a
// failed delivery must fail the issue operation.
func (s *SMTP) Send(ctx context.Context, email, linkURL string) error {
	body, err := s.render(email, linkURL)
	if err != nil {
		return fmt.Errorf("failed to render sign-in mail: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{email}, body); err != nil {
		return fmt.Errorf("failed to send sign-in mail: %w", err)
	}

	s.logger.Info("sign-in mail sent", "email", email)
	return nil
}

func (s *SMTP) render(email, linkURL string) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", s.from)
	fmt.Fprintf(&buf, "To: %s\r\n", email)
	fmt.Fprintf(&buf, "Subject: %s\r\n", signInSubject)
	buf.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	err := s.tmpl.Execute(&buf, struct {
		Link    string
		Minutes int
	}{
		Link:    linkURL,
		Minutes: int(model.LoginLinkTTL.Minutes()),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
