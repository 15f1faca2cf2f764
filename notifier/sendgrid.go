// SPDX-License-Identifier: GPL-3.0-or-later
package notifier

import (
	"context"
	"fmt"

	"github.com/CrawX/go-mail-triage/log"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSendGridHost = "https://api.sendgrid.com"
	sendEndpoint        = "/v3/mail/send"
)

type SendGrid struct {
	apiKey   string
	host     string
	from, to *mail.Email
	subject  string

	l *logrus.Logger
}

func NewSendGrid(apiKey, host, from, to, subject string) (*SendGrid, error) {
	if len(apiKey) == 0 {
		return nil, fmt.Errorf("sendgrid api key must not be empty")
	}
	if len(from) == 0 || len(to) == 0 {
		return nil, fmt.Errorf("sendgrid sender and recipient must not be empty")
	}
	if len(host) == 0 {
		host = DefaultSendGridHost
	}

	return &SendGrid{
		apiKey:  apiKey,
		host:    host,
		from:    mail.NewEmail("", from),
		to:      mail.NewEmail("", to),
		subject: subject,
		l:       log.Logger(log.LOG_NOTIFIER),
	}, nil
}

func (s *SendGrid) Notify(ctx context.Context, text string) error {
	message := mail.NewV3MailInit(s.from, s.subject, s.to, mail.NewContent("text/plain", text))

	request := sendgrid.GetRequest(s.apiKey, sendEndpoint, s.host)
	request.Method = rest.Post
	request.Body = mail.GetRequestBody(message)

	response, err := rest.SendWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("could not send mail: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid api error: status %d, body: %s", response.StatusCode, response.Body)
	}

	s.l.WithFields(logrus.Fields{"to": s.to.Address, "status": response.StatusCode}).Debug("Sent notification mail")
	return nil
}
