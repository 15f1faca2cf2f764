// SPDX-License-Identifier: GPL-3.0-or-later
package gmailconnection

import (
	"context"
	"fmt"

	"github.com/CrawX/go-mail-triage/log"
	"github.com/CrawX/go-mail-triage/mail"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	user         = "me"
	DefaultLabel = "INBOX"
	// MaxListResults is the largest page the messages.list endpoint returns.
	MaxListResults = 500
)

type GmailConnection struct {
	service *gmail.Service
	label   string

	l *logrus.Logger
}

func NewGmailConnection(ctx context.Context, label string, opts ...option.ClientOption) (*GmailConnection, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create gmail service: %w", err)
	}

	if len(label) == 0 {
		label = DefaultLabel
	}

	return &GmailConnection{
		service: service,
		label:   label,
		l:       log.Logger(log.LOG_MAILBOX),
	}, nil
}

func (gc *GmailConnection) ListRecentMessageIds(ctx context.Context, max int) ([]string, error) {
	if max <= 0 || max > MaxListResults {
		return nil, fmt.Errorf("max must be between 1 and %d, got %d", MaxListResults, max)
	}

	resp, err := gc.service.Users.Messages.List(user).
		LabelIds(gc.label).
		MaxResults(int64(max)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("could not list messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}

	gc.l.WithFields(logrus.Fields{"label": gc.label, "messages": len(ids)}).Debug("Listed messages")
	return ids, nil
}

func (gc *GmailConnection) FetchBody(ctx context.Context, id string) (string, error) {
	msg, err := gc.service.Users.Messages.Get(user, id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("could not get message %s: %w", id, err)
	}

	extraction := ExtractBody(msg.Payload)

	fields := logrus.Fields{"id": id, "subject": mail.ShortSubject(subject(msg.Payload)), "length": len(extraction.Body)}
	if extraction.SkippedParts > 0 {
		gc.l.WithFields(fields).WithField("skipped", extraction.SkippedParts).Warn("Skipped undecodable or too deeply nested parts")
	}
	gc.l.WithFields(fields).Debug("Fetched message")

	return extraction.Body, nil
}

func subject(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if h.Name == "Subject" {
			decoded, err := mail.DecodeHeader(h.Value)
			if err != nil {
				return h.Value
			}
			return decoded
		}
	}
	return ""
}
