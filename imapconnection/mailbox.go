// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

//go:generate mockgen -destination=mailbox_mocks_test.go -package=imapconnection -source mailbox.go

import (
	"context"
	"fmt"
	"sort"

	"github.com/CrawX/go-mail-triage/log"
	"github.com/CrawX/go-mail-triage/mail"

	"github.com/sirupsen/logrus"
)

type fetcher interface {
	ListUids() ([]uint32, error)
	FetchIdHeaders(uids []uint32) ([]*ImapIdInfo, error)
	FetchMails(uids []uint32) ([]*RawImapMail, error)
}

// Mailbox lists the selected folder newest first. Message ids are header hashes so they survive UID renumbering of
// the folder; the UIDs behind them are remembered from the last listing.
type Mailbox struct {
	conn fetcher
	uids map[string]uint32

	l *logrus.Logger
}

func NewMailbox(conn fetcher) *Mailbox {
	return &Mailbox{
		conn: conn,
		uids: map[string]uint32{},
		l:    log.Logger(log.LOG_MAILBOX),
	}
}

func (m *Mailbox) ListRecentMessageIds(ctx context.Context, max int) ([]string, error) {
	if max <= 0 {
		return nil, fmt.Errorf("max must be positive, got %d", max)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	uids, err := m.conn.ListUids()
	if err != nil {
		return nil, fmt.Errorf("could not list uids: %w", err)
	}
	if len(uids) == 0 {
		return []string{}, nil
	}

	sort.Slice(uids, func(i, j int) bool { return uids[i] > uids[j] })
	if len(uids) > max {
		uids = uids[:max]
	}

	infos, err := m.conn.FetchIdHeaders(uids)
	if err != nil {
		return nil, fmt.Errorf("could not fetch id headers: %w", err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Uid > infos[j].Uid })

	m.uids = map[string]uint32{}
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		if _, seen := m.uids[info.MailIdHash]; seen {
			m.l.WithFields(logrus.Fields{"uid": info.Uid, "subject": mail.ShortSubject(info.Subject)}).Debug("Skipping duplicate mail")
			continue
		}
		m.uids[info.MailIdHash] = info.Uid
		ids = append(ids, info.MailIdHash)
	}

	return ids, nil
}

func (m *Mailbox) FetchBody(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	uid, ok := m.uids[id]
	if !ok {
		return "", fmt.Errorf("unknown message id %s", id)
	}

	mails, err := m.conn.FetchMails([]uint32{uid})
	if err != nil {
		return "", fmt.Errorf("could not fetch mail %d: %w", uid, err)
	}
	if len(mails) != 1 {
		return "", fmt.Errorf("expected one mail for uid %d, got %d", uid, len(mails))
	}

	extraction, err := mail.ExtractPlainText(mails[0].RawMail)
	if err != nil {
		return "", fmt.Errorf("could not extract text of mail %d: %w", uid, err)
	}

	fields := logrus.Fields{"uid": uid, "subject": mail.ShortSubject(mails[0].Subject), "length": len(extraction.Body)}
	if extraction.SkippedParts > 0 {
		m.l.WithFields(fields).WithField("skipped", extraction.SkippedParts).Warn("Skipped too deeply nested parts")
	}
	m.l.WithFields(fields).Debug("Fetched mail")

	return extraction.Body, nil
}
