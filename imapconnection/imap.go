// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"fmt"
	"io"

	"github.com/CrawX/go-mail-triage/log"
	"github.com/CrawX/go-mail-triage/mail"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/sirupsen/logrus"
)

type RawImapMail struct {
	Uid        uint32
	Subject    string
	MailIdHash string
	RawMail    []byte
}

type ImapIdInfo struct {
	Uid        uint32
	Subject    string
	MailIdHash string
}

// ImapConnection is a read-only view on a single folder. Mails are fetched with BODY.PEEK so the \Seen flag is
// never touched.
type ImapConnection struct {
	connection *client.Client

	server, user string

	selectedFolder string

	l *logrus.Logger
}

func NewImapConnection(server string, user string, password string) (*ImapConnection, error) {
	imapClient, err := client.DialTLS(server, nil)
	if err != nil {
		return nil, fmt.Errorf("could not dial to imap: %w", err)
	}

	err = imapClient.Login(user, password)
	if err != nil {
		_ = imapClient.Logout()
		return nil, fmt.Errorf("could not login to imap: %w", err)
	}

	conn := &ImapConnection{
		connection: imapClient,
		server:     server,
		user:       user,
		l:          log.Logger(log.LOG_MAILBOX),
	}
	conn.l.WithFields(logrus.Fields{"server": server, "user": user}).Debug("Logged in to server")

	return conn, nil
}

func (ic *ImapConnection) Select(folder string) (uint32, error) {
	m, err := ic.connection.Select(folder, true)
	if err != nil {
		return 0, fmt.Errorf("could not select folder: %w", err)
	}

	ic.selectedFolder = folder
	ic.l.WithFields(logrus.Fields{"folder": folder, "messages": m.Messages}).Debug("Selected folder read-only")
	return m.UidValidity, nil
}

func (ic *ImapConnection) ListUids() ([]uint32, error) {
	// Get all UIDs in folder (empty search criteria)
	criteria := imap.NewSearchCriteria()
	ids, err := ic.connection.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("could not list folder: %w", err)
	}

	return ids, nil
}

func (ic *ImapConnection) FetchMails(uids []uint32) ([]*RawImapMail, error) {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)

	messages := make(chan *imap.Message, 10)
	fullBodySection := &imap.BodySectionName{
		Peek: true,
	}

	fetchItems := []imap.FetchItem{fullBodySection.FetchItem(), imap.FetchUid}
	done := make(chan error, 1)
	go func() {
		done <- ic.connection.UidFetch(seqset, fetchItems, messages)
	}()

	mails := []*RawImapMail{}
	var readErr error
	for msg := range messages {
		// keep draining so the fetch goroutine can finish
		if readErr != nil {
			continue
		}

		r := msg.GetBody(fullBodySection)
		if r == nil {
			readErr = fmt.Errorf("server returned no body for uid %d", msg.Uid)
			continue
		}
		rawBody, err := io.ReadAll(r)
		if err != nil {
			readErr = fmt.Errorf("could not read mail body: %w", err)
			continue
		}

		subject, mailIdHash, err := mail.MailHeaderInfos(rawBody)
		if err != nil {
			readErr = fmt.Errorf("could not parse mail header infos: %w", err)
			continue
		}

		mails = append(
			mails,
			&RawImapMail{
				Uid:        msg.Uid,
				Subject:    subject,
				MailIdHash: mailIdHash,
				RawMail:    rawBody,
			},
		)
	}

	err := <-done
	if err != nil {
		return nil, fmt.Errorf("could not fetch mails: %w", err)
	}
	if readErr != nil {
		return nil, readErr
	}

	return mails, nil
}

func (ic *ImapConnection) FetchIdHeaders(uids []uint32) ([]*ImapIdInfo, error) {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)
	section := &imap.BodySectionName{
		BodyPartName: imap.BodyPartName{
			Specifier: imap.HeaderSpecifier,
			Fields: []string{
				"Received",
				"Message-Id",
				"Subject",
			},
		},
		Peek: true,
	}
	fetchItems := []imap.FetchItem{section.FetchItem(), imap.FetchUid}

	out := make(chan *imap.Message)
	done := make(chan error, 1)
	go func() {
		done <- ic.connection.UidFetch(seqset, fetchItems, out)
	}()

	results := []*ImapIdInfo{}
	var readErr error
	for msg := range out {
		if readErr != nil {
			continue
		}

		r := msg.GetBody(section)
		if r == nil {
			readErr = fmt.Errorf("server returned no headers for uid %d", msg.Uid)
			continue
		}
		rawHeaders, err := io.ReadAll(r)
		if err != nil {
			readErr = fmt.Errorf("could not read mail headers: %w", err)
			continue
		}

		subject, mailIdHash, err := mail.MailHeaderInfos(rawHeaders)
		if err != nil {
			ic.l.WithFields(logrus.Fields{"uid": msg.Uid}).WithError(err).Warn("Ignoring mail without id headers")
			continue
		}

		results = append(
			results,
			&ImapIdInfo{
				Uid:        msg.Uid,
				Subject:    subject,
				MailIdHash: mailIdHash,
			},
		)
	}

	err := <-done
	if err != nil {
		return nil, fmt.Errorf("could not fetch mail headers: %w", err)
	}
	if readErr != nil {
		return nil, readErr
	}

	return results, nil
}

func (ic *ImapConnection) Close() error {
	return ic.connection.Logout()
}
