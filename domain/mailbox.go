// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/mailbox.go -package=mocks . MailboxReader
import "context"

type MailboxReader interface {
	// ListRecentMessageIds returns at most max identifiers, most recent first.
	ListRecentMessageIds(ctx context.Context, max int) ([]string, error)
	FetchBody(ctx context.Context, id string) (string, error)
}
