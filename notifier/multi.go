// SPDX-License-Identifier: GPL-3.0-or-later
package notifier

import (
	"context"
	"errors"

	"github.com/CrawX/go-mail-triage/domain"
)

// Multi forwards every text to all of its notifiers, even when some of them fail.
type Multi []domain.Notifier

func (m Multi) Notify(ctx context.Context, text string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
