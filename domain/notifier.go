// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/notifier.go -package=mocks . Notifier
import "context"

type Notifier interface {
	Notify(ctx context.Context, text string) error
}
