// SPDX-License-Identifier: GPL-3.0-or-later
package triage

import "fmt"

const (
	DefaultMaxMessages = 100
	// MaxMaxMessages is the largest page a mailbox listing returns.
	MaxMaxMessages = 500
)

type ConfigFunc func(c *configuration) error

func DryRun() ConfigFunc {
	return func(c *configuration) error {
		c.DryRun = true

		return nil
	}
}

func MaxMessages(max int) ConfigFunc {
	return func(c *configuration) error {
		if max < 1 || max > MaxMaxMessages {
			return fmt.Errorf("MaxMessages must be between 1 and %d, got %d", MaxMaxMessages, max)
		}

		c.MaxMessages = max
		return nil
	}
}

func SuppressFailureNotifications() ConfigFunc {
	return func(c *configuration) error {
		c.SuppressFailureNotifications = true
		return nil
	}
}

func Checkpoint() ConfigFunc {
	return func(c *configuration) error {
		c.Checkpoint = true
		return nil
	}
}

type configuration struct {
	DryRun bool

	MaxMessages int

	SuppressFailureNotifications bool
	Checkpoint                   bool
}

func defaultConfiguration() *configuration {
	return &configuration{
		MaxMessages: DefaultMaxMessages,
	}
}
