// SPDX-License-Identifier: GPL-3.0-or-later
package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/CrawX/go-mail-triage/domain"
	"github.com/CrawX/go-mail-triage/log"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type RunStats struct {
	Listed     int
	Skipped    int
	Classified int
	Failed     int
	Notified   int
}

type MailTriage struct {
	state      domain.StateStore
	mailbox    domain.MailboxReader
	classifier domain.Classifier
	notifier   domain.Notifier

	configuration *configuration

	l *logrus.Logger
}

func NewMailTriage(state domain.StateStore, mailbox domain.MailboxReader, classifier domain.Classifier, notifier domain.Notifier, configFunc ...ConfigFunc) (*MailTriage, error) {
	config := defaultConfiguration()
	for _, f := range configFunc {
		err := f(config)
		if err != nil {
			return nil, fmt.Errorf("error applying configuration: %w", err)
		}
	}

	return &MailTriage{
		state:         state,
		mailbox:       mailbox,
		classifier:    classifier,
		notifier:      notifier,
		configuration: config,
		l:             log.Logger(log.LOG_TRIAGE),
	}, nil
}

// Run makes a single pass over the most recent messages, oldest first. Every message that was attempted is marked
// as processed, even when its classification failed. When the pass is aborted, the messages handled so far are
// still persisted before the error is returned.
func (mt *MailTriage) Run(ctx context.Context) (*RunStats, error) {
	start := time.Now()
	stats := &RunStats{}
	l := mt.l.WithField("run", uuid.NewString())

	processed, err := mt.state.Load(ctx)
	if err != nil {
		return stats, fmt.Errorf("could not load processed ids: %w", err)
	}
	if processed == nil {
		processed = domain.NewIdSet()
	}

	ids, err := mt.mailbox.ListRecentMessageIds(ctx, mt.configuration.MaxMessages)
	if err != nil {
		return stats, fmt.Errorf("could not list messages: %w", err)
	}
	stats.Listed = len(ids)

	if len(ids) == 0 {
		l.Info("Mailbox contains no messages")
		return stats, nil
	}
	l.WithFields(logrus.Fields{"listed": len(ids), "known": len(processed)}).Debug("Listed messages")

	newlySeen := domain.NewIdSet()
	for i := len(ids) - 1; i >= 0; i-- {
		id := ids[i]
		if processed.Contains(id) || newlySeen.Contains(id) {
			stats.Skipped++
			continue
		}

		err = mt.handle(ctx, l, id, stats)
		if err != nil {
			if !mt.configuration.Checkpoint {
				// the run context may already be cancelled
				saveErr := mt.persist(context.WithoutCancel(ctx), l, processed, newlySeen)
				if saveErr != nil {
					l.WithError(saveErr).Error("Could not persist processed ids of aborted run")
				}
			}
			return stats, err
		}
		newlySeen.Add(id)

		if mt.configuration.Checkpoint {
			err = mt.persist(ctx, l, processed, domain.NewIdSet(id))
			if err != nil {
				return stats, err
			}
		}
	}

	if !mt.configuration.Checkpoint {
		err = mt.persist(ctx, l, processed, newlySeen)
		if err != nil {
			return stats, err
		}
	}

	l.WithFields(logrus.Fields{
		"duration":   time.Since(start),
		"listed":     stats.Listed,
		"skipped":    stats.Skipped,
		"classified": stats.Classified,
		"failed":     stats.Failed,
		"notified":   stats.Notified,
	}).Info("Finished run")

	return stats, nil
}

func (mt *MailTriage) handle(ctx context.Context, l *logrus.Entry, id string, stats *RunStats) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run aborted before message %s: %w", id, err)
	}

	body, err := mt.mailbox.FetchBody(ctx, id)
	if err != nil {
		return fmt.Errorf("could not fetch message %s: %w", id, err)
	}

	result := mt.classifier.Classify(ctx, body)
	// a classification cut short by cancellation is not an attempt, the message stays unprocessed
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run aborted while classifying message %s: %w", id, err)
	}
	stats.Classified++

	fields := logrus.Fields{"id": id, "category": result.Category}
	if result.Failed() {
		stats.Failed++
		l.WithFields(fields).WithError(result.Error).Warn("Could not classify message")
	} else {
		l.WithFields(fields).Info("Classified message")
	}

	if !mt.shouldNotify(result) {
		return nil
	}

	if mt.configuration.DryRun {
		l.WithFields(fields).Info("Not notifying due to dry-run")
		return nil
	}

	err = mt.notifier.Notify(ctx, result.Text)
	if err != nil {
		l.WithFields(fields).WithError(err).Warn("Could not deliver notification")
		return nil
	}
	stats.Notified++

	return nil
}

func (mt *MailTriage) shouldNotify(result *domain.ClassificationResult) bool {
	if result.Category == domain.CategoryNoMatch {
		return false
	}
	if result.Failed() && mt.configuration.SuppressFailureNotifications {
		return false
	}
	return true
}

// persist merges added into processed and saves the result. Nothing is written in dry-run mode or when added is
// empty.
func (mt *MailTriage) persist(ctx context.Context, l *logrus.Entry, processed, added domain.IdSet) error {
	if len(added) == 0 {
		return nil
	}

	processed.Merge(added)
	if mt.configuration.DryRun {
		l.WithFields(logrus.Fields{"new": len(added)}).Info("Not saving processed ids due to dry-run")
		return nil
	}

	err := mt.state.Save(ctx, processed)
	if err != nil {
		return fmt.Errorf("could not save processed ids: %w", err)
	}
	l.WithFields(logrus.Fields{"new": len(added), "total": len(processed)}).Debug("Saved processed ids")

	return nil
}
