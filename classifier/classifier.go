// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/CrawX/go-mail-triage/domain"
	"github.com/CrawX/go-mail-triage/log"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const (
	MaxAttempts       = 5
	InitialRetryDelay = 5 * time.Second

	RateLimitedText = "Unable to process the request due to rate limits."
	UnavailableText = "Unable to process the request at this time."
)

// LLMClassifier asks a language model to sort a mail into one of the job search categories.
type LLMClassifier struct {
	completer domain.Completer
	interest  string
	// timer drives the waits between attempts, nil uses a real timer
	timer backoff.Timer

	l *logrus.Logger
}

func NewLLMClassifier(completer domain.Completer, interest string) *LLMClassifier {
	if len(strings.TrimSpace(interest)) == 0 {
		interest = DefaultInterest
	}

	return &LLMClassifier{
		completer: completer,
		interest:  interest,
		l:         log.Logger(log.LOG_CLASSIFIER),
	}
}

func (c *LLMClassifier) Classify(ctx context.Context, text string) *domain.ClassificationResult {
	prompt := buildPrompt(c.interest, truncate(text, MaxInputLength))

	attempt := 0
	response := ""
	operation := func() error {
		attempt++
		var err error
		response, err = c.completer.Complete(ctx, prompt)
		if err != nil && !errors.Is(err, domain.ErrRateLimited) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, delay time.Duration) {
		c.l.WithFields(logrus.Fields{"attempt": attempt, "delay": delay}).Warn("Rate limit exceeded, retrying")
	}

	err := backoff.RetryNotifyWithTimer(operation, retryPolicy(ctx), notify, c.timer)
	switch {
	case err == nil:
		category := ParseCategory(response)
		c.l.WithFields(logrus.Fields{"attempt": attempt, "category": category}).Debug("Classified mail")
		return &domain.ClassificationResult{
			Category: category,
			Text:     response,
		}
	case ctx.Err() != nil:
		c.l.WithField("error", err).Warn("Classification cancelled")
		return failed(UnavailableText, err)
	case errors.Is(err, domain.ErrRateLimited):
		c.l.WithFields(logrus.Fields{"attempts": attempt, "error": err}).Error("Rate limit retries exhausted")
		return failed(RateLimitedText, err)
	default:
		c.l.WithField("error", err).Error("Classification failed")
		return failed(UnavailableText, err)
	}
}

// retryPolicy waits 5s, 10s, 20s and 40s between MaxAttempts attempts and gives up early when ctx is done.
func retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = InitialRetryDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = InitialRetryDelay << MaxAttempts
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, MaxAttempts-1), ctx)
}

func failed(text string, err error) *domain.ClassificationResult {
	return &domain.ClassificationResult{
		Category: domain.CategoryFailed,
		Text:     text,
		Error:    err,
	}
}
