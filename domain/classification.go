// SPDX-License-Identifier: GPL-3.0-or-later

//go:generate mockgen -destination=mocks/classification.go -package=mocks . Completer,Classifier
package domain

import (
	"context"
	"errors"
)

type Category int

const (
	CategoryUnknown = Category(0)
	CategoryFailed  = Category(1)

	CategoryInterview  = Category(101)
	CategoryRejection  = Category(102)
	CategoryJobOpening = Category(103)
	CategoryAcceptance = Category(104)
	CategoryNoMatch    = Category(105)
)

func (c Category) String() string {
	switch c {
	case CategoryFailed:
		return "failed"
	case CategoryInterview:
		return "interview"
	case CategoryRejection:
		return "rejection"
	case CategoryJobOpening:
		return "job-opening"
	case CategoryAcceptance:
		return "acceptance"
	case CategoryNoMatch:
		return "no-match"
	}
	return "unknown"
}

type ClassificationResult struct {
	Category Category
	Text     string
	Error    error
}

func (r *ClassificationResult) Failed() bool {
	return r.Category == CategoryFailed
}

// ErrRateLimited is wrapped by Completer implementations when the model provider throttles a request.
var ErrRateLimited = errors.New("rate limited")

// Completer sends a single prompt to a language model and returns its answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classifier never fails, errors are reported through ClassificationResult.Error.
type Classifier interface {
	Classify(ctx context.Context, text string) *ClassificationResult
}
