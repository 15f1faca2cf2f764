// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/CrawX/go-mail-triage/domain"
)

const (
	MaxInputLength  = 2000
	DefaultInterest = "data science or AI"
)

// The numeric prefixes are the contract with the model, ParseCategory depends on them.
const promptTemplate = `Please analyze the following email and check if it falls into one of these categories:
Is this an interview invitation for a job?
Is it a rejection notice from a company?
Is it a notification about a job opening related to %[1]s?
Is it an acceptance for a job?

Respond with the appropriate message, starting with the corresponding number:
For an interview: "101 Great news! You have an interview scheduled on [date] at [time] with [company] for the position of [position]."
For a rejection: "102 Unfortunately, it looks like [company] has decided to move forward without you for the [position] role."
For a %[1]s related job: "103 Heads up! There's an open position at [company] for the role of [role]."
For an acceptance: "104 Congratulations! You've been accepted for the [position] role at [company]."
If it doesn't match any of these: "105."
Feel free to adjust the format if any details are missing, so it flows naturally.`

var prefixes = map[string]domain.Category{
	"101": domain.CategoryInterview,
	"102": domain.CategoryRejection,
	"103": domain.CategoryJobOpening,
	"104": domain.CategoryAcceptance,
	"105": domain.CategoryNoMatch,
}

func buildPrompt(interest, content string) string {
	return fmt.Sprintf(promptTemplate, interest) + "\nEmail Content:\n" + strings.TrimSpace(content)
}

// truncate cuts text after max code points.
func truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}

	count := 0
	for i := range text {
		if count == max {
			return text[:i]
		}
		count++
	}
	return text
}

// ParseCategory maps the leading three digit code of a model response to a category.
// Whitespace, quotes and markdown emphasis in front of the code are ignored.
func ParseCategory(response string) domain.Category {
	trimmed := strings.TrimLeftFunc(response, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("\"'`*", r)
	})
	if len(trimmed) < 3 {
		return domain.CategoryUnknown
	}

	category, ok := prefixes[trimmed[:3]]
	if !ok {
		return domain.CategoryUnknown
	}

	if len(trimmed) > 3 {
		next, _ := utf8.DecodeRuneInString(trimmed[3:])
		if unicode.IsDigit(next) {
			return domain.CategoryUnknown
		}
	}

	return category
}
