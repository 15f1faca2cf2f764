// SPDX-License-Identifier: GPL-3.0-or-later
package gmailconnection

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/CrawX/go-mail-triage/mail"

	"github.com/emersion/go-message/charset"
	"google.golang.org/api/gmail/v1"
)

type partFrame struct {
	part  *gmail.MessagePart
	depth int
}

// ExtractBody concatenates the text/plain leaves of a Gmail payload tree in depth-first order. A payload without
// parts yields its own decoded body, whatever its type.
func ExtractBody(payload *gmail.MessagePart) *mail.Extraction {
	result := &mail.Extraction{}
	if payload == nil {
		return result
	}

	if len(payload.Parts) == 0 {
		result.Body, _ = decodePart(payload)
		return result
	}

	sb := &strings.Builder{}
	stack := []partFrame{}
	stack = pushParts(stack, payload.Parts, 1)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.part == nil {
			continue
		}

		if strings.EqualFold(f.part.MimeType, "text/plain") {
			text, err := decodePart(f.part)
			if err != nil {
				result.SkippedParts++
				continue
			}
			sb.WriteString(text)
			continue
		}

		if len(f.part.Parts) > 0 {
			if f.depth >= mail.MaxPartDepth {
				result.SkippedParts++
				continue
			}
			stack = pushParts(stack, f.part.Parts, f.depth+1)
		}
	}

	result.Body = sb.String()
	return result
}

// pushParts pushes in reverse so the first part is popped first.
func pushParts(stack []partFrame, parts []*gmail.MessagePart, depth int) []partFrame {
	for i := len(parts) - 1; i >= 0; i-- {
		stack = append(stack, partFrame{part: parts[i], depth: depth})
	}
	return stack
}

func decodePart(part *gmail.MessagePart) (string, error) {
	if part.Body == nil || len(part.Body.Data) == 0 {
		return "", nil
	}

	data, err := base64.URLEncoding.DecodeString(part.Body.Data)
	if err != nil {
		data, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(part.Body.Data, "="))
		if err != nil {
			return "", fmt.Errorf("could not decode part %s: %w", part.PartId, err)
		}
	}

	cs := partCharset(part)
	if len(cs) == 0 || strings.EqualFold(cs, "utf-8") || strings.EqualFold(cs, "us-ascii") {
		return string(data), nil
	}

	r, err := charset.Reader(cs, bytes.NewReader(data))
	if err != nil {
		// unknown charset, keep the raw bytes
		return string(data), nil
	}
	converted, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("could not convert part %s from %s: %w", part.PartId, cs, err)
	}

	return string(converted), nil
}

func partCharset(part *gmail.MessagePart) string {
	for _, h := range part.Headers {
		if !strings.EqualFold(h.Name, "Content-Type") {
			continue
		}
		_, params, err := mime.ParseMediaType(h.Value)
		if err != nil {
			return ""
		}
		return params["charset"]
	}
	return ""
}
