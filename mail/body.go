// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
)

// MaxPartDepth bounds the nesting of multipart bodies that is walked when extracting text.
const MaxPartDepth = 32

type Extraction struct {
	Body string
	// SkippedParts counts multiparts nested deeper than MaxPartDepth.
	SkippedParts int
}

type multipartFrame struct {
	reader message.MultipartReader
	depth  int
}

// ExtractPlainText concatenates all text/plain leaves of a mail in depth-first order. Mails without a multipart
// structure yield their decoded body. Transfer encodings and charsets are decoded on the way.
func ExtractPlainText(rawMail []byte) (*Extraction, error) {
	entity, err := message.Read(bytes.NewReader(rawMail))
	if err != nil && !tolerable(err) {
		return nil, fmt.Errorf("could not parse mail: %w", err)
	}

	root := entity.MultipartReader()
	if root == nil {
		body, err := io.ReadAll(entity.Body)
		if err != nil {
			return nil, fmt.Errorf("could not read mail body: %w", err)
		}
		return &Extraction{Body: string(body)}, nil
	}

	result := &Extraction{}
	sb := &strings.Builder{}
	stack := []multipartFrame{{reader: root, depth: 1}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		part, err := top.reader.NextPart()
		if errors.Is(err, io.EOF) {
			stack = stack[:len(stack)-1]
			continue
		}
		if err != nil && (part == nil || !tolerable(err)) {
			return nil, fmt.Errorf("could not read mail part: %w", err)
		}

		if mr := part.MultipartReader(); mr != nil {
			if top.depth >= MaxPartDepth {
				result.SkippedParts++
				continue
			}
			stack = append(stack, multipartFrame{reader: mr, depth: top.depth + 1})
			continue
		}

		if mediaType(part.Header) != "text/plain" {
			continue
		}

		text, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, fmt.Errorf("could not read text part: %w", err)
		}
		sb.Write(text)
	}

	result.Body = sb.String()
	return result, nil
}

func mediaType(h message.Header) string {
	if len(h.Get("Content-Type")) == 0 {
		return "text/plain"
	}

	t, _, err := h.ContentType()
	if err != nil {
		return ""
	}
	return strings.ToLower(t)
}

func tolerable(err error) bool {
	return message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}
