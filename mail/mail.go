// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"mime"
	stdmail "net/mail"

	"github.com/emersion/go-message/charset"
)

// MailHeaderInfos returns the decoded subject and a hash over the Message-Id and Received headers, which serves as
// a stable message identifier.
func MailHeaderInfos(rawMail []byte) (string, string, error) {
	msg, err := stdmail.ReadMessage(bytes.NewReader(rawMail))
	if err != nil {
		return "", "", fmt.Errorf("could not parse mail: %w", err)
	}

	messageIdHeader := msg.Header["Message-Id"]
	receivedHeader := msg.Header["Received"]
	if len(receivedHeader) == 0 && len(messageIdHeader) == 0 {
		return "", "", fmt.Errorf("Received and Message-Id header header not found")
	}

	subject, err := DecodeHeader(msg.Header.Get("Subject"))
	if err != nil {
		return "", "", fmt.Errorf("could decode subject header: %w", err)
	}

	mailIdHash, err := hash([][]string{messageIdHeader, receivedHeader})
	if err != nil {
		return "", "", fmt.Errorf("could not hash headers: %w", err)
	}

	return subject, mailIdHash, nil
}

// DecodeHeader decodes RFC 2047 encoded words in any charset go-message knows about.
func DecodeHeader(header string) (string, error) {
	dec := &mime.WordDecoder{
		CharsetReader: charset.Reader,
	}
	return dec.DecodeHeader(header)
}

func ShortSubject(subject string) string {
	if (len(subject)) > 30 {
		subject = subject[:30] + "..."
	}
	return subject
}

func hash(input [][]string) (string, error) {
	sha := sha256.New()
	for _, i := range input {
		for _, ii := range i {
			_, err := sha.Write([]byte(ii))
			if err != nil {
				return "", fmt.Errorf("could not hash: %w", err)
			}
		}
	}

	return fmt.Sprintf("%x", sha.Sum(nil)), nil
}
