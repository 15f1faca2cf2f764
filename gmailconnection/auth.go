// SPDX-License-Identifier: GPL-3.0-or-later
package gmailconnection

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// TokenSourceOption authenticates with the installed-app client secrets and a previously authorized token. The
// consent flow that creates the token happens outside of this program.
func TokenSourceOption(ctx context.Context, credentialsFile, tokenFile string) (option.ClientOption, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("could not read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("could not parse client secret file: %w", err)
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("could not read token file %s: %w", tokenFile, err)
	}

	if !tok.Valid() && len(tok.RefreshToken) == 0 {
		return nil, fmt.Errorf("token in %s is invalid and cannot be refreshed", tokenFile)
	}

	return option.WithTokenSource(config.TokenSource(ctx, tok)), nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
