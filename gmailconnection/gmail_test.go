// SPDX-License-Identifier: GPL-3.0-or-later
package gmailconnection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CrawX/go-mail-triage/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeGmail struct {
	listQueries []string
	messages    map[string]interface{}
}

func (f *fakeGmail) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/gmail/v1/users/me/messages":
		f.listQueries = append(f.listQueries, r.URL.RawQuery)
		ids := []map[string]string{}
		for _, id := range []string{"id5", "id4", "id3"} {
			ids = append(ids, map[string]string{"id": id, "threadId": "t" + id})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"messages": ids})
	default:
		id := filepath.Base(r.URL.Path)
		msg, ok := f.messages[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found."}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(msg)
	}
}

func newTestConnection(t *testing.T, fake *fakeGmail) *GmailConnection {
	log.InitLogging("error")
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	gc, err := NewGmailConnection(context.Background(), "",
		option.WithEndpoint(ts.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(ts.Client()),
	)
	require.NoError(t, err)
	return gc
}

func TestGmailConnection_ListRecentMessageIds(t *testing.T) {
	fake := &fakeGmail{}
	gc := newTestConnection(t, fake)

	ids, err := gc.ListRecentMessageIds(context.Background(), 100)

	assert.NoError(t, err)
	assert.Equal(t, []string{"id5", "id4", "id3"}, ids)
	require.Len(t, fake.listQueries, 1)
	assert.Contains(t, fake.listQueries[0], "labelIds=INBOX")
	assert.Contains(t, fake.listQueries[0], "maxResults=100")
}

func TestGmailConnection_ListRecentMessageIds_InvalidMax(t *testing.T) {
	gc := newTestConnection(t, &fakeGmail{})

	for _, max := range []int{0, -1, MaxListResults + 1} {
		_, err := gc.ListRecentMessageIds(context.Background(), max)
		assert.Error(t, err)
	}
}

func TestGmailConnection_FetchBody(t *testing.T) {
	fake := &fakeGmail{messages: map[string]interface{}{
		"id3": map[string]interface{}{
			"id": "id3",
			"payload": map[string]interface{}{
				"mimeType": "multipart/alternative",
				"headers":  []map[string]string{{"name": "Subject", "value": "=?utf-8?q?Interview_invitation?="}},
				"parts": []map[string]interface{}{
					{"mimeType": "text/plain", "body": map[string]interface{}{"data": base64.URLEncoding.EncodeToString([]byte("We would like to invite you"))}},
					{"mimeType": "text/html", "body": map[string]interface{}{"data": base64.URLEncoding.EncodeToString([]byte("<p>html</p>"))}},
				},
			},
		},
	}}
	gc := newTestConnection(t, fake)

	body, err := gc.FetchBody(context.Background(), "id3")
	assert.NoError(t, err)
	assert.Equal(t, "We would like to invite you", body)

	_, err = gc.FetchBody(context.Background(), "missing")
	assert.Error(t, err)
}

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const clientSecret = `{"installed":{"client_id":"id.apps.googleusercontent.com","client_secret":"secret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`

func TestTokenSourceOption(t *testing.T) {
	dir := t.TempDir()
	credentials := writeFile(t, dir, "credentials.json", clientSecret)
	valid := writeFile(t, dir, "token.json", `{"access_token":"abc","token_type":"Bearer","expiry":"`+time.Now().Add(time.Hour).Format(time.RFC3339)+`"}`)
	refreshable := writeFile(t, dir, "refresh.json", `{"access_token":"abc","refresh_token":"r","expiry":"2000-01-01T00:00:00Z"}`)
	expired := writeFile(t, dir, "expired.json", `{"access_token":"abc","expiry":"2000-01-01T00:00:00Z"}`)
	garbage := writeFile(t, dir, "garbage.json", `not json`)

	tests := []struct {
		name        string
		credentials string
		token       string
		expectErr   bool
	}{
		{"valid token", credentials, valid, false},
		{"expired token with refresh token", credentials, refreshable, false},
		{"expired token without refresh token", credentials, expired, true},
		{"missing token", credentials, filepath.Join(dir, "nope.json"), true},
		{"broken token", credentials, garbage, true},
		{"missing credentials", filepath.Join(dir, "nope.json"), valid, true},
		{"broken credentials", garbage, valid, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opt, err := TokenSourceOption(context.Background(), tc.credentials, tc.token)
			if tc.expectErr {
				assert.Error(t, err)
				assert.Nil(t, opt)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, opt)
			}
		})
	}
}
