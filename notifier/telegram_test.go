// SPDX-License-Identifier: GPL-3.0-or-later
package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/CrawX/go-mail-triage/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTelegram struct {
	token  string
	failOn string
	sent   []map[string]string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !strings.HasPrefix(r.URL.Path, "/bot"+f.token+"/") {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
		return
	}

	method := strings.TrimPrefix(r.URL.Path, "/bot"+f.token+"/")
	if method == f.failOn {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
		return
	}

	switch method {
	case "getMe":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"triage","username":"triage_bot"}}`))
	case "sendMessage":
		_ = r.ParseForm()
		f.sent = append(f.sent, map[string]string{"chat_id": r.Form.Get("chat_id"), "text": r.Form.Get("text")})
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakeTelegram(t *testing.T, fake *fakeTelegram) string {
	log.InitLogging("error")
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)
	return ts.URL + "/bot%s/%s"
}

func TestTelegram_Notify(t *testing.T) {
	fake := &fakeTelegram{token: "123:abc"}
	endpoint := newFakeTelegram(t, fake)

	telegram, err := NewTelegram("123:abc", "42", endpoint)
	require.NoError(t, err)

	err = telegram.Notify(context.Background(), "101 - interview")
	assert.NoError(t, err)
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "42", fake.sent[0]["chat_id"])
	assert.Equal(t, "101 - interview", fake.sent[0]["text"])
}

func TestTelegram_Notify_LongText(t *testing.T) {
	fake := &fakeTelegram{token: "123:abc"}
	endpoint := newFakeTelegram(t, fake)

	telegram, err := NewTelegram("123:abc", "42", endpoint)
	require.NoError(t, err)

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"latin", strings.Repeat("ä", MaxTelegramLength+10), strings.Repeat("ä", MaxTelegramLength)},
		{"astral", strings.Repeat("😀", 3000), strings.Repeat("😀", MaxTelegramLength/2)},
		{"mixed", "a" + strings.Repeat("😀", MaxTelegramLength/2), "a" + strings.Repeat("😀", MaxTelegramLength/2-1)},
	}

	for i, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := telegram.Notify(context.Background(), test.text)
			assert.NoError(t, err)
			require.Len(t, fake.sent, i+1)
			sent := fake.sent[i]["text"]
			assert.Equal(t, test.expected, sent)
			assert.LessOrEqual(t, len(utf16.Encode([]rune(sent))), MaxTelegramLength)
		})
	}
}

func TestTelegram_Notify_Channel(t *testing.T) {
	fake := &fakeTelegram{token: "123:abc"}
	endpoint := newFakeTelegram(t, fake)

	telegram, err := NewTelegram("123:abc", "@jobalerts", endpoint)
	require.NoError(t, err)

	err = telegram.Notify(context.Background(), "101 - interview")
	assert.NoError(t, err)
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "@jobalerts", fake.sent[0]["chat_id"])
}

func TestNewTelegram_InvalidChat(t *testing.T) {
	fake := &fakeTelegram{token: "123:abc"}
	endpoint := newFakeTelegram(t, fake)

	for _, chat := range []string{"", "@", "jobalerts", "0"} {
		_, err := NewTelegram("123:abc", chat, endpoint)
		assert.Error(t, err, chat)
	}

	telegram, err := NewTelegram("123:abc", "-1001234567890", endpoint)
	require.NoError(t, err)
	assert.Equal(t, int64(-1001234567890), telegram.chatId)
}

func TestTelegram_Errors(t *testing.T) {
	fake := &fakeTelegram{token: "123:abc"}
	endpoint := newFakeTelegram(t, fake)

	_, err := NewTelegram("wrong", "42", endpoint)
	assert.Error(t, err)

	fake.failOn = "sendMessage"
	telegram, err := NewTelegram("123:abc", "42", endpoint)
	require.NoError(t, err)
	assert.Error(t, telegram.Notify(context.Background(), "text"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, telegram.Notify(ctx, "text"), context.Canceled)
}

func TestCut(t *testing.T) {
	assert.Equal(t, "abc", cut("abc", 5))
	assert.Equal(t, "ab", cut("abc", 2))
	assert.Equal(t, "äö", cut("äöü", 2))
	assert.Equal(t, "a", cut("a😀", 2))
	assert.Equal(t, "a😀", cut("a😀", 3))
	assert.Equal(t, "😀", cut("😀😀", 3))
}
