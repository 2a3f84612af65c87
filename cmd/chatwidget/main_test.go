package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newFakeRelay(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/v1/widget/bootstrap", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"chat_url":        srv.URL + "/v1/chat/messages",
			"nonce":           "n1",
			"welcome_message": "Welcome to the nursery!",
		})
	})
	mux.HandleFunc("/v1/chat/messages", func(w http.ResponseWriter, r *http.Request) {
		reply := "echo: " + r.PostFormValue("message")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"response": reply, "sources": []string{"faq.md"}, "model": "m"},
		})
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunWidget_Transcript(t *testing.T) {
	srv := newFakeRelay(t)
	in := strings.NewReader("/close\nignored while closed\n/open\n/quit\n")
	var out bytes.Buffer

	err := runWidget(context.Background(), srv.URL, time.Second, in, &out)
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, "Welcome to the nursery!")
	require.Contains(t, text, "chat is closed, type /open first")
	require.NotContains(t, text, "echo: ignored")
}

func TestRunWidget_SendsMessages(t *testing.T) {
	srv := newFakeRelay(t)
	in := strings.NewReader("hello there\n")
	var out bytes.Buffer

	err := runWidget(context.Background(), srv.URL, time.Second, in, &out)
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, "hello there")
	require.Contains(t, text, "echo: hello there")
	require.Contains(t, text, "faq.md")
}

func TestRunWidget_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	err := runWidget(context.Background(), base, time.Second, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "could not reach the chat server")
}
