package widget

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_Send(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    Reply
		wantErr bool
	}{
		{"success", http.StatusOK, `{"success":true,"data":{"response":"hi","sources":["a"],"model":"m"}}`, Reply{Success: true, Response: "hi", Sources: []string{"a"}}, false},
		{"failure", http.StatusOK, `{"success":false,"data":{"message":"upstream error: 500"}}`, Reply{Message: "upstream error: 500"}, false},
		{"forbidden envelope", http.StatusForbidden, `{"success":false,"data":{"message":"invalid security token"}}`, Reply{Message: "invalid security token"}, false},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, Reply{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotMessage, gotNonce, gotType string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotType = r.Header.Get("Content-Type")
				gotMessage = r.PostFormValue("message")
				gotNonce = r.PostFormValue("nonce")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			reply, err := NewHTTPTransport(srv.Client(), srv.URL+"/v1/chat/messages", "n1").Send(context.Background(), "hello")
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, reply)
			require.Equal(t, "hello", gotMessage)
			require.Equal(t, "n1", gotNonce)
			require.Equal(t, "application/x-www-form-urlencoded", gotType)
		})
	}
}

func TestHTTPTransport_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	chatURL := srv.URL
	srv.Close()

	_, err := NewHTTPTransport(nil, chatURL, "n").Send(context.Background(), "hello")
	require.Error(t, err)
}

func TestFetchBootstrap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/widget/bootstrap" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"chat_url":        "http://shop.test/v1/chat/messages",
			"nonce":           "n1",
			"welcome_message": "Hi!",
		})
	}))
	defer srv.Close()

	b, err := FetchBootstrap(context.Background(), srv.Client(), srv.URL+"/")
	require.NoError(t, err)
	require.Equal(t, Bootstrap{ChatURL: "http://shop.test/v1/chat/messages", Nonce: "n1", WelcomeMessage: "Hi!"}, b)
}

func TestFetchBootstrap_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := FetchBootstrap(context.Background(), srv.Client(), srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}
