package widget

import (
	"bonsaichat-backend/internal/models"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const maxReplyBody = 4 << 20

// Reply is the decoded relay envelope.
type Reply struct {
	Success  bool
	Response string
	Sources  []string
	Message  string
}

// Transport delivers one user message to the relay.
// A non-nil error means the relay could not be reached or understood.
type Transport interface {
	Send(ctx context.Context, text string) (Reply, error)
}

// Bootstrap is what a widget needs from the server before it starts.
type Bootstrap struct {
	ChatURL        string
	Nonce          string
	WelcomeMessage string
}

// FetchBootstrap loads the widget bootstrap data from serverURL.
func FetchBootstrap(ctx context.Context, client *http.Client, serverURL string) (Bootstrap, error) {
	if client == nil {
		client = http.DefaultClient
	}
	endpoint := strings.TrimRight(serverURL, "/") + "/v1/widget/bootstrap"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Bootstrap{}, errors.Wrap(err, "building bootstrap request")
	}
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return Bootstrap{}, errors.Wrap(err, "fetching bootstrap")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Bootstrap{}, errors.Errorf("bootstrap returned status %d", res.StatusCode)
	}

	var body models.BootstrapResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, maxReplyBody)).Decode(&body); err != nil {
		return Bootstrap{}, errors.Wrap(err, "decoding bootstrap")
	}
	if body.ChatURL == "" {
		return Bootstrap{}, errors.New("bootstrap is missing chat_url")
	}
	return Bootstrap{ChatURL: body.ChatURL, Nonce: body.Nonce, WelcomeMessage: body.WelcomeMessage}, nil
}

// HTTPTransport posts messages to the relay as form data.
type HTTPTransport struct {
	client  *http.Client
	chatURL string
	nonce   string
}

func NewHTTPTransport(client *http.Client, chatURL, nonce string) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client, chatURL: chatURL, nonce: nonce}
}

// Send posts text and decodes the envelope. Error statuses that still carry
// an envelope, such as a rejected nonce, are returned as failed replies.
func (t *HTTPTransport) Send(ctx context.Context, text string) (Reply, error) {
	form := url.Values{"message": {text}, "nonce": {t.nonce}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.chatURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Reply{}, errors.Wrap(err, "building chat request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return Reply{}, errors.Wrap(err, "sending chat message")
	}
	defer res.Body.Close()

	var env models.Envelope
	if err := json.NewDecoder(io.LimitReader(res.Body, maxReplyBody)).Decode(&env); err != nil {
		return Reply{}, errors.Wrapf(err, "decoding chat reply (status %d)", res.StatusCode)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		if env.Success {
			return Reply{Success: true}, nil
		}
		return Reply{}, nil
	}

	if env.Success {
		var data models.SuccessData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return Reply{}, errors.Wrap(err, "decoding chat reply data")
		}
		return Reply{Success: true, Response: data.Response, Sources: data.Sources}, nil
	}

	var data models.FailureData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return Reply{}, errors.Wrap(err, "decoding chat failure data")
	}
	return Reply{Message: data.Message}, nil
}
