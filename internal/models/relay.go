package models

// RelayConfig is the per-request configuration handed to the relay.
// Basic auth is applied only when both Username and Password are set.
type RelayConfig struct {
	APIBaseURL   string
	Username     string
	Password     string
	UseRAG       bool
	SystemPrompt string
}

// HasBasicAuth reports whether both halves of the credential pair are present.
func (c RelayConfig) HasBasicAuth() bool {
	return c.Username != "" && c.Password != ""
}

// ResultKind tags which variant of a RelayResponse is populated.
type ResultKind int

const (
	ResultFailure ResultKind = iota
	ResultSuccess
)

func (k ResultKind) String() string {
	if k == ResultSuccess {
		return "success"
	}
	return "failure"
}

// RelayResponse is the normalized outcome of one relay call.
// Switch on Kind; Success and Failure are never both meaningful.
type RelayResponse struct {
	Kind    ResultKind
	Success SuccessData
	Failure RelayFailure
}

// RelayFailure carries the user-facing reason and the categorizing cause.
type RelayFailure struct {
	Reason string
	Cause  error
}

// NewRelaySuccess builds the Success variant. Nil sources become empty.
func NewRelaySuccess(response string, sources []string, model string) RelayResponse {
	if sources == nil {
		sources = []string{}
	}
	return RelayResponse{
		Kind:    ResultSuccess,
		Success: SuccessData{Response: response, Sources: sources, Model: model},
	}
}

// NewRelayFailure builds the Failure variant.
func NewRelayFailure(reason string, cause error) RelayResponse {
	return RelayResponse{
		Kind:    ResultFailure,
		Failure: RelayFailure{Reason: reason, Cause: cause},
	}
}

// OK reports whether the response is the Success variant.
func (r RelayResponse) OK() bool {
	return r.Kind == ResultSuccess
}

// UpstreamChatRequest is the JSON body sent to {base}/chat.
type UpstreamChatRequest struct {
	Message      string `json:"message"`
	UseRAG       bool   `json:"use_rag"`
	TopK         int    `json:"top_k"`
	SystemPrompt string `json:"system_prompt"`
}

// UpstreamChatResponse is the JSON body expected back from {base}/chat.
// Every field is optional.
type UpstreamChatResponse struct {
	Response *string  `json:"response"`
	Sources  []string `json:"sources"`
	Model    *string  `json:"model"`
}
