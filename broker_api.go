package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// apiEnvelope mirrors the portal API response shape for the auth endpoints
type apiEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *struct {
		User  *Identity `json:"user"`
		Token string    `json:"token"`
	} `json:"data,omitempty"`
}

var _ CredentialBroker = &APIBroker{}

// APIBroker exchanges credentials against the portal REST API. Tokens it
// returns are opaque: the backend issues and validates them.
type APIBroker struct {
	baseURL string
	client  *http.Client
	logger  Logger
}

func NewAPIBroker(baseURL string) *APIBroker {
	return &APIBroker{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  defLogger{},
	}
}

func (b *APIBroker) WithLogger(logger Logger) *APIBroker {
	if logger != nil {
		b.logger = logger
	}
	return b
}

func (b *APIBroker) WithHTTPClient(client *http.Client) *APIBroker {
	if client != nil {
		b.client = client
	}
	return b
}

func (b *APIBroker) Authenticate(ctx context.Context, email, password string) (*Identity, string, error) {
	body := map[string]string{"email": email, "password": password}
	return b.exchange(ctx, "auth/login", body, AuthenticationError, WrapAuthenticationError)
}

func (b *APIBroker) Register(ctx context.Context, role Role, payload RegistrationPayload) (*Identity, string, error) {
	endpoint := "auth/register/jobseeker"
	if role == RoleEmployer {
		endpoint = "auth/register/employer"
	}
	return b.exchange(ctx, endpoint, payload, RegistrationError, WrapRegistrationError)
}

// exchange posts payload to the endpoint and unpacks the response envelope.
// Non-2xx and success:false responses are treated uniformly: surface the
// server message when present, else the error kind's generic fallback.
func (b *APIBroker) exchange(
	ctx context.Context,
	endpoint string,
	payload any,
	fail func(string) *goerrors.Error,
	failWrap func(error, string) *goerrors.Error,
) (*Identity, string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, "", failWrap(err, "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/"+endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, "", failWrap(err, "")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := b.client.Do(req)
	if err != nil {
		b.logger.Error("auth API unreachable", "endpoint", endpoint, "error", err)
		return nil, "", failWrap(err, "")
	}
	defer res.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&envelope); err != nil {
		b.logger.Error("auth API response malformed", "endpoint", endpoint, "status", res.StatusCode, "error", err)
		return nil, "", failWrap(err, "")
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 || !envelope.Success {
		b.logger.Info("auth API rejected request", "endpoint", endpoint, "status", res.StatusCode, "message", envelope.Message)
		return nil, "", fail(envelope.Message)
	}

	if envelope.Data == nil || envelope.Data.User == nil || envelope.Data.Token == "" {
		b.logger.Error("auth API response missing user or token", "endpoint", endpoint)
		return nil, "", fail("")
	}

	return envelope.Data.User, envelope.Data.Token, nil
}

// NewBearerTransport returns a RoundTripper that attaches the current
// session token to outgoing requests, the Go counterpart of the web
// client's authorization interceptor. token is read per request so the
// transport always reflects the live session.
func NewBearerTransport(base http.RoundTripper, token func() string) http.RoundTripper {
	return &bearerTransport{base: base, token: token}
}

type bearerTransport struct {
	base  http.RoundTripper
	token func() string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if tok := t.token(); tok != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
