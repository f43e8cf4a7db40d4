package adaptor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ccs-digital/login-director/identity"
)

// Client is the port onto the Adaptor identity service, which holds the
// authoritative role information for SSO users.
type Client interface {
	// UserInfo fetches the identity payload for a username.
	UserInfo(ctx context.Context, username string) (identity.User, error)
}

const defaultTimeout = 10 * time.Second

// HTTPClient is the production Client implementation.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// HTTPClientOption modifies an HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient overrides the underlying http.Client (primarily for testing).
func WithHTTPClient(client *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// NewHTTPClient creates an Adaptor service client.
func NewHTTPClient(baseURL, apiKey string, logger zerolog.Logger, options ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

var _ Client = (*HTTPClient)(nil)

// UserInfo performs GET /user-info?user-name={username} and maps the payload.
func (c *HTTPClient) UserInfo(ctx context.Context, username string) (identity.User, error) {
	query := url.Values{}
	query.Set("user-name", username)
	routeURI := c.baseURL + "/user-info?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, routeURI, nil)
	if err != nil {
		return identity.User{}, errors.Wrap(err, "[Adaptor UserInfo] building request failed")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("username", username).Msg("Error communicating with Adaptor service")
		return identity.User{}, errors.Wrap(err, "[Adaptor UserInfo] request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Str("username", username).Msg("Unexpected Adaptor response")
		return identity.User{}, errors.Errorf("[Adaptor UserInfo] unexpected status %d", resp.StatusCode)
	}

	var user identity.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return identity.User{}, errors.Wrap(err, "[Adaptor UserInfo] decoding response failed")
	}
	return user, nil
}
