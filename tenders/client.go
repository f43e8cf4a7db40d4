package tenders

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ccs-digital/login-director/reconcile"
)

// Client is the port onto the Tenders API, where Jaegger account operations
// are performed. Responses come back as raw status+body pairs; interpreting
// them is the reconciler's job, not the transport's.
type Client interface {
	// UserStatus fetches the downstream status of the user's account.
	UserStatus(ctx context.Context, username, accessToken string) (reconcile.Response, error)
	// CreateUser creates or merges the downstream account for the user.
	CreateUser(ctx context.Context, username, accessToken string) (reconcile.Response, error)
}

const defaultTimeout = 10 * time.Second

// HTTPClient is the production Client implementation.
type HTTPClient struct {
	baseURL    string
	userPath   string
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

// NewHTTPClient creates a Tenders API client. baseURL is the API domain;
// userPath is the user route prefix (e.g. "/users/").
func NewHTTPClient(baseURL, userPath string, logger zerolog.Logger, options ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    baseURL,
		userPath:   userPath,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

var _ Client = (*HTTPClient)(nil)

// UserStatus performs GET /users/{username}.
func (c *HTTPClient) UserStatus(ctx context.Context, username, accessToken string) (reconcile.Response, error) {
	return c.perform(ctx, http.MethodGet, c.userRoute(username), accessToken)
}

// CreateUser performs PUT /users/{username}.
func (c *HTTPClient) CreateUser(ctx context.Context, username, accessToken string) (reconcile.Response, error) {
	return c.perform(ctx, http.MethodPut, c.userRoute(username), accessToken)
}

func (c *HTTPClient) userRoute(username string) string {
	return c.baseURL + c.userPath + url.PathEscape(username)
}

// perform runs a request and maps it onto the generic status+body shape.
// Transport failures surface as errors for the caller to convert into an
// Error outcome; they never panic through.
func (c *HTTPClient) perform(ctx context.Context, method, routeURI, accessToken string) (reconcile.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, routeURI, nil)
	if err != nil {
		return reconcile.Response{}, errors.Wrap(err, "[Tenders perform] building request failed")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("route", routeURI).Msg("Error communicating with Tenders API")
		return reconcile.Response{}, errors.Wrap(err, "[Tenders perform] request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error().Err(err).Str("route", routeURI).Msg("Error reading Tenders API response")
		return reconcile.Response{}, errors.Wrap(err, "[Tenders perform] reading response failed")
	}

	return reconcile.Response{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}
