package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"shopstream/app/models"
	"shopstream/config"
	"shopstream/pkg/httpx"
	"shopstream/pkg/metrics"
)

// Client talks to the gateway's REST API and realtime feed. It is safe
// for concurrent use; the access token is swapped under a lock when the
// auth store signs in or out.
type Client struct {
	baseURL string

	mu    sync.RWMutex
	token string
}

// New returns a client for the configured gateway URL.
func New() *Client {
	return NewWithURL(config.GatewayURL())
}

// NewWithURL returns a client for an explicit base URL, e.g. an
// httptest server in tests.
func NewWithURL(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

// SetToken installs the access token sent as a bearer on subsequent calls.
// An empty token clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ─── Wire envelopes ──────────────────────────────────────────────────────────

type dataEnvelope[T any] struct {
	Status int `json:"status"`
	Data   T   `json:"data"`
}

type errorEnvelope struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeError turns a non-2xx response into a sentinel error where the
// wire code maps to one, or a generic error otherwise.
func decodeError(res *httpx.Response) error {
	var env errorEnvelope
	if err := res.JSON(&env); err == nil && env.Code != "" {
		if sentinel, ok := errByCode[env.Code]; ok {
			return sentinel
		}
		return fmt.Errorf("gateway: %s (%s)", env.Message, env.Code)
	}
	return fmt.Errorf("gateway: unexpected status %d", res.StatusCode)
}

// decode runs a request and unmarshals the success envelope into T.
func decode[T any](req *httpx.Request) (T, error) {
	var zero T

	res, err := req.Send()
	if err != nil {
		return zero, fmt.Errorf("gateway: %w", err)
	}
	if !res.OK() {
		return zero, decodeError(res)
	}

	var env dataEnvelope[T]
	if err := res.JSON(&env); err != nil {
		return zero, fmt.Errorf("gateway: %w", err)
	}
	return env.Data, nil
}

// ─── ProductGateway ──────────────────────────────────────────────────────────

func (c *Client) List(ctx context.Context) (rows []models.Product, err error) {
	obs := metrics.ObserveGateway("list", time.Now())
	defer func() { obs(err) }()

	return decode[[]models.Product](
		httpx.Get(c.baseURL + "/api/products").
			WithContext(ctx).
			Bearer(c.bearer()).
			Retry(2, 200*time.Millisecond),
	)
}

func (c *Client) Insert(ctx context.Context, draft models.ProductDraft) (p models.Product, err error) {
	obs := metrics.ObserveGateway("insert", time.Now())
	defer func() { obs(err) }()

	return decode[models.Product](
		httpx.Post(c.baseURL + "/api/products").
			WithContext(ctx).
			Bearer(c.bearer()).
			Body(draft),
	)
}

func (c *Client) Update(ctx context.Context, p models.Product) (out models.Product, err error) {
	obs := metrics.ObserveGateway("update", time.Now())
	defer func() { obs(err) }()

	return decode[models.Product](
		httpx.Patch(fmt.Sprintf("%s/api/products/%d", c.baseURL, p.ID)).
			WithContext(ctx).
			Bearer(c.bearer()).
			Body(p),
	)
}

func (c *Client) Delete(ctx context.Context, id uint) (err error) {
	obs := metrics.ObserveGateway("delete", time.Now())
	defer func() { obs(err) }()

	res, err := httpx.Delete(fmt.Sprintf("%s/api/products/%d", c.baseURL, id)).
		WithContext(ctx).
		Bearer(c.bearer()).
		Send()
	if err != nil {
		return fmt.Errorf("gateway: %w", err)
	}
	// Deleting a missing row reads as success.
	if res.StatusCode == http.StatusNotFound || res.OK() {
		return nil
	}
	return decodeError(res)
}

// ─── AuthGateway ─────────────────────────────────────────────────────────────

func (c *Client) SignIn(ctx context.Context, email, password string) (s Session, err error) {
	obs := metrics.ObserveGateway("sign_in", time.Now())
	defer func() { obs(err) }()

	return decode[Session](
		httpx.Post(c.baseURL + "/api/auth/login").
			WithContext(ctx).
			Body(map[string]string{"email": email, "password": password}),
	)
}

func (c *Client) SignUp(ctx context.Context, creds models.Credentials) (id models.Identity, err error) {
	obs := metrics.ObserveGateway("sign_up", time.Now())
	defer func() { obs(err) }()

	return decode[models.Identity](
		httpx.Post(c.baseURL + "/api/auth/signup").
			WithContext(ctx).
			Body(creds),
	)
}

func (c *Client) VerifyToken(ctx context.Context, token, tokenType string) (s Session, err error) {
	obs := metrics.ObserveGateway("verify", time.Now())
	defer func() { obs(err) }()

	return decode[Session](
		httpx.Post(c.baseURL + "/api/auth/verify").
			WithContext(ctx).
			Body(map[string]string{"token": token, "type": tokenType}),
	)
}

func (c *Client) SetSession(ctx context.Context, accessToken, refreshToken string) (s Session, err error) {
	obs := metrics.ObserveGateway("set_session", time.Now())
	defer func() { obs(err) }()

	return decode[Session](
		httpx.Post(c.baseURL + "/api/auth/session").
			WithContext(ctx).
			Body(map[string]string{
				"access_token":  accessToken,
				"refresh_token": refreshToken,
			}),
	)
}

func (c *Client) CurrentSession(ctx context.Context, accessToken string) (s Session, err error) {
	obs := metrics.ObserveGateway("current_session", time.Now())
	defer func() { obs(err) }()

	return decode[Session](
		httpx.Get(c.baseURL + "/api/auth/session").
			WithContext(ctx).
			Bearer(accessToken),
	)
}
