package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
	"github.com/gate2way/gate2way-backend/internal/logging"
)

// Config tunes a Client. Zero values fall back to defaults.
type Config struct {
	// Token is the service credential used when the request context carries none.
	Token     string
	Timeout   time.Duration
	RPS       float64
	Burst     int
	Transport http.RoundTripper
}

// Client talks to the remote Gate2Way REST API.
type Client struct {
	baseURL      string
	defaultToken *oauth2.Token
	transport    http.RoundTripper
	timeout      time.Duration
	limiter      *rate.Limiter
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		defaultToken: parseAuthorization(cfg.Token),
		transport:    transport,
		timeout:      cfg.Timeout,
		limiter:      rate.NewLimiter(limit, cfg.Burst),
	}
}

// httpClient returns a client authenticating with the caller's token when
// present, else the service token.
func (c *Client) httpClient(ctx context.Context, timeout time.Duration) *http.Client {
	tok := tokenFrom(ctx)
	if tok == nil {
		tok = c.defaultToken
	}
	if tok == nil {
		return &http.Client{Transport: c.transport, Timeout: timeout}
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(tok),
			Base:   c.transport,
		},
		Timeout: timeout,
	}
}

func (c *Client) do(ctx context.Context, operation string, req *http.Request, timeout time.Duration) ([]byte, error) {
	logger := logging.NewLogger(ctx)
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		recordCall(time.Since(start), err)
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.httpClient(ctx, timeout).Do(req)
	if err != nil {
		logger.LogError(operation, err)
		recordCall(time.Since(start), err)
		return nil, fmt.Errorf("remote api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	if err != nil {
		recordCall(duration, err)
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := newStatusError(resp.StatusCode, body)
		logger.LogWarnf(operation, "remote api returned status %d", resp.StatusCode)
		recordCall(duration, serr)
		return nil, serr
	}

	recordCall(duration, nil)
	return body, nil
}

func (c *Client) get(ctx context.Context, operation, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(ctx, operation, req, c.timeout)
}

// ListProgramas returns the program selector options.
func (c *Client) ListProgramas(ctx context.Context) ([]domain.Option, error) {
	body, err := c.get(ctx, "list_programas", "/programas")
	if err != nil {
		return nil, err
	}
	return decodeOptions(body)
}

// ListImpulsos returns the academic incentive selector options.
func (c *Client) ListImpulsos(ctx context.Context) ([]domain.Option, error) {
	body, err := c.get(ctx, "list_impulsos", "/impulsos")
	if err != nil {
		return nil, err
	}
	return decodeOptions(body)
}

// GetProjeto fetches one project record.
func (c *Client) GetProjeto(ctx context.Context, id int) (*ProjectRecord, error) {
	body, err := c.get(ctx, "get_projeto", "/projetos/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	var rec ProjectRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	return &rec, nil
}

// CreateProjeto posts a new project as multipart/form-data.
func (c *Client) CreateProjeto(ctx context.Context, p *ProjectPayload) (json.RawMessage, error) {
	return c.send(ctx, "create_projeto", http.MethodPost, "/projetos", p)
}

// UpdateProjeto replaces an existing project as multipart/form-data.
func (c *Client) UpdateProjeto(ctx context.Context, id int, p *ProjectPayload) (json.RawMessage, error) {
	return c.send(ctx, "update_projeto", http.MethodPut, "/projetos/"+strconv.Itoa(id), p)
}

func (c *Client) send(ctx context.Context, operation, method, path string, p *ProjectPayload) (json.RawMessage, error) {
	body, contentType, err := encodeMultipart(p)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	timeout := c.timeout
	if p.File != nil && timeout < UploadTimeout {
		timeout = UploadTimeout
	}

	logging.NewLogger(ctx).LogInfof(operation, "sending %s %s (%d bytes)", method, path, body.Len())
	resp, err := c.do(ctx, operation, req, timeout)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp), nil
}
