package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

const refreshPath = "tenants/auth/google/refresh/"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Options configures the REST client.
type Options struct {
	BaseURL      string
	AccessToken  string
	RefreshToken string
	Timeout      time.Duration
	HTTPClient   *http.Client
	Logger       types.Logger
	// OnLogout runs once the session cannot be refreshed any more.
	OnLogout func()
}

// Client talks to the finance backend. Every request carries the bearer
// token; a 401 triggers exactly one refresh and one retry.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	session *session
	logger  types.Logger
}

// NewClient cria um novo cliente para a API.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, types.ErrMissingAPIURL
	}
	raw := opts.BaseURL
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", opts.BaseURL, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = time.Duration(types.DefaultTimeoutSeconds) * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		baseURL: base,
		http:    httpClient,
		logger:  opts.Logger,
	}
	c.session = newSession(opts.AccessToken, &refresher{client: c, refreshToken: opts.RefreshToken}, opts.OnLogout)
	return c, nil
}

// refresher exchanges the refresh token for a new access token.
type refresher struct {
	client       *Client
	refreshToken string
	ctx          context.Context
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Token implements oauth2.TokenSource.
func (r *refresher) Token() (*oauth2.Token, error) {
	if r.refreshToken == "" {
		return nil, types.ErrUnauthorized
	}
	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	payload, err := json.Marshal(map[string]string{"refresh_token": r.refreshToken})
	if err != nil {
		return nil, err
	}
	req, err := r.client.newRequest(ctx, http.MethodPost, refreshPath, nil, payload)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: refresh returned %d", types.ErrUnauthorized, resp.StatusCode)
	}
	var out refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding refresh response: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("%w: refresh returned no access token", types.ErrUnauthorized)
	}
	if out.RefreshToken != "" {
		r.refreshToken = out.RefreshToken
	}
	return &oauth2.Token{AccessToken: out.AccessToken, TokenType: "Bearer"}, nil
}

// session holds the current bearer token. Access tokens carry no expiry, so
// a refresh happens only when the backend answers 401.
type session struct {
	mu        sync.Mutex
	current   *oauth2.Token
	source    *refresher
	onLogout  func()
	loggedOut bool
}

func newSession(accessToken string, source *refresher, onLogout func()) *session {
	s := &session{source: source, onLogout: onLogout}
	if accessToken != "" {
		s.current = &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	}
	return s
}

func (s *session) token() *oauth2.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// refresh replaces the token unless another caller already did so after
// stale was observed.
func (s *session) refresh(ctx context.Context, stale *oauth2.Token) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current != stale {
		return s.current, nil
	}
	if s.loggedOut {
		return nil, types.ErrUnauthorized
	}
	s.source.ctx = ctx
	tok, err := s.source.Token()
	s.source.ctx = nil
	if err != nil {
		s.current = nil
		s.loggedOut = true
		if s.onLogout != nil {
			s.onLogout()
		}
		if errors.Is(err, types.ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", types.ErrUnauthorized, err)
	}
	s.current = tok
	return tok, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	u := c.baseURL.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do performs an authenticated request and decodes a JSON response into out
// (when out is non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	tok := c.session.token()
	resp, err := c.send(ctx, method, path, query, body, tok)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		c.debug("%s %s answered 401, refreshing session", method, path)
		if tok, err = c.session.refresh(ctx, tok); err != nil {
			return err
		}
		if resp, err = c.send(ctx, method, path, query, body, tok); err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			return types.ErrUnauthorized
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte, tok *oauth2.Token) (*http.Response, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if tok != nil {
		tok.SetAuthHeader(req)
	}
	c.debug("%s %s", method, req.URL.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) debug(format string, a ...interface{}) {
	if c.logger != nil {
		c.logger.LogDebug(format, a...)
	}
}

func (c *Client) warn(format string, a ...interface{}) {
	if c.logger != nil {
		c.logger.LogWarning(format, a...)
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
