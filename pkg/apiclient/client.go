package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxResponseBody caps how much of a response is read into memory.
const maxResponseBody = 1 << 20

// Request describes one storefront API call. Body may be nil, a pre-encoded
// []byte or json.RawMessage (sent untouched), or any JSON-marshalable value.
// Header carries per-call headers layered over the client's static ones.
type Request struct {
	Method string
	Path   string
	Body   any
	Header http.Header
}

// Caller is the call surface shared by the bare gateway and the resilience
// layers wrapping it. Consumers accept a Caller so they can be composed with
// either.
type Caller interface {
	Do(ctx context.Context, req Request) (json.RawMessage, error)
}

// Client is the request gateway. It is safe for concurrent use; all mutable
// per-session state lives in the cookie jar, which the http.Client
// synchronizes internally.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	csrfCookie string
	csrfHeader string
	userAgent  string
	headers    map[string]string
	log        *slog.Logger
}

// New creates a gateway for the given API origin.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidBaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidBaseURL)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:    15 * time.Second,
		csrfCookie: "csrftoken",
		csrfHeader: "X-CSRFToken",
		userAgent:  "shopkit/1.0",
		headers:    make(map[string]string),
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	// The credential is an opaque httponly cookie; without a jar it would be
	// dropped after the first response and every later call would be anonymous.
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("apiclient: create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}

	return c, nil
}

// Do performs one authenticated call and classifies the outcome. On success
// the raw JSON body is returned (nil for empty 2xx responses); every failure
// is one of *AuthError, *APIError or *TransportError.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	payload, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	// JoinPath would percent-encode a "?" as part of the path element, so
	// the query string is split off and carried over verbatim.
	path, query, _ := strings.Cut(req.Path, "?")
	target := c.baseURL.JoinPath(path)
	target.RawQuery = query

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("apiclient: create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if isStateChanging(req.Method) {
		if token := c.csrfToken(); token != "" {
			httpReq.Header.Set(c.csrfHeader, token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.DebugContext(ctx, "storefront call failed in transport",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}

	c.log.DebugContext(ctx, "storefront call completed",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if len(body) == 0 {
			return nil, nil
		}
		return json.RawMessage(body), nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthError{Status: resp.StatusCode, Body: body}
	case resp.StatusCode == http.StatusForbidden && credentialRejected(body):
		return nil, &AuthError{Status: resp.StatusCode, Body: body}
	default:
		return nil, &APIError{Status: resp.StatusCode, Body: body}
	}
}

// csrfToken reads the anti-forgery token from the jar's well-known cookie.
// Empty when the server has not issued one yet (first anonymous call).
func (c *Client) csrfToken() string {
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		if ck.Name == c.csrfCookie {
			return ck.Value
		}
	}
	return ""
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
		}
		return payload, nil
	}
}

func isStateChanging(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
