package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultFacilitiesBaseURL = "https://navi.jyu.fi/api"
	defaultProxyURL          = "https://jyu-room-proxy.mrbesher.workers.dev"
	defaultUserAgent         = "jyu-rooms/1.0"
	defaultRequestTimeout    = 10 * time.Second
)

var ErrMalformedResponse = errors.New("malformed response")

// FetchError names the facilities resource whose request failed.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func IsFetchError(err error) *FetchError {
	if err == nil {
		return nil
	}

	var fetchErr *FetchError

	if errors.As(err, &fetchErr) {
		return fetchErr
	}

	return nil
}

type Client struct {
	HTTP              *http.Client
	FacilitiesBaseURL string
	ProxyURL          string
	UserAgent         string
	// RequestTimeout bounds a single attempt; a timed out attempt is retried once.
	RequestTimeout time.Duration
}

func NewClient() *Client {
	return &Client{
		HTTP:              &http.Client{},
		FacilitiesBaseURL: defaultFacilitiesBaseURL,
		ProxyURL:          defaultProxyURL,
		UserAgent:         defaultUserAgent,
		RequestTimeout:    defaultRequestTimeout,
	}
}

func (c *Client) newRequest(ctx context.Context, baseURL, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if path != "" {
		path = strings.TrimPrefix(path, "/")
		base.Path = strings.TrimSuffix(base.Path, "/") + "/" + path
	}
	if query != nil {
		base.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, base.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// doTimed runs build+do once, and once more if the first attempt timed out.
func (c *Client) doTimed(ctx context.Context, build func(ctx context.Context) (*http.Request, error), dest any) error {
	err := c.attempt(ctx, build, dest)
	if err != nil && isTimeout(err) && ctx.Err() == nil {
		err = c.attempt(ctx, build, dest)
	}
	return err
}

func (c *Client) attempt(ctx context.Context, build func(ctx context.Context) (*http.Request, error), dest any) error {
	if c.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.RequestTimeout)
		defer cancel()
	}
	req, err := build(ctx)
	if err != nil {
		return err
	}
	return c.doJSON(req, dest)
}

func (c *Client) doJSON(req *http.Request, dest any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		// A deadline hit mid-body is a timeout, not a bad payload.
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("read body: %v: %w", err, ctxErr)
		}
		if isTimeout(err) {
			return fmt.Errorf("read body: %w", err)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body: %w", ErrMalformedResponse)
		}
		return fmt.Errorf("decode: %v: %w", err, ErrMalformedResponse)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
