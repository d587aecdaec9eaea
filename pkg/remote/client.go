package remote

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	requestTimeout = 30 * time.Second
	userAgent      = "huettenbuch/1.0"
	csrfCookieName = "XSRF-TOKEN"
	csrfHeaderName = "X-XSRF-TOKEN"
)

// Response captures everything a caller needs from one remote call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client executes single HTTP requests against the remote system. It
// owns the cookie jar and the current CSRF token for one sync run; it is
// not safe for concurrent use and is not meant to be shared across runs.
type Client struct {
	baseURL    string
	httpClient *http.Client
	jar        *Jar
	csrfToken  string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		jar:        NewJar(),
	}
}

// Jar exposes the cookie jar, mainly so the session handshake can read
// rotated CSRF cookies.
func (c *Client) Jar() *Jar {
	return c.jar
}

// CSRFToken returns the token that will accompany the next request.
func (c *Client) CSRFToken() string {
	return c.csrfToken
}

// SetCSRFToken overrides the standing CSRF token.
func (c *Client) SetCSRFToken(token string) {
	c.csrfToken = token
}

// Do executes one request. Baseline headers, the accumulated cookies and
// the CSRF header are merged with extraHeaders (caller wins). Response
// cookies are absorbed into the jar regardless of status code, and a
// rotated XSRF-TOKEN cookie immediately becomes the standing token.
// A connection-level failure is reported as a TransportError; HTTP error
// statuses are returned in the Response for the caller to judge. The
// client never retries.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, extraHeaders map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.8")
	req.Header.Set("User-Agent", userAgent)
	// The remote CSRF middleware checks that writes originate from its
	// own UI.
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")

	if c.jar.Len() > 0 {
		req.Header.Set("Cookie", c.jar.Header())
	}
	if c.csrfToken != "" {
		req.Header.Set(csrfHeaderName, c.csrfToken)
	}
	for name, value := range extraHeaders {
		req.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	c.jar.Absorb(resp.Header.Values("Set-Cookie"))
	if token := c.jar.Get(csrfCookieName); token != "" {
		// Cookie values arrive URL-encoded.
		if decoded, err := url.QueryUnescape(token); err == nil {
			token = decoded
		}
		c.csrfToken = token
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
