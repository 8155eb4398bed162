package height

import (
	"errors"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when looking up a list or task that does not exist.
var ErrNotFound = errors.New("not found")

// DefaultEndpoint is the base URL of the Height API.
const DefaultEndpoint = "https://api.height.app"

type clientOption func(*Client) error

// WithEndpoint is a client option to set the base URL when building a client with NewClient. Mostly meant to be
// used in tests.
func WithEndpoint(endpoint string) clientOption {
	return func(c *Client) error {
		c.endpoint = strings.TrimSuffix(endpoint, "/")
		return nil
	}
}

// WithWireLog is a client option to be passed to NewClient in order to log all requests and responses to the
// specified log file. Useful for debugging the client itself, shouldn't be needed in normal operation.
func WithWireLog(pathname string) clientOption {
	return func(c *Client) error {
		if pathname == "" {
			return nil
		}
		f, err := os.OpenFile(pathname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err == nil {
			c.wlog = f
		}
		return err
	}
}

// WithHTTPClient replaces the HTTP client used for API calls, e.g., to set a different timeout.
func WithHTTPClient(hc *http.Client) clientOption {
	return func(c *Client) error {
		c.http = hc
		return nil
	}
}

// Client is a Height REST API client. It is safe for concurrent use, which the batch fetcher relies on.
type Client struct {
	endpoint string

	// The secret token to authenticate and authorize API calls.
	token string

	http *http.Client

	// If non-nil, log all requests and responses to this writer, one per line, in JSON format. Calls can be
	// concurrent, hence the mutex.
	wmu  sync.Mutex
	wlog io.Writer
}

// NewClient creates a new client authenticated and authorized by the given token.
func NewClient(token string, opts ...clientOption) (*Client, error) {
	c := &Client{
		endpoint: DefaultEndpoint,
		token:    token,
		http:     &http.Client{Timeout: 30 * time.Second},
		wlog:     ioutil.Discard,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Close releases the wire log, if one was configured.
func (c *Client) Close() error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if closer, ok := c.wlog.(io.Closer); ok {
		c.wlog = ioutil.Discard
		return closer.Close()
	}
	return nil
}
