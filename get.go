package height

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"

	uuid "github.com/nu7hatch/gouuid"
	log "github.com/sirupsen/logrus"
)

// ErrStatusCode is returned in case the response from the API contains a status code that the client can't handle.
var ErrStatusCode = errors.New("unhandled status code")

// envelope is how the API wraps every collection it returns.
type envelope[T any] struct {
	List []T `json:"list"`
}

// wireEntry is one line of the wire log.
type wireEntry struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id"`
	URL       string          `json:"url,omitempty"`
	Status    int             `json:"status,omitempty"`
	Response  json.RawMessage `json:"response,omitempty"`
	Text      string          `json:"text,omitempty"`
}

func (c *Client) logWire(e wireEntry) {
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, _ = c.wlog.Write(b)
	_, _ = c.wlog.Write([]byte("\n"))
}

func newRequestID() string {
	u, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return u.String()
}

// get makes a GET API call to the given path and decodes the JSON response into v. The op argument only serves to
// annotate errors and log entries.
func (c *Client) get(ctx context.Context, op string, path string, query url.Values, v interface{}) error {
	target := c.endpoint + path
	if len(query) != 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	requestID := newRequestID()
	req.Header.Set("Authorization", "api-key "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	c.logWire(wireEntry{Type: "request", RequestID: requestID, URL: target})

	r, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.WithFields(log.Fields{
				"op":    op,
				"cause": err,
			}).Warning("Could not close response body")
		}
	}()
	b, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("%s, read body: %w", op, err)
	}
	entry := wireEntry{Type: "response", RequestID: requestID, Status: r.StatusCode}
	if json.Valid(b) {
		entry.Response = b
	} else {
		entry.Text = string(b)
	}
	c.logWire(entry)

	switch r.StatusCode {
	case http.StatusOK:
		if err := json.Unmarshal(b, v); err != nil {
			return fmt.Errorf("%s, unmarshal: %w", op, err)
		}
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		// Only the outermost layer should log; this is debug level for that reason.
		log.WithFields(log.Fields{
			"op":   op,
			"code": r.StatusCode,
			"text": string(b),
		}).Debug("Unhandled response status code")
		return fmt.Errorf("%s: %d: %w", op, r.StatusCode, ErrStatusCode)
	}
}

// getList is get for endpoints returning a collection.
func getList[T any](ctx context.Context, c *Client, op string, path string, query url.Values) ([]T, error) {
	var env envelope[T]
	if err := c.get(ctx, op, path, query, &env); err != nil {
		return nil, err
	}
	if env.List == nil {
		return []T{}, nil
	}
	return env.List, nil
}
