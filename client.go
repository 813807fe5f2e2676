package adafruitio

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// Version is the client version reported in the User-Agent header.
const Version = "1.0.0"

const (
	defaultBaseURL    = "https://io.adafruit.com"
	defaultAPIVersion = "v2"
)

// Client interacts with the Adafruit IO service over its REST API. Use it to
// send, receive, and enumerate feed data and to manage feeds, groups, and
// dashboards.
//
// Every method performs exactly one synchronous HTTP round trip. The client
// holds no mutable state other than the response of the most recent call,
// which is kept only for pagination-link extraction and is not synchronized;
// a Client is therefore not safe for concurrent use.
type Client struct {
	username   string
	key        string
	baseURL    string
	apiVersion string
	userAgent  string
	httpClient *http.Client

	lastResponse *http.Response
}

// NewClient creates a client for the Adafruit IO REST API. The key must be
// set to the account's AIO access key. By default the client talks to the
// production service over SSL; see the client options for pointing it at a
// different deployment or through a proxy.
func NewClient(username, key string, options ...func(*Client) error) (*Client, error) {
	c := &Client{
		username:   username,
		key:        key,
		baseURL:    defaultBaseURL,
		apiVersion: defaultAPIVersion,
		userAgent: fmt.Sprintf("AdafruitIO-Go/%s (%s; %s %s)",
			Version, runtime.Version(), runtime.GOOS, runtime.GOARCH),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Username returns the account username the client was created with.
func (c *Client) Username() string {
	return c.username
}

// composeURL builds an account-scoped API URL of the form
// {base}/api/{version}/{username}/{path}.
func (c *Client) composeURL(path string) string {
	return fmt.Sprintf("%s/api/%s/%s/%s", c.baseURL, c.apiVersion, c.username, path)
}

func (c *Client) do(method, rawurl string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		j, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("adafruitio: %s %s: %w", method, rawurl, err)
		}
		reader = bytes.NewReader(j)
	}

	req, err := http.NewRequest(method, rawurl, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-AIO-Key", c.key)
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	logrus.WithFields(logrus.Fields{"method": method, "url": rawurl}).Debug("adafruitio request")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	c.lastResponse = res

	if err := checkResponse(res, resBody); err != nil {
		return nil, err
	}
	return resBody, nil
}

// checkResponse translates a non-2xx response into a typed error: HTTP 429
// becomes a ThrottlingError, any other status of 400 or above becomes a
// RequestError carrying the status, reason phrase, and the service's own
// error message when it sent one.
func checkResponse(res *http.Response, body []byte) error {
	if res.StatusCode == http.StatusTooManyRequests {
		return &ThrottlingError{}
	}
	if res.StatusCode >= 400 {
		var payload map[string]interface{}
		var message string
		if json.Unmarshal(body, &payload) == nil {
			message = mapString(payload, "error")
		}
		reason := strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
		return &RequestError{StatusCode: res.StatusCode, Status: reason, Message: message}
	}
	return nil
}

// get fetches an account-scoped path and decodes the response as a single
// JSON object.
func (c *Client) get(path string) (map[string]interface{}, error) {
	return c.getURL(c.composeURL(path))
}

func (c *Client) getURL(rawurl string) (map[string]interface{}, error) {
	body, err := c.do(http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// getList fetches an account-scoped path, optionally with query parameters,
// and decodes the response as a JSON array of objects.
func (c *Client) getList(path string, query url.Values) ([]map[string]interface{}, error) {
	rawurl := c.composeURL(path)
	if len(query) > 0 {
		rawurl += "?" + query.Encode()
	}
	body, err := c.do(http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}
	var list []map[string]interface{}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// getRaw fetches an account-scoped path and decodes the response as arbitrary
// JSON. Used for the integrations whose schemas are open-ended.
func (c *Client) getRaw(path string) (interface{}, error) {
	body, err := c.do(http.MethodGet, c.composeURL(path), nil)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// post sends body as JSON to an account-scoped path and decodes the response
// as a single JSON object.
func (c *Client) post(path string, body interface{}) (map[string]interface{}, error) {
	resBody, err := c.do(http.MethodPost, c.composeURL(path), body)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(resBody, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *Client) delete(path string) error {
	_, err := c.do(http.MethodDelete, c.composeURL(path), nil)
	return err
}
