package adafruitio

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DefaultDataLimit is how many rows Data fetches when no explicit maximum is
// given.
const DefaultDataLimit = 100

// AllData asks Data to fetch every row of the feed. The feed's row count is
// learned from a feed-details call first.
const AllData = -1

// Metadata optionally accompanies a sent value with location and timestamp
// information.
type Metadata struct {
	Lat       float64
	Lon       float64
	Ele       float64
	CreatedAt string
}

type sendConfig struct {
	meta         *Metadata
	precision    int
	hasPrecision bool
}

// SendOption modifies how SendData builds the row it creates.
type SendOption func(*sendConfig)

// WithMetadata attaches location and created-at metadata to the sent value.
func WithMetadata(meta Metadata) SendOption {
	return func(cfg *sendConfig) {
		cfg.meta = &meta
	}
}

// WithPrecision rounds a floating point value to the given number of decimal
// places before sending. Integer values pass through unchanged. SendData
// fails with ErrPrecisionNotSupported if the value is not numeric.
func WithPrecision(digits int) SendOption {
	return func(cfg *sendConfig) {
		cfg.precision = digits
		cfg.hasPrecision = true
	}
}

// SendData appends a value to the feed identified by name, key, or ID, and
// returns the newly created row. The feed must already exist.
func (c *Client) SendData(feed string, value interface{}, options ...SendOption) (Data, error) {
	var cfg sendConfig
	for _, option := range options {
		option(&cfg)
	}

	var text string
	if cfg.hasPrecision {
		switch v := value.(type) {
		case float64:
			text = strconv.FormatFloat(v, 'f', cfg.precision, 64)
		case float32:
			text = strconv.FormatFloat(float64(v), 'f', cfg.precision, 32)
		case int:
			text = strconv.Itoa(v)
		case int64:
			text = strconv.FormatInt(v, 10)
		default:
			return Data{}, ErrPrecisionNotSupported
		}
	} else {
		text = valueText(value)
	}

	payload := Data{Value: text}
	if cfg.meta != nil {
		payload.Lat = cfg.meta.Lat
		payload.Lon = cfg.meta.Lon
		payload.Ele = cfg.meta.Ele
		payload.CreatedAt = cfg.meta.CreatedAt
	}
	return c.CreateData(feed, payload)
}

// Send appends a value to a feed. It is an alias for SendData.
func (c *Client) Send(feed string, value interface{}, options ...SendOption) (Data, error) {
	return c.SendData(feed, value, options...)
}

// Append appends a value to a feed. Like SendData, it requires the feed to
// already exist.
func (c *Client) Append(feed string, value interface{}) (Data, error) {
	return c.SendData(feed, value)
}

// SendLocationData appends a value with geographic coordinates to a feed.
func (c *Client) SendLocationData(feed string, value interface{}, lat, lon, ele float64) (Data, error) {
	return c.SendData(feed, value, WithMetadata(Metadata{Lat: lat, Lon: lon, Ele: ele}))
}

// SendBatchData creates multiple rows in a feed with a single call. The
// service does not echo the created rows back for the batch path, so the
// response body is discarded.
func (c *Client) SendBatchData(feed string, data []Data) error {
	path := fmt.Sprintf("feeds/%s/data/batch", feed)
	_, err := c.do(http.MethodPost, c.composeURL(path), map[string]interface{}{"data": data})
	return err
}

// CreateData creates a single row in a feed and returns it with the fields
// the service filled in.
func (c *Client) CreateData(feed string, data Data) (Data, error) {
	path := fmt.Sprintf("feeds/%s/data", feed)
	m, err := c.post(path, data)
	if err != nil {
		return Data{}, err
	}
	return DataFromMap(m), nil
}

// Receive retrieves the most recent row of a feed.
func (c *Client) Receive(feed string) (Data, error) {
	return c.receiveData(feed, "last")
}

// ReceiveNext retrieves the next unread row of a feed. The service tracks a
// per-feed read cursor server-side; the client holds no cursor state.
func (c *Client) ReceiveNext(feed string) (Data, error) {
	return c.receiveData(feed, "next")
}

// ReceivePrevious retrieves the previous unread row of a feed. The service's
// read cursor has been observed to skip rows after interleaved next/previous
// reads; the client reports whatever row the service returns.
func (c *Client) ReceivePrevious(feed string) (Data, error) {
	return c.receiveData(feed, "previous")
}

func (c *Client) receiveData(feed, which string) (Data, error) {
	m, err := c.get(fmt.Sprintf("feeds/%s/data/%s", feed, which))
	if err != nil {
		return Data{}, err
	}
	return DataFromMap(m), nil
}

// Data retrieves up to maxResults rows from a feed, following pagination
// links across as many requests as needed. Pass 0 for the default limit of
// DefaultDataLimit rows, or AllData to fetch the feed's entire history.
func (c *Client) Data(feed string, maxResults int) ([]Data, error) {
	if maxResults == 0 {
		maxResults = DefaultDataLimit
	}
	if maxResults < 0 {
		count, err := c.dataCount(feed)
		if err != nil {
			return nil, err
		}
		maxResults = count
	}

	path := fmt.Sprintf("feeds/%s/data", feed)
	query := url.Values{"limit": []string{strconv.Itoa(maxResults)}}

	var rows []Data
	for len(rows) < maxResults {
		list, err := c.getList(path, query)
		if err != nil {
			return nil, err
		}
		for _, m := range list {
			rows = append(rows, DataFromMap(m))
		}
		if len(list) == 0 {
			break
		}

		next := parseNextLink(c.lastResponse.Header.Get("Link"))
		if next == "" {
			break
		}
		u, err := url.Parse(next)
		if err != nil {
			return nil, err
		}
		// Reuse the next page's query parameters, asking only for the
		// rows still missing.
		query = u.Query()
		query.Set("limit", strconv.Itoa(maxResults-len(rows)))
	}

	if len(rows) > maxResults {
		rows = rows[:maxResults]
	}
	return rows, nil
}

// DataByID retrieves a single row of a feed by its ID.
func (c *Client) DataByID(feed, dataID string) (Data, error) {
	m, err := c.get(fmt.Sprintf("feeds/%s/data/%s", feed, dataID))
	if err != nil {
		return Data{}, err
	}
	return DataFromMap(m), nil
}

// DeleteData deletes a single row of a feed.
func (c *Client) DeleteData(feed, dataID string) error {
	return c.delete(fmt.Sprintf("feeds/%s/data/%s", feed, dataID))
}

// dataCount asks the feed-details endpoint how many rows the feed holds.
func (c *Client) dataCount(feed string) (int, error) {
	m, err := c.get(fmt.Sprintf("feeds/%s/details", feed))
	if err != nil {
		return 0, err
	}
	details := mapObject(m, "details")
	return int(mapInt(mapObject(details, "data"), "count")), nil
}

var nextLinkURL = regexp.MustCompile(`https?://[^>]+`)

// parseNextLink extracts the rel="next" URL from a Link response header.
// The service emits the header without the usual comma-separated quoting, so
// the URL is pulled out with a regular expression instead of a conforming
// Link parser. TODO: switch to proper Link parsing once the service fixes
// its header formatting.
func parseNextLink(header string) string {
	if header == "" || !strings.Contains(header, `rel="next"`) {
		return ""
	}
	return nextLinkURL.FindString(header)
}

// valueText renders a value the way it is transmitted on the wire. The
// service stores and returns every value as text.
func valueText(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
