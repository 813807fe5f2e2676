package adafruitio

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ServerTime is the time structure served by the Adafruit IO time
// integration, resolved for the caller's IP address or a requested timezone.
type ServerTime struct {
	Year  int
	Mon   int
	Mday  int
	Hour  int
	Min   int
	Sec   int
	Wday  int
	Yday  int
	Isdst int
}

// ReceiveTime fetches the current time from the service, optionally for the
// named timezone. The service reports weekdays with Sunday as 0; the returned
// Wday is normalized so that Monday is 0.
func (c *Client) ReceiveTime(timezone string) (ServerTime, error) {
	path := "integrations/time/struct.json"
	if timezone != "" {
		path += "?tz=" + url.QueryEscape(timezone)
	}
	m, err := c.get(path)
	if err != nil {
		return ServerTime{}, err
	}
	return ServerTime{
		Year:  int(mapInt(m, "year")),
		Mon:   int(mapInt(m, "mon")),
		Mday:  int(mapInt(m, "mday")),
		Hour:  int(mapInt(m, "hour")),
		Min:   int(mapInt(m, "min")),
		Sec:   int(mapInt(m, "sec")),
		Wday:  normalizeWeekday(int(mapInt(m, "wday"))),
		Yday:  int(mapInt(m, "yday")),
		Isdst: int(mapInt(m, "isdst")),
	}, nil
}

// normalizeWeekday rotates the service's Sunday=0 weekday convention to
// Monday=0.
func normalizeWeekday(wday int) int {
	return (wday + 6) % 7
}

// RawTime fetches the current time as plain text in the given unit (for
// example "seconds", "millis", or "ISO-8601"). Unlike the rest of the API
// this endpoint is not account-scoped and does not return JSON.
func (c *Client) RawTime(unit string) (string, error) {
	rawurl := fmt.Sprintf("%s/%s/%s", c.baseURL, "time", unit)
	body, err := c.do(http.MethodGet, rawurl, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// ReceiveWeather retrieves records from the weather integration, either all
// of them or the one with the given ID. The integration's schema is
// open-ended, so the decoded JSON is returned as-is.
func (c *Client) ReceiveWeather(weatherID int) (interface{}, error) {
	path := "integrations/weather"
	if weatherID != 0 {
		path = fmt.Sprintf("%s/%d", path, weatherID)
	}
	return c.getRaw(path)
}

// ReceiveRandom retrieves records from the random-word integration, either
// all of them or the one with the given ID. The integration's schema is
// open-ended, so the decoded JSON is returned as-is.
func (c *Client) ReceiveRandom(randomizerID int) (interface{}, error) {
	path := "integrations/words"
	if randomizerID != 0 {
		path = fmt.Sprintf("%s/%d", path, randomizerID)
	}
	return c.getRaw(path)
}
