package adafruitio

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// BaseURL points the REST client at a different Adafruit IO deployment than
// the default production service. A trailing slash is stripped, as it is
// added back when composing request paths. This is an option meant to be
// passed to NewClient.
func BaseURL(u string) func(*Client) error {
	return func(c *Client) error {
		c.baseURL = strings.TrimRight(u, "/")
		return nil
	}
}

// APIVersion sets the REST API version tag used in request paths (default
// "v2"). This is an option meant to be passed to NewClient.
func APIVersion(version string) func(*Client) error {
	return func(c *Client) error {
		c.apiVersion = version
		return nil
	}
}

// Proxy routes all outbound REST requests through the given proxy URL. This
// is an option meant to be passed to NewClient.
func Proxy(proxyURL string) func(*Client) error {
	return func(c *Client) error {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return err
		}
		c.httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
		return nil
	}
}

// HTTPClient replaces the REST client's underlying *http.Client, for callers
// that need full control over transport configuration. This is an option
// meant to be passed to NewClient.
func HTTPClient(hc *http.Client) func(*Client) error {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

// UseBroker connects the MQTT client to a broker other than the default
// production service. This is an option meant to be passed to NewMQTTClient.
func UseBroker(b Broker) func(*MQTTClient, *mqtt.ClientOptions) error {
	return func(c *MQTTClient, opts *mqtt.ClientOptions) error {
		c.broker = b
		return nil
	}
}

// KeepAlive sets how long the MQTT connection may be idle before a keep-alive
// ping is sent (default one minute). This is an option meant to be passed to
// NewMQTTClient.
func KeepAlive(d time.Duration) func(*MQTTClient, *mqtt.ClientOptions) error {
	return func(c *MQTTClient, opts *mqtt.ClientOptions) error {
		opts.SetKeepAlive(d)
		return nil
	}
}

// ConnectTimeout bounds how long an MQTT connection attempt may take. This is
// an option meant to be passed to NewMQTTClient.
func ConnectTimeout(d time.Duration) func(*MQTTClient, *mqtt.ClientOptions) error {
	return func(c *MQTTClient, opts *mqtt.ClientOptions) error {
		opts.SetConnectTimeout(d)
		return nil
	}
}

// EventBufferSize sets how many inbound MQTT messages may queue while no
// loop method is draining them (default 64). This is an option meant to be
// passed to NewMQTTClient.
func EventBufferSize(n int) func(*MQTTClient, *mqtt.ClientOptions) error {
	return func(c *MQTTClient, opts *mqtt.ClientOptions) error {
		if n < 1 {
			return fmt.Errorf("adafruitio: event buffer size must be positive, got %d", n)
		}
		c.events = make(chan messageEvent, n)
		return nil
	}
}

// ClientID overrides the generated MQTT client identifier. This is an option
// meant to be passed to NewMQTTClient.
func ClientID(id string) func(*MQTTClient, *mqtt.ClientOptions) error {
	return func(c *MQTTClient, opts *mqtt.ClientOptions) error {
		opts.SetClientID(id)
		return nil
	}
}
