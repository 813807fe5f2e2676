package adafruitio

import "fmt"

var (
	// DefaultBroker is the production Adafruit IO MQTT service over TLS.
	DefaultBroker = Broker{
		Host:   "io.adafruit.com",
		Port:   8883,
		Secure: true,
	}

	// InsecureBroker is the production Adafruit IO MQTT service over
	// plaintext, for platforms without TLS support.
	InsecureBroker = Broker{
		Host: "io.adafruit.com",
		Port: 1883,
	}
)

// Broker represents an Adafruit IO MQTT endpoint.
type Broker struct {
	Host   string
	Port   int
	Secure bool
}

// URL returns the URL of the MQTT endpoint.
func (b *Broker) URL() string {
	scheme := "tcp"
	if b.Secure {
		scheme = "ssl"
	}
	return fmt.Sprintf("%v://%v:%v", scheme, b.Host, b.Port)
}

// String returns a string representation of the Broker.
func (b *Broker) String() string {
	return b.URL()
}
