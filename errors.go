package adafruitio

import (
	"errors"
	"fmt"
)

// ErrPrecisionNotSupported is returned by SendData when WithPrecision is used
// with a value that is not a floating point number. It is raised locally,
// before any network call is made.
var ErrPrecisionNotSupported = errors.New("adafruitio: using precision requires a float value")

// RequestError is the general error for a failed Adafruit IO request. It
// carries the HTTP status code, the reason phrase, and the error message
// supplied by the service, when present.
type RequestError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("adafruitio: request failed: %d %s - %s", e.StatusCode, e.Status, e.Message)
}

// ThrottlingError indicates that too many requests have been made to Adafruit
// IO in a short period of time (HTTP 429). Reduce the rate of requests and try
// again later; the client performs no retries of its own.
type ThrottlingError struct{}

func (e *ThrottlingError) Error() string {
	return "adafruitio: exceeded the limit of Adafruit IO requests in a short period of time, " +
		"please reduce the rate of requests and try again later"
}

// mqttReasons maps MQTT connect/disconnect result codes to their reasons.
var mqttReasons = []string{
	"connection successful",
	"incorrect protocol version",
	"invalid client ID",
	"server unavailable",
	"bad username or password",
	"not authorized",
}

// MQTTError reports a non-zero MQTT connection or disconnection result code
// from the Adafruit IO broker.
type MQTTError struct {
	Code byte
}

func (e *MQTTError) Error() string {
	if int(e.Code) < len(mqttReasons) {
		return "adafruitio: " + mqttReasons[e.Code]
	}
	return fmt.Sprintf("adafruitio: connection failed with unknown result code %d", e.Code)
}
