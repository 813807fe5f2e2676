// Package adafruitio eases interaction with the Adafruit IO cloud data service
// over both its REST API and its MQTT broker. It handles authentication, URL
// and topic construction, JSON (de)serialization into plain record types, and
// the translation of HTTP status codes and MQTT result codes into typed errors.
//
// The REST Client is synchronous: every method performs exactly one HTTP round
// trip and returns a record or a typed error. The MQTTClient wraps a
// github.com/eclipse/paho.mqtt.golang connection and dispatches inbound feed,
// group, time, and weather updates to caller-registered handlers.
package adafruitio
