package adafruitio

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/eclipse/paho.mqtt.golang/packets"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// How long the connection may be idle before a keep-alive ping is sent.
const defaultKeepAlive = 60 * time.Second

// How many inbound messages may queue while no loop is draining them, and how
// long an arriving message waits for a free slot before it is dropped.
const (
	defaultEventBuffer = 64
	defaultEnqueueWait = 5 * time.Second
)

// ErrNoMessageHandler is returned by the loop-driving methods when a message
// arrives and no OnMessage handler has been registered. Messages are never
// silently dropped.
var ErrNoMessageHandler = errors.New("adafruitio: message received but no OnMessage handler is registered")

// forecastTypes are the forecast intervals accepted by SubscribeWeather.
var forecastTypes = []string{
	"current",
	"forecast_minutes_5",
	"forecast_minutes_30",
	"forecast_hours_1",
	"forecast_hours_2",
	"forecast_hours_6",
	"forecast_hours_24",
	"forecast_days_1",
	"forecast_days_2",
	"forecast_days_5",
}

type messageEvent struct {
	topic   string
	payload string
}

// MQTTClient publishes and subscribes to feed changes on Adafruit IO over
// MQTT. Register the callback slots before calling Connect, then drive the
// message loop with one of LoopBackground, LoopBlocking, or Loop; the three
// modes are mutually exclusive and no two of them may run concurrently
// against the same client.
//
// Inbound messages queue in an internal buffer until a loop method consumes
// them. The buffer holds 64 messages by default (see EventBufferSize); a
// message that cannot be queued within five seconds because no loop is
// draining the buffer is dropped with a logged warning.
//
// OnConnect and OnDisconnect run on the transport's own goroutine. With
// LoopBackground, OnMessage runs on the internally managed loop goroutine as
// well, so handlers must synchronize any state they share with the rest of
// the program. With Loop and LoopBlocking, OnMessage runs on the goroutine
// driving the loop.
type MQTTClient struct {
	// OnConnect is invoked after the broker acknowledges a connection.
	OnConnect func(client *MQTTClient)
	// OnDisconnect is invoked when the connection ends, whether requested
	// or not.
	OnDisconnect func(client *MQTTClient)
	// OnMessage is invoked with the logical topic identifier and the
	// decoded text payload of every inbound message.
	OnMessage func(client *MQTTClient, topic string, payload string)

	username string
	key      string
	broker   Broker
	client   mqtt.Client

	events      chan messageEvent
	enqueueWait time.Duration

	mu        sync.Mutex
	connected bool
	done      chan struct{}
	loopErr   error
}

// NewMQTTClient creates a client for the Adafruit IO MQTT broker. The key
// must be set to the account's AIO access key; it is sent as the MQTT
// password. By default the client connects to the production service over
// TLS; see the client options for connecting elsewhere or tuning the
// connection.
func NewMQTTClient(username, key string, options ...func(*MQTTClient, *mqtt.ClientOptions) error) (*MQTTClient, error) {
	c := &MQTTClient{
		username:    username,
		key:         key,
		broker:      DefaultBroker,
		events:      make(chan messageEvent, defaultEventBuffer),
		enqueueWait: defaultEnqueueWait,
		done:        make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.SetClientID("adafruitio-go-" + uuid.NewString())
	opts.SetUsername(username)
	opts.SetPassword(key)
	opts.SetKeepAlive(defaultKeepAlive)
	opts.SetAutoReconnect(false)
	opts.SetOnConnectHandler(c.handleConnect)
	opts.SetConnectionLostHandler(c.handleConnectionLost)
	opts.SetDefaultPublishHandler(c.handleMessage)

	for _, option := range options {
		if err := option(c, opts); err != nil {
			return nil, err
		}
	}
	opts.AddBroker(c.broker.URL())

	c.client = mqtt.NewClient(opts)
	return c, nil
}

// Connect establishes the connection to the broker. It must be called before
// any publish, subscribe, or loop operation. Calling Connect while already
// connected is a no-op. A non-zero connection result code from the broker is
// returned as an *MQTTError.
func (c *MQTTClient) Connect() error {
	if c.IsConnected() {
		return nil
	}

	c.mu.Lock()
	c.done = make(chan struct{})
	c.loopErr = nil
	c.mu.Unlock()

	token := c.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return connectResultError(err)
	}
	return nil
}

// IsConnected reports whether the client is connected to the broker.
func (c *MQTTClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Disconnect closes the connection and invokes OnDisconnect. It is a no-op
// when already disconnected.
func (c *MQTTClient) Disconnect() {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	c.connected = false
	c.loopErr = nil
	c.mu.Unlock()

	c.client.Disconnect(250)
	c.signalDone()

	logrus.Debug("adafruitio: disconnected")
	if c.OnDisconnect != nil {
		c.OnDisconnect(c)
	}
}

func (c *MQTTClient) handleConnect(_ mqtt.Client) {
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	logrus.Debug("adafruitio: connected")
	if c.OnConnect != nil {
		c.OnConnect(c)
	}
}

func (c *MQTTClient) handleConnectionLost(_ mqtt.Client, err error) {
	c.mu.Lock()
	c.connected = false
	c.loopErr = fmt.Errorf("adafruitio: connection lost: %w", err)
	c.mu.Unlock()
	c.signalDone()

	// An unsolicited disconnect still reaches the handler so callers can
	// recover gracefully; the cause is handed to whichever loop method is
	// running.
	logrus.WithError(err).Warn("adafruitio: connection lost")
	if c.OnDisconnect != nil {
		c.OnDisconnect(c)
	}
}

func (c *MQTTClient) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	topic, ok := classifyTopic(msg.Topic())
	if !ok {
		logrus.WithField("topic", msg.Topic()).Warn("adafruitio: unrecognized topic")
		return
	}
	ev := messageEvent{topic: topic, payload: string(msg.Payload())}
	select {
	case c.events <- ev:
		return
	default:
	}
	// The buffer is full. Wait a bounded time for a loop to drain a slot
	// rather than dropping immediately.
	select {
	case c.events <- ev:
	case <-c.doneChan():
	case <-time.After(c.enqueueWait):
		logrus.WithField("topic", msg.Topic()).Warn("adafruitio: event queue full, dropping message")
	}
}

func (c *MQTTClient) signalDone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *MQTTClient) doneChan() chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// takeLoopErr hands the cause of an unsolicited disconnect to exactly one
// loop method and clears it.
func (c *MQTTClient) takeLoopErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.loopErr
	c.loopErr = nil
	return err
}

// classifyTopic maps a raw topic path to the logical identifier passed to
// OnMessage: "time" for the time feeds, the group key for group topics, the
// forecast type for weather topics, and otherwise the third path segment,
// which is the feed key.
func classifyTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	switch {
	case parts[0] == "time":
		return parts[0], true
	case len(parts) > 2 && parts[1] == "groups":
		return parts[2], true
	case len(parts) > 4 && parts[2] == "weather":
		return parts[4], true
	case len(parts) > 2:
		return parts[2], true
	}
	return "", false
}

func (c *MQTTClient) dispatch(ev messageEvent) error {
	if c.OnMessage == nil {
		return ErrNoMessageHandler
	}
	c.OnMessage(c, ev.topic, ev.payload)
	return nil
}

// LoopBlocking processes messages on the calling goroutine and does not
// return until Disconnect is called or the connection is lost. A requested
// disconnect returns nil; an unsolicited one returns the cause. Use it when
// the program has nothing to do but react to feed events.
func (c *MQTTClient) LoopBlocking() error {
	done := c.doneChan()
	for {
		select {
		case ev := <-c.events:
			if err := c.dispatch(ev); err != nil {
				return err
			}
		case <-done:
			return c.takeLoopErr()
		}
	}
}

// LoopBackground hands message processing to an internally managed goroutine
// and returns immediately. Should only be called once per connection. Errors,
// including the cause of an unsolicited disconnect, are logged; programs that
// need to act on them should drive LoopBlocking or Loop themselves.
func (c *MQTTClient) LoopBackground() {
	go func() {
		if err := c.LoopBlocking(); err != nil {
			logrus.WithError(err).Error("adafruitio: message loop stopped")
		}
	}()
}

// Loop processes at most one pending message, waiting up to timeout for one
// to arrive. A timeout of zero does not block. It is meant to be called
// periodically from the caller's own main loop. If the connection was lost
// since the previous call, the cause is returned once.
func (c *MQTTClient) Loop(timeout time.Duration) error {
	done := c.doneChan()
	if timeout <= 0 {
		select {
		case ev := <-c.events:
			return c.dispatch(ev)
		case <-done:
			return c.takeLoopErr()
		default:
			return nil
		}
	}
	select {
	case ev := <-c.events:
		return c.dispatch(ev)
	case <-done:
		return c.takeLoopErr()
	case <-time.After(timeout):
		return nil
	}
}

// Subscribe subscribes to changes on one of the account's own feeds, or on
// another user's shared feed when the owner's username is given.
func (c *MQTTClient) Subscribe(feedID string, feedUser ...string) error {
	owner := c.username
	if len(feedUser) > 0 && feedUser[0] != "" {
		owner = feedUser[0]
	}
	return c.subscribe(fmt.Sprintf("%s/feeds/%s", owner, feedID))
}

// SubscribeGroup subscribes to changes on any feed within a group.
func (c *MQTTClient) SubscribeGroup(groupID string) error {
	return c.subscribe(fmt.Sprintf("%s/groups/%s", c.username, groupID))
}

// SubscribeTime subscribes to one of the service's time feeds. The unit must
// be "millis", "seconds", or "iso".
func (c *MQTTClient) SubscribeTime(unit string) error {
	switch unit {
	case "millis", "seconds":
		return c.subscribe("time/" + unit)
	case "iso":
		return c.subscribe("time/ISO-8601")
	}
	return fmt.Errorf("adafruitio: invalid time unit %q", unit)
}

// SubscribeWeather subscribes to a forecast stream of the weather
// integration. The forecast type must be one of the fixed intervals the
// service publishes, for example "current" or "forecast_days_2".
func (c *MQTTClient) SubscribeWeather(weatherID int, forecastType string) error {
	valid := false
	for _, t := range forecastTypes {
		if t == forecastType {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("adafruitio: invalid forecast type %q", forecastType)
	}
	return c.subscribe(fmt.Sprintf("%s/integration/weather/%d/%s", c.username, weatherID, forecastType))
}

// SubscribeRandomizer subscribes to a random-word integration stream.
func (c *MQTTClient) SubscribeRandomizer(randomizerID int) error {
	return c.subscribe(fmt.Sprintf("%s/integration/words/%d", c.username, randomizerID))
}

// Unsubscribe removes the subscription on one of the account's feeds.
func (c *MQTTClient) Unsubscribe(feedID string) error {
	token := c.client.Unsubscribe(fmt.Sprintf("%s/feeds/%s", c.username, feedID))
	token.Wait()
	return token.Error()
}

// UnsubscribeGroup removes the subscription on a group.
func (c *MQTTClient) UnsubscribeGroup(groupID string) error {
	token := c.client.Unsubscribe(fmt.Sprintf("%s/groups/%s", c.username, groupID))
	token.Wait()
	return token.Error()
}

type publishConfig struct {
	groupID  string
	feedUser string
}

// PublishOption selects an alternative publish target.
type PublishOption func(*publishConfig)

// InGroup publishes to the feed within the given group.
func InGroup(groupID string) PublishOption {
	return func(cfg *publishConfig) {
		cfg.groupID = groupID
	}
}

// OwnedBy publishes to a shared feed owned by another user.
func OwnedBy(feedUser string) PublishOption {
	return func(cfg *publishConfig) {
		cfg.feedUser = feedUser
	}
}

// Publish sends a new value to a feed. By default the feed is one of the
// account's own; InGroup and OwnedBy select a grouped or shared feed
// instead, and are mutually exclusive.
func (c *MQTTClient) Publish(feedID string, value interface{}, options ...PublishOption) error {
	var cfg publishConfig
	for _, option := range options {
		option(&cfg)
	}
	if cfg.groupID != "" && cfg.feedUser != "" {
		return errors.New("adafruitio: InGroup and OwnedBy are mutually exclusive")
	}

	var topic string
	switch {
	case cfg.feedUser != "":
		topic = fmt.Sprintf("%s/feeds/%s", cfg.feedUser, feedID)
	case cfg.groupID != "":
		topic = fmt.Sprintf("%s/feeds/%s.%s", c.username, cfg.groupID, feedID)
	default:
		topic = fmt.Sprintf("%s/feeds/%s", c.username, feedID)
	}

	token := c.client.Publish(topic, 0, false, valueText(value))
	token.Wait()
	return token.Error()
}

// Receive asks the broker to re-publish the last value of a feed, by
// publishing to the feed's get sub-topic. The value arrives through
// OnMessage like any other update.
func (c *MQTTClient) Receive(feedID string) error {
	topic := fmt.Sprintf("%s/feeds/%s/get", c.username, feedID)
	token := c.client.Publish(topic, 0, false, []byte{})
	token.Wait()
	return token.Error()
}

func (c *MQTTClient) subscribe(topic string) error {
	token := c.client.Subscribe(topic, 0, nil)
	token.Wait()
	return token.Error()
}

// connectResultError maps the transport's CONNACK errors back to the fixed
// result-code table so callers see an *MQTTError with the broker's reason.
func connectResultError(err error) error {
	for code, known := range packets.ConnErrors {
		if known != nil && errors.Is(err, known) {
			return &MQTTError{Code: code}
		}
	}
	return err
}
