package adafruitio

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMessage implements the paho message interface for dispatch tests
// without a live broker.
type testMessage struct {
	topic   string
	payload []byte
}

func (m testMessage) Duplicate() bool   { return false }
func (m testMessage) Qos() byte         { return 0 }
func (m testMessage) Retained() bool    { return false }
func (m testMessage) Topic() string     { return m.topic }
func (m testMessage) MessageID() uint16 { return 0 }
func (m testMessage) Payload() []byte   { return m.payload }
func (m testMessage) Ack()              {}

func newTestMQTTClient(t *testing.T) *MQTTClient {
	t.Helper()
	c, err := NewMQTTClient("test_username", "test-key")
	require.NoError(t, err)
	return c
}

func TestClassifyTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
		ok    bool
	}{
		{"test_username/feeds/temperature", "temperature", true},
		{"someone_else/feeds/shared", "shared", true},
		{"time/seconds", "time", true},
		{"time/millis", "time", true},
		{"time/ISO-8601", "time", true},
		{"test_username/groups/weather", "weather", true},
		{"test_username/integration/weather/1234/current", "current", true},
		{"test_username/integration/words/42", "words", true},
		{"malformed", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			got, ok := classifyTopic(tt.topic)
			if got != tt.want || ok != tt.ok {
				t.Errorf("classifyTopic(%q) = %q, %v; want %q, %v", tt.topic, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNotConnectedByDefault(t *testing.T) {
	c := newTestMQTTClient(t)
	assert.False(t, c.IsConnected())
}

func TestDisconnectWhileDisconnectedIsNoop(t *testing.T) {
	c := newTestMQTTClient(t)
	called := false
	c.OnDisconnect = func(*MQTTClient) { called = true }
	c.Disconnect()
	assert.False(t, called)
}

func TestSubscribeTimeRejectsUnknownUnit(t *testing.T) {
	c := newTestMQTTClient(t)
	assert.Error(t, c.SubscribeTime("fortnights"))
	assert.Error(t, c.SubscribeTime(""))
}

func TestSubscribeWeatherRejectsUnknownForecast(t *testing.T) {
	c := newTestMQTTClient(t)
	assert.Error(t, c.SubscribeWeather(1234, "forecast_centuries_1"))
}

func TestPublishTargetsAreExclusive(t *testing.T) {
	c := newTestMQTTClient(t)
	err := c.Publish("temperature", 21, InGroup("weather"), OwnedBy("someone_else"))
	assert.Error(t, err)
}

func TestMessageDispatch(t *testing.T) {
	c := newTestMQTTClient(t)

	var gotTopic, gotPayload string
	c.OnMessage = func(client *MQTTClient, topic, payload string) {
		assert.Equal(t, c, client)
		gotTopic = topic
		gotPayload = payload
	}

	c.handleMessage(nil, testMessage{topic: "test_username/feeds/temperature", payload: []byte("21.5")})
	require.NoError(t, c.Loop(100*time.Millisecond))

	assert.Equal(t, "temperature", gotTopic)
	assert.Equal(t, "21.5", gotPayload)
}

func TestLoopZeroTimeoutDoesNotBlock(t *testing.T) {
	c := newTestMQTTClient(t)
	start := time.Now()
	require.NoError(t, c.Loop(0))
	assert.Less(t, time.Since(start), time.Second)
}

func TestLoopWithoutHandlerErrs(t *testing.T) {
	c := newTestMQTTClient(t)
	c.handleMessage(nil, testMessage{topic: "test_username/feeds/temperature", payload: []byte("1")})
	assert.ErrorIs(t, c.Loop(100*time.Millisecond), ErrNoMessageHandler)
}

func TestLoopBlockingReturnsOnDisconnectSignal(t *testing.T) {
	c := newTestMQTTClient(t)
	c.OnMessage = func(*MQTTClient, string, string) {}

	done := make(chan error, 1)
	go func() { done <- c.LoopBlocking() }()

	c.handleMessage(nil, testMessage{topic: "test_username/feeds/temperature", payload: []byte("1")})
	c.signalDone()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("LoopBlocking did not return after disconnect signal")
	}
}

func TestLoopBlockingReturnsConnectionLostCause(t *testing.T) {
	c := newTestMQTTClient(t)
	handlerCalled := false
	c.OnDisconnect = func(*MQTTClient) { handlerCalled = true }

	c.handleConnectionLost(nil, errors.New("broken pipe"))

	err := c.LoopBlocking()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
	assert.True(t, handlerCalled)
	assert.False(t, c.IsConnected())

	// The cause is handed over exactly once.
	assert.NoError(t, c.Loop(0))
}

func TestInboundMessageWaitsForFullBuffer(t *testing.T) {
	c, err := NewMQTTClient("test_username", "test-key", EventBufferSize(1))
	require.NoError(t, err)

	got := make(chan string, 4)
	c.OnMessage = func(_ *MQTTClient, _, payload string) { got <- payload }

	c.handleMessage(nil, testMessage{topic: "test_username/feeds/temperature", payload: []byte("1")})
	c.LoopBackground()
	// The buffer holds one message; this enqueue may have to wait for the
	// loop to drain a slot, but it must not be dropped.
	c.handleMessage(nil, testMessage{topic: "test_username/feeds/temperature", payload: []byte("2")})

	for _, want := range []string{"1", "2"} {
		select {
		case payload := <-got:
			assert.Equal(t, want, payload)
		case <-time.After(2 * time.Second):
			t.Fatalf("message %q was not delivered", want)
		}
	}
	c.signalDone()
}

func TestInboundMessageDroppedAfterEnqueueWait(t *testing.T) {
	c, err := NewMQTTClient("test_username", "test-key", EventBufferSize(1))
	require.NoError(t, err)
	c.enqueueWait = 20 * time.Millisecond

	var payloads []string
	c.OnMessage = func(_ *MQTTClient, _, payload string) { payloads = append(payloads, payload) }

	c.handleMessage(nil, testMessage{topic: "test_username/feeds/temperature", payload: []byte("1")})
	// Nothing is draining the full buffer, so this one waits out the
	// enqueue window and is dropped.
	c.handleMessage(nil, testMessage{topic: "test_username/feeds/temperature", payload: []byte("2")})

	require.NoError(t, c.Loop(0))
	require.NoError(t, c.Loop(0))
	assert.Equal(t, []string{"1"}, payloads)
}

func TestEventBufferSizeRejectsNonPositive(t *testing.T) {
	_, err := NewMQTTClient("test_username", "test-key", EventBufferSize(0))
	assert.Error(t, err)
}

func TestBrokerURL(t *testing.T) {
	if got, want := DefaultBroker.URL(), "ssl://io.adafruit.com:8883"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := InsecureBroker.URL(), "tcp://io.adafruit.com:1883"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
