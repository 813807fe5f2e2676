package adafruitio_test

import (
	"log"
	"time"

	"github.com/adafruitio-go/adafruitio"
)

func Example() {
	c, err := adafruitio.NewClient("my-username", "my-aio-key")
	if err != nil {
		log.Fatalf("Failed to make REST client: %v", err)
	}

	feed, err := c.CreateFeed(adafruitio.NewFeed("Temperature"))
	if err != nil {
		log.Fatalf("Failed to create feed: %v", err)
	}

	if _, err := c.SendData(feed.Key, 21.878, adafruitio.WithPrecision(2)); err != nil {
		log.Printf("Failed to send data: %v", err)
	}

	d, err := c.Receive(feed.Key)
	if err != nil {
		log.Fatalf("Failed to receive data: %v", err)
	}
	log.Printf("Latest value: %v", d.Value)
}

func ExampleMQTTClient() {
	client, err := adafruitio.NewMQTTClient("my-username", "my-aio-key")
	if err != nil {
		log.Fatalf("Failed to make MQTT client: %v", err)
	}

	client.OnMessage = func(c *adafruitio.MQTTClient, topic, payload string) {
		log.Printf("%s: %s", topic, payload)
	}

	if err := client.Connect(); err != nil {
		log.Fatalf("Failed to connect to MQTT broker: %v", err)
	}

	if err := client.Subscribe("temperature"); err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}
	client.LoopBackground()

	if err := client.Publish("temperature", 21.5); err != nil {
		log.Printf("Failed to publish: %v", err)
	}

	time.Sleep(500 * time.Millisecond)
	client.Disconnect()
}
