package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

const opTimeout = 5 * time.Second

// Topic returns the MQTT topic carrying change events for one table of one
// pair. An empty table subscribes to every table via the "+" wildcard.
func Topic(pairID, table string) string {
	if table == "" {
		table = "+"
	}
	return "duos/" + pairID + "/" + table
}

// Client is a persistent MQTT connection used as the change-feed transport.
// Unlike a one-shot publisher, the daemon holds the connection open for the
// lifetime of its subscriptions; auto-reconnect is left to paho.
type Client struct {
	c pahomqtt.Client
}

// Dial connects to the broker. clientID must be unique per device; the
// broker drops the older of two sessions sharing an id.
func Dial(broker, clientID, username, password string) (*Client, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(opTimeout).
		SetAutoReconnect(true)

	if username != "" {
		opts.SetUsername(username)
	}
	if password != "" {
		opts.SetPassword(password)
	}

	client := pahomqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(opTimeout) {
		return nil, fmt.Errorf("feed: connect timeout")
	}
	if tok.Error() != nil {
		return nil, fmt.Errorf("feed: connect: %w", tok.Error())
	}
	return &Client{c: client}, nil
}

// Publish sends a change event to the pair's topic for the event's table.
// QoS 1: the scheduler re-derives full state from each snapshot, so a
// duplicate delivery is harmless but a lost one strands a stale registration.
func (c *Client) Publish(pairID string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("feed: marshal event: %w", err)
	}

	pub := c.c.Publish(Topic(pairID, ev.Table), 1, false, payload)
	if !pub.WaitTimeout(opTimeout) {
		return fmt.Errorf("feed: publish timeout")
	}
	if pub.Error() != nil {
		return fmt.Errorf("feed: publish: %w", pub.Error())
	}
	return nil
}

// Subscribe routes every change event for the pair's table to fn. Malformed
// payloads are skipped with a warning; the subscription stays live.
func (c *Client) Subscribe(pairID, table string, fn func(Event)) error {
	sub := c.c.Subscribe(Topic(pairID, table), 1, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		var ev Event
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			fmt.Fprintf(os.Stderr, "feed: bad event on %s: %v\n", msg.Topic(), err)
			return
		}
		fn(ev)
	})
	if !sub.WaitTimeout(opTimeout) {
		return fmt.Errorf("feed: subscribe timeout")
	}
	if sub.Error() != nil {
		return fmt.Errorf("feed: subscribe: %w", sub.Error())
	}
	return nil
}

// Close disconnects, allowing in-flight messages a short grace period.
func (c *Client) Close() {
	c.c.Disconnect(250)
}
