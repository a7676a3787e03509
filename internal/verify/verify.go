// Package verify confirms a freshly flashed device came online by
// watching for its first MQTT publish. The generated firmware publishes
// readings under its device-ID topic root, so the first message on that
// tree means boot, WiFi association and broker connect all succeeded.
package verify

import (
	"context"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kiotlab/ember/internal/deviceid"
)

// DefaultTimeout bounds the wait for the first publish. Boot plus WiFi
// association usually takes a few seconds; a minute covers slow APs and
// sensor warm-up delays.
const DefaultTimeout = time.Minute

// connectTimeout bounds the broker handshake itself.
const connectTimeout = 10 * time.Second

// Checker subscribes to a device's topic tree and waits for traffic.
type Checker struct {
	BrokerURL string
	Timeout   time.Duration

	dial func(*paho.ClientOptions) paho.Client
}

func NewChecker(brokerURL string) *Checker {
	return &Checker{
		BrokerURL: brokerURL,
		Timeout:   DefaultTimeout,
		dial:      paho.NewClient,
	}
}

// Topic returns the subscription filter covering everything a device
// publishes: its device ID is its topic root.
func Topic(deviceID string) string {
	return deviceID + "/#"
}

// WaitForDevice blocks until the device publishes its first message, the
// timeout elapses, or ctx is cancelled. Returns the topic of the first
// message seen.
func (c *Checker) WaitForDevice(ctx context.Context, deviceID string) (string, error) {
	opts := paho.NewClientOptions().
		AddBroker(c.BrokerURL).
		SetClientID(deviceid.ClientID()).
		SetConnectTimeout(connectTimeout)

	client := c.dial(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return "", fmt.Errorf("connect to broker %s: %w", c.BrokerURL, err)
	}
	defer client.Disconnect(250)

	seen := make(chan string, 1)
	sub := client.Subscribe(Topic(deviceID), 0, func(_ paho.Client, msg paho.Message) {
		select {
		case seen <- msg.Topic():
		default:
		}
	})
	sub.Wait()
	if err := sub.Error(); err != nil {
		return "", fmt.Errorf("subscribe %s: %w", Topic(deviceID), err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	select {
	case topic := <-seen:
		return topic, nil
	case <-time.After(timeout):
		return "", fmt.Errorf("no message from %s within %s", deviceID, timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
