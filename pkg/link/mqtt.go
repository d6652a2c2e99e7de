package link

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/itohio/gopulse/pkg/config"
)

// ErrPublishTimeout is returned when the broker does not acknowledge in time.
var ErrPublishTimeout = errors.New("mqtt publish timed out")

// MQTTWriter publishes every Write as one MQTT message, so frame boundaries
// survive the transport.
type MQTTWriter struct {
	client  mqtt.Client
	topic   string
	qos     byte
	timeout time.Duration
}

// NewMQTTWriter creates a sink publishing to topic through client.
func NewMQTTWriter(client mqtt.Client, topic string, qos byte, timeout time.Duration) *MQTTWriter {
	return &MQTTWriter{
		client:  client,
		topic:   topic,
		qos:     qos,
		timeout: timeout,
	}
}

// Write publishes p. The payload is copied because paho keeps a reference
// until the message is delivered.
func (w *MQTTWriter) Write(p []byte) (int, error) {
	payload := append([]byte(nil), p...)
	token := w.client.Publish(w.topic, w.qos, false, payload)

	if w.timeout > 0 {
		if !token.WaitTimeout(w.timeout) {
			return 0, fmt.Errorf("%w: topic %s", ErrPublishTimeout, w.topic)
		}
	} else {
		token.Wait()
	}
	if err := token.Error(); err != nil {
		return 0, fmt.Errorf("failed to publish to %s: %w", w.topic, err)
	}
	return len(p), nil
}

// Close disconnects the client.
func (w *MQTTWriter) Close() error {
	w.client.Disconnect(250)
	return nil
}

// NewMQTTClient connects to the configured broker with a unique client ID.
func NewMQTTClient(cfg config.MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID("gopulse-" + uuid.NewString())
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(cfg.Timeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, err)
	}
	return client, nil
}
