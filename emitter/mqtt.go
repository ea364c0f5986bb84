package emitter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
)

// Config configures the MQTT emitter.
type Config struct {
	// Broker is the host:port of the MQTT broker (required).
	Broker string
	// ClientID identifies this emitter to the broker (required).
	ClientID string
	// Topic is the publish topic; defaults to "framecheck/stats".
	Topic string
	// Encoding selects the payload format; defaults to JSON.
	Encoding Encoding
}

// Stats is a snapshot of emitter counters.
type Stats struct {
	Published uint64
	Errors    uint64
}

// MQTTEmitter publishes snapshots to an MQTT broker with automatic
// reconnection. Thread-safe.
type MQTTEmitter struct {
	cfg    Config
	client mqtt.Client

	mu        sync.RWMutex
	connected bool
	published uint64
	errors    uint64
}

// NewMQTTEmitter validates the configuration and returns an emitter.
// Connect must be called before Publish.
func NewMQTTEmitter(cfg Config) (*MQTTEmitter, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("emitter: broker is required")
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("emitter: client id is required")
	}
	if cfg.Topic == "" {
		cfg.Topic = "framecheck/stats"
	}
	if cfg.Encoding == "" {
		cfg.Encoding = EncodingJSON
	}
	if cfg.Encoding != EncodingJSON && cfg.Encoding != EncodingMsgpack {
		return nil, fmt.Errorf("emitter: unknown encoding %q", cfg.Encoding)
	}
	return &MQTTEmitter{cfg: cfg}, nil
}

// Connect establishes the broker connection, retrying in the background
// on loss.
func (e *MQTTEmitter) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", e.cfg.Broker))
	opts.SetClientID(e.cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		e.mu.Lock()
		e.connected = true
		e.mu.Unlock()
		slog.Info("mqtt connection established",
			"broker", e.cfg.Broker,
			"client_id", e.cfg.ClientID,
		)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		e.mu.Lock()
		e.connected = false
		e.mu.Unlock()
		slog.Warn("mqtt connection lost, will auto-reconnect",
			"error", err,
			"broker", e.cfg.Broker,
		)
	}

	e.client = mqtt.NewClient(opts)

	token := e.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("emitter: mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("emitter: mqtt connection failed: %w", err)
	}

	e.mu.Lock()
	e.connected = true
	e.mu.Unlock()
	return nil
}

// Publish encodes and publishes one snapshot.
func (e *MQTTEmitter) Publish(snap Snapshot) error {
	if !e.Connected() {
		e.countError()
		return fmt.Errorf("emitter: mqtt not connected")
	}

	payload, err := Encode(e.cfg.Encoding, snap)
	if err != nil {
		e.countError()
		return fmt.Errorf("emitter: marshal snapshot: %w", err)
	}

	token := e.client.Publish(e.cfg.Topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		e.countError()
		return fmt.Errorf("emitter: publish timeout")
	}
	if err := token.Error(); err != nil {
		e.countError()
		return fmt.Errorf("emitter: publish failed: %w", err)
	}

	e.mu.Lock()
	e.published++
	e.mu.Unlock()
	return nil
}

// Connected reports whether the broker connection is up.
func (e *MQTTEmitter) Connected() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.connected
}

// Stats returns the published/error counters.
func (e *MQTTEmitter) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{Published: e.published, Errors: e.errors}
}

// Close disconnects from the broker. Idempotent.
func (e *MQTTEmitter) Close() {
	e.mu.Lock()
	client := e.client
	e.client = nil
	e.connected = false
	e.mu.Unlock()

	if client != nil {
		client.Disconnect(250) // ms grace for in-flight publishes
	}
}

func (e *MQTTEmitter) countError() {
	e.mu.Lock()
	e.errors++
	e.mu.Unlock()
}
