package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tiation/tiation-active-directory-setup/internal/config"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Publisher delivers events to an MQTT broker. The underlying client
// auto-reconnects, so a broker restart costs at most the events raised
// while it was away.
type Publisher struct {
	client mqtt.Client
	topic  string
	logger *slog.Logger
}

// NewPublisher connects to the configured broker. The caller decides what a
// connection failure means; the daemon treats it as a warning and runs
// without notifications.
func NewPublisher(cfg config.NotificationsConfig, logger *slog.Logger) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(fmt.Sprintf("ad-setup-%s-%d", Hostname(), os.Getpid()))
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Minute)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("notification broker connection lost", "error", err)
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("connected to notification broker", "broker", cfg.Broker, "topic", cfg.Topic)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		client.Disconnect(0)
		return nil, errors.New("timed out connecting to notification broker")
	}
	if err := token.Error(); err != nil {
		client.Disconnect(0)
		return nil, fmt.Errorf("failed to connect to notification broker: %w", err)
	}

	return &Publisher{client: client, topic: cfg.Topic, logger: logger}, nil
}

// Publish sends one event as JSON at QoS 1. Delivery respects ctx as well
// as the publish timeout, whichever ends first.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	token := p.client.Publish(p.topic, 1, false, payload)

	completed := make(chan bool, 1)
	go func() { completed <- token.WaitTimeout(publishTimeout) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case ok := <-completed:
		if !ok {
			return fmt.Errorf("timed out publishing %s event", event.Type)
		}
		return token.Error()
	}
}

// Close flushes in-flight messages and disconnects.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
