package messaging

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/naraya/pool-http-service/common/config"
)

// NatsClient wraps a NATS connection used to publish job lifecycle
// events.
type NatsClient struct {
	conn   *nats.Conn
	config config.Config
}

// NewNatsClient connects to the NATS server from the configuration.
func NewNatsClient(cfg config.Config) (*NatsClient, error) {
	client := &NatsClient{
		config: cfg,
	}

	if err := client.connect(); err != nil {
		return nil, err
	}

	return client, nil
}

// connect connects to the NATS server
func (c *NatsClient) connect() error {
	opts := []nats.Option{
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("Disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("server", nc.ConnectedUrl()).Msg("Reconnected to NATS")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info().Msg("NATS connection closed")
		}),
	}

	if c.config.Nats.Username != "" && c.config.Nats.Password != "" {
		opts = append(opts, nats.UserInfo(c.config.Nats.Username, c.config.Nats.Password))
	}

	conn, err := nats.Connect(c.config.Nats.URL(), opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	c.conn = conn

	log.Info().Str("server", conn.ConnectedUrl()).Msg("Connected to NATS")
	return nil
}

// Close drains the connection, gracefully flushing pending publishes.
func (c *NatsClient) Close() error {
	if c.conn != nil && c.conn.IsConnected() {
		return c.conn.Drain()
	}
	return nil
}

// Publish publishes a message to a subject
func (c *NatsClient) Publish(subject string, data []byte) error {
	if c.conn == nil || !c.conn.IsConnected() {
		return fmt.Errorf("not connected to NATS")
	}

	return c.conn.Publish(subject, data)
}
