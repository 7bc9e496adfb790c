package rabbitmq

import (
	"testing"

	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{URL: "amqp://localhost"}.withDefaults()
	assert.Equal(t, DefaultExchange, cfg.Exchange)
	assert.Equal(t, DefaultQueue, cfg.Queue)

	cfg = Config{Exchange: "catalog", Queue: "audit"}.withDefaults()
	assert.Equal(t, "catalog", cfg.Exchange)
	assert.Equal(t, "audit", cfg.Queue)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(Config{URL: "http://not-amqp"}, zerolog.Nop())
	assert.ErrorContains(t, err, "failed to connect to RabbitMQ")
}

func TestClientWithoutChannel(t *testing.T) {
	c := &Client{log: zerolog.Nop()}

	assert.EqualError(t, c.Publish("products", "product.created", []byte("{}")), "RabbitMQ channel is not available")
	assert.Error(t, c.ConsumeProductEvents(func(amqp.Delivery) error { return nil }))
	assert.NoError(t, c.Close())
}
