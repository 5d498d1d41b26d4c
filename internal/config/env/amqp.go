package env

import (
	"os"

	"finbot/internal/config"
)

const (
	amqpURLEnvName      = "AMQP_URL"
	amqpExchangeEnvName = "AMQP_EXCHANGE"
	amqpQueueEnvName    = "AMQP_QUEUE"
)

type amqpConfig struct {
	url      string
	exchange string
	queue    string
}

// NewAMQPConfig читает настройки брокера. Пустой AMQP_URL означает,
// что публикация событий выключена.
func NewAMQPConfig() (config.AMQPConfig, error) {
	url := os.Getenv(amqpURLEnvName)

	exchange := os.Getenv(amqpExchangeEnvName)
	if exchange == "" {
		exchange = "finbot"
	}

	queue := os.Getenv(amqpQueueEnvName)
	if queue == "" {
		queue = "expense_events"
	}

	return &amqpConfig{
		url:      url,
		exchange: exchange,
		queue:    queue,
	}, nil
}

func (cfg *amqpConfig) Enabled() bool {
	return cfg.url != ""
}

func (cfg *amqpConfig) URL() string {
	return cfg.url
}

func (cfg *amqpConfig) Exchange() string {
	return cfg.exchange
}

func (cfg *amqpConfig) Queue() string {
	return cfg.queue
}
