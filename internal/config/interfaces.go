package config

import (
	"time"

	"github.com/IBM/sarama"
)

type Logger interface {
	Level() string
	AsJSON() bool
}

type Gateway interface {
	BaseURL() string
	Timeout() time.Duration
}

type Device interface {
	ServiceName() string
	FileDir() string
	FilePassword() string
}

type Biometric interface {
	Mode() string
	Passcode() string
}

type Kafka interface {
	Enabled() bool
	Brokers() []string
	PayoutCreatedTopic() string
	ConsumerGroupID() string
	PayoutCreatedProducerConfig() *sarama.Config
	PayoutCreatedConsumerConfig() *sarama.Config
}

type Server interface {
	Host() string
	Port() int
	Address() string
	ReadTimeout() time.Duration
	ShutdownTimeout() time.Duration
}
