package publisher

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

type KafkaConfig struct {
	Brokers      []string
	Username     string
	Password     string
	Mechanism    string // PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512; empty disables SASL
	TLSEnabled   bool
	WriteTimeout time.Duration
}

// DefaultKafkaPublisher implements domain.PublisherPort on top of a single
// kafka.Writer. The topic is set per message so one writer serves every topic.
type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(cfg KafkaConfig) (*DefaultKafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}

	mechanism, err := saslMechanism(cfg.Mechanism, cfg.Username, cfg.Password)
	if err != nil {
		return nil, err
	}

	transport := &kafka.Transport{SASL: mechanism}
	if cfg.TLSEnabled {
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}

	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.LeastBytes{},
			Transport:              transport,
			WriteTimeout:           writeTimeout,
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := k.writer.WriteMessages(ctx, toKafkaMessages(topic, time.Now(), msgs)...); err != nil {
		return fmt.Errorf("kafka: write %d messages to %s: %w", len(msgs), topic, err)
	}
	return nil
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

func toKafkaMessages(topic string, at time.Time, msgs []domain.Message) []kafka.Message {
	km := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Topic: topic,
			Key:   m.Key,
			Value: m.Value,
			Time:  at,
		})
	}
	return km
}

func saslMechanism(name, username, password string) (sasl.Mechanism, error) {
	switch strings.ToUpper(name) {
	case "":
		return nil, nil
	case "PLAIN":
		return plain.Mechanism{Username: username, Password: password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, username, password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, username, password)
	}
	return nil, fmt.Errorf("kafka: unsupported sasl mechanism %q", name)
}
