package memory

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
)

type PublishedMessage struct {
	Topic string
	domain.Message
}

// Publisher keeps published messages in memory. Used when Kafka is disabled.
type Publisher struct {
	mu   sync.Mutex
	msgs []PublishedMessage
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range msgs {
		p.msgs = append(p.msgs, PublishedMessage{Topic: topic, Message: m})
	}
	return nil
}

func (p *Publisher) Messages() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedMessage, len(p.msgs))
	copy(out, p.msgs)
	return out
}

func (p *Publisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.Topic
	}
	return out
}
