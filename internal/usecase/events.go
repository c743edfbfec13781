package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
)

const (
	EventLeadSubmitted       = "lead.submitted"
	EventLeadStatusChanged   = "lead.status_changed"
	EventLeadConverted       = "lead.converted"
	EventCommissionCreated   = "commission.created"
	EventCommissionApproved  = "commission.approved"
	EventCommissionPaid      = "commission.paid"
	EventPayoutRequested     = "payout.requested"
	EventRateSettingsChanged = "rate_settings.changed"
)

// AffiliateEvent is the payload written to the events topic.
type AffiliateEvent struct {
	Type           string    `json:"type"`
	AffiliateID    string    `json:"affiliate_id,omitempty"`
	LeadID         string    `json:"lead_id,omitempty"`
	LeadCode       string    `json:"lead_code,omitempty"`
	CommissionID   string    `json:"commission_id,omitempty"`
	CommissionType string    `json:"commission_type,omitempty"`
	Status         string    `json:"status,omitempty"`
	Amount         string    `json:"amount,omitempty"`
	CommissionIDs  []string  `json:"commission_ids,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisher serialises events onto one topic. Failures are logged and
// never reach the caller. A nil port disables publishing.
type EventPublisher struct {
	port  domain.PublisherPort
	topic string
}

func NewEventPublisher(port domain.PublisherPort, topic string) *EventPublisher {
	return &EventPublisher{port: port, topic: topic}
}

func (p *EventPublisher) Publish(ctx context.Context, events ...AffiliateEvent) {
	if p == nil || p.port == nil || len(events) == 0 {
		return
	}

	msgs := make([]domain.Message, 0, len(events))
	for _, e := range events {
		v, err := json.Marshal(e)
		if err != nil {
			slog.Error("failed to marshal affiliate event", "type", e.Type, "error", err.Error())
			continue
		}
		msgs = append(msgs, domain.Message{Key: []byte(e.AffiliateID), Value: v})
	}

	if err := p.port.Publish(ctx, p.topic, msgs...); err != nil {
		slog.Error("failed to publish affiliate events", "topic", p.topic, "count", len(msgs), "error", err.Error())
	}
}

func commissionEvent(eventType string, c *domain.Commission, at time.Time) AffiliateEvent {
	e := AffiliateEvent{
		Type:           eventType,
		AffiliateID:    c.AffiliateID,
		CommissionID:   c.ID,
		CommissionType: string(c.Type),
		Status:         string(c.Status),
		Amount:         c.Amount.StringFixed(2),
		OccurredAt:     at,
	}
	if c.LeadID != nil {
		e.LeadID = *c.LeadID
	}
	return e
}
