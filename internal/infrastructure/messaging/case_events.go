package messaging

import (
	"context"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	"github.com/oksasatya/health-referral-api/internal/domain/event"
)

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// CaseEvents publishes case lifecycle events to the case queue.
type CaseEvents struct {
	Pub JSONPublisher
}

func NewCaseEvents(pub JSONPublisher) *CaseEvents {
	return &CaseEvents{Pub: pub}
}

func (e *CaseEvents) CaseCreated(ctx context.Context, c *entity.Case) error {
	return e.Pub.PublishJSON(ctx, event.NewCaseCreated(c))
}
