package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/pkg/logger"
	"mealhub/pkg/websocket"
)

// EventBus fans domain events out to every configured sink. Delivery is
// best effort: a failing sink is logged and never fails the caller.
type EventBus interface {
	Publish(ctx context.Context, event *models.Event)
}

// BrokerPublisher is satisfied by broker.Publisher.
type BrokerPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// ChannelPublisher is satisfied by cache.RedisCache.
type ChannelPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

type eventBus struct {
	broker  BrokerPublisher
	redis   ChannelPublisher
	channel string
	hub     *websocket.Hub
	logger  *logger.Logger
}

type EventBusConfig struct {
	Broker       BrokerPublisher
	Redis        ChannelPublisher
	RedisChannel string
	Hub          *websocket.Hub
}

func NewEventBus(config EventBusConfig, log *logger.Logger) EventBus {
	return &eventBus{
		broker:  config.Broker,
		redis:   config.Redis,
		channel: config.RedisChannel,
		hub:     config.Hub,
		logger:  log.WithField("component", "event_bus"),
	}
}

func (b *eventBus) Publish(ctx context.Context, event *models.Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	log := b.logger.WithFields(map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
		"entity_id":  event.EntityID.Hex(),
	})

	if b.broker != nil {
		if err := b.broker.Publish(ctx, string(event.Type), event); err != nil {
			log.WithError(err).Warn("Failed to publish event to broker")
		}
	}
	if b.redis != nil && b.channel != "" {
		if err := b.redis.Publish(ctx, b.channel, event); err != nil {
			log.WithError(err).Warn("Failed to publish event to redis")
		}
	}
	if b.hub != nil {
		b.hub.BroadcastToRoom(websocket.RoomAdmins, websocket.Message{
			Type: string(event.Type),
			Data: event,
		})
	}

	log.Debug("Event published")
}

func newEvent(eventType models.EventType, entityType string, entityID primitive.ObjectID, actor *Actor, data map[string]interface{}) *models.Event {
	event := &models.Event{
		Type:       eventType,
		EntityType: entityType,
		EntityID:   entityID,
		Data:       data,
	}
	if actor != nil {
		id := actor.ID
		event.ActorID = &id
		event.ActorRole = actor.Role
	}
	return event
}

// Actor identifies the authenticated principal performing an operation.
type Actor struct {
	ID   primitive.ObjectID
	Role models.Role
}
