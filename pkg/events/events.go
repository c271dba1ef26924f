package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tripatlas/destinations/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	UserRegistered     = "user.registered"
	DestinationCreated = "destination.created"
	DestinationUpdated = "destination.updated"
	DestinationDeleted = "destination.deleted"
)

// Event payloads
type UserRegisteredEvent struct {
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

type DestinationCreatedEvent struct {
	DestinationID int64     `json:"destination_id"`
	Name          string    `json:"name"`
	CountryCode   string    `json:"country_code"`
	Type          string    `json:"type"`
	UserID        int64     `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type DestinationUpdatedEvent struct {
	DestinationID int64     `json:"destination_id"`
	UserID        int64     `json:"user_id"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DestinationDeletedEvent struct {
	DestinationID int64     `json:"destination_id"`
	UserID        int64     `json:"user_id"`
	DeletedAt     time.Time `json:"deleted_at"`
}
