package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rzkmi/payoutdesk/internal/hash"
	"github.com/rzkmi/payoutdesk/internal/logger"
	"github.com/rzkmi/payoutdesk/internal/models"
	"go.uber.org/zap"
)

const exchangeName = "withdrawals"

// Notifier forwards terminal transitions to downstream consumers (operator
// notifications, member-facing history). Delivery is best-effort; the
// transition itself never depends on it.
type Notifier interface {
	WithdrawalPaid(ctx context.Context, w models.Withdrawal) error
	WithdrawalRejected(ctx context.Context, w models.Withdrawal) error
	Close() error
}

type event struct {
	WithdrawalID    string    `json:"withdrawal_id"`
	UserID          string    `json:"user_id"`
	Status          string    `json:"status"`
	ProofURL        *string   `json:"proof_url,omitempty"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Producer publishes withdrawal events to a topic exchange. Payloads carry a
// hex HMAC-SHA256 signature header so consumers can authenticate them.
type Producer struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	secretKey string
}

func NewProducer(amqpURL, secretKey string) (*Producer, error) {
	conn, err := amqp091.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Producer{conn: conn, channel: ch, secretKey: secretKey}, nil
}

func (p *Producer) WithdrawalPaid(ctx context.Context, w models.Withdrawal) error {
	return p.publish(ctx, "withdrawal.paid", event{
		WithdrawalID: w.ID,
		UserID:       w.UserID,
		Status:       string(w.Status),
		ProofURL:     w.ProofURL,
		OccurredAt:   w.LastTransitionAt,
	})
}

func (p *Producer) WithdrawalRejected(ctx context.Context, w models.Withdrawal) error {
	return p.publish(ctx, "withdrawal.rejected", event{
		WithdrawalID:    w.ID,
		UserID:          w.UserID,
		Status:          string(w.Status),
		RejectionReason: w.RejectionReason,
		OccurredAt:      w.LastTransitionAt,
	})
}

func (p *Producer) publish(ctx context.Context, routingKey string, e event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	headers := amqp091.Table{}
	if sig := hash.CalculateHash(string(body), p.secretKey); sig != "" {
		headers["x-signature"] = sig
	}

	err = p.channel.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
		Headers:     headers,
		Timestamp:   time.Now(),
	})
	if err != nil {
		logger.Log.Error("failed to publish withdrawal event",
			zap.String("routing_key", routingKey), zap.Error(err))
	}
	return err
}

func (p *Producer) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}

// NopNotifier is used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) WithdrawalPaid(ctx context.Context, w models.Withdrawal) error     { return nil }
func (NopNotifier) WithdrawalRejected(ctx context.Context, w models.Withdrawal) error { return nil }
func (NopNotifier) Close() error                                                      { return nil }
