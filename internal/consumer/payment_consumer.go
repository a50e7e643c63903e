package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hallhub/reservation-service/internal/models"
	"github.com/hallhub/reservation-service/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// PaymentEvent is the payload the external payment collaborator publishes
// after collecting, failing, or refunding a payment. Amount is the delta
// applied to the booking's amount_paid.
type PaymentEvent struct {
	BookingID uint                 `json:"booking_id"`
	Status    models.PaymentStatus `json:"status"`
	Amount    float64              `json:"amount"`
	Reference string               `json:"reference"`
}

type PaymentConsumer struct {
	svc service.LifecycleService
	log *zap.Logger
}

func NewPaymentConsumer(svc service.LifecycleService, log *zap.Logger) *PaymentConsumer {
	return &PaymentConsumer{svc: svc, log: log}
}

// Start listens for payment events and applies them through the lifecycle
// engine.
func (pc *PaymentConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			pc.handleMessage(context.Background(), msg)
		}
		pc.log.Info("payment consumer channel closed, stopping")
	}()
}

func (pc *PaymentConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var event PaymentEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		pc.log.Warn("payment event unmarshal failed", zap.Error(err))
		msg.Nack(false, false)
		return
	}

	_, err := pc.svc.TransitionPayment(ctx, event.BookingID, event.Status, event.Amount, event.Reference)
	if err != nil {
		// Unknown bookings and out-of-order transitions will never succeed
		// on redelivery; drop them. Store errors are worth a retry.
		if errors.Is(err, service.ErrBookingNotFound) ||
			errors.Is(err, service.ErrInvalidTransition) ||
			errors.Is(err, service.ErrValidation) {
			pc.log.Warn("payment event rejected",
				zap.Uint("booking_id", event.BookingID),
				zap.String("status", string(event.Status)),
				zap.Error(err))
			msg.Nack(false, false)
			return
		}
		pc.log.Error("payment event failed, requeueing",
			zap.Uint("booking_id", event.BookingID),
			zap.Error(err))
		msg.Nack(false, true)
		return
	}

	pc.log.Info("payment event applied",
		zap.Uint("booking_id", event.BookingID),
		zap.String("status", string(event.Status)))
	msg.Ack(false)
}
