package codenotification

import (
	"context"
	"exzly/internal/core/domain/common"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"exzly/internal/rabbitmq/schema"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	log      logging.Logger
	notifier verification.Notifier
}

func New(log logging.Logger, notifier verification.Notifier) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if notifier == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	return &Consumer{log: log, notifier: notifier}
}

// Consume relays deliveries until the channel is closed. Broken messages
// are dropped, failed sends are requeued once.
func (c *Consumer) Consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-deliveries:
			if !ok {
				return
			}
			c.handle(ctx, delivery)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, delivery amqp.Delivery) {
	message := &schema.CodeNotification{}
	if err := message.Unmarshal(delivery.Body); err != nil {
		c.log.Error(ctx, "Could not unmarshal code notification.", logging.Entry("err", err))
		c.ack(ctx, delivery)
		return
	}

	u := user.User{
		ID:       user.ID(message.UserID),
		Email:    common.NewEmail(message.Email),
		Username: user.Username(message.Username),
		FullName: message.FullName,
	}
	err := c.notifier.NotifyCode(ctx, u, verification.Notification{
		Purpose:  verification.Purpose(message.Purpose),
		Code:     verification.Code(message.Code),
		CodeHash: verification.CodeHash(message.CodeHash),
	})
	if err != nil {
		c.log.Error(
			ctx,
			"Could not relay code notification.",
			logging.Entry("userId", message.UserID),
			logging.Entry("redelivered", delivery.Redelivered),
			logging.Entry("err", err),
		)
		if err := delivery.Nack(false, !delivery.Redelivered); err != nil {
			c.log.Error(ctx, "Could not NACK AMQP message.", logging.Entry("err", err))
		}
		return
	}

	c.log.Info(ctx, "Code notification has been relayed.", logging.Entry("userId", message.UserID))
	c.ack(ctx, delivery)
}

func (c *Consumer) ack(ctx context.Context, delivery amqp.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(ctx, "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}
